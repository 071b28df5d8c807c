// internal/service/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"time"

	"freightline-service/internal/domain/auth"
	xerrors "freightline-service/internal/pkg/errors"
	"freightline-service/internal/pkg/jwt"
	"freightline-service/internal/pkg/session"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const passwordResetTTL = 30 * time.Minute

// Repository is the identity storage the service depends on.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*auth.Identity, error)
	FindByID(ctx context.Context, id int64) (*auth.Identity, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, identity *auth.Identity) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfile(ctx context.Context, id int64, req *auth.UpdateProfileRequest) error
	RecordLogin(ctx context.Context, id int64, at time.Time) error
	RecordFailedLogin(ctx context.Context, id int64) error
}

type AuthService struct {
	repo        Repository
	jwtManager  *jwt.Manager
	sessions    *session.Manager
	rateLimiter *session.RateLimiter
	cache       *redis.Client
	logger      *zap.Logger
}

func NewAuthService(
	repo Repository,
	jwtManager *jwt.Manager,
	sessions *session.Manager,
	rateLimiter *session.RateLimiter,
	cache *redis.Client,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		jwtManager:  jwtManager,
		sessions:    sessions,
		rateLimiter: rateLimiter,
		cache:       cache,
		logger:      logger,
	}
}

// Register creates an account and logs it straight in.
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error) {
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email already registered: %w", xerrors.ErrDuplicateEntry)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &auth.Identity{
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         auth.SignupRole(req.Role),
		PasswordHash: string(hash),
		Status:       "active",
	}
	if req.Phone != "" {
		identity.Phone.String, identity.Phone.Valid = req.Phone, true
	}
	if req.CompanyName != "" {
		identity.CompanyName.String, identity.CompanyName.Valid = req.CompanyName, true
	}

	if err := s.repo.Create(ctx, identity); err != nil {
		return nil, err
	}

	s.logger.Info("identity registered",
		zap.Int64("identity_id", identity.ID),
		zap.String("role", identity.Role.String()))

	return s.issueSession(ctx, identity, req.IPAddress, req.UserAgent)
}

// Login verifies credentials and issues a token pair. Failures are rate
// limited per (ip, email) before any storage lookup happens.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, req.Email)
	if err != nil {
		s.logger.Warn("login rate limit check failed", zap.Error(err))
	} else if !allowed {
		return nil, fmt.Errorf("too many login attempts, try again later: %w", xerrors.ErrRateLimited)
	}

	identity, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", xerrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !identity.IsActive() {
		return nil, fmt.Errorf("account is not active: %w", xerrors.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		if err := s.repo.RecordFailedLogin(ctx, identity.ID); err != nil {
			s.logger.Warn("failed to record failed login", zap.Error(err))
		}
		s.logger.Info("login rejected",
			zap.Int64("identity_id", identity.ID),
			zap.Int64("attempts_remaining", remaining))
		return nil, fmt.Errorf("invalid email or password: %w", xerrors.ErrUnauthorized)
	}

	if err := s.repo.RecordLogin(ctx, identity.ID, time.Now()); err != nil {
		s.logger.Warn("failed to record login", zap.Error(err))
	}
	if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	return s.issueSession(ctx, identity, req.IPAddress, req.UserAgent)
}

// Refresh rotates the access token off a valid refresh token. The role is
// re-read from storage, so a role change takes effect here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.LoginResponse, error) {
	claims, err := s.jwtManager.Verifier.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", xerrors.ErrUnauthorized)
	}

	blacklisted, err := s.sessions.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("blacklist check failed", zap.Error(err))
	} else if blacklisted {
		return nil, fmt.Errorf("refresh token revoked: %w", xerrors.ErrUnauthorized)
	}

	identity, err := s.repo.FindByID(ctx, claims.IdentityID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("account no longer exists: %w", xerrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !identity.IsActive() {
		return nil, fmt.Errorf("account is not active: %w", xerrors.ErrForbidden)
	}

	accessToken, jti, err := s.jwtManager.Generator.GenerateAccessToken(identity.ID, identity.Email, identity.Role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	sess := &session.Session{
		JTI:          jti,
		IdentityID:   identity.ID,
		Email:        identity.Email,
		FullName:     identity.FullName,
		Role:         identity.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		LoginAt:      time.Now(),
		ExpiresAt:    claims.ExpiresAt.Time, // bound by the refresh token's life
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	return &auth.LoginResponse{
		User:         identity.ToProfile(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.Generator.AccessTTL.Seconds()),
	}, nil
}

// Logout invalidates one session and blacklists its token. Idempotent: a
// second logout of the same session succeeds quietly.
func (s *AuthService) Logout(ctx context.Context, identityID int64, jti string) error {
	if err := s.sessions.Invalidate(ctx, identityID, jti); err != nil {
		return err
	}
	if err := s.sessions.BlacklistToken(ctx, jti, s.jwtManager.Generator.RefreshTTL); err != nil {
		s.logger.Warn("failed to blacklist token", zap.String("jti", jti), zap.Error(err))
	}
	return nil
}

// LogoutAll invalidates every session held by the identity.
func (s *AuthService) LogoutAll(ctx context.Context, identityID int64) error {
	return s.sessions.InvalidateAll(ctx, identityID)
}

// ValidateToken is the middleware entry point: the token must verify, not be
// blacklisted, and still have a live session behind it.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verifier.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", xerrors.ErrUnauthorized)
	}

	blacklisted, err := s.sessions.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("blacklist check failed", zap.Error(err))
	} else if blacklisted {
		return nil, fmt.Errorf("token revoked: %w", xerrors.ErrUnauthorized)
	}

	sess, err := s.sessions.Get(ctx, claims.IdentityID, claims.ID)
	if err != nil {
		s.logger.Warn("session lookup failed", zap.Error(err))
		return nil, fmt.Errorf("session lookup failed: %w", xerrors.ErrUnauthorized)
	}
	if sess == nil {
		return nil, fmt.Errorf("no active session: %w", xerrors.ErrSessionExpired)
	}

	return claims, nil
}

// ForgotPassword creates a reset token in Redis. The email carrying the link
// is dispatched out of band; whether the account exists is never revealed to
// the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	allowed, err := s.rateLimiter.CheckPasswordResetAttempt(ctx, email)
	if err != nil {
		s.logger.Warn("reset rate limit check failed", zap.Error(err))
	} else if !allowed {
		return fmt.Errorf("too many reset requests: %w", xerrors.ErrRateLimited)
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			// same outcome as success from the caller's point of view
			return nil
		}
		return err
	}

	token := ulid.Make().String()
	key := fmt.Sprintf("pwdreset:%s", token)
	if err := s.cache.Set(ctx, key, identity.ID, passwordResetTTL).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	s.logger.Info("password reset token issued",
		zap.Int64("identity_id", identity.ID),
		zap.String("token", token))
	return nil
}

// ResetPassword consumes a reset token and replaces the password. All
// existing sessions are invalidated.
func (s *AuthService) ResetPassword(ctx context.Context, req *auth.ResetPasswordRequest) error {
	key := fmt.Sprintf("pwdreset:%s", req.Token)

	identityID, err := s.cache.Get(ctx, key).Int64()
	if err == redis.Nil {
		return fmt.Errorf("reset token expired or unknown: %w", xerrors.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("failed to read reset token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, identityID, string(hash)); err != nil {
		return err
	}

	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("failed to delete reset token", zap.Error(err))
	}
	if err := s.sessions.InvalidateAll(ctx, identityID); err != nil {
		s.logger.Warn("failed to invalidate sessions after reset", zap.Error(err))
	}

	s.logger.Info("password reset completed", zap.Int64("identity_id", identityID))
	return nil
}

// ChangePassword updates the password of a logged-in user after verifying
// the current one.
func (s *AuthService) ChangePassword(ctx context.Context, identityID int64, req *auth.ChangePasswordRequest) error {
	identity, err := s.repo.FindByID(ctx, identityID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", xerrors.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, identityID, string(hash))
}

// CurrentUser returns the fail-soft session summary: nil means "not
// authenticated", never an error.
func (s *AuthService) CurrentUser(ctx context.Context, identityID int64, jti string) *session.SessionUser {
	return s.sessions.CurrentUser(ctx, identityID, jti)
}

// Me returns the caller's profile.
func (s *AuthService) Me(ctx context.Context, identityID int64) (*auth.Profile, error) {
	identity, err := s.repo.FindByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return identity.ToProfile(), nil
}

// UpdateProfile edits the caller's mutable fields and returns the fresh
// profile.
func (s *AuthService) UpdateProfile(ctx context.Context, identityID int64, req *auth.UpdateProfileRequest) (*auth.Profile, error) {
	if err := s.repo.UpdateProfile(ctx, identityID, req); err != nil {
		return nil, err
	}
	return s.Me(ctx, identityID)
}

// issueSession mints the token pair and stores the session record. The
// session write completes before the response is returned.
func (s *AuthService) issueSession(ctx context.Context, identity *auth.Identity, ip, userAgent string) (*auth.LoginResponse, error) {
	accessToken, jti, err := s.jwtManager.Generator.GenerateAccessToken(identity.ID, identity.Email, identity.Role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.jwtManager.Generator.GenerateRefreshToken(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	sess := &session.Session{
		JTI:          jti,
		IdentityID:   identity.ID,
		Email:        identity.Email,
		FullName:     identity.FullName,
		Role:         identity.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		IPAddress:    ip,
		UserAgent:    userAgent,
		LoginAt:      now,
		ExpiresAt:    now.Add(s.jwtManager.Generator.RefreshTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	return &auth.LoginResponse{
		User:         identity.ToProfile(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.Generator.AccessTTL.Seconds()),
	}, nil
}
