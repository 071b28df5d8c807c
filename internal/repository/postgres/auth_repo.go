// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freightline-service/internal/domain/auth"
	xerrors "freightline-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthRepository struct {
	db *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db}
}

const identityColumns = `
	id, email, full_name, phone, company_name, role, password_hash,
	status, last_login, failed_login_attempts, created_at, updated_at
`

func scanIdentity(row pgx.Row) (*auth.Identity, error) {
	var identity auth.Identity
	var role string
	err := row.Scan(
		&identity.ID, &identity.Email, &identity.FullName, &identity.Phone,
		&identity.CompanyName, &role, &identity.PasswordHash,
		&identity.Status, &identity.LastLogin, &identity.FailedLoginAttempts,
		&identity.CreatedAt, &identity.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan identity: %w", err)
	}
	identity.Role = auth.ParseRole(role)
	return &identity, nil
}

// FindByEmail retrieves an identity by email (case-insensitive).
func (r *AuthRepository) FindByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	query := `
		SELECT ` + identityColumns + `
		FROM identities
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL
	`
	return scanIdentity(r.db.QueryRow(ctx, query, email))
}

// FindByID retrieves an identity by ID.
func (r *AuthRepository) FindByID(ctx context.Context, id int64) (*auth.Identity, error) {
	query := `
		SELECT ` + identityColumns + `
		FROM identities
		WHERE id = $1 AND deleted_at IS NULL
	`
	return scanIdentity(r.db.QueryRow(ctx, query, id))
}

// ExistsByEmail checks whether an account already uses the email.
func (r *AuthRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM identities WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// Create inserts a new identity.
func (r *AuthRepository) Create(ctx context.Context, identity *auth.Identity) error {
	query := `
		INSERT INTO identities (email, full_name, phone, company_name, role, password_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		identity.Email, identity.FullName, identity.Phone, identity.CompanyName,
		string(identity.Role), identity.PasswordHash, identity.Status,
	).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored hash.
func (r *AuthRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE identities SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateProfile applies the non-nil fields of the request.
func (r *AuthRepository) UpdateProfile(ctx context.Context, id int64, req *auth.UpdateProfileRequest) error {
	query := `
		UPDATE identities
		SET full_name   = COALESCE($2, full_name),
		    phone       = COALESCE($3, phone),
		    company_name = COALESCE($4, company_name),
		    updated_at  = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, req.FullName, req.Phone, req.CompanyName)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// RecordLogin stamps a successful login and clears the failure counter.
func (r *AuthRepository) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE identities SET last_login = $2, failed_login_attempts = 0 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, at); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// RecordFailedLogin bumps the failure counter.
func (r *AuthRepository) RecordFailedLogin(ctx context.Context, id int64) error {
	query := `UPDATE identities SET failed_login_attempts = failed_login_attempts + 1 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to record failed login: %w", err)
	}
	return nil
}
