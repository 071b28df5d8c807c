// internal/handlers/auth_handler.go
package handlers

import (
	"net/http"
	"time"

	"freightline-service/internal/domain/auth"
	"freightline-service/internal/middleware"
	"freightline-service/internal/pkg/response"
	authservice "freightline-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// CookieConfig controls the HTTP-only cookie pair mirrored alongside the
// JSON token response.
type CookieConfig struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	service *authservice.AuthService
	cookies CookieConfig
}

func NewAuthHandler(service *authservice.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid registration payload", err)
		return
	}
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}

	h.setTokenCookies(c, result)
	response.Success(c, http.StatusCreated, "Account created", result)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid login payload", err)
		return
	}
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	h.setTokenCookies(c, result)
	response.Success(c, http.StatusOK, "Logged in", result)
}

// Refresh handles POST /auth/refresh. The refresh token comes from the body
// or, for browser clients, the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(middleware.RefreshCookie); err == nil {
			req.RefreshToken = cookie
		}
	}
	if req.RefreshToken == "" {
		response.Unauthorized(c, "Refresh token required")
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "Token refresh failed")
		return
	}

	h.setTokenCookies(c, result)
	response.Success(c, http.StatusOK, "Token refreshed", result)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	identityID := middleware.GetIdentityID(c)
	jti := middleware.GetJTI(c)

	if err := h.service.Logout(c.Request.Context(), identityID, jti); err != nil {
		respondError(c, err, "Logout failed")
		return
	}

	h.clearTokenCookies(c)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// LogoutAll handles POST /auth/logout-all.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	if err := h.service.LogoutAll(c.Request.Context(), middleware.GetIdentityID(c)); err != nil {
		respondError(c, err, "Logout failed")
		return
	}

	h.clearTokenCookies(c)
	response.Success(c, http.StatusOK, "All sessions terminated", nil)
}

// Session handles GET /auth/session: the fail-soft summary rendering paths
// depend on. An absent or broken session answers authenticated=false, never
// an error.
func (h *AuthHandler) Session(c *gin.Context) {
	user := h.service.CurrentUser(c.Request.Context(), middleware.GetIdentityID(c), middleware.GetJTI(c))
	if user == nil {
		response.Success(c, http.StatusOK, "Session", gin.H{"authenticated": false})
		return
	}
	response.Success(c, http.StatusOK, "Session", user)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.service.Me(c.Request.Context(), middleware.GetIdentityID(c))
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	response.Success(c, http.StatusOK, "Profile", profile)
}

// UpdateProfile handles PUT /auth/me.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req auth.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid profile payload", err)
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), middleware.GetIdentityID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// ForgotPassword handles POST /auth/forgot-password. The response is the
// same whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req auth.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid payload", err)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "Failed to start password reset")
		return
	}
	response.Success(c, http.StatusOK, "If the account exists, a reset link has been sent", nil)
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid payload", err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		respondError(c, err, "Password reset failed")
		return
	}
	response.Success(c, http.StatusOK, "Password reset, please log in again", nil)
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req auth.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid payload", err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), middleware.GetIdentityID(c), &req); err != nil {
		respondError(c, err, "Password change failed")
		return
	}
	response.Success(c, http.StatusOK, "Password changed", nil)
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, result *auth.LoginResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, result.AccessToken,
		int(h.cookies.AccessTTL.Seconds()), "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshCookie, result.RefreshToken,
		int(h.cookies.RefreshTTL.Seconds()), "/", h.cookies.Domain, h.cookies.Secure, true)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
}
