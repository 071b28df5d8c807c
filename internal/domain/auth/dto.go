package auth

// RegisterRequest is the signup payload
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"required"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
	Role        string `json:"role"` // customer, vendor or driver; defaults to customer

	// Filled by the handler, not the client
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginRequest is the credential payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse carries the issued token pair plus the user summary. The
// handler additionally mirrors the pair into HTTP-only cookies.
type LoginResponse struct {
	User         *Profile `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // seconds until the access token expires
}

// RefreshRequest rotates the access token off a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePasswordRequest updates the password of a logged-in user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UpdateProfileRequest edits mutable profile fields.
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name"`
	Phone       *string `json:"phone"`
	CompanyName *string `json:"company_name"`
}
