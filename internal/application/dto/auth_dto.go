package dto

// LoginRequest código de empresa (vacío para platform_admin), email y contraseña.
type LoginRequest struct {
	CompanyCode string `json:"company_code"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// SessionUser datos del usuario en sesión.
type SessionUser struct {
	ID        string   `json:"id"`
	FullName  string   `json:"full_name"`
	Email     string   `json:"email"`
	CompanyID string   `json:"company_id,omitempty"`
	Roles     []string `json:"roles"`
	StoreID   string   `json:"store_id,omitempty"`
}

// LoginResponse token de sesión y usuario.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expires_in"` // segundos
	User      SessionUser `json:"user"`
}

// ChangePasswordRequest cambio de contraseña del usuario en sesión.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
