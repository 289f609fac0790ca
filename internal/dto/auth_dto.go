package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=3,max=100"`
	Password string  `json:"password" validate:"required,min=6"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Rol      string  `json:"rol"      validate:"required,oneof=Admin Oficina Fabricación Cristal Persianas Transporte Visualización"`
}

type LoginRequest struct {
	Nombre   string `json:"nombre"   validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID     string  `json:"id"`
	Nombre string  `json:"nombre"`
	Email  *string `json:"email"`
	Rol    string  `json:"rol"`
	Activo bool    `json:"activo"`
}

// AuthResponse is returned by register and login: the sanitized user plus
// the access/refresh token pair.
type AuthResponse struct {
	User         UsuarioResponse `json:"user"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

// RefreshResponse only carries a new access token; the refresh token is
// not rotated.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
