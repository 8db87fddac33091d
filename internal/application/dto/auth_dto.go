package dto

// LoginRequest entrada para login. recaptchaToken es el nombre que usa el cliente web.
type LoginRequest struct {
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required"`
	CaptchaToken string `json:"recaptchaToken"`
}

// RegisterRequest entrada del registro público (deshabilitado por defecto).
type RegisterRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=60"`
	Password     string `json:"password" validate:"required,min=6"`
	FullName     string `json:"nombre" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	CaptchaToken string `json:"recaptchaToken"`
}

// SessionUser resumen del usuario dentro de la sesión.
type SessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"nombre"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"rol"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// VerifyResponse salida de /auth/verify.
type VerifyResponse struct {
	User SessionUser `json:"user"`
}
