package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y el registro de personal.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      StaffResponse `json:"user"`
}

// LogoutRequest alcance del cierre de sesión: "this-device" (por defecto) o "global".
type LogoutRequest struct {
	Scope string `json:"scope"`
}
