package entity

import "time"

// Roles válidos para Identity y StaffRecord.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// roleLegacyStaff es el nombre con el que registros antiguos guardan el rol staff.
const roleLegacyStaff = "empleado"

// NormalizeRole traduce el rol almacenado a uno de los roles válidos. Cualquier valor
// desconocido se devuelve tal cual para que el Gate lo trate como sin privilegios.
func NormalizeRole(role string) string {
	if role == roleLegacyStaff {
		return RoleStaff
	}
	return role
}

// ValidRole indica si role pertenece al conjunto {admin, staff}.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// Identity identidad autenticada de la sesión actual. Inmutable durante la sesión.
type Identity struct {
	ID   string
	Role string
}

// SignOutScope alcance de un cierre de sesión.
type SignOutScope string

const (
	ScopeThisDevice SignOutScope = "this-device"
	ScopeGlobal     SignOutScope = "global"
)

// ValidScope indica si s es un alcance de cierre de sesión conocido.
func ValidScope(s SignOutScope) bool {
	return s == ScopeThisDevice || s == ScopeGlobal
}

// Session sesión activa de una identidad.
type Session struct {
	ID        string
	UserID    string
	Role      string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Identity devuelve la identidad dueña de la sesión.
func (s Session) Identity() Identity {
	return Identity{ID: s.UserID, Role: s.Role}
}

// Credential credencial de acceso (email + secreto). Su ID es el ID de identidad.
type Credential struct {
	ID         string
	Email      string
	SecretHash string // bcrypt hash, nunca el secreto plano
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
