package entity

import "time"

// Roles válidos para User.
const (
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// ValidRole indica si el rol es conocido.
func ValidRole(role string) bool {
	return role == RoleManager || role == RoleStaff
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // manager, staff
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
