package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleGerente  = "gerente"
	RoleVendedor = "vendedor"
)

// User representa un usuario del sistema (vendedor, gerente o admin).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano después de persistir
	Name         string
	Role         string // admin, gerente, vendedor
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
