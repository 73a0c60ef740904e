package authz

import (
	"time"
)

// Role is one of the fixed clinic roles.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleMedico        Role = "MEDICO"
	RoleEnfermeiro    Role = "ENFERMEIRO"
	RoleRecepcionista Role = "RECEPCIONISTA"
	RoleFinanceiro    Role = "FINANCEIRO"
)

// AllRoles returns every role the system defines.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleMedico, RoleEnfermeiro, RoleRecepcionista, RoleFinanceiro}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMedico, RoleEnfermeiro, RoleRecepcionista, RoleFinanceiro:
		return true
	}
	return false
}

// Unidade identifies a clinic unit. Every permission and log record is
// scoped by exactly one unidade; cross-unidade evaluation is never implicit.
type Unidade string

const (
	UnidadeBarra  Unidade = "BARRA"
	UnidadeTijuca Unidade = "TIJUCA"
)

// User is the identity the engine evaluates permissions for.
type User struct {
	ID          string  `gorm:"primaryKey"`
	Name        string  `gorm:"not null"`
	Role        Role    `gorm:"not null;index"`
	Active      bool    `gorm:"not null;default:true"`
	HomeUnidade Unidade `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserUnidade maps a user to an additional unidade they may act in,
// beyond their home unidade.
type UserUnidade struct {
	UserID    string  `gorm:"primaryKey;autoIncrement:false"`
	Unidade   Unidade `gorm:"primaryKey"`
	CreatedAt time.Time
}

// RolePermission is a default grant: unique per (role, permission, unidade),
// toggled active/inactive, never hard-deleted.
type RolePermission struct {
	ID         uint       `gorm:"primaryKey"`
	Role       Role       `gorm:"not null;uniqueIndex:idx_role_perm_unidade"`
	Permission Permission `gorm:"not null;uniqueIndex:idx_role_perm_unidade"`
	Unidade    Unidade    `gorm:"not null;uniqueIndex:idx_role_perm_unidade"`
	Active     bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserPermission is an explicit per-user grant layered on top of role
// grants. It can only add a grant; removal sets Active to false. There is
// no deny override.
type UserPermission struct {
	ID         uint       `gorm:"primaryKey"`
	UserID     string     `gorm:"not null;uniqueIndex:idx_user_perm_unidade"`
	Permission Permission `gorm:"not null;uniqueIndex:idx_user_perm_unidade"`
	Unidade    Unidade    `gorm:"not null;uniqueIndex:idx_user_perm_unidade"`
	Active     bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
