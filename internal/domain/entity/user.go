package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin         = "admin"
	RoleAccounts      = "accounts"
	RoleApprover      = "approver"
	RoleEmployee      = "employee"
	RolePlatformAdmin = "platform_admin"
	RoleSalesTeam     = "sales_team"
)

// AssignableRoles roles que un admin de empresa puede otorgar.
var AssignableRoles = []string{RoleAdmin, RoleAccounts, RoleApprover, RoleEmployee, RoleSalesTeam}

// User usuario del portal. CompanyID vacío solo para platform_admin.
type User struct {
	ID           string
	CompanyID    string
	FullName     string
	Email        string
	PasswordHash string
	Department   string
	ApproverID   string
	StoreID      string
	EmployeeCode string
	Roles        []string
	CreatedAt    time.Time
}

// HasRole compara sin distinguir mayúsculas.
func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if strings.EqualFold(strings.TrimSpace(r), role) {
			return true
		}
	}
	return false
}

// HasAnyRole true si roles contiene al menos uno de wanted.
func HasAnyRole(roles []string, wanted ...string) bool {
	for _, w := range wanted {
		if HasRole(roles, w) {
			return true
		}
	}
	return false
}

// IsAssignableRole indica si el rol puede asignarse desde la administración de usuarios.
func IsAssignableRole(role string) bool {
	return HasRole(AssignableRoles, role)
}
