package models

import (
	"fmt"
	"strconv"
)

// Role is the canonical admin role. The numeric value is what the admins
// table stores; the name is only its wire form.
type Role uint

const (
	RoleUser          Role = 1
	RoleAdmin         Role = 2
	RoleResponseAdmin Role = 3
	RoleAuditAdmin    Role = 4
	RoleSpecialAdmin  Role = 5
	RoleSuperAdmin    Role = 6
)

var roleNames = map[Role]string{
	RoleUser:          "user",
	RoleAdmin:         "admin",
	RoleResponseAdmin: "response-admin",
	RoleAuditAdmin:    "audit-admin",
	RoleSpecialAdmin:  "special-admin",
	RoleSuperAdmin:    "super-admin",
}

// Route gates. Every role-gated route picks one of these.
var (
	AnyAdmin     = []Role{RoleAdmin, RoleResponseAdmin, RoleAuditAdmin, RoleSpecialAdmin, RoleSuperAdmin}
	ResponseGate = []Role{RoleResponseAdmin, RoleSpecialAdmin, RoleSuperAdmin}
	AuditGate    = []Role{RoleAuditAdmin, RoleSpecialAdmin, RoleSuperAdmin}
	OwnerGate    = []Role{RoleSpecialAdmin, RoleSuperAdmin}
	SuperOnly    = []Role{RoleSuperAdmin}
)

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "role-" + strconv.Itoa(int(r))
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) IsAdmin() bool {
	return r >= RoleAdmin && r <= RoleSuperAdmin
}

// In reports whether r is one of roles.
func (r Role) In(roles []Role) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole accepts either a role name or its numeric id.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Role(n).Valid() {
		return Role(n), nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// AdminRole is the lookup table mirroring the Role constants.
type AdminRole struct {
	ID   Role   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

// AdminRoles returns the rows seeded into admin_roles.
func AdminRoles() []AdminRole {
	roles := []Role{RoleAdmin, RoleResponseAdmin, RoleAuditAdmin, RoleSpecialAdmin, RoleSuperAdmin}
	rows := make([]AdminRole, len(roles))
	for i, r := range roles {
		rows[i] = AdminRole{ID: r, Name: r.String()}
	}
	return rows
}
