package model

// Role codes. The order USER < MANAGER < ADMIN is used for authorization.
const (
	RoleUser    = "USER"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

var roleLevels = map[string]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// Role is static reference data describing a privilege tier.
type Role struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Code  string `json:"code" gorm:"size:20;uniqueIndex;not null"`
	Name  string `json:"name" gorm:"size:100;not null"`
	Level int    `json:"level" gorm:"not null;default:1"`
}

// RoleLevel returns the hierarchy level of a role code, or 0 when the code is unknown.
func RoleLevel(code string) int {
	return roleLevels[code]
}

// RoleAtLeast reports whether role has at least the privileges of min.
func RoleAtLeast(role, min string) bool {
	have := RoleLevel(role)
	return have > 0 && have >= RoleLevel(min)
}

// ValidRole reports whether code is one of the known role codes.
func ValidRole(code string) bool {
	_, ok := roleLevels[code]
	return ok
}

// DefaultRoles is the reference data seeded at startup.
func DefaultRoles() []Role {
	return []Role{
		{ID: 1, Code: RoleUser, Name: "User", Level: roleLevels[RoleUser]},
		{ID: 2, Code: RoleManager, Name: "Manager", Level: roleLevels[RoleManager]},
		{ID: 3, Code: RoleAdmin, Name: "Administrator", Level: roleLevels[RoleAdmin]},
	}
}
