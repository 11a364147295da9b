package domain

import "strings"

// RoleName enumerates the seeded roles.
type RoleName string

const (
	RoleAdmin RoleName = "Admin"
	RoleUser  RoleName = "User"
)

// Role is a named permission group a user can be assigned to.
type Role struct {
	ID             string
	Name           string
	NormalizedName string
}

// SeededRoles lists the roles every fresh store starts with.
var SeededRoles = []Role{
	{ID: "fab4fac1-c546-41de-aebc-a14da6895711", Name: string(RoleAdmin), NormalizedName: "admin"},
	{ID: "c7b013f0-5201-4317-abd8-c211f91b7330", Name: string(RoleUser), NormalizedName: "user"},
}

// Normalize returns the lookup key for user names, emails and role names.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
