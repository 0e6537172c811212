package utils

import (
	"strings"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

var ValidUserRoles = map[string]bool{
	RoleAdmin:   true,
	RoleManager: true,
}

// ValidateAndNormalizeRole validates and normalizes a role string.
// Returns the normalized role (lowercase) and a boolean indicating if it's valid.
func ValidateAndNormalizeRole(role string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	return normalized, ValidUserRoles[normalized]
}
