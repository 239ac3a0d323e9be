package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the coarse authorization label attached to an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole converts user-supplied input into a Role.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("invalid role: %q (allowed: USER, ADMIN)", value)
	}
}

// User is the domain model for accounts that own expenses.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
