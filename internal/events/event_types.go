package events

import (
	"time"

	"github.com/spec-kit/expense-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventLoginDenied    EventType = "login_denied"
	EventRoleChanged    EventType = "role_changed"
	EventUserDeleted    EventType = "user_deleted"
)

// Event represents an account or security event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginDeniedPayload payload.
type LoginDeniedPayload struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// RoleChangedPayload payload.
type RoleChangedPayload struct {
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}

// UserDeletedPayload payload.
type UserDeletedPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
