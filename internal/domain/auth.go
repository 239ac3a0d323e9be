package domain

import "time"

// Identity is the authenticated caller reconstructed from verified token
// claims. It is never persisted between requests.
type Identity struct {
	Subject string
	Role    Role
}

// Token captures metadata about an issued authentication token.
type Token struct {
	ID        string
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
