package domain

import (
	"strings"
	"time"
)

// User is a registered farmer account. PasswordHash is a bcrypt digest and is
// never rendered to clients.
type User struct {
	ID           string
	Email        string
	PasswordHash string

	FirstName   string
	LastName    string
	PhoneNumber string
	Location    string
	FarmName    string
	FarmSize    string
	FarmType    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
