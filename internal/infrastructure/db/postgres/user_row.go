package postgres

import "time"

type userRow struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  string
	Location     string
	FarmName     string
	FarmSize     string
	FarmType     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
