package dto

import (
	"time"

	"github.com/farmassist/auth-service/internal/domain"
)

// UserView is the public profile payload. It never carries the password hash.
type UserView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	Location    string    `json:"location,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	FarmName    string    `json:"farmName,omitempty"`
	FarmSize    string    `json:"farmSize,omitempty"`
	FarmType    string    `json:"farmType,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Location:    u.Location,
		PhoneNumber: u.PhoneNumber,
		FarmName:    u.FarmName,
		FarmSize:    u.FarmSize,
		FarmType:    u.FarmType,
		CreatedAt:   u.CreatedAt,
	}
}

// RegisterData is returned by register. No token is issued at this step.
type RegisterData struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

// LoginData is returned by login.
type LoginData struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"` // "Bearer"
	ExpiresIn int64     `json:"expires_in"` // seconds
	ExpiresAt time.Time `json:"expires_at"`
}

// MeData is returned by /api/users/me.
type MeData struct {
	User UserView `json:"user"`
}

// LegacyMessage is the flat body the original /registration and /login routes use.
type LegacyMessage struct {
	Message string `json:"message"`
}

type LegacyToken struct {
	Token string `json:"token"`
}
