package auth

import (
	"context"
	"time"

	"github.com/farmassist/auth-service/internal/domain"
)

/*
UserRepo
--------
Credential store port. Create must enforce email uniqueness atomically and
report a collision as domain.ErrEmailAlreadyExists.
*/
type UserRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies session tokens (JWT).
Used by the service and the auth middleware.
*/
type TokenClaims struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenSigner interface {
	SignAccessToken(userID, email string, ttl time.Duration) (token string, expiresAt time.Time, err error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
EventPublisher
--------------
Announces account lifecycle events to the rest of the platform.
Delivery is best effort; registration never fails because of it.
*/
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
}

type UserRegisteredEvent struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name,omitempty"`
	FarmName string    `json:"farm_name,omitempty"`
	FarmType string    `json:"farm_type,omitempty"`
	Location string    `json:"location,omitempty"`
	At       time.Time `json:"at"`
}
