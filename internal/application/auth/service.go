package auth

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/farmassist/auth-service/internal/domain"
)

// bcrypt ignores everything past 72 bytes and x/crypto refuses longer input.
const maxPasswordBytes = 72

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	pub    EventPublisher

	accessTTL time.Duration
	now       func() time.Time
	validate  *validator.Validate

	// hash compared against when the email is unknown, so both login
	// failure paths pay for one bcrypt comparison
	dummyHash string
}

type Config struct {
	AccessTTL time.Duration
}

func NewService(users UserRepo, hasher PasswordHasher, signer TokenSigner, pub EventPublisher, cfg Config) *Service {
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	s := &Service{
		users:     users,
		hasher:    hasher,
		signer:    signer,
		pub:       pub,
		accessTTL: ttl,
		now:       time.Now,
		validate:  validator.New(),
	}
	if h, err := hasher.Hash("farm-auth-timing-equalizer"); err == nil {
		s.dummyHash = h
	}
	return s
}

// WithClock overrides the time source used for event timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// AuthTokens is the token output mapped by handlers.
type AuthTokens struct {
	AccessToken string
	TokenType   string // "Bearer"
	ExpiresIn   int64  // seconds
	ExpiresAt   time.Time
}

type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Location    string
	FarmName    string
	FarmSize    string
	FarmType    string
}

type LoginResult struct {
	User   domain.User
	Tokens AuthTokens
}

func (s *Service) issueToken(u domain.User) (AuthTokens, error) {
	tok, exp, err := s.signer.SignAccessToken(u.ID, u.Email, s.accessTTL)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}
	return AuthTokens{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
		ExpiresAt:   exp,
	}, nil
}
