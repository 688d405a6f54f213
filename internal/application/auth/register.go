package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/farmassist/auth-service/internal/domain"
	"github.com/farmassist/auth-service/internal/logger"
)

// Register creates a farmer account. It does not sign the user in; the client
// is expected to call Login afterwards.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	email := domain.NormalizeEmail(in.Email)

	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return domain.User{}, domain.ErrInvalidField("email", "invalid_format")
	}
	if len(in.Password) > maxPasswordBytes {
		return domain.User{}, domain.ErrInvalidField("password", "too_long")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Location:     strings.TrimSpace(in.Location),
		FarmName:     strings.TrimSpace(in.FarmName),
		FarmSize:     strings.TrimSpace(in.FarmSize),
		FarmType:     strings.TrimSpace(in.FarmType),
	}

	// uniqueness is the store's job; a collision comes back as email_already_exists
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}

	s.publishRegistered(ctx, created)

	return created, nil
}

func (s *Service) publishRegistered(ctx context.Context, u domain.User) {
	if s.pub == nil {
		return
	}
	evt := UserRegisteredEvent{
		UserID:   u.ID,
		Email:    u.Email,
		Name:     u.FullName(),
		FarmName: u.FarmName,
		FarmType: u.FarmType,
		Location: u.Location,
		At:       s.now().UTC(),
	}
	if err := s.pub.PublishUserRegistered(ctx, evt); err != nil {
		logger.WithCtx(ctx).Warn().
			Err(err).
			Str("user_id", u.ID).
			Msg("publish user registered failed")
	}
}
