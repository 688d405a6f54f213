package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/farmassist/auth-service/internal/domain"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedUsers inserts the demo farmer used in local development. Safe to call on
// every start; an existing account is left untouched.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) {
	seeds := []struct {
		user domain.User
		pass string
	}{
		{
			user: domain.User{
				Email:     "demo@farm.local",
				FirstName: "Demo",
				LastName:  "Farmer",
				Location:  "Pune",
				FarmName:  "Demo Plot",
				FarmSize:  "5 acres",
				FarmType:  "mixed",
			},
			pass: "DemoFarmer123!",
		},
	}

	created := 0
	for _, s := range seeds {
		hash, err := hasher.Hash(s.pass)
		if err != nil {
			log.Warn().Err(err).Str("email", s.user.Email).Msg("seed hash failed")
			continue
		}

		u := s.user
		u.ID = uuid.NewString()
		u.PasswordHash = hash

		if _, err := repo.Create(ctx, u); err != nil {
			if domain.Is(err, "email_already_exists") {
				continue
			}
			log.Warn().Err(err).Str("email", u.Email).Msg("seed create failed")
			continue
		}
		created++
	}

	log.Info().Int("created", created).Msg("users seeded")
}
