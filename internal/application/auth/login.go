package auth

import (
	"context"

	"github.com/farmassist/auth-service/internal/domain"
)

// Login authenticates a user and issues a session token.
// Unknown email and wrong password must be indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = domain.NormalizeEmail(email)

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}
	// bcrypt ignores bytes past 72, so a longer password could never have been registered.
	if len(password) > maxPasswordBytes {
		if s.dummyHash != "" {
			_ = s.hasher.Compare(s.dummyHash, password)
		}
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.KindInfrastructure {
			return LoginResult{}, err
		}
		if s.dummyHash != "" {
			_ = s.hasher.Compare(s.dummyHash, password)
		}
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	toks, err := s.issueToken(u)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{User: u, Tokens: toks}, nil
}
