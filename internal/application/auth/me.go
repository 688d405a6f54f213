package auth

import (
	"context"

	"github.com/farmassist/auth-service/internal/domain"
)

func (s *Service) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, domain.ErrTokenInvalid()
	}
	return s.users.GetByID(ctx, userID)
}
