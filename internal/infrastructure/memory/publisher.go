package memory

import (
	"context"

	"github.com/farmassist/auth-service/internal/application/auth"
	"github.com/farmassist/auth-service/internal/logger"
)

// NoopPublisher logs events instead of sending them. Used when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("user_id", evt.UserID).
		Str("farm_type", evt.FarmType).
		Msg("noop publish user registered")
	return nil
}
