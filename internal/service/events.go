package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/models"
	"github.com/RubachokBoss/academic-hub/internal/service/integration"
)

// notify publishes after the store write has succeeded. The store is the
// source of truth, so a broker failure is logged and not returned.
func notify(ctx context.Context, publisher integration.EventPublisher, logger zerolog.Logger, event *models.ActivityEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn().
			Err(err).
			Str("type", string(event.Type)).
			Str("username", event.Username).
			Msg("Failed to publish event")
	}
}
