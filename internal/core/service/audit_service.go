package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/karmic/marketplace/internal/core/domain"
	"github.com/karmic/marketplace/internal/core/ports"
)

// AuditService persists lifecycle events and keeps the ranking cache warm.
// It runs off the request path, behind the dispatcher.
type AuditService struct {
	events      ports.EventRepository
	users       ports.UserRepository
	leaderboard *LeaderboardService
	logger      zerolog.Logger
}

func NewAuditService(
	events ports.EventRepository,
	users ports.UserRepository,
	leaderboard *LeaderboardService,
	logger zerolog.Logger,
) *AuditService {
	return &AuditService{events: events, users: users, leaderboard: leaderboard, logger: logger}
}

// Process records a single lifecycle event. Settlement events additionally
// push the helper's new XP total into the ranking cache; a rebuild heals any
// update lost here.
func (s *AuditService) Process(ctx context.Context, event domain.TaskEvent) error {
	if err := s.events.Insert(ctx, &event); err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}

	if event.Event == "approve" && event.HelperID != "" && s.leaderboard != nil {
		helper, err := s.users.FindByID(ctx, event.HelperID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", event.HelperID).Msg("settled helper not found for ranking update")
			return nil
		}
		s.leaderboard.Record(ctx, helper.ID, helper.XPTotal)
	}

	return nil
}
