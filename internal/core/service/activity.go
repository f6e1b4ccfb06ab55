package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

type discardRecorder struct{}

func (discardRecorder) Record(domain.ActivityEvent) {}

func recorderOrDiscard(r ports.ActivityRecorder) ports.ActivityRecorder {
	if r == nil {
		return discardRecorder{}
	}
	return r
}

func newActivity(kind domain.ActivityKind, entityType string, entityID uint, actor domain.Actor, details map[string]string) domain.ActivityEvent {
	return domain.ActivityEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Details:    details,
		OccurredAt: time.Now().UTC(),
	}
}

// ActivityService reads the activity trail. A nil repository means no trail
// store is configured and every read is empty.
type ActivityService struct {
	repo ports.ActivityRepository
}

func NewActivityService(repo ports.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

func (s *ActivityService) List(ctx context.Context, filter ports.ActivityFilter) ([]*domain.ActivityEvent, error) {
	if s.repo == nil {
		return []*domain.ActivityEvent{}, nil
	}
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.StorageErr("list activity", err)
	}
	return events, nil
}
