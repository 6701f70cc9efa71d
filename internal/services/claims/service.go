package claims

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/BearBump/ClaimBox/internal/broker/messages"
	"github.com/BearBump/ClaimBox/internal/cache"
	"github.com/BearBump/ClaimBox/internal/integrations/orders"
	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/pkg/errors"
)

type Repository interface {
	CreateClaim(ctx context.Context, c models.Claim) (models.Claim, error)
	GetClaim(ctx context.Context, id uint64) (models.Claim, error)
	SaveClaim(ctx context.Context, c models.Claim) (models.Claim, error)
	ListClaims(ctx context.Context, f models.ClaimFilter) ([]models.Claim, error)
	ScheduleReturnCheck(ctx context.Context, claimID uint64, nextCheckAt time.Time, checkErr *string) error
}

type EventPublisher interface {
	PublishClaimEvent(ctx context.Context, ev messages.ClaimEvent) error
}

type OrderLines interface {
	GetOrderLine(ctx context.Context, orderID, orderItemID uint64) (orders.OrderLine, error)
}

// Service runs claim commands and queries. Commands load the claim, let the
// aggregate decide, and persist the new snapshot under the loaded version.
type Service struct {
	repo       Repository
	cache      cache.BytesCache
	currentTTL time.Duration
	events     EventPublisher
	orders     OrderLines
	now        func() time.Time
}

// New wires the service. cache, events and orders may be nil.
func New(repo Repository, c cache.BytesCache, currentTTL time.Duration, events EventPublisher, orders OrderLines) *Service {
	return &Service{
		repo:       repo,
		cache:      c,
		currentTTL: currentTTL,
		events:     events,
		orders:     orders,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type mutation func(c models.Claim, now time.Time) (models.Claim, error)

// execute is load, transition, save. A lost race on the version is retried once
// against a fresh snapshot; the second loss is reported as a status conflict.
func (s *Service) execute(ctx context.Context, claimID uint64, actor string, action models.Action, apply mutation) (models.Claim, error) {
	for attempt := 0; ; attempt++ {
		cur, err := s.repo.GetClaim(ctx, claimID)
		if err != nil {
			return models.Claim{}, err
		}

		next, err := apply(cur, s.now())
		if err != nil {
			return models.Claim{}, err
		}

		saved, err := s.repo.SaveClaim(ctx, next)
		if errors.Is(err, models.ErrVersionConflict) {
			if attempt == 0 {
				slog.Debug("claim version moved, retrying", "claim_id", claimID, "action", action)
				continue
			}
			return models.Claim{}, &models.StatusConflictError{
				Action: action,
				Status: cur.Status,
				Reason: "claim was modified concurrently",
			}
		}
		if err != nil {
			return models.Claim{}, err
		}

		s.afterSave(ctx, messages.ClaimEventType(action), cur.Status, saved, actor)
		return saved, nil
	}
}

// afterSave refreshes the snapshot cache and emits the claim event.
// Both are best effort: the command has already succeeded.
func (s *Service) afterSave(ctx context.Context, eventType string, from models.ClaimStatus, saved models.Claim, actor string) {
	s.storeCurrent(ctx, saved)

	if s.events == nil {
		return
	}
	ev, err := messages.NewClaimEvent(eventType, from, saved, actor, saved.UpdatedAt)
	if err != nil {
		slog.Error("claim event encode failed", "claim_id", saved.ID, "error", err.Error())
		return
	}
	if err := s.events.PublishClaimEvent(ctx, ev); err != nil {
		slog.Error("claim event publish failed", "claim_id", saved.ID, "type", eventType, "error", err.Error())
	}
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.currentTTL > 0
}

// storeCurrent caches c unless a newer snapshot is already there. Readers and
// commands both call it, so either may arrive last.
func (s *Service) storeCurrent(ctx context.Context, c models.Claim) {
	if !s.cacheEnabled() {
		return
	}
	b, err := json.Marshal(c)
	if err != nil {
		return
	}
	stored, err := s.cache.SetIfNewer(ctx, currentKey(c.ID), b, c.Version, s.currentTTL)
	if err != nil {
		slog.Warn("claim cache set failed", "claim_id", c.ID, "error", err.Error())
		return
	}
	if !stored {
		slog.Debug("claim cache holds a newer version", "claim_id", c.ID, "version", c.Version)
	}
}

func currentKey(id uint64) string {
	return fmt.Sprintf("claim:%d:current", id)
}
