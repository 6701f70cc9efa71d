package claims

import (
	"context"
	"log/slog"
	"time"

	"github.com/BearBump/ClaimBox/internal/broker/messages"
	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/pkg/errors"
)

// CarrierSyncActor is recorded as the actor of transitions driven by carrier updates.
const CarrierSyncActor = "carrier-sync"

const defaultRecheck = 60 * time.Minute

// ApplyCarrierUpdate advances the return leg when the carrier reports progress
// and reschedules the next check. A claim that has moved on is skipped.
func (s *Service) ApplyCarrierUpdate(ctx context.Context, msg messages.ReturnShipmentUpdated) error {
	if msg.ClaimID == 0 {
		return errors.New("claim_id is required")
	}
	if msg.CheckedAt.IsZero() {
		msg.CheckedAt = s.now()
	}
	if msg.NextCheckAt.IsZero() {
		msg.NextCheckAt = msg.CheckedAt.Add(defaultRecheck)
	}

	if msg.Error == nil {
		if err := s.advanceReturnLeg(ctx, msg); err != nil {
			return err
		}
	}

	return s.repo.ScheduleReturnCheck(ctx, msg.ClaimID, msg.NextCheckAt, msg.Error)
}

func (s *Service) advanceReturnLeg(ctx context.Context, msg messages.ReturnShipmentUpdated) error {
	target, ok := models.CarrierStatusToReturnShipping(msg.CarrierStatus)
	if !ok {
		return nil
	}

	cur, err := s.repo.GetClaim(ctx, msg.ClaimID)
	if models.IsNotFound(err) {
		slog.Warn("carrier update for unknown claim", "claim_id", msg.ClaimID)
		return nil
	}
	if err != nil {
		return err
	}

	leg := cur.ReturnLeg()
	if cur.Status != models.ClaimStatusInProgress || leg.TrackingNumber != msg.TrackingNumber || !leg.Status.CanAdvanceTo(target) {
		return nil
	}

	_, err = s.UpdateReturnShippingStatus(ctx, msg.ClaimID, CarrierSyncActor, models.UpdateReturnShippingStatusCommand{
		ReturnShippingStatus: target,
	})
	if models.IsStatusConflict(err) {
		slog.Info("carrier update skipped", "claim_id", msg.ClaimID, "reason", err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("return leg advanced by carrier", "claim_id", msg.ClaimID, "carrier", msg.Carrier, "status", target)
	return nil
}
