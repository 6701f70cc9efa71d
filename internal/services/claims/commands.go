package claims

import (
	"context"
	"time"

	"github.com/BearBump/ClaimBox/internal/models"
)

func (s *Service) Approve(ctx context.Context, claimID uint64, adminID string) (models.Claim, error) {
	if adminID == "" {
		return models.Claim{}, models.NewValidationError("adminId", "is required")
	}
	return s.execute(ctx, claimID, adminID, models.ActionApprove, func(c models.Claim, now time.Time) (models.Claim, error) {
		return c.Approve(adminID, now)
	})
}

func (s *Service) Reject(ctx context.Context, claimID uint64, adminID string, cmd models.RejectCommand) (models.Claim, error) {
	if err := cmd.Validate(); err != nil {
		return models.Claim{}, err
	}
	return s.execute(ctx, claimID, adminID, models.ActionReject, func(c models.Claim, now time.Time) (models.Claim, error) {
		return c.Reject(cmd, now)
	})
}

func (s *Service) Complete(ctx context.Context, claimID uint64, adminID string) (models.Claim, error) {
	return s.execute(ctx, claimID, adminID, models.ActionComplete, func(c models.Claim, now time.Time) (models.Claim, error) {
		return c.Complete(now)
	})
}

func (s *Service) Cancel(ctx context.Context, claimID uint64, adminID string, cmd models.CancelCommand) (models.Claim, error) {
	if err := cmd.Validate(); err != nil {
		return models.Claim{}, err
	}
	return s.execute(ctx, claimID, adminID, models.ActionCancel, func(c models.Claim, now time.Time) (models.Claim, error) {
		return c.Cancel(cmd, now)
	})
}

func (s *Service) RegisterReturnShipping(ctx context.Context, claimID uint64, adminID string, cmd models.RegisterReturnShippingCommand) (models.Claim, error) {
	if err := cmd.Validate(); err != nil {
		return models.Claim{}, err
	}
	return s.execute(ctx, claimID, adminID, models.ActionRegisterReturnShipping, func(c models.Claim, now time.Time) (models.Claim, error) {
		return c.RegisterReturnShipping(cmd, now)
	})
}

func (s *Service) ScheduleReturnPickup(ctx context.Context, claimID uint64, adminID string, cmd models.ScheduleReturnPickupCommand) (models.Claim, error) {
	if err := cmd.Validate(); err != nil {
		return models.Claim{}, err
	}
	return s.execute(ctx, claimID, adminID, models.ActionScheduleReturnPickup, func(c models.Claim, now time.Time) (models.Claim, error) {
		return c.ScheduleReturnPickup(cmd, now)
	})
}

func (s *Service) UpdateReturnShippingStatus(ctx context.Context, claimID uint64, adminID string, cmd models.UpdateReturnShippingStatusCommand) (models.Claim, error) {
	if err := cmd.Validate(); err != nil {
		return models.Claim{}, err
	}
	return s.execute(ctx, claimID, adminID, models.ActionUpdateReturnShippingStatus, func(c models.Claim, now time.Time) (models.Claim, error) {
		return c.UpdateReturnShippingStatus(cmd, now)
	})
}

func (s *Service) ConfirmReturnReceived(ctx context.Context, claimID uint64, adminID string, cmd models.ConfirmReturnReceivedCommand) (models.Claim, error) {
	if err := cmd.Validate(); err != nil {
		return models.Claim{}, err
	}
	return s.execute(ctx, claimID, adminID, models.ActionConfirmReturnReceived, func(c models.Claim, now time.Time) (models.Claim, error) {
		return c.ConfirmReturnReceived(cmd, now)
	})
}

func (s *Service) RegisterExchangeShipping(ctx context.Context, claimID uint64, adminID string, cmd models.RegisterExchangeShippingCommand) (models.Claim, error) {
	if err := cmd.Validate(); err != nil {
		return models.Claim{}, err
	}
	return s.execute(ctx, claimID, adminID, models.ActionRegisterExchangeShipping, func(c models.Claim, now time.Time) (models.Claim, error) {
		return c.RegisterExchangeShipping(cmd, now)
	})
}

func (s *Service) ConfirmExchangeDelivered(ctx context.Context, claimID uint64, adminID string) (models.Claim, error) {
	return s.execute(ctx, claimID, adminID, models.ActionConfirmExchangeDelivered, func(c models.Claim, now time.Time) (models.Claim, error) {
		return c.ConfirmExchangeDelivered(now)
	})
}
