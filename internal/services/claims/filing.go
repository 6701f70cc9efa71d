package claims

import (
	"context"
	"strings"
	"time"

	"github.com/BearBump/ClaimBox/internal/broker/messages"
	"github.com/BearBump/ClaimBox/internal/integrations/orders"
	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// FileClaimInput is a customer's request to return or exchange part of an order line.
type FileClaimInput struct {
	OrderID      uint64
	OrderItemID  uint64
	Type         models.ClaimType
	ReasonCode   string
	ReasonDetail string
	Quantity     int
	CustomerID   string
}

// FileClaim opens a REQUESTED claim for an existing order line. The refund is
// priced from the order line and is zero for exchanges.
func (s *Service) FileClaim(ctx context.Context, in FileClaimInput) (models.Claim, error) {
	if s.orders == nil {
		return models.Claim{}, errors.New("order lookup is not configured")
	}
	draft := models.NewClaimInput{
		OrderID:      in.OrderID,
		OrderItemID:  in.OrderItemID,
		Type:         in.Type,
		ReasonCode:   strings.TrimSpace(in.ReasonCode),
		ReasonDetail: in.ReasonDetail,
		Quantity:     in.Quantity,
	}
	if err := draft.Validate(); err != nil {
		return models.Claim{}, err
	}

	line, err := s.orders.GetOrderLine(ctx, in.OrderID, in.OrderItemID)
	if errors.Is(err, orders.ErrOrderLineNotFound) {
		return models.Claim{}, models.NewValidationError("orderItemId", "order line not found")
	}
	if err != nil {
		return models.Claim{}, errors.Wrap(err, "get order line")
	}
	if in.Quantity > line.Quantity {
		return models.Claim{}, models.NewValidationError("quantity", "exceeds ordered quantity")
	}

	now := s.now()
	draft.ClaimNumber = newClaimNumber(now)
	if in.Type == models.ClaimTypeReturn {
		draft.RefundAmount = line.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
	}

	c, err := models.NewClaim(draft, now)
	if err != nil {
		return models.Claim{}, err
	}
	created, err := s.repo.CreateClaim(ctx, c)
	if err != nil {
		return models.Claim{}, err
	}

	actor := in.CustomerID
	if actor == "" {
		actor = "customer"
	}
	s.afterSave(ctx, messages.ClaimRequestedType, "", created, actor)
	return created, nil
}

// newClaimNumber renders CLM-YYYYMMDD-XXXXXXXX.
func newClaimNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "CLM-" + now.UTC().Format("20060102") + "-" + suffix
}
