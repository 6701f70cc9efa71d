package pgclaim

import (
	"context"
	"time"

	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const claimColumns = `
  id, claim_number, order_id, order_item_id, claim_type,
  reason_code, reason_detail, quantity, refund_amount::text, status,
  approved_by, approved_at, reject_reason, cancel_reason,
  return_tracking_number, return_carrier, shipping_method, return_shipping_status,
  return_pickup_scheduled_at, pickup_address, pickup_phone, return_received_at,
  inspection_result, inspection_note,
  exchange_tracking_number, exchange_carrier, exchange_shipped_at, exchange_delivered_at,
  version, created_at, updated_at`

func (s *Storage) CreateClaim(ctx context.Context, c models.Claim) (models.Claim, error) {
	row := s.db.QueryRow(ctx, `
INSERT INTO claims (
  claim_number, order_id, order_item_id, claim_type,
  reason_code, reason_detail, quantity, refund_amount, status,
  version, created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8::numeric,$9,1,$10,$11)
RETURNING `+claimColumns,
		c.ClaimNumber, c.OrderID, c.OrderItemID, string(c.Type),
		c.ReasonCode, c.ReasonDetail, c.Quantity, c.RefundAmount.String(), string(c.Status),
		c.CreatedAt.UTC(), c.UpdatedAt.UTC())

	created, err := scanClaim(row)
	if err != nil {
		return models.Claim{}, errors.Wrap(err, "insert claim")
	}
	return created, nil
}

func (s *Storage) GetClaim(ctx context.Context, id uint64) (models.Claim, error) {
	row := s.db.QueryRow(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = $1`, id)
	c, err := scanClaim(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Claim{}, models.ErrClaimNotFound
	}
	if err != nil {
		return models.Claim{}, errors.Wrap(err, "select claim")
	}
	return c, nil
}

// SaveClaim replaces the persisted snapshot when its version still equals c.Version
// and returns the stored snapshot with the incremented version.
func (s *Storage) SaveClaim(ctx context.Context, c models.Claim) (models.Claim, error) {
	leg := c.ReturnLeg()
	ex, _ := c.ExchangeLeg()

	var inspectionResult, inspectionNote string
	if leg.Inspection != nil {
		inspectionResult = string(leg.Inspection.Result)
		inspectionNote = leg.Inspection.Note
	}

	row := s.db.QueryRow(ctx, `
UPDATE claims
SET
  status = $3,
  approved_by = $4,
  approved_at = $5,
  reject_reason = $6,
  cancel_reason = $7,
  return_tracking_number = $8,
  return_carrier = $9,
  shipping_method = $10,
  return_shipping_status = $11,
  return_pickup_scheduled_at = $12,
  pickup_address = $13,
  pickup_phone = $14,
  return_received_at = $15,
  inspection_result = $16,
  inspection_note = $17,
  exchange_tracking_number = $18,
  exchange_carrier = $19,
  exchange_shipped_at = $20,
  exchange_delivered_at = $21,
  return_next_check_at = CASE
    WHEN $3 = 'IN_PROGRESS' AND $11 IN ('PICKUP_SCHEDULED', 'IN_TRANSIT') AND $8 <> ''
      THEN COALESCE(return_next_check_at, $22)
    ELSE NULL
  END,
  updated_at = $22,
  version = version + 1
WHERE id = $1 AND version = $2
RETURNING `+claimColumns,
		c.ID, c.Version,
		string(c.Status), c.ApprovedBy, c.ApprovedAt, c.RejectReason, c.CancelReason,
		leg.TrackingNumber, leg.Carrier, string(leg.Method), string(leg.Status),
		leg.PickupScheduledAt, leg.PickupAddress, leg.PickupPhone, leg.ReceivedAt,
		inspectionResult, inspectionNote,
		ex.TrackingNumber, ex.Carrier, ex.ShippedAt, ex.DeliveredAt,
		c.UpdatedAt.UTC(),
	)

	saved, err := scanClaim(row)
	if err == nil {
		return saved, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Claim{}, errors.Wrap(err, "update claim")
	}

	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM claims WHERE id = $1)`, c.ID).Scan(&exists); err != nil {
		return models.Claim{}, errors.Wrap(err, "check claim exists")
	}
	if !exists {
		return models.Claim{}, models.ErrClaimNotFound
	}
	return models.Claim{}, models.ErrVersionConflict
}

func (s *Storage) ListClaims(ctx context.Context, f models.ClaimFilter) ([]models.Claim, error) {
	f = f.Normalized()

	var statuses, types []string
	for _, st := range f.Statuses {
		statuses = append(statuses, string(st))
	}
	for _, t := range f.Types {
		types = append(types, string(t))
	}

	// One extra row tells the caller whether another page exists.
	rows, err := s.db.Query(ctx, `
SELECT `+claimColumns+`
FROM claims
WHERE ($1::text[] IS NULL OR status = ANY($1))
  AND ($2::text[] IS NULL OR claim_type = ANY($2))
  AND ($3::bigint = 0 OR id < $3)
ORDER BY id DESC
LIMIT $4
`, statuses, types, f.LastClaimID, f.PageSize+1)
	if err != nil {
		return nil, errors.Wrap(err, "select claims")
	}
	defer rows.Close()

	out := make([]models.Claim, 0, f.PageSize+1)
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan claim")
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func scanClaim(row pgx.Row) (models.Claim, error) {
	var (
		c            models.Claim
		claimType    string
		status       string
		refundAmount string
		leg          models.ReturnShipment
		method       string
		legStatus    string
		inspResult   string
		inspNote     string
		ex           models.ExchangeShipment
		approvedAt   *time.Time
	)
	if err := row.Scan(
		&c.ID, &c.ClaimNumber, &c.OrderID, &c.OrderItemID, &claimType,
		&c.ReasonCode, &c.ReasonDetail, &c.Quantity, &refundAmount, &status,
		&c.ApprovedBy, &approvedAt, &c.RejectReason, &c.CancelReason,
		&leg.TrackingNumber, &leg.Carrier, &method, &legStatus,
		&leg.PickupScheduledAt, &leg.PickupAddress, &leg.PickupPhone, &leg.ReceivedAt,
		&inspResult, &inspNote,
		&ex.TrackingNumber, &ex.Carrier, &ex.ShippedAt, &ex.DeliveredAt,
		&c.Version, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return models.Claim{}, err
	}

	amount, err := decimal.NewFromString(refundAmount)
	if err != nil {
		return models.Claim{}, errors.Wrap(err, "parse refund amount")
	}
	c.RefundAmount = amount
	c.Type = models.ClaimType(claimType)
	c.Status = models.ClaimStatus(status)
	c.ApprovedAt = approvedAt

	leg.Method = models.ShippingMethod(method)
	leg.Status = models.ReturnShippingStatus(legStatus)
	if inspResult != "" {
		leg.Inspection = &models.Inspection{Result: models.InspectionResult(inspResult), Note: inspNote}
	}
	var exPtr *models.ExchangeShipment
	if ex.TrackingNumber != "" || ex.DeliveredAt != nil {
		exPtr = &ex
	}
	c.Progress = models.BuildProgress(c.Type, leg, exPtr)
	return c, nil
}
