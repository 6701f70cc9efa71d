package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// claimJSON is the flat rendering of a claim used by the API, the cache and events.
type claimJSON struct {
	ClaimID      uint64          `json:"claimId"`
	ClaimNumber  string          `json:"claimNumber"`
	OrderID      uint64          `json:"orderId"`
	OrderItemID  uint64          `json:"orderItemId"`
	ClaimType    ClaimType       `json:"claimType"`
	ReasonCode   string          `json:"reasonCode"`
	ReasonDetail string          `json:"reasonDetail"`
	Quantity     int             `json:"quantity"`
	RefundAmount decimal.Decimal `json:"refundAmount"`
	Status       ClaimStatus     `json:"status"`

	ApprovedBy   string     `json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`
	RejectReason string     `json:"rejectReason,omitempty"`
	CancelReason string     `json:"cancelReason,omitempty"`

	ReturnTrackingNumber    string               `json:"returnTrackingNumber,omitempty"`
	ReturnCarrier           string               `json:"returnCarrier,omitempty"`
	ShippingMethod          ShippingMethod       `json:"shippingMethod,omitempty"`
	ReturnShippingStatus    ReturnShippingStatus `json:"returnShippingStatus"`
	ReturnPickupScheduledAt *time.Time           `json:"returnPickupScheduledAt,omitempty"`
	PickupAddress           string               `json:"pickupAddress,omitempty"`
	PickupPhone             string               `json:"pickupPhone,omitempty"`
	ReturnReceivedAt        *time.Time           `json:"returnReceivedAt,omitempty"`

	InspectionResult InspectionResult `json:"inspectionResult,omitempty"`
	InspectionNote   string           `json:"inspectionNote,omitempty"`

	ExchangeTrackingNumber string     `json:"exchangeTrackingNumber,omitempty"`
	ExchangeCarrier        string     `json:"exchangeCarrier,omitempty"`
	ExchangeShippedAt      *time.Time `json:"exchangeShippedAt,omitempty"`
	ExchangeDeliveredAt    *time.Time `json:"exchangeDeliveredAt,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Claim) MarshalJSON() ([]byte, error) {
	leg := c.ReturnLeg()
	out := claimJSON{
		ClaimID:      c.ID,
		ClaimNumber:  c.ClaimNumber,
		OrderID:      c.OrderID,
		OrderItemID:  c.OrderItemID,
		ClaimType:    c.Type,
		ReasonCode:   c.ReasonCode,
		ReasonDetail: c.ReasonDetail,
		Quantity:     c.Quantity,
		RefundAmount: c.RefundAmount,
		Status:       c.Status,
		ApprovedBy:   c.ApprovedBy,
		ApprovedAt:   c.ApprovedAt,
		RejectReason: c.RejectReason,
		CancelReason: c.CancelReason,

		ReturnTrackingNumber:    leg.TrackingNumber,
		ReturnCarrier:           leg.Carrier,
		ShippingMethod:          leg.Method,
		ReturnShippingStatus:    leg.Status,
		ReturnPickupScheduledAt: leg.PickupScheduledAt,
		PickupAddress:           leg.PickupAddress,
		PickupPhone:             leg.PickupPhone,
		ReturnReceivedAt:        leg.ReceivedAt,

		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if leg.Inspection != nil {
		out.InspectionResult = leg.Inspection.Result
		out.InspectionNote = leg.Inspection.Note
	}
	if ex, ok := c.ExchangeLeg(); ok {
		out.ExchangeTrackingNumber = ex.TrackingNumber
		out.ExchangeCarrier = ex.Carrier
		out.ExchangeShippedAt = ex.ShippedAt
		out.ExchangeDeliveredAt = ex.DeliveredAt
	}
	return json.Marshal(out)
}

func (c *Claim) UnmarshalJSON(b []byte) error {
	var in claimJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	claim := Claim{
		ID:           in.ClaimID,
		ClaimNumber:  in.ClaimNumber,
		OrderID:      in.OrderID,
		OrderItemID:  in.OrderItemID,
		Type:         in.ClaimType,
		ReasonCode:   in.ReasonCode,
		ReasonDetail: in.ReasonDetail,
		Quantity:     in.Quantity,
		RefundAmount: in.RefundAmount,
		Status:       in.Status,
		ApprovedBy:   in.ApprovedBy,
		ApprovedAt:   in.ApprovedAt,
		RejectReason: in.RejectReason,
		CancelReason: in.CancelReason,
		Version:      in.Version,
		CreatedAt:    in.CreatedAt,
		UpdatedAt:    in.UpdatedAt,
	}

	leg := ReturnShipment{
		Status:            in.ReturnShippingStatus,
		Method:            in.ShippingMethod,
		TrackingNumber:    in.ReturnTrackingNumber,
		Carrier:           in.ReturnCarrier,
		PickupScheduledAt: in.ReturnPickupScheduledAt,
		PickupAddress:     in.PickupAddress,
		PickupPhone:       in.PickupPhone,
		ReceivedAt:        in.ReturnReceivedAt,
	}
	if in.InspectionResult != "" {
		leg.Inspection = &Inspection{Result: in.InspectionResult, Note: in.InspectionNote}
	}
	var ex *ExchangeShipment
	if in.ExchangeTrackingNumber != "" || in.ExchangeDeliveredAt != nil {
		ex = &ExchangeShipment{
			TrackingNumber: in.ExchangeTrackingNumber,
			Carrier:        in.ExchangeCarrier,
			ShippedAt:      in.ExchangeShippedAt,
			DeliveredAt:    in.ExchangeDeliveredAt,
		}
	}
	claim.Progress = BuildProgress(claim.Type, leg, ex)
	*c = claim
	return nil
}

// BuildProgress assembles the progress detail from flat shipment facts, as
// loaded from storage or a serialized snapshot. It returns nil when no shipping
// action has happened yet.
func BuildProgress(t ClaimType, leg ReturnShipment, ex *ExchangeShipment) ProgressDetail {
	if leg.Status == ReturnShippingPending {
		leg.Status = ""
	}
	emptyLeg := leg == (ReturnShipment{})
	switch t {
	case ClaimTypeExchange:
		if emptyLeg && ex == nil {
			return nil
		}
		return ExchangeShipping{Return: leg, Outbound: ex}
	default:
		if emptyLeg {
			return nil
		}
		return ReturnShipping{Return: leg}
	}
}
