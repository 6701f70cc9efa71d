package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClaimType string

const (
	ClaimTypeReturn   ClaimType = "RETURN"
	ClaimTypeExchange ClaimType = "EXCHANGE"
)

func (t ClaimType) Valid() bool {
	return t == ClaimTypeReturn || t == ClaimTypeExchange
}

type ClaimStatus string

const (
	ClaimStatusRequested  ClaimStatus = "REQUESTED"
	ClaimStatusApproved   ClaimStatus = "APPROVED"
	ClaimStatusRejected   ClaimStatus = "REJECTED"
	ClaimStatusInProgress ClaimStatus = "IN_PROGRESS"
	ClaimStatusCompleted  ClaimStatus = "COMPLETED"
	ClaimStatusCancelled  ClaimStatus = "CANCELLED"
)

// ClaimStatuses lists every claim status in lifecycle order.
func ClaimStatuses() []ClaimStatus {
	return []ClaimStatus{
		ClaimStatusRequested,
		ClaimStatusApproved,
		ClaimStatusRejected,
		ClaimStatusInProgress,
		ClaimStatusCompleted,
		ClaimStatusCancelled,
	}
}

func (s ClaimStatus) Valid() bool {
	for _, v := range ClaimStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimStatusRejected || s == ClaimStatusCompleted || s == ClaimStatusCancelled
}

type ShippingMethod string

const (
	ShippingMethodCustomerShip ShippingMethod = "CUSTOMER_SHIP"
	ShippingMethodSellerPickup ShippingMethod = "SELLER_PICKUP"
)

func (m ShippingMethod) Valid() bool {
	return m == ShippingMethodCustomerShip || m == ShippingMethodSellerPickup
}

type InspectionResult string

const (
	InspectionPass InspectionResult = "PASS"
	InspectionFail InspectionResult = "FAIL"
)

func (r InspectionResult) Valid() bool {
	return r == InspectionPass || r == InspectionFail
}

// Claim is an immutable snapshot of a return or exchange request for one order line.
// Every transition method returns a new Claim; the receiver is never modified.
type Claim struct {
	ID           uint64
	ClaimNumber  string
	OrderID      uint64
	OrderItemID  uint64
	Type         ClaimType
	ReasonCode   string
	ReasonDetail string
	Quantity     int
	RefundAmount decimal.Decimal

	Status ClaimStatus

	ApprovedBy   string
	ApprovedAt   *time.Time
	RejectReason string
	CancelReason string

	// Progress is nil until the first shipping action.
	Progress ProgressDetail

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProgressDetail is either ReturnShipping (RETURN claims) or ExchangeShipping (EXCHANGE claims).
type ProgressDetail interface {
	progressDetail()
}

type ReturnShipping struct {
	Return ReturnShipment
}

type ExchangeShipping struct {
	Return   ReturnShipment
	Outbound *ExchangeShipment
}

func (ReturnShipping) progressDetail()   {}
func (ExchangeShipping) progressDetail() {}

// ReturnShipment is the leg carrying goods from the customer back to the seller.
type ReturnShipment struct {
	Status            ReturnShippingStatus
	Method            ShippingMethod
	TrackingNumber    string
	Carrier           string
	PickupScheduledAt *time.Time
	PickupAddress     string
	PickupPhone       string
	ReceivedAt        *time.Time
	Inspection        *Inspection
}

type Inspection struct {
	Result InspectionResult
	Note   string
}

// ExchangeShipment is the replacement sent to the customer.
type ExchangeShipment struct {
	TrackingNumber string
	Carrier        string
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
}

// ReturnLeg returns the return shipment, or an empty PENDING one when nothing was shipped yet.
func (c Claim) ReturnLeg() ReturnShipment {
	var r ReturnShipment
	switch p := c.Progress.(type) {
	case ReturnShipping:
		r = p.Return
	case ExchangeShipping:
		r = p.Return
	}
	if r.Status == "" {
		r.Status = ReturnShippingPending
	}
	return r
}

func (c Claim) ExchangeLeg() (ExchangeShipment, bool) {
	p, ok := c.Progress.(ExchangeShipping)
	if !ok || p.Outbound == nil {
		return ExchangeShipment{}, false
	}
	return *p.Outbound, true
}

func (c Claim) withReturnLeg(r ReturnShipment) Claim {
	switch c.Type {
	case ClaimTypeExchange:
		p, _ := c.Progress.(ExchangeShipping)
		p.Return = r
		c.Progress = p
	default:
		c.Progress = ReturnShipping{Return: r}
	}
	return c
}

func (c Claim) withExchangeLeg(e ExchangeShipment) Claim {
	p, _ := c.Progress.(ExchangeShipping)
	p.Outbound = &e
	c.Progress = p
	return c
}

// touch refreshes UpdatedAt without ever moving it backwards.
func (c Claim) touch(now time.Time) Claim {
	now = now.UTC()
	if now.After(c.UpdatedAt) {
		c.UpdatedAt = now
	}
	return c
}

// NewClaimInput carries the request-time facts of a claim filed by a customer.
type NewClaimInput struct {
	ClaimNumber  string
	OrderID      uint64
	OrderItemID  uint64
	Type         ClaimType
	ReasonCode   string
	ReasonDetail string
	Quantity     int
	RefundAmount decimal.Decimal
}

func (in NewClaimInput) Validate() error {
	switch {
	case in.OrderID == 0:
		return NewValidationError("orderId", "is required")
	case in.OrderItemID == 0:
		return NewValidationError("orderItemId", "is required")
	case !in.Type.Valid():
		return NewValidationError("claimType", "must be RETURN or EXCHANGE")
	case in.ReasonCode == "":
		return NewValidationError("reasonCode", "is required")
	case in.Quantity <= 0:
		return NewValidationError("quantity", "must be positive")
	case in.RefundAmount.IsNegative():
		return NewValidationError("refundAmount", "must not be negative")
	}
	return nil
}

// NewClaim builds a REQUESTED claim. The ID is assigned by storage.
func NewClaim(in NewClaimInput, now time.Time) (Claim, error) {
	if err := in.Validate(); err != nil {
		return Claim{}, err
	}
	refund := in.RefundAmount
	if in.Type == ClaimTypeExchange {
		refund = decimal.Zero
	}
	now = now.UTC()
	return Claim{
		ClaimNumber:  in.ClaimNumber,
		OrderID:      in.OrderID,
		OrderItemID:  in.OrderItemID,
		Type:         in.Type,
		ReasonCode:   in.ReasonCode,
		ReasonDetail: in.ReasonDetail,
		Quantity:     in.Quantity,
		RefundAmount: refund,
		Status:       ClaimStatusRequested,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
