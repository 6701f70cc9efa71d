package models

import (
	"strings"
	"time"
)

type RejectCommand struct {
	RejectReason string
}

func (c RejectCommand) Validate() error {
	if strings.TrimSpace(c.RejectReason) == "" {
		return NewValidationError("rejectReason", "is required")
	}
	return nil
}

type CancelCommand struct {
	CancelReason string
}

func (c CancelCommand) Validate() error { return nil }

type RegisterReturnShippingCommand struct {
	TrackingNumber string
	Carrier        string
	// ShippingMethod defaults to CUSTOMER_SHIP.
	ShippingMethod ShippingMethod
}

func (c RegisterReturnShippingCommand) Validate() error {
	switch {
	case strings.TrimSpace(c.TrackingNumber) == "":
		return NewValidationError("trackingNumber", "is required")
	case strings.TrimSpace(c.Carrier) == "":
		return NewValidationError("carrier", "is required")
	case c.ShippingMethod != "" && !c.ShippingMethod.Valid():
		return NewValidationError("shippingMethod", "must be CUSTOMER_SHIP or SELLER_PICKUP")
	}
	return nil
}

type ScheduleReturnPickupCommand struct {
	PickupScheduledAt time.Time
	PickupAddress     string
	PickupPhone       string
}

func (c ScheduleReturnPickupCommand) Validate() error {
	switch {
	case c.PickupScheduledAt.IsZero():
		return NewValidationError("pickupScheduledAt", "is required")
	case strings.TrimSpace(c.PickupAddress) == "":
		return NewValidationError("pickupAddress", "is required")
	case strings.TrimSpace(c.PickupPhone) == "":
		return NewValidationError("pickupPhone", "is required")
	}
	return nil
}

type UpdateReturnShippingStatusCommand struct {
	ReturnShippingStatus ReturnShippingStatus
}

func (c UpdateReturnShippingStatusCommand) Validate() error {
	if !c.ReturnShippingStatus.Valid() || c.ReturnShippingStatus == ReturnShippingPending {
		return NewValidationError("returnShippingStatus", "must be PICKUP_SCHEDULED, IN_TRANSIT or RECEIVED")
	}
	return nil
}

type ConfirmReturnReceivedCommand struct {
	InspectionResult InspectionResult
	InspectionNote   string
}

func (c ConfirmReturnReceivedCommand) Validate() error {
	if !c.InspectionResult.Valid() {
		return NewValidationError("inspectionResult", "must be PASS or FAIL")
	}
	return nil
}

type RegisterExchangeShippingCommand struct {
	TrackingNumber string
	Carrier        string
}

func (c RegisterExchangeShippingCommand) Validate() error {
	switch {
	case strings.TrimSpace(c.TrackingNumber) == "":
		return NewValidationError("trackingNumber", "is required")
	case strings.TrimSpace(c.Carrier) == "":
		return NewValidationError("carrier", "is required")
	}
	return nil
}

func (c Claim) Approve(adminID string, now time.Time) (Claim, error) {
	if strings.TrimSpace(adminID) == "" {
		return c, NewValidationError("adminId", "is required")
	}
	next, err := Transition(c.Status, ActionApprove)
	if err != nil {
		return c, err
	}
	at := now.UTC()
	c.Status = next
	c.ApprovedBy = adminID
	c.ApprovedAt = &at
	return c.touch(now), nil
}

func (c Claim) Reject(cmd RejectCommand, now time.Time) (Claim, error) {
	if err := cmd.Validate(); err != nil {
		return c, err
	}
	next, err := Transition(c.Status, ActionReject)
	if err != nil {
		return c, err
	}
	c.Status = next
	c.RejectReason = strings.TrimSpace(cmd.RejectReason)
	return c.touch(now), nil
}

func (c Claim) Complete(now time.Time) (Claim, error) {
	next, err := Transition(c.Status, ActionComplete)
	if err != nil {
		return c, err
	}
	c.Status = next
	return c.touch(now), nil
}

func (c Claim) Cancel(cmd CancelCommand, now time.Time) (Claim, error) {
	next, err := Transition(c.Status, ActionCancel)
	if err != nil {
		return c, err
	}
	c.Status = next
	c.CancelReason = strings.TrimSpace(cmd.CancelReason)
	return c.touch(now), nil
}

func (c Claim) RegisterReturnShipping(cmd RegisterReturnShippingCommand, now time.Time) (Claim, error) {
	if err := cmd.Validate(); err != nil {
		return c, err
	}
	next, err := Transition(c.Status, ActionRegisterReturnShipping)
	if err != nil {
		return c, err
	}
	leg := c.ReturnLeg()
	if leg.Status == ReturnShippingReceived {
		return c, conflict(ActionRegisterReturnShipping, c.Status, "return shipment already received")
	}

	method := cmd.ShippingMethod
	if method == "" {
		method = ShippingMethodCustomerShip
	}
	leg.TrackingNumber = strings.TrimSpace(cmd.TrackingNumber)
	leg.Carrier = strings.TrimSpace(cmd.Carrier)
	leg.Method = method
	leg.Status = ReturnShippingInTransit

	c.Status = next
	return c.withReturnLeg(leg).touch(now), nil
}

func (c Claim) ScheduleReturnPickup(cmd ScheduleReturnPickupCommand, now time.Time) (Claim, error) {
	if err := cmd.Validate(); err != nil {
		return c, err
	}
	next, err := Transition(c.Status, ActionScheduleReturnPickup)
	if err != nil {
		return c, err
	}
	leg := c.ReturnLeg()
	if leg.Status != ReturnShippingPending && leg.Status != ReturnShippingPickupScheduled {
		return c, conflict(ActionScheduleReturnPickup, c.Status, "return shipment is already "+string(leg.Status))
	}

	at := cmd.PickupScheduledAt.UTC()
	leg.Method = ShippingMethodSellerPickup
	leg.PickupScheduledAt = &at
	leg.PickupAddress = strings.TrimSpace(cmd.PickupAddress)
	leg.PickupPhone = strings.TrimSpace(cmd.PickupPhone)
	leg.Status = ReturnShippingPickupScheduled

	c.Status = next
	return c.withReturnLeg(leg).touch(now), nil
}

func (c Claim) UpdateReturnShippingStatus(cmd UpdateReturnShippingStatusCommand, now time.Time) (Claim, error) {
	if err := cmd.Validate(); err != nil {
		return c, err
	}
	if _, err := Transition(c.Status, ActionUpdateReturnShippingStatus); err != nil {
		return c, err
	}
	leg := c.ReturnLeg()
	if !leg.Status.CanAdvanceTo(cmd.ReturnShippingStatus) {
		return c, conflict(ActionUpdateReturnShippingStatus, c.Status,
			"return shipment cannot move from "+string(leg.Status)+" to "+string(cmd.ReturnShippingStatus))
	}
	leg.Status = cmd.ReturnShippingStatus
	return c.withReturnLeg(leg).touch(now), nil
}

func (c Claim) ConfirmReturnReceived(cmd ConfirmReturnReceivedCommand, now time.Time) (Claim, error) {
	if err := cmd.Validate(); err != nil {
		return c, err
	}
	if _, err := Transition(c.Status, ActionConfirmReturnReceived); err != nil {
		return c, err
	}
	leg := c.ReturnLeg()
	if leg.Status != ReturnShippingReceived {
		return c, conflict(ActionConfirmReturnReceived, c.Status, "return shipment is "+string(leg.Status)+", not RECEIVED")
	}
	if leg.Inspection != nil {
		return c, conflict(ActionConfirmReturnReceived, c.Status, "inspection already recorded")
	}
	at := now.UTC()
	leg.ReceivedAt = &at
	leg.Inspection = &Inspection{
		Result: cmd.InspectionResult,
		Note:   strings.TrimSpace(cmd.InspectionNote),
	}
	return c.withReturnLeg(leg).touch(now), nil
}

func (c Claim) RegisterExchangeShipping(cmd RegisterExchangeShippingCommand, now time.Time) (Claim, error) {
	if err := cmd.Validate(); err != nil {
		return c, err
	}
	next, err := Transition(c.Status, ActionRegisterExchangeShipping)
	if err != nil {
		return c, err
	}
	if c.Type != ClaimTypeExchange {
		return c, conflict(ActionRegisterExchangeShipping, c.Status, "claim type is "+string(c.Type))
	}
	at := now.UTC()
	out, _ := c.ExchangeLeg()
	out.TrackingNumber = strings.TrimSpace(cmd.TrackingNumber)
	out.Carrier = strings.TrimSpace(cmd.Carrier)
	out.ShippedAt = &at

	c.Status = next
	return c.withExchangeLeg(out).touch(now), nil
}

// ConfirmExchangeDelivered completes the claim in the same step: delivery of the
// replacement is the end of an exchange.
func (c Claim) ConfirmExchangeDelivered(now time.Time) (Claim, error) {
	next, err := Transition(c.Status, ActionConfirmExchangeDelivered)
	if err != nil {
		return c, err
	}
	if c.Type != ClaimTypeExchange {
		return c, conflict(ActionConfirmExchangeDelivered, c.Status, "claim type is "+string(c.Type))
	}
	out, ok := c.ExchangeLeg()
	if !ok {
		return c, conflict(ActionConfirmExchangeDelivered, c.Status, "exchange shipment not registered")
	}
	at := now.UTC()
	out.DeliveredAt = &at

	c.Status = next
	return c.withExchangeLeg(out).touch(now), nil
}
