package models

import "time"

// Normalized carrier statuses reported for a return parcel.
const (
	CarrierStatusUnknown   = "UNKNOWN"
	CarrierStatusInTransit = "IN_TRANSIT"
	CarrierStatusDelivered = "DELIVERED"
)

// CarrierStatusToReturnShipping maps what the carrier reports onto the return leg.
// Unknown statuses map to nothing.
func CarrierStatusToReturnShipping(carrierStatus string) (ReturnShippingStatus, bool) {
	switch carrierStatus {
	case CarrierStatusInTransit:
		return ReturnShippingInTransit, true
	case CarrierStatusDelivered:
		return ReturnShippingReceived, true
	default:
		return "", false
	}
}

type TrackingEvent struct {
	Status      string
	StatusRaw   string
	EventTime   time.Time
	Location    *string
	Message     *string
	PayloadJSON *string
}

// ReturnCheck is a return leg due for a carrier status check.
type ReturnCheck struct {
	ClaimID        uint64
	Carrier        string
	TrackingNumber string
	Status         ReturnShippingStatus
	NextCheckAt    time.Time
	CheckFailCount int32
}
