package models

type ReturnShippingStatus string

const (
	ReturnShippingPending         ReturnShippingStatus = "PENDING"
	ReturnShippingPickupScheduled ReturnShippingStatus = "PICKUP_SCHEDULED"
	ReturnShippingInTransit       ReturnShippingStatus = "IN_TRANSIT"
	ReturnShippingReceived        ReturnShippingStatus = "RECEIVED"
)

var returnShippingRank = map[ReturnShippingStatus]int{
	ReturnShippingPending:         0,
	ReturnShippingPickupScheduled: 1,
	ReturnShippingInTransit:       2,
	ReturnShippingReceived:        3,
}

func (s ReturnShippingStatus) Valid() bool {
	_, ok := returnShippingRank[s]
	return ok
}

// Before reports whether s comes strictly earlier than other in the return leg.
func (s ReturnShippingStatus) Before(other ReturnShippingStatus) bool {
	return returnShippingRank[s] < returnShippingRank[other]
}

// CanAdvanceTo allows forward moves only. Skipping intermediate states is fine,
// the carrier is the source of truth for what actually happened.
func (s ReturnShippingStatus) CanAdvanceTo(next ReturnShippingStatus) bool {
	if !next.Valid() {
		return false
	}
	return s.Before(next)
}
