package models

import "fmt"

// Action names a claim command.
type Action string

const (
	ActionApprove                    Action = "approve"
	ActionReject                     Action = "reject"
	ActionComplete                   Action = "complete"
	ActionCancel                     Action = "cancel"
	ActionRegisterReturnShipping     Action = "registerReturnShipping"
	ActionScheduleReturnPickup       Action = "scheduleReturnPickup"
	ActionUpdateReturnShippingStatus Action = "updateReturnShippingStatus"
	ActionConfirmReturnReceived      Action = "confirmReturnReceived"
	ActionRegisterExchangeShipping   Action = "registerExchangeShipping"
	ActionConfirmExchangeDelivered   Action = "confirmExchangeDelivered"
)

type transitionRule struct {
	from []ClaimStatus
	to   ClaimStatus
}

// The whole claim status graph. Guards that depend on claim type or on the
// return shipping sub-state are checked by the Claim methods after this lookup.
var transitions = map[Action]transitionRule{
	ActionApprove: {
		from: []ClaimStatus{ClaimStatusRequested},
		to:   ClaimStatusApproved,
	},
	ActionReject: {
		from: []ClaimStatus{ClaimStatusRequested},
		to:   ClaimStatusRejected,
	},
	ActionRegisterReturnShipping: {
		from: []ClaimStatus{ClaimStatusApproved, ClaimStatusInProgress},
		to:   ClaimStatusInProgress,
	},
	ActionScheduleReturnPickup: {
		from: []ClaimStatus{ClaimStatusApproved, ClaimStatusInProgress},
		to:   ClaimStatusInProgress,
	},
	ActionUpdateReturnShippingStatus: {
		from: []ClaimStatus{ClaimStatusInProgress},
		to:   ClaimStatusInProgress,
	},
	ActionConfirmReturnReceived: {
		from: []ClaimStatus{ClaimStatusInProgress},
		to:   ClaimStatusInProgress,
	},
	ActionComplete: {
		from: []ClaimStatus{ClaimStatusInProgress},
		to:   ClaimStatusCompleted,
	},
	ActionRegisterExchangeShipping: {
		from: []ClaimStatus{ClaimStatusApproved, ClaimStatusInProgress},
		to:   ClaimStatusInProgress,
	},
	ActionConfirmExchangeDelivered: {
		from: []ClaimStatus{ClaimStatusInProgress},
		to:   ClaimStatusCompleted,
	},
	ActionCancel: {
		from: []ClaimStatus{ClaimStatusRequested, ClaimStatusApproved, ClaimStatusInProgress},
		to:   ClaimStatusCancelled,
	},
}

// Actions lists every claim command.
func Actions() []Action {
	return []Action{
		ActionApprove,
		ActionReject,
		ActionComplete,
		ActionCancel,
		ActionRegisterReturnShipping,
		ActionScheduleReturnPickup,
		ActionUpdateReturnShippingStatus,
		ActionConfirmReturnReceived,
		ActionRegisterExchangeShipping,
		ActionConfirmExchangeDelivered,
	}
}

// Transition returns the status a claim moves to when action is applied in
// status current, or a *StatusConflictError when the graph has no such edge.
func Transition(current ClaimStatus, action Action) (ClaimStatus, error) {
	rule, ok := transitions[action]
	if !ok {
		return current, NewValidationError("action", fmt.Sprintf("unknown action %q", action))
	}
	for _, s := range rule.from {
		if s == current {
			return rule.to, nil
		}
	}
	return current, conflict(action, current, "")
}
