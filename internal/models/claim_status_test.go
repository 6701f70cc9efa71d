package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransition_Matrix(t *testing.T) {
	allowed := map[Action]map[ClaimStatus]ClaimStatus{
		ActionApprove: {ClaimStatusRequested: ClaimStatusApproved},
		ActionReject:  {ClaimStatusRequested: ClaimStatusRejected},
		ActionRegisterReturnShipping: {
			ClaimStatusApproved:   ClaimStatusInProgress,
			ClaimStatusInProgress: ClaimStatusInProgress,
		},
		ActionScheduleReturnPickup: {
			ClaimStatusApproved:   ClaimStatusInProgress,
			ClaimStatusInProgress: ClaimStatusInProgress,
		},
		ActionUpdateReturnShippingStatus: {ClaimStatusInProgress: ClaimStatusInProgress},
		ActionConfirmReturnReceived:      {ClaimStatusInProgress: ClaimStatusInProgress},
		ActionComplete:                   {ClaimStatusInProgress: ClaimStatusCompleted},
		ActionRegisterExchangeShipping: {
			ClaimStatusApproved:   ClaimStatusInProgress,
			ClaimStatusInProgress: ClaimStatusInProgress,
		},
		ActionConfirmExchangeDelivered: {ClaimStatusInProgress: ClaimStatusCompleted},
		ActionCancel: {
			ClaimStatusRequested:  ClaimStatusCancelled,
			ClaimStatusApproved:   ClaimStatusCancelled,
			ClaimStatusInProgress: ClaimStatusCancelled,
		},
	}

	for _, action := range Actions() {
		for _, status := range ClaimStatuses() {
			got, err := Transition(status, action)
			want, ok := allowed[action][status]
			if ok {
				require.NoError(t, err, "%s from %s", action, status)
				require.Equal(t, want, got, "%s from %s", action, status)
				continue
			}
			require.Error(t, err, "%s from %s", action, status)
			require.True(t, IsStatusConflict(err), "%s from %s", action, status)
			require.Equal(t, status, got)

			var sc *StatusConflictError
			require.ErrorAs(t, err, &sc)
			require.Equal(t, action, sc.Action)
			require.Equal(t, status, sc.Status)
		}
	}
}

func TestTransition_TerminalStatesAbsorb(t *testing.T) {
	for _, status := range ClaimStatuses() {
		if !status.Terminal() {
			continue
		}
		for _, action := range Actions() {
			_, err := Transition(status, action)
			require.True(t, IsStatusConflict(err), "%s from terminal %s", action, status)
		}
	}
}

func TestTransition_UnknownAction(t *testing.T) {
	_, err := Transition(ClaimStatusRequested, Action("teleport"))
	require.ErrorAs(t, err, new(*ValidationError))
}

func TestReturnShippingStatus_CanAdvanceTo(t *testing.T) {
	require.True(t, ReturnShippingPending.CanAdvanceTo(ReturnShippingPickupScheduled))
	require.True(t, ReturnShippingPending.CanAdvanceTo(ReturnShippingReceived))
	require.True(t, ReturnShippingPickupScheduled.CanAdvanceTo(ReturnShippingInTransit))
	require.True(t, ReturnShippingInTransit.CanAdvanceTo(ReturnShippingReceived))

	require.False(t, ReturnShippingInTransit.CanAdvanceTo(ReturnShippingInTransit))
	require.False(t, ReturnShippingReceived.CanAdvanceTo(ReturnShippingInTransit))
	require.False(t, ReturnShippingInTransit.CanAdvanceTo(ReturnShippingPickupScheduled))
	require.False(t, ReturnShippingPending.CanAdvanceTo("LOST"))
}
