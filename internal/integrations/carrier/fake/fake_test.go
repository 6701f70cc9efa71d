package fake

import (
	"context"
	"fmt"
	"testing"

	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/stretchr/testify/require"
)

func TestClient_Track_Deterministic(t *testing.T) {
	c := New()
	var delivered int
	for i := 0; i < 30; i++ {
		tn := fmt.Sprintf("T%d", i)
		res, err := c.Track(context.Background(), "CJ", tn)
		require.NoError(t, err)
		require.NotNil(t, res.StatusAt)
		require.Len(t, res.Events, 1)

		again, err := c.Track(context.Background(), "CJ", tn)
		require.NoError(t, err)
		require.Equal(t, res.Status, again.Status)

		if res.Status == models.CarrierStatusDelivered {
			require.True(t, Delivered("CJ", tn))
			delivered++
		} else {
			require.Equal(t, models.CarrierStatusInTransit, res.Status)
		}
	}
	require.Positive(t, delivered)
}

func TestClient_Track_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Track(ctx, "CJ", "1")
	require.ErrorIs(t, err, context.Canceled)
}
