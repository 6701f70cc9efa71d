package pgclaim

import (
	"context"
	"testing"
	"time"

	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *Storage {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "admin",
			"POSTGRES_PASSWORD": "admin",
			"POSTGRES_DB":       "claimbox_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := "postgres://admin:admin@" + host + ":" + port.Port() + "/claimbox_test?sslmode=disable"
	st, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

func newClaim(t *testing.T, number string, typ models.ClaimType) models.Claim {
	t.Helper()
	c, err := models.NewClaim(models.NewClaimInput{
		ClaimNumber:  number,
		OrderID:      100,
		OrderItemID:  200,
		Type:         typ,
		ReasonCode:   "WRONG_SIZE",
		Quantity:     1,
		RefundAmount: decimal.RequireFromString("25.50"),
	}, time.Now())
	require.NoError(t, err)
	return c
}

func TestPGClaim_RepoFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	st := startPostgres(t)
	ctx := context.Background()

	created, err := st.CreateClaim(ctx, newClaim(t, "CLM-1", models.ClaimTypeReturn))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, int64(1), created.Version)
	require.True(t, decimal.RequireFromString("25.50").Equal(created.RefundAmount))

	_, err = st.GetClaim(ctx, created.ID+1000)
	require.ErrorIs(t, err, models.ErrClaimNotFound)

	now := time.Now().UTC()
	approved, err := created.Approve("admin-7", now)
	require.NoError(t, err)
	saved, err := st.SaveClaim(ctx, approved)
	require.NoError(t, err)
	require.Equal(t, int64(2), saved.Version)
	require.Equal(t, "admin-7", saved.ApprovedBy)

	// a writer holding the old snapshot loses
	rejected, err := created.Reject(models.RejectCommand{RejectReason: "late"}, now)
	require.NoError(t, err)
	_, err = st.SaveClaim(ctx, rejected)
	require.ErrorIs(t, err, models.ErrVersionConflict)

	shipping, err := saved.RegisterReturnShipping(models.RegisterReturnShippingCommand{TrackingNumber: "1234567890", Carrier: "CJ"}, now)
	require.NoError(t, err)
	saved, err = st.SaveClaim(ctx, shipping)
	require.NoError(t, err)

	got, err := st.GetClaim(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, models.ClaimStatusInProgress, got.Status)
	require.Equal(t, "CJ", got.ReturnLeg().Carrier)
	require.Equal(t, "1234567890", got.ReturnLeg().TrackingNumber)
	require.Equal(t, models.ReturnShippingInTransit, got.ReturnLeg().Status)

	missing := got
	missing.ID = got.ID + 1000
	_, err = st.SaveClaim(ctx, missing)
	require.ErrorIs(t, err, models.ErrClaimNotFound)

	// the in-transit leg is now due for a carrier check
	due, err := st.ClaimDueReturnChecks(ctx, time.Now().UTC().Add(time.Second), 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, got.ID, due[0].ClaimID)
	require.Equal(t, "CJ", due[0].Carrier)

	again, err := st.ClaimDueReturnChecks(ctx, time.Now().UTC().Add(time.Second), 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, again, 0, "leased")

	msg := "carrier down"
	require.NoError(t, st.ScheduleReturnCheck(ctx, got.ID, time.Now().UTC().Add(-time.Second), &msg))
	due, err = st.ClaimDueReturnChecks(ctx, time.Now().UTC(), 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, int32(1), due[0].CheckFailCount)
}

func TestPGClaim_ListClaims_CursorAndFilters(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	st := startPostgres(t)
	ctx := context.Background()

	var ids []uint64
	for i, typ := range []models.ClaimType{
		models.ClaimTypeReturn, models.ClaimTypeExchange, models.ClaimTypeReturn, models.ClaimTypeExchange, models.ClaimTypeReturn,
	} {
		c, err := st.CreateClaim(ctx, newClaim(t, "CLM-L"+string(rune('A'+i)), typ))
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	all, err := st.ListClaims(ctx, models.ClaimFilter{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, all, 3, "page size + 1")
	require.Equal(t, ids[4], all[0].ID)
	require.Equal(t, ids[3], all[1].ID)

	next, err := st.ListClaims(ctx, models.ClaimFilter{PageSize: 10, LastClaimID: ids[2]})
	require.NoError(t, err)
	require.Len(t, next, 2)
	for _, c := range next {
		require.Less(t, c.ID, ids[2])
	}

	exchanges, err := st.ListClaims(ctx, models.ClaimFilter{Types: []models.ClaimType{models.ClaimTypeExchange}, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, exchanges, 2)

	none, err := st.ListClaims(ctx, models.ClaimFilter{Statuses: []models.ClaimStatus{models.ClaimStatusCompleted}, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, none, 0)

	now := time.Now().UTC()
	for _, id := range ids[:2] {
		c, err := st.GetClaim(ctx, id)
		require.NoError(t, err)
		approved, err := c.Approve("admin-1", now)
		require.NoError(t, err)
		_, err = st.SaveClaim(ctx, approved)
		require.NoError(t, err)
	}
	c, err := st.GetClaim(ctx, ids[2])
	require.NoError(t, err)
	rejected, err := c.Reject(models.RejectCommand{RejectReason: "late"}, now)
	require.NoError(t, err)
	_, err = st.SaveClaim(ctx, rejected)
	require.NoError(t, err)

	decided, err := st.ListClaims(ctx, models.ClaimFilter{
		Statuses: []models.ClaimStatus{models.ClaimStatusApproved, models.ClaimStatusRejected},
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, decided, 3)
	require.Equal(t, []uint64{ids[2], ids[1], ids[0]}, []uint64{decided[0].ID, decided[1].ID, decided[2].ID})

	approvedExchanges, err := st.ListClaims(ctx, models.ClaimFilter{
		Statuses: []models.ClaimStatus{models.ClaimStatusApproved},
		Types:    []models.ClaimType{models.ClaimTypeExchange},
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, approvedExchanges, 1)
	require.Equal(t, ids[1], approvedExchanges[0].ID)
}
