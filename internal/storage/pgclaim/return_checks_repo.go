package pgclaim

import (
	"context"
	"time"

	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// ClaimDueReturnChecks picks in-progress return legs whose next carrier check is due
// and leases them until now+lease so that concurrent workers skip them.
// Uses SELECT ... FOR UPDATE SKIP LOCKED.
func (s *Storage) ClaimDueReturnChecks(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*models.ReturnCheck, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
SELECT
  id, return_carrier, return_tracking_number, return_shipping_status,
  return_next_check_at, return_check_fail_count
FROM claims
WHERE status = $1
  AND return_shipping_status IN ($2, $3)
  AND return_tracking_number <> ''
  AND return_next_check_at <= $4
ORDER BY return_next_check_at ASC
LIMIT $5
FOR UPDATE SKIP LOCKED
`, string(models.ClaimStatusInProgress),
		string(models.ReturnShippingPickupScheduled), string(models.ReturnShippingInTransit),
		now.UTC(), limit)
	if err != nil {
		return nil, errors.Wrap(err, "select due return checks")
	}
	defer rows.Close()

	var picked []*models.ReturnCheck
	for rows.Next() {
		var rc models.ReturnCheck
		var status string
		if err := rows.Scan(
			&rc.ClaimID, &rc.Carrier, &rc.TrackingNumber, &status,
			&rc.NextCheckAt, &rc.CheckFailCount,
		); err != nil {
			return nil, errors.Wrap(err, "scan due return check")
		}
		rc.Status = models.ReturnShippingStatus(status)
		picked = append(picked, &rc)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}

	leaseUntil := now.UTC().Add(lease)
	for _, rc := range picked {
		_, err := tx.Exec(ctx, `UPDATE claims SET return_next_check_at = $2 WHERE id = $1`, rc.ClaimID, leaseUntil)
		if err != nil {
			return nil, errors.Wrap(err, "lease return check")
		}
		rc.NextCheckAt = leaseUntil
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "commit tx")
	}
	return picked, nil
}

// ScheduleReturnCheck records the outcome of a carrier check. It only touches the
// polling columns, never the claim snapshot or its version.
func (s *Storage) ScheduleReturnCheck(ctx context.Context, claimID uint64, nextCheckAt time.Time, checkErr *string) error {
	if checkErr != nil && *checkErr != "" {
		_, err := s.db.Exec(ctx, `
UPDATE claims
SET
  return_check_fail_count = return_check_fail_count + 1,
  return_last_error = $3,
  return_next_check_at = $2
WHERE id = $1 AND return_next_check_at IS NOT NULL
`, claimID, nextCheckAt.UTC(), *checkErr)
		return errors.Wrap(err, "schedule return check (error)")
	}

	_, err := s.db.Exec(ctx, `
UPDATE claims
SET
  return_check_fail_count = 0,
  return_last_error = NULL,
  return_next_check_at = $2
WHERE id = $1 AND return_next_check_at IS NOT NULL
`, claimID, nextCheckAt.UTC())
	return errors.Wrap(err, "schedule return check")
}
