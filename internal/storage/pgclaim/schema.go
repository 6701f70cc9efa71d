package pgclaim

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS claims (
  id BIGSERIAL PRIMARY KEY,
  claim_number TEXT NOT NULL,
  order_id BIGINT NOT NULL,
  order_item_id BIGINT NOT NULL,
  claim_type TEXT NOT NULL,
  reason_code TEXT NOT NULL,
  reason_detail TEXT NOT NULL DEFAULT '',
  quantity INT NOT NULL,
  refund_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  approved_by TEXT NOT NULL DEFAULT '',
  approved_at TIMESTAMPTZ NULL,
  reject_reason TEXT NOT NULL DEFAULT '',
  cancel_reason TEXT NOT NULL DEFAULT '',
  return_tracking_number TEXT NOT NULL DEFAULT '',
  return_carrier TEXT NOT NULL DEFAULT '',
  shipping_method TEXT NOT NULL DEFAULT '',
  return_shipping_status TEXT NOT NULL DEFAULT 'PENDING',
  return_pickup_scheduled_at TIMESTAMPTZ NULL,
  pickup_address TEXT NOT NULL DEFAULT '',
  pickup_phone TEXT NOT NULL DEFAULT '',
  return_received_at TIMESTAMPTZ NULL,
  inspection_result TEXT NOT NULL DEFAULT '',
  inspection_note TEXT NOT NULL DEFAULT '',
  exchange_tracking_number TEXT NOT NULL DEFAULT '',
  exchange_carrier TEXT NOT NULL DEFAULT '',
  exchange_shipped_at TIMESTAMPTZ NULL,
  exchange_delivered_at TIMESTAMPTZ NULL,
  return_next_check_at TIMESTAMPTZ NULL,
  return_check_fail_count INT NOT NULL DEFAULT 0,
  return_last_error TEXT NULL,
  version BIGINT NOT NULL DEFAULT 1,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  UNIQUE (claim_number)
)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_status_id ON claims(status, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_type_id ON claims(claim_type, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_order_item ON claims(order_id, order_item_id)`,
		// Only in-progress return legs are ever polled.
		`CREATE INDEX IF NOT EXISTS idx_claims_return_next_check_at ON claims(return_next_check_at) WHERE status = 'IN_PROGRESS'`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
