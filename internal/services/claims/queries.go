package claims

import (
	"context"
	"encoding/json"

	"github.com/BearBump/ClaimBox/internal/models"
)

// GetClaim serves the current snapshot, from cache when possible. Commands never
// read through here.
func (s *Service) GetClaim(ctx context.Context, claimID uint64) (models.Claim, error) {
	if s.cacheEnabled() {
		b, ok, err := s.cache.Get(ctx, currentKey(claimID))
		if err == nil && ok {
			var c models.Claim
			if json.Unmarshal(b, &c) == nil && c.ID == claimID {
				return c, nil
			}
		}
	}

	c, err := s.repo.GetClaim(ctx, claimID)
	if err != nil {
		return models.Claim{}, err
	}
	s.storeCurrent(ctx, c)
	return c, nil
}

// ListClaims returns one page ordered by claim id descending.
func (s *Service) ListClaims(ctx context.Context, f models.ClaimFilter) (models.ClaimPage, error) {
	if err := f.Validate(); err != nil {
		return models.ClaimPage{}, err
	}
	f = f.Normalized()

	rows, err := s.repo.ListClaims(ctx, f)
	if err != nil {
		return models.ClaimPage{}, err
	}
	return models.NewClaimPage(rows, f.PageSize), nil
}
