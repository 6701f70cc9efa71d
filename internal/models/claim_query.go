package models

const (
	DefaultClaimPageSize = 20
	MaxClaimPageSize     = 100
)

// ClaimFilter selects claims for the admin listing. Empty slices match everything.
type ClaimFilter struct {
	Statuses []ClaimStatus
	Types    []ClaimType
	// LastClaimID is the exclusive cursor: only claims with a smaller id are returned.
	LastClaimID uint64
	PageSize    int
}

func (f ClaimFilter) Validate() error {
	for _, s := range f.Statuses {
		if !s.Valid() {
			return NewValidationError("claimStatuses", "unknown status "+string(s))
		}
	}
	for _, t := range f.Types {
		if !t.Valid() {
			return NewValidationError("claimTypes", "unknown claim type "+string(t))
		}
	}
	if f.PageSize < 0 || f.PageSize > MaxClaimPageSize {
		return NewValidationError("pageSize", "must be between 1 and 100")
	}
	return nil
}

// Normalized returns the filter with the default page size applied.
func (f ClaimFilter) Normalized() ClaimFilter {
	if f.PageSize == 0 {
		f.PageSize = DefaultClaimPageSize
	}
	return f
}

type ClaimPage struct {
	Content []Claim
	HasNext bool
	// LastClaimID is the cursor for the next page, zero when the page is empty.
	LastClaimID uint64
}

// NewClaimPage trims a result fetched with one extra row into a page.
func NewClaimPage(rows []Claim, pageSize int) ClaimPage {
	page := ClaimPage{Content: rows}
	if len(rows) > pageSize {
		page.Content = rows[:pageSize]
		page.HasNext = true
	}
	if page.Content == nil {
		page.Content = []Claim{}
	}
	if n := len(page.Content); n > 0 {
		page.LastClaimID = page.Content[n-1].ID
	}
	return page
}
