package claims_api

import (
	"context"
	"net/http"

	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/BearBump/ClaimBox/internal/services/claims"
	"github.com/go-chi/chi/v5"
)

// AdminHeader carries the acting admin id on every mutation.
const AdminHeader = "X-Admin-Id"

type ClaimService interface {
	FileClaim(ctx context.Context, in claims.FileClaimInput) (models.Claim, error)
	GetClaim(ctx context.Context, claimID uint64) (models.Claim, error)
	ListClaims(ctx context.Context, f models.ClaimFilter) (models.ClaimPage, error)

	Approve(ctx context.Context, claimID uint64, adminID string) (models.Claim, error)
	Reject(ctx context.Context, claimID uint64, adminID string, cmd models.RejectCommand) (models.Claim, error)
	Complete(ctx context.Context, claimID uint64, adminID string) (models.Claim, error)
	Cancel(ctx context.Context, claimID uint64, adminID string, cmd models.CancelCommand) (models.Claim, error)
	RegisterReturnShipping(ctx context.Context, claimID uint64, adminID string, cmd models.RegisterReturnShippingCommand) (models.Claim, error)
	ScheduleReturnPickup(ctx context.Context, claimID uint64, adminID string, cmd models.ScheduleReturnPickupCommand) (models.Claim, error)
	UpdateReturnShippingStatus(ctx context.Context, claimID uint64, adminID string, cmd models.UpdateReturnShippingStatusCommand) (models.Claim, error)
	ConfirmReturnReceived(ctx context.Context, claimID uint64, adminID string, cmd models.ConfirmReturnReceivedCommand) (models.Claim, error)
	RegisterExchangeShipping(ctx context.Context, claimID uint64, adminID string, cmd models.RegisterExchangeShippingCommand) (models.Claim, error)
	ConfirmExchangeDelivered(ctx context.Context, claimID uint64, adminID string) (models.Claim, error)
}

type ClaimsAPI struct {
	svc ClaimService
}

func New(svc ClaimService) *ClaimsAPI {
	return &ClaimsAPI{svc: svc}
}

// Mount registers the customer and admin claim routes under /api/v1.
func (a *ClaimsAPI) Mount(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/claims", a.fileClaim)

		r.Route("/admin/claims", func(r chi.Router) {
			r.Get("/", a.listClaims)
			r.Get("/{claimId}", a.getClaim)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/{claimId}/approve", a.approve)
				r.Post("/{claimId}/reject", a.reject)
				r.Post("/{claimId}/complete", a.complete)
				r.Post("/{claimId}/cancel", a.cancel)
				r.Post("/{claimId}/return-shipping", a.registerReturnShipping)
				r.Post("/{claimId}/return-pickup", a.scheduleReturnPickup)
				r.Patch("/{claimId}/return-shipping/status", a.updateReturnShippingStatus)
				r.Post("/{claimId}/return-received", a.confirmReturnReceived)
				r.Post("/{claimId}/exchange-shipping", a.registerExchangeShipping)
				r.Post("/{claimId}/exchange-delivered", a.confirmExchangeDelivered)
			})
		})
	})
}

// Handler is a standalone router with the claim routes, for tests and embedding.
func (a *ClaimsAPI) Handler() http.Handler {
	r := chi.NewRouter()
	a.Mount(r)
	return r
}
