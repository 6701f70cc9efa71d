package claims_api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/BearBump/ClaimBox/internal/services/claims"
	"github.com/go-chi/chi/v5"
)

type fileClaimRequest struct {
	OrderID      uint64           `json:"orderId"`
	OrderItemID  uint64           `json:"orderItemId"`
	ClaimType    models.ClaimType `json:"claimType"`
	ReasonCode   string           `json:"reasonCode"`
	ReasonDetail string           `json:"reasonDetail"`
	Quantity     int              `json:"quantity"`
	CustomerID   string           `json:"customerId"`
}

type rejectRequest struct {
	RejectReason string `json:"rejectReason"`
}

type cancelRequest struct {
	CancelReason string `json:"cancelReason"`
}

type returnShippingRequest struct {
	TrackingNumber string                `json:"trackingNumber"`
	Carrier        string                `json:"carrier"`
	ShippingMethod models.ShippingMethod `json:"shippingMethod"`
}

type returnPickupRequest struct {
	PickupScheduledAt time.Time `json:"pickupScheduledAt"`
	PickupAddress     string    `json:"pickupAddress"`
	PickupPhone       string    `json:"pickupPhone"`
}

type returnShippingStatusRequest struct {
	ReturnShippingStatus models.ReturnShippingStatus `json:"returnShippingStatus"`
}

type returnReceivedRequest struct {
	InspectionResult models.InspectionResult `json:"inspectionResult"`
	InspectionNote   string                  `json:"inspectionNote"`
}

type exchangeShippingRequest struct {
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier"`
}

type claimPageResponse struct {
	Content     []models.Claim `json:"content"`
	HasNext     bool           `json:"hasNext"`
	LastClaimID uint64         `json:"lastClaimId,omitempty"`
}

func (a *ClaimsAPI) fileClaim(w http.ResponseWriter, r *http.Request) {
	var req fileClaimRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := a.svc.FileClaim(r.Context(), claims.FileClaimInput{
		OrderID:      req.OrderID,
		OrderItemID:  req.OrderItemID,
		Type:         req.ClaimType,
		ReasonCode:   req.ReasonCode,
		ReasonDetail: strings.TrimSpace(req.ReasonDetail),
		Quantity:     req.Quantity,
		CustomerID:   strings.TrimSpace(req.CustomerID),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *ClaimsAPI) listClaims(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := a.svc.ListClaims(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, claimPageResponse{
		Content:     page.Content,
		HasNext:     page.HasNext,
		LastClaimID: page.LastClaimID,
	})
}

func (a *ClaimsAPI) getClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	c, err := a.svc.GetClaim(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *ClaimsAPI) approve(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	_, err := a.svc.Approve(r.Context(), id, adminFrom(r))
	respondEmpty(w, r, err)
}

func (a *ClaimsAPI) reject(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	var req rejectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	_, err := a.svc.Reject(r.Context(), id, adminFrom(r), models.RejectCommand{RejectReason: req.RejectReason})
	respondEmpty(w, r, err)
}

func (a *ClaimsAPI) complete(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	_, err := a.svc.Complete(r.Context(), id, adminFrom(r))
	respondEmpty(w, r, err)
}

func (a *ClaimsAPI) cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	var req cancelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	_, err := a.svc.Cancel(r.Context(), id, adminFrom(r), models.CancelCommand{CancelReason: req.CancelReason})
	respondEmpty(w, r, err)
}

func (a *ClaimsAPI) registerReturnShipping(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	var req returnShippingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := a.svc.RegisterReturnShipping(r.Context(), id, adminFrom(r), models.RegisterReturnShippingCommand{
		TrackingNumber: strings.TrimSpace(req.TrackingNumber),
		Carrier:        strings.TrimSpace(req.Carrier),
		ShippingMethod: req.ShippingMethod,
	})
	respondClaim(w, r, c, err)
}

func (a *ClaimsAPI) scheduleReturnPickup(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	var req returnPickupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := a.svc.ScheduleReturnPickup(r.Context(), id, adminFrom(r), models.ScheduleReturnPickupCommand{
		PickupScheduledAt: req.PickupScheduledAt,
		PickupAddress:     strings.TrimSpace(req.PickupAddress),
		PickupPhone:       strings.TrimSpace(req.PickupPhone),
	})
	respondClaim(w, r, c, err)
}

func (a *ClaimsAPI) updateReturnShippingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	var req returnShippingStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := a.svc.UpdateReturnShippingStatus(r.Context(), id, adminFrom(r), models.UpdateReturnShippingStatusCommand{
		ReturnShippingStatus: req.ReturnShippingStatus,
	})
	respondClaim(w, r, c, err)
}

func (a *ClaimsAPI) confirmReturnReceived(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	var req returnReceivedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := a.svc.ConfirmReturnReceived(r.Context(), id, adminFrom(r), models.ConfirmReturnReceivedCommand{
		InspectionResult: req.InspectionResult,
		InspectionNote:   req.InspectionNote,
	})
	respondClaim(w, r, c, err)
}

func (a *ClaimsAPI) registerExchangeShipping(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	var req exchangeShippingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := a.svc.RegisterExchangeShipping(r.Context(), id, adminFrom(r), models.RegisterExchangeShippingCommand{
		TrackingNumber: strings.TrimSpace(req.TrackingNumber),
		Carrier:        strings.TrimSpace(req.Carrier),
	})
	respondClaim(w, r, c, err)
}

func (a *ClaimsAPI) confirmExchangeDelivered(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	c, err := a.svc.ConfirmExchangeDelivered(r.Context(), id, adminFrom(r))
	respondClaim(w, r, c, err)
}

func respondEmpty(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func respondClaim(w http.ResponseWriter, r *http.Request, c models.Claim, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func claimID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "claimId"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, r, models.NewValidationError("claimId", "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// parseFilter accepts repeated and comma separated claimStatuses / claimTypes.
func parseFilter(r *http.Request) (models.ClaimFilter, error) {
	q := r.URL.Query()
	var f models.ClaimFilter
	for _, s := range splitValues(q["claimStatuses"]) {
		f.Statuses = append(f.Statuses, models.ClaimStatus(strings.ToUpper(s)))
	}
	for _, t := range splitValues(q["claimTypes"]) {
		f.Types = append(f.Types, models.ClaimType(strings.ToUpper(t)))
	}
	if v := q.Get("lastClaimId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, models.NewValidationError("lastClaimId", "must be a positive integer")
		}
		f.LastClaimID = id
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return f, models.NewValidationError("pageSize", "must be between 1 and 100")
		}
		f.PageSize = n
	}
	return f, nil
}

func splitValues(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
