package claims_api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/pkg/errors"
)

type errorBody struct {
	Code          string             `json:"code"`
	Message       string             `json:"message"`
	Field         string             `json:"field,omitempty"`
	Action        models.Action      `json:"action,omitempty"`
	CurrentStatus models.ClaimStatus `json:"currentStatus,omitempty"`
}

type adminKey struct{}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin := strings.TrimSpace(r.Header.Get(AdminHeader))
		if admin == "" {
			writeJSON(w, http.StatusBadRequest, errorBody{Code: "missing_admin", Message: AdminHeader + " header is required"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey{}, admin)))
	})
}

func adminFrom(r *http.Request) string {
	s, _ := r.Context().Value(adminKey{}).(string)
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err.Error())
	}
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognised is
// treated as an infrastructure failure.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var sc *models.StatusConflictError
	var ve *models.ValidationError
	switch {
	case errors.As(err, &sc):
		writeJSON(w, http.StatusConflict, errorBody{
			Code:          "status_conflict",
			Message:       sc.Error(),
			Action:        sc.Action,
			CurrentStatus: sc.Status,
		})
	case models.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorBody{Code: "not_found", Message: err.Error()})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "validation_error", Message: ve.Error(), Field: ve.Field})
	default:
		slog.Error("claim request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Code: "unavailable", Message: "claim storage is unavailable"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "invalid_json", Message: err.Error()})
		return false
	}
	return true
}
