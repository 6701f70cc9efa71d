package claims_api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/BearBump/ClaimBox/internal/services/claims"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) FileClaim(ctx context.Context, in claims.FileClaimInput) (models.Claim, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Claim), args.Error(1)
}

func (m *serviceMock) GetClaim(ctx context.Context, claimID uint64) (models.Claim, error) {
	args := m.Called(ctx, claimID)
	return args.Get(0).(models.Claim), args.Error(1)
}

func (m *serviceMock) ListClaims(ctx context.Context, f models.ClaimFilter) (models.ClaimPage, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.ClaimPage), args.Error(1)
}

func (m *serviceMock) Approve(ctx context.Context, claimID uint64, adminID string) (models.Claim, error) {
	args := m.Called(ctx, claimID, adminID)
	return args.Get(0).(models.Claim), args.Error(1)
}

func (m *serviceMock) Reject(ctx context.Context, claimID uint64, adminID string, cmd models.RejectCommand) (models.Claim, error) {
	args := m.Called(ctx, claimID, adminID, cmd)
	return args.Get(0).(models.Claim), args.Error(1)
}

func (m *serviceMock) Complete(ctx context.Context, claimID uint64, adminID string) (models.Claim, error) {
	args := m.Called(ctx, claimID, adminID)
	return args.Get(0).(models.Claim), args.Error(1)
}

func (m *serviceMock) Cancel(ctx context.Context, claimID uint64, adminID string, cmd models.CancelCommand) (models.Claim, error) {
	args := m.Called(ctx, claimID, adminID, cmd)
	return args.Get(0).(models.Claim), args.Error(1)
}

func (m *serviceMock) RegisterReturnShipping(ctx context.Context, claimID uint64, adminID string, cmd models.RegisterReturnShippingCommand) (models.Claim, error) {
	args := m.Called(ctx, claimID, adminID, cmd)
	return args.Get(0).(models.Claim), args.Error(1)
}

func (m *serviceMock) ScheduleReturnPickup(ctx context.Context, claimID uint64, adminID string, cmd models.ScheduleReturnPickupCommand) (models.Claim, error) {
	args := m.Called(ctx, claimID, adminID, cmd)
	return args.Get(0).(models.Claim), args.Error(1)
}

func (m *serviceMock) UpdateReturnShippingStatus(ctx context.Context, claimID uint64, adminID string, cmd models.UpdateReturnShippingStatusCommand) (models.Claim, error) {
	args := m.Called(ctx, claimID, adminID, cmd)
	return args.Get(0).(models.Claim), args.Error(1)
}

func (m *serviceMock) ConfirmReturnReceived(ctx context.Context, claimID uint64, adminID string, cmd models.ConfirmReturnReceivedCommand) (models.Claim, error) {
	args := m.Called(ctx, claimID, adminID, cmd)
	return args.Get(0).(models.Claim), args.Error(1)
}

func (m *serviceMock) RegisterExchangeShipping(ctx context.Context, claimID uint64, adminID string, cmd models.RegisterExchangeShippingCommand) (models.Claim, error) {
	args := m.Called(ctx, claimID, adminID, cmd)
	return args.Get(0).(models.Claim), args.Error(1)
}

func (m *serviceMock) ConfirmExchangeDelivered(ctx context.Context, claimID uint64, adminID string) (models.Claim, error) {
	args := m.Called(ctx, claimID, adminID)
	return args.Get(0).(models.Claim), args.Error(1)
}

type APISuite struct {
	suite.Suite
	svc *serviceMock
	h   http.Handler
}

func (s *APISuite) SetupTest() {
	s.svc = &serviceMock{}
	s.h = New(s.svc).Handler()
}

func (s *APISuite) TearDownTest() {
	s.svc.AssertExpectations(s.T())
}

func (s *APISuite) do(method, path, admin, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if admin != "" {
		req.Header.Set(AdminHeader, admin)
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func sampleClaim(id uint64) models.Claim {
	c, _ := models.NewClaim(models.NewClaimInput{
		ClaimNumber:  "CLM-20260101-AAAAAAAA",
		OrderID:      1,
		OrderItemID:  2,
		Type:         models.ClaimTypeReturn,
		ReasonCode:   "DEFECT",
		Quantity:     1,
		RefundAmount: decimal.RequireFromString("15.00"),
	}, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	c.ID = id
	c.Version = 1
	return c
}

func (s *APISuite) TestApprove_OK_EmptyBody() {
	s.svc.On("Approve", mock.Anything, uint64(5), "admin-1").Return(sampleClaim(5), nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/admin/claims/5/approve", "admin-1", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Empty(rec.Body.String())
}

func (s *APISuite) TestMutation_RequiresAdminHeader() {
	rec := s.do(http.MethodPost, "/api/v1/admin/claims/5/approve", "", "")
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().Equal("missing_admin", s.decode(rec)["code"])
	s.svc.AssertNotCalled(s.T(), "Approve", mock.Anything, mock.Anything, mock.Anything)
}

func (s *APISuite) TestReject_OnCompleted_Conflict() {
	s.svc.On("Reject", mock.Anything, uint64(6), "admin-1", models.RejectCommand{RejectReason: "late"}).
		Return(models.Claim{}, &models.StatusConflictError{Action: models.ActionReject, Status: models.ClaimStatusCompleted}).
		Once()

	rec := s.do(http.MethodPost, "/api/v1/admin/claims/6/reject", "admin-1", `{"rejectReason":"late"}`)
	s.Require().Equal(http.StatusConflict, rec.Code)
	body := s.decode(rec)
	s.Require().Equal("status_conflict", body["code"])
	s.Require().Equal("reject", body["action"])
	s.Require().Equal("COMPLETED", body["currentStatus"])
}

func (s *APISuite) TestComplete_OnRejected_Conflict() {
	s.svc.On("Complete", mock.Anything, uint64(7), "admin-1").
		Return(models.Claim{}, &models.StatusConflictError{Action: models.ActionComplete, Status: models.ClaimStatusRejected}).
		Once()

	rec := s.do(http.MethodPost, "/api/v1/admin/claims/7/complete", "admin-1", "")
	s.Require().Equal(http.StatusConflict, rec.Code)
	s.Require().Equal("REJECTED", s.decode(rec)["currentStatus"])
}

func (s *APISuite) TestNotFound() {
	s.svc.On("GetClaim", mock.Anything, uint64(404)).Return(models.Claim{}, models.ErrClaimNotFound).Once()
	s.svc.On("Approve", mock.Anything, uint64(404), "admin-1").Return(models.Claim{}, models.ErrClaimNotFound).Once()
	s.svc.On("Reject", mock.Anything, uint64(404), "admin-1", mock.Anything).Return(models.Claim{}, models.ErrClaimNotFound).Once()
	s.svc.On("RegisterReturnShipping", mock.Anything, uint64(404), "admin-1", mock.Anything).Return(models.Claim{}, models.ErrClaimNotFound).Once()

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/admin/claims/404", ""},
		{http.MethodPost, "/api/v1/admin/claims/404/approve", ""},
		{http.MethodPost, "/api/v1/admin/claims/404/reject", `{"rejectReason":"x"}`},
		{http.MethodPost, "/api/v1/admin/claims/404/return-shipping", `{"trackingNumber":"1","carrier":"CJ"}`},
	} {
		rec := s.do(tc.method, tc.path, "admin-1", tc.body)
		s.Require().Equal(http.StatusNotFound, rec.Code, tc.path)
		s.Require().Equal("not_found", s.decode(rec)["code"])
	}
}

func (s *APISuite) TestRegisterReturnShipping_RoundTrip() {
	c := sampleClaim(8)
	c, _ = c.Approve("admin-1", time.Now())
	c, _ = c.RegisterReturnShipping(models.RegisterReturnShippingCommand{TrackingNumber: "1234567890", Carrier: "CJ"}, time.Now())
	s.svc.On("RegisterReturnShipping", mock.Anything, uint64(8), "admin-1", models.RegisterReturnShippingCommand{
		TrackingNumber: "1234567890",
		Carrier:        "CJ",
	}).Return(c, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/admin/claims/8/return-shipping", "admin-1", `{"trackingNumber":" 1234567890 ","carrier":"CJ"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Require().Equal("CJ", body["returnCarrier"])
	s.Require().Equal("1234567890", body["returnTrackingNumber"])
	s.Require().Equal("IN_PROGRESS", body["status"])
	s.Require().Equal("IN_TRANSIT", body["returnShippingStatus"])
}

func (s *APISuite) TestListClaims_EmptyPage() {
	s.svc.On("ListClaims", mock.Anything, models.ClaimFilter{
		Statuses: []models.ClaimStatus{models.ClaimStatusCompleted, models.ClaimStatusRejected},
		Types:    []models.ClaimType{models.ClaimTypeExchange},
		PageSize: 10,
	}).Return(models.ClaimPage{Content: []models.Claim{}}, nil).Once()

	rec := s.do(http.MethodGet, "/api/v1/admin/claims/?claimStatuses=COMPLETED,rejected&claimTypes=EXCHANGE&pageSize=10", "", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`{"content":[],"hasNext":false}`, rec.Body.String())
}

func (s *APISuite) TestListClaims_Cursor() {
	s.svc.On("ListClaims", mock.Anything, models.ClaimFilter{LastClaimID: 50}).
		Return(models.ClaimPage{Content: []models.Claim{sampleClaim(49)}, HasNext: true, LastClaimID: 49}, nil).
		Once()

	rec := s.do(http.MethodGet, "/api/v1/admin/claims/?lastClaimId=50", "", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Require().Equal(true, body["hasNext"])
	s.Require().Equal(float64(49), body["lastClaimId"])
	s.Require().Len(body["content"], 1)
}

func (s *APISuite) TestBadInput() {
	rec := s.do(http.MethodGet, "/api/v1/admin/claims/?pageSize=abc", "", "")
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/claims/abc", "", "")
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().Equal("claimId", s.decode(rec)["field"])

	rec = s.do(http.MethodPost, "/api/v1/admin/claims/1/reject", "admin-1", `{"rejectReason":`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().Equal("invalid_json", s.decode(rec)["code"])

	s.svc.On("Reject", mock.Anything, uint64(1), "admin-1", models.RejectCommand{}).
		Return(models.Claim{}, models.NewValidationError("rejectReason", "is required")).
		Once()
	rec = s.do(http.MethodPost, "/api/v1/admin/claims/1/reject", "admin-1", `{}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().Equal("rejectReason", s.decode(rec)["field"])
}

func (s *APISuite) TestInfrastructureFailure_503() {
	s.svc.On("GetClaim", mock.Anything, uint64(9)).Return(models.Claim{}, errors.New("select claim: conn refused")).Once()

	rec := s.do(http.MethodGet, "/api/v1/admin/claims/9", "", "")
	s.Require().Equal(http.StatusServiceUnavailable, rec.Code)
	s.Require().NotContains(rec.Body.String(), "conn refused")
}

func (s *APISuite) TestReturnShippingCommands() {
	pickupAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	s.svc.On("ScheduleReturnPickup", mock.Anything, uint64(3), "admin-1", models.ScheduleReturnPickupCommand{
		PickupScheduledAt: pickupAt, PickupAddress: "Busan", PickupPhone: "010",
	}).Return(sampleClaim(3), nil).Once()
	s.svc.On("UpdateReturnShippingStatus", mock.Anything, uint64(3), "admin-1", models.UpdateReturnShippingStatusCommand{
		ReturnShippingStatus: models.ReturnShippingReceived,
	}).Return(sampleClaim(3), nil).Once()
	s.svc.On("ConfirmReturnReceived", mock.Anything, uint64(3), "admin-1", models.ConfirmReturnReceivedCommand{
		InspectionResult: models.InspectionPass, InspectionNote: "ok",
	}).Return(sampleClaim(3), nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/admin/claims/3/return-pickup", "admin-1",
		`{"pickupScheduledAt":"2026-02-01T09:00:00Z","pickupAddress":"Busan","pickupPhone":"010"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPatch, "/api/v1/admin/claims/3/return-shipping/status", "admin-1", `{"returnShippingStatus":"RECEIVED"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/claims/3/return-received", "admin-1", `{"inspectionResult":"PASS","inspectionNote":"ok"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Equal(float64(3), s.decode(rec)["claimId"])
}

func (s *APISuite) TestExchangeAndCancel() {
	s.svc.On("RegisterExchangeShipping", mock.Anything, uint64(4), "admin-2", models.RegisterExchangeShippingCommand{
		TrackingNumber: "EX-1", Carrier: "HANJIN",
	}).Return(sampleClaim(4), nil).Once()
	s.svc.On("ConfirmExchangeDelivered", mock.Anything, uint64(4), "admin-2").Return(sampleClaim(4), nil).Once()
	s.svc.On("Cancel", mock.Anything, uint64(4), "admin-2", models.CancelCommand{}).Return(sampleClaim(4), nil).Once()

	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/admin/claims/4/exchange-shipping", "admin-2", `{"trackingNumber":"EX-1","carrier":"HANJIN"}`).Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/admin/claims/4/exchange-delivered", "admin-2", "").Code)
	rec := s.do(http.MethodPost, "/api/v1/admin/claims/4/cancel", "admin-2", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Empty(rec.Body.String())
}

func (s *APISuite) TestFileClaim_Created() {
	s.svc.On("FileClaim", mock.Anything, claims.FileClaimInput{
		OrderID: 1, OrderItemID: 2, Type: models.ClaimTypeReturn, ReasonCode: "DEFECT", Quantity: 1, CustomerID: "c-1",
	}).Return(sampleClaim(77), nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/claims", "", `{"orderId":1,"orderItemId":2,"claimType":"RETURN","reasonCode":"DEFECT","quantity":1,"customerId":"c-1"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	body := s.decode(rec)
	s.Require().Equal(float64(77), body["claimId"])
	s.Require().Equal("REQUESTED", body["status"])
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
