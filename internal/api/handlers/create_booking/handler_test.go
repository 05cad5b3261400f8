package create_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/api/middleware"
	createBooking "github.com/m04kA/HomeService-Booking/internal/usecase/create_booking"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createBooking.Response), args.Error(1)
}

const validBody = `{
	"selectedDate": "2025-06-11",
	"selectedTime": "11-12",
	"address": "1 Main St",
	"issueDescription": "Leaking sink",
	"paymentMethodId": "pm_card_visa"
}`

func newRequest(body string, userID string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString(body))
	if userID != "" {
		r = r.WithContext(middleware.WithIdentity(r.Context(), userID, "customer", false))
	}
	return r
}

func TestHandle_Created(t *testing.T) {
	uc := &MockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.UserID == "user-1" &&
			req.Time == "11-12" &&
			req.Date.Equal(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)) &&
			req.PaymentMethodID != nil && *req.PaymentMethodID == "pm_card_visa"
	})).Return(&createBooking.Response{
		ID:               10,
		JobID:            20,
		UserID:           "user-1",
		SelectedDate:     time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		SelectedTime:     "11-12",
		PaymentIntentRef: "pi_1",
		AmountCents:      5000,
		Currency:         "usd",
		Status:           "payment_authorized",
	}, nil)
	h := NewHandler(uc, logger.NewNop())
	rec := httptest.NewRecorder()

	h.Handle(rec, newRequest(validBody, "user-1"))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(20), resp.JobID)
	assert.Equal(t, "50.00", resp.Amount)
	assert.Equal(t, "payment_authorized", resp.Status)
}

func TestHandle_ValidationDetails(t *testing.T) {
	uc := &MockUseCase{}
	h := NewHandler(uc, logger.NewNop())
	rec := httptest.NewRecorder()

	h.Handle(rec, newRequest(`{"selectedDate":"2025-06-11","selectedTime":"8-9","address":"","issueDescription":"x"}`, "user-1"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Details, "selectedTime")
	assert.Contains(t, resp.Details, "address")
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_Unauthorized(t *testing.T) {
	h := NewHandler(&MockUseCase{}, logger.NewNop())
	rec := httptest.NewRecorder()

	h.Handle(rec, newRequest(validBody, ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"slot taken", createBooking.ErrSlotUnavailable, http.StatusConflict, ""},
		{"declined", &createBooking.DeclinedError{Code: "card_declined", Reason: "insufficient funds"}, http.StatusPaymentRequired, "card_declined"},
		{"gateway down", fmt.Errorf("%w: timeout", createBooking.ErrPaymentUnavailable), http.StatusServiceUnavailable, ""},
		{"inconsistent", &createBooking.InconsistentError{CaseID: 7, Stage: "persist"}, http.StatusInternalServerError, "inconsistent"},
		{"past date", createBooking.ErrInvalidDate, http.StatusBadRequest, ""},
		{"no card", createBooking.ErrNoPaymentMethod, http.StatusBadRequest, ""},
		{"storage timeout", fmt.Errorf("%w: timeout", createBooking.ErrStoreUnavailable), http.StatusServiceUnavailable, ""},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &MockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			h := NewHandler(uc, logger.NewNop())
			rec := httptest.NewRecorder()

			h.Handle(rec, newRequest(validBody, "user-1"))

			require.Equal(t, tt.wantStatus, rec.Code)
			var resp handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestHandle_InconsistentCarriesCaseID(t *testing.T) {
	uc := &MockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &createBooking.InconsistentError{CaseID: 42, PaymentIntentRef: "pi_1"})
	h := NewHandler(uc, logger.NewNop())
	rec := httptest.NewRecorder()

	h.Handle(rec, newRequest(validBody, "user-1"))

	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "42", resp.Details["reconciliationCaseId"])
}
