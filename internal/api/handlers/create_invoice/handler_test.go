package create_invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/service/invoices"
	"github.com/m04kA/HomeService-Booking/internal/service/invoices/models"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, req *models.CreateInvoiceRequest) (*models.InvoiceResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceResponse), args.Error(1)
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/invoices", bytes.NewBufferString(body)))
	return rec
}

func TestHandle_Created(t *testing.T) {
	svc := &MockInvoiceService{}
	svc.On("Create", mock.Anything, &models.CreateInvoiceRequest{JobID: 4, Amount: "120.00"}).
		Return(&models.InvoiceResponse{InvoiceID: "INV-0A1B2C3D", JobID: 4, Amount: "120.00"}, nil)

	rec := post(NewHandler(svc, logger.NewNop()), `{"jobId":4,"amount":"120.00"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.InvoiceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "INV-0A1B2C3D", resp.InvoiceID)
}

func TestHandle_ValidationDetails(t *testing.T) {
	svc := &MockInvoiceService{}

	rec := post(NewHandler(svc, logger.NewNop()), `{"jobId":0,"amount":"","dueDate":"01/07/2025"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Details, "jobId")
	assert.Contains(t, resp.Details, "amount")
	assert.Contains(t, resp.Details, "dueDate")
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandle_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"bad amount", fmt.Errorf("%w: amount", invoices.ErrInvalidInput), http.StatusBadRequest},
		{"unknown job", invoices.ErrJobNotFound, http.StatusNotFound},
		{"internal", invoices.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockInvoiceService{}
			svc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := post(NewHandler(svc, logger.NewNop()), `{"jobId":4,"amount":"1.005"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
