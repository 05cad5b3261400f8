package update_invoice_status

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/HomeService-Booking/internal/service/invoices"
	"github.com/m04kA/HomeService-Booking/internal/service/invoices/models"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) UpdateStatus(ctx context.Context, invoiceID string, req *models.UpdateInvoiceStatusRequest) (*models.InvoiceResponse, error) {
	args := m.Called(ctx, invoiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceResponse), args.Error(1)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantCall   bool
		wantStatus int
	}{
		{"paid", `{"status":"Paid"}`, nil, true, http.StatusOK},
		{"lowercase status", `{"status":"paid"}`, nil, false, http.StatusBadRequest},
		{"missing status", `{}`, nil, false, http.StatusBadRequest},
		{"broken json", `{"status":`, nil, false, http.StatusBadRequest},
		{"not found", `{"status":"Overdue"}`, invoices.ErrInvoiceNotFound, true, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockInvoiceService{}
			if tt.err != nil {
				svc.On("UpdateStatus", mock.Anything, "INV-1", mock.Anything).Return(nil, tt.err)
			} else {
				svc.On("UpdateStatus", mock.Anything, "INV-1", mock.Anything).
					Return(&models.InvoiceResponse{InvoiceID: "INV-1", Status: "Paid"}, nil)
			}
			h := NewHandler(svc, logger.NewNop())
			router := mux.NewRouter()
			router.HandleFunc("/api/v1/admin/invoices/{invoiceId}/status", h.Handle).Methods(http.MethodPatch)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/admin/invoices/INV-1/status", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if !tt.wantCall {
				svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
