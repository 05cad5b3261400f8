package get_reconciliation_cases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/HomeService-Booking/internal/service/reconciliation"
	"github.com/m04kA/HomeService-Booking/internal/service/reconciliation/models"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
)

type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) ListOpen(ctx context.Context) (*models.CaseListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CaseListResponse), args.Error(1)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"open cases", nil, http.StatusOK},
		{"storage timeout", fmt.Errorf("%w: ListOpen: %w", reconciliation.ErrStoreUnavailable, context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"store failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockReconciliationService{}
			if tt.err != nil {
				svc.On("ListOpen", mock.Anything).Return(nil, tt.err)
			} else {
				svc.On("ListOpen", mock.Anything).
					Return(&models.CaseListResponse{Cases: []models.CaseResponse{{ID: 1, PaymentIntentRef: "pi_1"}}}, nil)
			}
			h := NewHandler(svc, logger.NewNop())
			rec := httptest.NewRecorder()

			h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/reconciliation", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
