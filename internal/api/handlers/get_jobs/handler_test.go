package get_jobs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/HomeService-Booking/internal/api/middleware"
	"github.com/m04kA/HomeService-Booking/internal/service/jobs"
	"github.com/m04kA/HomeService-Booking/internal/service/jobs/models"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
)

type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) ListForUser(ctx context.Context, userID string) (*models.JobListResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobListResponse), args.Error(1)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		err        error
		wantStatus int
	}{
		{"caller jobs", "user-a", nil, http.StatusOK},
		{"anonymous", "", nil, http.StatusUnauthorized},
		{"storage timeout", "user-a", fmt.Errorf("%w: ListForUser: %w", jobs.ErrStoreUnavailable, context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"store failure", "user-a", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockJobService{}
			if tt.err != nil {
				svc.On("ListForUser", mock.Anything, "user-a").Return(nil, tt.err)
			} else {
				svc.On("ListForUser", mock.Anything, "user-a").
					Return(&models.JobListResponse{Jobs: []models.JobResponse{{ID: 1}}}, nil)
			}
			h := NewHandler(svc, logger.NewNop())
			req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
			if tt.userID != "" {
				req = req.WithContext(middleware.WithIdentity(req.Context(), tt.userID, "customer", false))
			}
			rec := httptest.NewRecorder()

			h.Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.userID == "" {
				svc.AssertNotCalled(t, "ListForUser", mock.Anything, mock.Anything)
			}
		})
	}
}
