package get_booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/HomeService-Booking/internal/api/middleware"
	"github.com/m04kA/HomeService-Booking/internal/service/bookings"
	"github.com/m04kA/HomeService-Booking/internal/service/bookings/models"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) GetByID(ctx context.Context, id int64, userID string, isAdmin bool) (*models.BookingResponse, error) {
	args := m.Called(ctx, id, userID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingResponse), args.Error(1)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		isAdmin    bool
		err        error
		wantStatus int
	}{
		{"owner", "user-a", false, nil, http.StatusOK},
		{"admin", "admin-1", true, nil, http.StatusOK},
		{"foreign booking", "user-b", false, bookings.ErrAccessDenied, http.StatusForbidden},
		{"not found", "user-a", false, bookings.ErrBookingNotFound, http.StatusNotFound},
		{"storage timeout", "user-a", false, fmt.Errorf("%w: GetByID: %w", bookings.ErrStoreUnavailable, context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"anonymous", "", false, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockBookingService{}
			if tt.err != nil {
				svc.On("GetByID", mock.Anything, int64(9), tt.userID, tt.isAdmin).Return(nil, tt.err)
			} else {
				svc.On("GetByID", mock.Anything, int64(9), tt.userID, tt.isAdmin).
					Return(&models.BookingResponse{ID: 9, UserID: "user-a"}, nil)
			}
			router := mux.NewRouter()
			router.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(svc, logger.NewNop()).Handle)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/9", nil)
			if tt.userID != "" {
				req = req.WithContext(middleware.WithIdentity(req.Context(), tt.userID, "", tt.isAdmin))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
