package get_user_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/HomeService-Booking/internal/api/middleware"
	"github.com/m04kA/HomeService-Booking/internal/service/bookings"
	"github.com/m04kA/HomeService-Booking/internal/service/bookings/models"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
	"github.com/m04kA/HomeService-Booking/pkg/ptr"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

func request(query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings"+query, nil)
	return req.WithContext(middleware.WithIdentity(req.Context(), "user-a", "customer", false))
}

func TestHandle_ScopesToCaller(t *testing.T) {
	svc := &MockBookingService{}
	svc.On("GetUserBookings", mock.Anything, &models.GetUserBookingsRequest{UserID: "user-a", Status: ptr.Ptr("cancelled")}).
		Return(&models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil)
	rec := httptest.NewRecorder()

	NewHandler(svc, logger.NewNop()).Handle(rec, request("?status=cancelled"))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandle_InvalidStatus(t *testing.T) {
	svc := &MockBookingService{}
	svc.On("GetUserBookings", mock.Anything, mock.Anything).Return(nil, bookings.ErrInvalidInput)
	rec := httptest.NewRecorder()

	NewHandler(svc, logger.NewNop()).Handle(rec, request("?status=done"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
