package capture_payment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	bookingRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/booking"
	"github.com/m04kA/HomeService-Booking/internal/integrations/events"
	"github.com/m04kA/HomeService-Booking/internal/integrations/stripe"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetAuthorization(ctx context.Context, ref string) (*domain.Authorization, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Authorization), args.Error(1)
}

func (m *MockGateway) Capture(ctx context.Context, ref, idempotencyKey string) (*domain.Authorization, error) {
	args := m.Called(ctx, ref, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Authorization), args.Error(1)
}

type recordingPublisher struct {
	events []events.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.BookingEvent) error {
	p.events = append(p.events, e)
	return nil
}

type nopMetrics struct{}

func (nopMetrics) IncBookingOutcome(string, string) {}

func authorizedBooking() *domain.Booking {
	return &domain.Booking{
		ID:               7,
		UserID:           "user-1",
		SelectedDate:     time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		SelectedTime:     "11-12",
		PaymentIntentRef: "pi_1",
		AmountCents:      5000,
		Currency:         "usd",
		Status:           domain.StatusPaymentAuthorized,
	}
}

func newUseCase() (*UseCase, *MockBookingRepository, *MockGateway, *recordingPublisher) {
	repo := &MockBookingRepository{}
	gateway := &MockGateway{}
	publisher := &recordingPublisher{}
	return NewUseCase(repo, gateway, publisher, nopMetrics{}, logger.NewNop()), repo, gateway, publisher
}

func TestExecute_Capture(t *testing.T) {
	uc, repo, gateway, publisher := newUseCase()
	repo.On("GetByID", mock.Anything, int64(7)).Return(authorizedBooking(), nil)
	gateway.On("GetAuthorization", mock.Anything, "pi_1").
		Return(&domain.Authorization{Ref: "pi_1", Status: domain.AuthRequiresCapture}, nil)
	gateway.On("Capture", mock.Anything, "pi_1", "capture-7").
		Return(&domain.Authorization{Ref: "pi_1", Status: domain.AuthSucceeded}, nil)
	repo.On("UpdateStatusFrom", mock.Anything, int64(7), domain.StatusPaymentAuthorized, domain.StatusPaymentCaptured).
		Return(nil)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 7, PaymentIntentRef: "pi_1"})

	require.NoError(t, err)
	assert.Equal(t, "payment_captured", resp.Status)
	assert.False(t, resp.AlreadyCaptured)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.RoutingBookingCaptured, publisher.events[0].Type)
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestExecute_SecondCaptureIsNoop(t *testing.T) {
	uc, repo, gateway, publisher := newUseCase()
	captured := authorizedBooking()
	captured.Status = domain.StatusPaymentCaptured
	repo.On("GetByID", mock.Anything, int64(7)).Return(captured, nil)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 7, PaymentIntentRef: "pi_1"})

	require.NoError(t, err)
	assert.True(t, resp.AlreadyCaptured)
	assert.Equal(t, "payment_captured", resp.Status)
	gateway.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, publisher.events)
}

func TestExecute_RepairsStatusWhenGatewayAlreadyCaptured(t *testing.T) {
	uc, repo, gateway, _ := newUseCase()
	repo.On("GetByID", mock.Anything, int64(7)).Return(authorizedBooking(), nil)
	gateway.On("GetAuthorization", mock.Anything, "pi_1").
		Return(&domain.Authorization{Ref: "pi_1", Status: domain.AuthSucceeded}, nil)
	repo.On("UpdateStatusFrom", mock.Anything, int64(7), domain.StatusPaymentAuthorized, domain.StatusPaymentCaptured).
		Return(nil)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 7, PaymentIntentRef: "pi_1"})

	require.NoError(t, err)
	assert.True(t, resp.AlreadyCaptured)
	gateway.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_ConcurrentCaptureLosesStatusRace(t *testing.T) {
	uc, repo, gateway, publisher := newUseCase()
	captured := authorizedBooking()
	captured.Status = domain.StatusPaymentCaptured
	repo.On("GetByID", mock.Anything, int64(7)).Return(authorizedBooking(), nil).Once()
	repo.On("GetByID", mock.Anything, int64(7)).Return(captured, nil).Once()
	gateway.On("GetAuthorization", mock.Anything, "pi_1").
		Return(&domain.Authorization{Ref: "pi_1", Status: domain.AuthRequiresCapture}, nil).Once()
	gateway.On("Capture", mock.Anything, "pi_1", "capture-7").
		Return(nil, fmt.Errorf("%w: Capture: unexpected state", stripe.ErrInvalidState))
	gateway.On("GetAuthorization", mock.Anything, "pi_1").
		Return(&domain.Authorization{Ref: "pi_1", Status: domain.AuthSucceeded}, nil).Once()
	repo.On("UpdateStatusFrom", mock.Anything, int64(7), domain.StatusPaymentAuthorized, domain.StatusPaymentCaptured).
		Return(fmt.Errorf("%w: booking id=7 is not payment_authorized", bookingRepo.ErrInvalidStatus))

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 7, PaymentIntentRef: "pi_1"})

	require.NoError(t, err)
	assert.True(t, resp.AlreadyCaptured)
	assert.Empty(t, publisher.events)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		req   *Request
		setup func(repo *MockBookingRepository, gateway *MockGateway)
		want  error
	}{
		{
			name:  "missing ref",
			req:   &Request{BookingID: 7},
			setup: func(*MockBookingRepository, *MockGateway) {},
			want:  ErrInvalidInput,
		},
		{
			name: "booking not found",
			req:  &Request{BookingID: 7, PaymentIntentRef: "pi_1"},
			setup: func(repo *MockBookingRepository, _ *MockGateway) {
				repo.On("GetByID", mock.Anything, int64(7)).Return(nil, bookingRepo.ErrBookingNotFound)
			},
			want: ErrBookingNotFound,
		},
		{
			name: "ref mismatch",
			req:  &Request{BookingID: 7, PaymentIntentRef: "pi_other"},
			setup: func(repo *MockBookingRepository, _ *MockGateway) {
				repo.On("GetByID", mock.Anything, int64(7)).Return(authorizedBooking(), nil)
			},
			want: ErrInvalidInput,
		},
		{
			name: "cancelled booking",
			req:  &Request{BookingID: 7, PaymentIntentRef: "pi_1"},
			setup: func(repo *MockBookingRepository, _ *MockGateway) {
				b := authorizedBooking()
				b.Status = domain.StatusCancelled
				repo.On("GetByID", mock.Anything, int64(7)).Return(b, nil)
			},
			want: ErrInvalidState,
		},
		{
			name: "hold already released at gateway",
			req:  &Request{BookingID: 7, PaymentIntentRef: "pi_1"},
			setup: func(repo *MockBookingRepository, gateway *MockGateway) {
				repo.On("GetByID", mock.Anything, int64(7)).Return(authorizedBooking(), nil)
				gateway.On("GetAuthorization", mock.Anything, "pi_1").
					Return(&domain.Authorization{Ref: "pi_1", Status: domain.AuthCanceled}, nil)
			},
			want: ErrInvalidState,
		},
		{
			name: "gateway unavailable",
			req:  &Request{BookingID: 7, PaymentIntentRef: "pi_1"},
			setup: func(repo *MockBookingRepository, gateway *MockGateway) {
				repo.On("GetByID", mock.Anything, int64(7)).Return(authorizedBooking(), nil)
				gateway.On("GetAuthorization", mock.Anything, "pi_1").
					Return(nil, fmt.Errorf("%w: timeout", stripe.ErrUnavailable))
			},
			want: ErrPaymentUnavailable,
		},
		{
			name: "storage timeout",
			req:  &Request{BookingID: 7, PaymentIntentRef: "pi_1"},
			setup: func(repo *MockBookingRepository, _ *MockGateway) {
				repo.On("GetByID", mock.Anything, int64(7)).
					Return(nil, fmt.Errorf("%w: GetByID - scan booking: %w", bookingRepo.ErrUnavailable, context.DeadlineExceeded))
			},
			want: ErrStoreUnavailable,
		},
		{
			name: "repository failure",
			req:  &Request{BookingID: 7, PaymentIntentRef: "pi_1"},
			setup: func(repo *MockBookingRepository, _ *MockGateway) {
				repo.On("GetByID", mock.Anything, int64(7)).Return(nil, errors.New("connection reset"))
			},
			want: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, gateway, _ := newUseCase()
			tt.setup(repo, gateway)

			_, err := uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.want)
			gateway.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_CaptureDeclinedByProcessor(t *testing.T) {
	uc, repo, gateway, _ := newUseCase()
	repo.On("GetByID", mock.Anything, int64(7)).Return(authorizedBooking(), nil)
	gateway.On("GetAuthorization", mock.Anything, "pi_1").
		Return(&domain.Authorization{Ref: "pi_1", Status: domain.AuthRequiresCapture, AmountCents: 5000}, nil)
	gateway.On("Capture", mock.Anything, "pi_1", "capture-7").
		Return(nil, &stripe.DeclineError{Code: "card_declined", Reason: "Your card was declined."})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 7, PaymentIntentRef: "pi_1"})

	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.NotErrorIs(t, err, ErrInvalidState)
	var declined *DeclinedError
	require.ErrorAs(t, err, &declined)
	assert.Equal(t, "card_declined", declined.Code)
	repo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
