package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HomeService-Booking/internal/calendar"
	"github.com/m04kA/HomeService-Booking/internal/domain"
	bookingRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/booking"
	"github.com/m04kA/HomeService-Booking/internal/integrations/events"
	"github.com/m04kA/HomeService-Booking/internal/integrations/stripe"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
	"github.com/m04kA/HomeService-Booking/pkg/ptr"
)

// memStore хранилище бронирований и заданий в памяти
// DoSerializable держит мьютекс на всю транзакцию, как advisory-блокировка даты
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	bookings []*domain.Booking
	jobs     []*domain.Job

	failJobCreate     error
	failListInTx      error
	failListOutsideTx error
}

type txKey struct{}

func (s *memStore) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	bookingsBefore, jobsBefore := len(s.bookings), len(s.jobs)
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.bookings, s.jobs = s.bookings[:bookingsBefore], s.jobs[:jobsBefore]
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) LockDate(ctx context.Context, _ time.Time) error {
	if ctx.Value(txKey{}) == nil {
		return bookingRepo.ErrTransaction
	}
	return nil
}

func (s *memStore) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	if ctx.Value(txKey{}) != nil && s.failListInTx != nil {
		return nil, s.failListInTx
	}
	if ctx.Value(txKey{}) == nil && s.failListOutsideTx != nil {
		return nil, s.failListOutsideTx
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if filter.Date != nil && !b.SelectedDate.Equal(*filter.Date) {
			continue
		}
		if !filter.IncludeCancelled && !b.IsActive() {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (s *memStore) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.IsActive() && b.SelectedDate.Equal(booking.SelectedDate) && b.SelectedTime == booking.SelectedTime {
			return nil, bookingRepo.ErrSlotNotAvailable
		}
	}

	booking.ID = int64(len(s.bookings) + 1)
	s.bookings = append(s.bookings, booking)
	return booking, nil
}

type memJobs struct{ store *memStore }

func (j memJobs) Create(_ context.Context, job *domain.Job) (*domain.Job, error) {
	s := j.store
	if s.failJobCreate != nil {
		return nil, s.failJobCreate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job.ID = int64(len(s.jobs) + 100)
	s.jobs = append(s.jobs, job)
	return job, nil
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) AttachPaymentMethod(ctx context.Context, customerRef, paymentMethodID string) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, customerRef, paymentMethodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *MockGateway) SetDefaultPaymentMethod(ctx context.Context, customerRef, paymentMethodID string) error {
	return m.Called(ctx, customerRef, paymentMethodID).Error(0)
}

func (m *MockGateway) DefaultPaymentMethod(ctx context.Context, customerRef string) (string, error) {
	args := m.Called(ctx, customerRef)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) Authorize(ctx context.Context, params stripe.AuthorizeParams) (*domain.Authorization, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Authorization), args.Error(1)
}

func (m *MockGateway) Release(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

type MockCustomers struct {
	mock.Mock
}

func (m *MockCustomers) EnsureCustomer(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockReconciliation struct {
	mock.Mock
}

func (m *MockReconciliation) Record(ctx context.Context, c *domain.ReconciliationCase) (*domain.ReconciliationCase, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationCase), args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type nopMetrics struct{}

func (nopMetrics) IncBookingOutcome(string, string) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var (
	la, _    = time.LoadLocation("America/Los_Angeles")
	bookDate = time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC) // среда
	dayPrior = time.Date(2025, 6, 10, 9, 0, 0, 0, la)
)

type fixture struct {
	uc        *UseCase
	store     *memStore
	gateway   *MockGateway
	customers *MockCustomers
	recon     *MockReconciliation
	publisher *recordingPublisher
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		store:     &memStore{},
		gateway:   &MockGateway{},
		customers: &MockCustomers{},
		recon:     &MockReconciliation{},
		publisher: &recordingPublisher{},
	}

	f.uc = NewUseCase(
		f.store,
		memJobs{store: f.store},
		f.customers,
		f.gateway,
		f.recon,
		f.publisher,
		nopMetrics{},
		f.store,
		calendar.DefaultRules(),
		Options{AdvanceDays: 60, DepositCents: 5000, Currency: "usd", Location: la},
		logger.NewNop(),
	)
	f.uc.timeProvider = fixedClock{now: now}

	f.customers.On("EnsureCustomer", mock.Anything, mock.Anything).Return("cus_1", nil)
	return f
}

func (f *fixture) expectAuthorization(ref string) {
	f.gateway.On("DefaultPaymentMethod", mock.Anything, "cus_1").Return("pm_default", nil)
	f.gateway.On("Authorize", mock.Anything, mock.MatchedBy(func(p stripe.AuthorizeParams) bool {
		return p.PaymentMethodID == "pm_default" && p.AmountCents == 5000 && p.IdempotencyKey != ""
	})).Return(&domain.Authorization{
		Ref:         ref,
		Status:      domain.AuthRequiresCapture,
		AmountCents: 5000,
		Currency:    "usd",
	}, nil)
}

func request(slot string) *Request {
	return &Request{
		UserID:           "user-1",
		Date:             bookDate,
		Time:             slot,
		Address:          "1 Main St",
		IssueDescription: "Leaking kitchen tap",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(dayPrior)
	f.expectAuthorization("pi_1")

	resp, err := f.uc.Execute(context.Background(), request("11-12"))

	require.NoError(t, err)
	assert.Equal(t, "payment_authorized", resp.Status)
	assert.Equal(t, "pi_1", resp.PaymentIntentRef)
	assert.Equal(t, time.Date(2025, 6, 11, 11, 0, 0, 0, la), resp.AppointmentAt)
	require.Len(t, f.store.jobs, 1)
	assert.Equal(t, domain.JobScheduled, f.store.jobs[0].Status)
	assert.Equal(t, resp.ID, f.store.jobs[0].BookingID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.RoutingBookingCreated, f.publisher.events[0].Type)
	f.gateway.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestExecute_NewPaymentMethodSaved(t *testing.T) {
	f := newFixture(dayPrior)
	f.gateway.On("AttachPaymentMethod", mock.Anything, "cus_1", "pm_new").
		Return(&domain.PaymentMethod{ID: "pm_new", Brand: "visa", Last4: "4242"}, nil)
	f.gateway.On("SetDefaultPaymentMethod", mock.Anything, "cus_1", "pm_new").Return(nil)
	f.gateway.On("Authorize", mock.Anything, mock.MatchedBy(func(p stripe.AuthorizeParams) bool {
		return p.PaymentMethodID == "pm_new"
	})).Return(&domain.Authorization{Ref: "pi_1", Status: domain.AuthRequiresCapture, AmountCents: 5000, Currency: "usd"}, nil)

	req := request("2-3")
	req.PaymentMethodID = ptr.Ptr("pm_new")
	req.SavePaymentMethod = true

	_, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	f.gateway.AssertExpectations(t)
}

func TestExecute_SlotInBufferRejectedBeforeAuthorization(t *testing.T) {
	f := newFixture(dayPrior)
	f.store.bookings = []*domain.Booking{{ID: 1, SelectedDate: bookDate, SelectedTime: "11-12", Status: domain.StatusPaymentAuthorized}}

	_, err := f.uc.Execute(context.Background(), request("1-2"))

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	f.customers.AssertNotCalled(t, "EnsureCustomer", mock.Anything, mock.Anything)
	f.gateway.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything)
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture(dayPrior)
	f.store.bookings = []*domain.Booking{{ID: 1, SelectedDate: bookDate, SelectedTime: "11-12", Status: domain.StatusCancelled}}
	f.expectAuthorization("pi_1")

	_, err := f.uc.Execute(context.Background(), request("11-12"))

	require.NoError(t, err)
}

func TestExecute_SameDayTooSoon(t *testing.T) {
	f := newFixture(time.Date(2025, 6, 11, 10, 30, 0, 0, la))

	_, err := f.uc.Execute(context.Background(), request("12-1"))

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	f.gateway.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything)
}

func TestExecute_ValidationBeforeAnyExternalCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{"unknown slot", func(r *Request) { r.Time = "5-6" }, ErrInvalidInput},
		{"empty address", func(r *Request) { r.Address = " " }, ErrInvalidInput},
		{"empty issue", func(r *Request) { r.IssueDescription = "" }, ErrInvalidInput},
		{"past date", func(r *Request) { r.Date = bookDate.AddDate(0, 0, -2) }, ErrInvalidDate},
		{"too far ahead", func(r *Request) { r.Date = bookDate.AddDate(0, 3, 0) }, ErrDateTooFarInFuture},
		{"weekend first slot", func(r *Request) { r.Date = time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC); r.Time = "9-10" }, ErrSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(dayPrior)
			req := request("11-12")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.want)
			f.gateway.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_NoDefaultPaymentMethod(t *testing.T) {
	f := newFixture(dayPrior)
	f.gateway.On("DefaultPaymentMethod", mock.Anything, "cus_1").Return("", nil)

	_, err := f.uc.Execute(context.Background(), request("11-12"))

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, ErrNoPaymentMethod)
}

func TestExecute_DeclinePassesReasonThrough(t *testing.T) {
	f := newFixture(dayPrior)
	f.gateway.On("DefaultPaymentMethod", mock.Anything, "cus_1").Return("pm_default", nil)
	f.gateway.On("Authorize", mock.Anything, mock.Anything).
		Return(nil, &stripe.DeclineError{Code: "insufficient_funds", Reason: "Your card has insufficient funds."})

	_, err := f.uc.Execute(context.Background(), request("11-12"))

	assert.ErrorIs(t, err, ErrPaymentDeclined)
	var declined *DeclinedError
	require.ErrorAs(t, err, &declined)
	assert.Equal(t, "Your card has insufficient funds.", declined.Reason)
	assert.Empty(t, f.store.bookings)
}

func TestExecute_GatewayTimeoutIsRetryable(t *testing.T) {
	f := newFixture(dayPrior)
	f.gateway.On("DefaultPaymentMethod", mock.Anything, "cus_1").Return("pm_default", nil)
	f.gateway.On("Authorize", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: Authorize: context deadline exceeded", stripe.ErrUnavailable))

	_, err := f.uc.Execute(context.Background(), request("11-12"))

	assert.ErrorIs(t, err, ErrPaymentUnavailable)
	assert.NotErrorIs(t, err, ErrPaymentDeclined)
	assert.Empty(t, f.store.bookings)
}

func TestExecute_StoreTimeoutBeforeAuthorizationIsRetryable(t *testing.T) {
	f := newFixture(dayPrior)
	f.store.failListOutsideTx = fmt.Errorf("%w: List - execute query: %w",
		bookingRepo.ErrUnavailable, context.DeadlineExceeded)

	_, err := f.uc.Execute(context.Background(), request("11-12"))

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrInternal)
	f.gateway.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything)
}

func TestExecute_CustomerLookupStoreTimeoutIsRetryable(t *testing.T) {
	f := newFixture(dayPrior)
	f.customers.ExpectedCalls = nil
	f.customers.On("EnsureCustomer", mock.Anything, "user-1").
		Return("", fmt.Errorf("payments: storage unavailable: EnsureCustomer: %w", bookingRepo.ErrUnavailable))

	_, err := f.uc.Execute(context.Background(), request("11-12"))

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	f.gateway.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything)
}

func TestExecute_RequiresActionIsReleasedAndDeclined(t *testing.T) {
	f := newFixture(dayPrior)
	f.gateway.On("DefaultPaymentMethod", mock.Anything, "cus_1").Return("pm_default", nil)
	f.gateway.On("Authorize", mock.Anything, mock.Anything).
		Return(&domain.Authorization{Ref: "pi_3ds", Status: domain.AuthRequiresAction}, nil)
	f.gateway.On("Release", mock.Anything, "pi_3ds").Return(nil)

	_, err := f.uc.Execute(context.Background(), request("11-12"))

	assert.ErrorIs(t, err, ErrPaymentDeclined)
	f.gateway.AssertCalled(t, "Release", mock.Anything, "pi_3ds")
	assert.Empty(t, f.store.bookings)
}

func TestExecute_StaleCommitLosesSlot(t *testing.T) {
	f := newFixture(dayPrior)
	f.expectAuthorization("pi_late")
	f.gateway.On("Release", mock.Anything, "pi_late").Return(nil)

	// Другое бронирование на соседний слот фиксируется между проверкой и фиксацией
	f.customers.ExpectedCalls = nil
	f.customers.On("EnsureCustomer", mock.Anything, mock.Anything).Return("cus_1", nil).Run(func(mock.Arguments) {
		f.store.mu.Lock()
		f.store.bookings = append(f.store.bookings, &domain.Booking{
			ID: 99, SelectedDate: bookDate, SelectedTime: "12-1", Status: domain.StatusPaymentAuthorized,
		})
		f.store.mu.Unlock()
	})

	_, err := f.uc.Execute(context.Background(), request("11-12"))

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	f.gateway.AssertCalled(t, "Release", mock.Anything, "pi_late")
	f.recon.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	assert.Len(t, f.store.bookings, 1)
}

func TestExecute_JobWriteFailureIsInconsistent(t *testing.T) {
	f := newFixture(dayPrior)
	f.expectAuthorization("pi_1")
	f.gateway.On("Release", mock.Anything, "pi_1").Return(nil)
	f.store.failJobCreate = errors.New("connection reset by peer")
	f.recon.On("Record", mock.Anything, mock.MatchedBy(func(c *domain.ReconciliationCase) bool {
		return c.PaymentIntentRef == "pi_1" && c.Stage == stageJob && c.HoldReleased
	})).Return(&domain.ReconciliationCase{ID: 5}, nil)

	_, err := f.uc.Execute(context.Background(), request("11-12"))

	assert.ErrorIs(t, err, ErrInconsistent)
	var inconsistent *InconsistentError
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, int64(5), inconsistent.CaseID)
	assert.Empty(t, f.store.bookings, "booking rolled back with the job")
	f.gateway.AssertCalled(t, "Release", mock.Anything, "pi_1")
	assert.Empty(t, f.publisher.events)
}

func TestExecute_InconsistentWhenRecordingAlsoFails(t *testing.T) {
	f := newFixture(dayPrior)
	f.expectAuthorization("pi_1")
	f.gateway.On("Release", mock.Anything, "pi_1").Return(errors.New("gateway down"))
	f.store.failListInTx = errors.New("connection refused")
	f.recon.On("Record", mock.Anything, mock.MatchedBy(func(c *domain.ReconciliationCase) bool {
		return c.Stage == stageRecheck && !c.HoldReleased
	})).Return(nil, errors.New("connection refused"))

	_, err := f.uc.Execute(context.Background(), request("11-12"))

	var inconsistent *InconsistentError
	require.ErrorAs(t, err, &inconsistent)
	assert.Zero(t, inconsistent.CaseID)
	f.recon.AssertExpectations(t)
}

func TestExecute_ConcurrentCommitsOneWins(t *testing.T) {
	f := newFixture(dayPrior)
	f.expectAuthorization("pi_same")
	f.gateway.On("Release", mock.Anything, "pi_same").Return(nil).Maybe()

	const attempts = 2
	var (
		wg   sync.WaitGroup
		errs = make([]error, attempts)
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), request("11-12"))
		}(i)
	}
	wg.Wait()

	succeeded, lost := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotUnavailable):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, lost)
	assert.Len(t, f.store.bookings, 1)
}

func TestExecute_PublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(dayPrior)
	f.expectAuthorization("pi_1")
	f.publisher.err = errors.New("channel closed")

	_, err := f.uc.Execute(context.Background(), request("11-12"))

	require.NoError(t, err)
}

func TestIsLostRace(t *testing.T) {
	assert.True(t, isLostRace(fmt.Errorf("%w: x", bookingRepo.ErrSlotNotAvailable)))
	assert.True(t, isLostRace(fmt.Errorf("%w: x", ErrSlotUnavailable)))
	assert.False(t, isLostRace(errors.New("connection reset")))
}
