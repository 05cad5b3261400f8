package support

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	jobRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/job"
	"github.com/m04kA/HomeService-Booking/internal/service/support/models"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.SupportTicket) (*domain.SupportTicket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SupportTicket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SupportTicket), args.Error(1)
}

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifySupportTicket(ctx context.Context, ticket *domain.SupportTicket) error {
	return m.Called(ctx, ticket).Error(0)
}

type fixture struct {
	svc      *Service
	tickets  *MockTicketRepository
	jobs     *MockJobRepository
	notifier *MockNotifier
}

func newFixture() *fixture {
	f := &fixture{
		tickets:  &MockTicketRepository{},
		jobs:     &MockJobRepository{},
		notifier: &MockNotifier{},
	}
	f.svc = NewService(f.tickets, f.jobs, f.notifier, logger.NewNop())
	return f
}

func validRequest() *models.CreateTicketRequest {
	return &models.CreateTicketRequest{
		UserID:       "user-a",
		JobID:        4,
		EnquiryText:  "The tap is still leaking",
		ContactEmail: "a@example.com",
	}
}

func TestCreate_Success(t *testing.T) {
	f := newFixture()
	f.jobs.On("GetByID", mock.Anything, int64(4)).Return(&domain.Job{ID: 4, UserID: "user-a"}, nil)
	stored := &domain.SupportTicket{ID: 11, JobID: 4, UserID: "user-a", EnquiryText: "The tap is still leaking", ContactEmail: "a@example.com"}
	f.tickets.On("Create", mock.Anything, mock.MatchedBy(func(ticket *domain.SupportTicket) bool {
		return ticket.JobID == 4 && ticket.UserID == "user-a"
	})).Return(stored, nil)
	f.notifier.On("NotifySupportTicket", mock.Anything, stored).Return(nil)

	resp, err := f.svc.Create(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(11), resp.ID)
	f.notifier.AssertExpectations(t)
}

func TestCreate_NotificationFailureIsIgnored(t *testing.T) {
	f := newFixture()
	f.jobs.On("GetByID", mock.Anything, int64(4)).Return(&domain.Job{ID: 4, UserID: "user-a"}, nil)
	f.tickets.On("Create", mock.Anything, mock.Anything).Return(&domain.SupportTicket{ID: 11}, nil)
	f.notifier.On("NotifySupportTicket", mock.Anything, mock.Anything).Return(errors.New("sendgrid down"))

	_, err := f.svc.Create(context.Background(), validRequest())

	require.NoError(t, err)
}

func TestCreate_ForeignJobIsDenied(t *testing.T) {
	f := newFixture()
	f.jobs.On("GetByID", mock.Anything, int64(4)).Return(&domain.Job{ID: 4, UserID: "user-b"}, nil)

	_, err := f.svc.Create(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrAccessDenied)
	f.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "NotifySupportTicket", mock.Anything, mock.Anything)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.CreateTicketRequest)
	}{
		{"missing job", func(r *models.CreateTicketRequest) { r.JobID = 0 }},
		{"empty enquiry", func(r *models.CreateTicketRequest) { r.EnquiryText = "  " }},
		{"bad email", func(r *models.CreateTicketRequest) { r.ContactEmail = "not-an-email" }},
		{"missing email", func(r *models.CreateTicketRequest) { r.ContactEmail = " " }},
		{"email without domain", func(r *models.CreateTicketRequest) { r.ContactEmail = "user@" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest()
			tt.mutate(req)

			_, err := f.svc.Create(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			f.jobs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_JobNotFound(t *testing.T) {
	f := newFixture()
	f.jobs.On("GetByID", mock.Anything, int64(4)).Return(nil, jobRepo.ErrJobNotFound)

	_, err := f.svc.Create(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestListForUser(t *testing.T) {
	f := newFixture()
	f.tickets.On("ListByUser", mock.Anything, "user-a").Return([]*domain.SupportTicket{
		{ID: 1, UserID: "user-a"},
		{ID: 2, UserID: "user-b"},
	}, nil)

	resp, err := f.svc.ListForUser(context.Background(), "user-a")

	require.NoError(t, err)
	require.Len(t, resp.Tickets, 1)
	assert.Equal(t, int64(1), resp.Tickets[0].ID)
}
