package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/HomeService-Booking/internal/calendar"
	"github.com/m04kA/HomeService-Booking/internal/domain"
	bookingRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/booking"
	"github.com/m04kA/HomeService-Booking/internal/integrations/events"
	"github.com/m04kA/HomeService-Booking/internal/integrations/stripe"
	"github.com/m04kA/HomeService-Booking/pkg/txmanager"
)

var tracer = otel.Tracer("homeservice.usecase.create_booking")

// compensationTimeout время на снятие удержания и запись расхождения
// после того как основной запрос уже завершился ошибкой
const compensationTimeout = 15 * time.Second

// Этапы жизненного цикла для метрик и журнала расхождений
const (
	stageValidate  = "validate"
	stagePrecheck  = "precheck"
	stageCustomer  = "customer"
	stageMethod    = "payment_method"
	stageAuthorize = "authorize"
	stageLockDate  = "lock_date"
	stageRecheck   = "recheck"
	stageBooking   = "create_booking"
	stageJob       = "create_job"
	stageCommit    = "commit"
	stageRelease   = "release_hold"
)

// UseCase use case для создания бронирования
// Последовательность: проверка слота -> удержание суммы -> запись бронирования и задания
type UseCase struct {
	bookingRepo    BookingRepository
	jobRepo        JobRepository
	customers      CustomerProvider
	gateway        PaymentGateway
	reconciliation ReconciliationRecorder
	publisher      EventPublisher
	metrics        Metrics
	txManager      TransactionManager
	rules          calendar.Rules
	opts           Options
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	jobRepo JobRepository,
	customers CustomerProvider,
	gateway PaymentGateway,
	reconciliation ReconciliationRecorder,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	rules calendar.Rules,
	opts Options,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		jobRepo:        jobRepo,
		customers:      customers,
		gateway:        gateway,
		reconciliation: reconciliation,
		publisher:      publisher,
		metrics:        metrics,
		txManager:      txManager,
		rules:          rules,
		opts:           opts,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
// Вся валидация выполняется до обращения к шлюзу; после удержания суммы
// любая неудача приводит к снятию удержания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "CreateBooking")
	defer span.End()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.IncBookingOutcome(stageValidate, "invalid")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("homeservice.user_id", req.UserID),
		attribute.String("homeservice.date", req.Date.Format(domain.DateFormat)),
		attribute.String("homeservice.slot", req.Time),
	)
	uc.logger.Info("CreateBooking: user=%s, date=%s, time=%s",
		req.UserID, req.Date.Format(domain.DateFormat), req.Time)

	// 2. Текущее время в часовом поясе бизнеса
	now := uc.timeProvider.Now().In(uc.opts.Location)

	// 3. Валидация даты
	if err := validateDate(req.Date, now, uc.opts.AdvanceDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		uc.metrics.IncBookingOutcome(stageValidate, "invalid")
		return nil, err
	}

	// 4. Предварительная проверка слота, до удержания суммы
	if err := uc.precheck(ctx, req, now); err != nil {
		return nil, err
	}

	// 5. Клиент шлюза и карта
	customerRef, err := uc.customers.EnsureCustomer(ctx, req.UserID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to ensure payment customer for user=%s: %v", req.UserID, err)
		uc.metrics.IncBookingOutcome(stageCustomer, "error")
		return nil, mapGatewayError(err)
	}

	paymentMethodID, err := uc.resolvePaymentMethod(ctx, req, customerRef)
	if err != nil {
		uc.metrics.IncBookingOutcome(stageMethod, "error")
		return nil, err
	}

	// 6. Удержание суммы (ручное списание)
	auth, err := uc.authorize(ctx, req, customerRef, paymentMethodID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("homeservice.payment_intent", auth.Ref))

	// 7. Фиксация бронирования и задания
	booking, job, stage, err := uc.persist(ctx, req, now, auth)
	if err != nil {
		return nil, uc.compensate(ctx, req, auth, stage, err)
	}

	uc.metrics.IncBookingOutcome(stageJob, "ok")
	uc.logger.Info("CreateBooking: created booking id=%d, job id=%d, payment_intent=%s",
		booking.ID, job.ID, auth.Ref)

	// 8. Событие (не влияет на результат)
	uc.publish(ctx, booking, job)

	return toResponse(booking, job), nil
}

// precheck проверяет слот по текущему состоянию без блокировок
func (uc *UseCase) precheck(ctx context.Context, req *Request, now time.Time) error {
	date := req.Date
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{Date: &date})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
		uc.metrics.IncBookingOutcome(stagePrecheck, "error")
		return storeError("failed to get bookings", err)
	}

	if err := calendar.Check(req.Date, now, req.Time, bookedLabels(bookings), uc.rules); err != nil {
		uc.logger.Warn("CreateBooking: slot %s on %s unavailable: %v",
			req.Time, req.Date.Format(domain.DateFormat), err)
		uc.metrics.IncBookingOutcome(stagePrecheck, "slot_unavailable")
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}

	return nil
}

// resolvePaymentMethod возвращает карту для удержания
// Новая карта привязывается к клиенту; при SavePaymentMethod становится картой по умолчанию
func (uc *UseCase) resolvePaymentMethod(ctx context.Context, req *Request, customerRef string) (string, error) {
	if req.PaymentMethodID == nil {
		id, err := uc.gateway.DefaultPaymentMethod(ctx, customerRef)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get default payment method: %v", err)
			return "", mapGatewayError(err)
		}
		if id == "" {
			uc.logger.Warn("CreateBooking: user=%s has no default payment method", req.UserID)
			return "", fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoPaymentMethod)
		}
		return id, nil
	}

	pm, err := uc.gateway.AttachPaymentMethod(ctx, customerRef, *req.PaymentMethodID)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to attach payment method: %v", err)
		return "", mapGatewayError(err)
	}

	if req.SavePaymentMethod {
		if err := uc.gateway.SetDefaultPaymentMethod(ctx, customerRef, pm.ID); err != nil {
			// Карта привязана, удержание возможно и без флага по умолчанию
			uc.logger.Warn("CreateBooking: failed to set default payment method %s: %v", pm.ID, err)
		}
	}

	return pm.ID, nil
}

// authorize удерживает сумму на карте
// Удержание не в статусе requires_capture сразу снимается и считается отказом
func (uc *UseCase) authorize(ctx context.Context, req *Request, customerRef, paymentMethodID string) (*domain.Authorization, error) {
	auth, err := uc.gateway.Authorize(ctx, stripe.AuthorizeParams{
		CustomerRef:     customerRef,
		PaymentMethodID: paymentMethodID,
		AmountCents:     uc.opts.DepositCents,
		Currency:        uc.opts.Currency,
		Description:     fmt.Sprintf("Home service visit %s %s", req.Date.Format(domain.DateFormat), req.Time),
		IdempotencyKey:  "authorize-" + uuid.NewString(),
		Metadata: map[string]string{
			"user_id":       req.UserID,
			"selected_date": req.Date.Format(domain.DateFormat),
			"selected_time": req.Time,
		},
	})
	if err != nil {
		mapped := mapGatewayError(err)
		switch {
		case errors.Is(mapped, ErrPaymentDeclined):
			uc.logger.Warn("CreateBooking: payment declined for user=%s: %v", req.UserID, err)
			uc.metrics.IncBookingOutcome(stageAuthorize, "declined")
		case errors.Is(mapped, ErrPaymentUnavailable):
			uc.logger.Error("CreateBooking: payment gateway unavailable: %v", err)
			uc.metrics.IncBookingOutcome(stageAuthorize, "unavailable")
		default:
			uc.logger.Error("CreateBooking: authorization failed: %v", err)
			uc.metrics.IncBookingOutcome(stageAuthorize, "error")
		}
		return nil, mapped
	}

	if !auth.IsCapturable() {
		uc.logger.Warn("CreateBooking: payment intent %s in status %s, releasing", auth.Ref, auth.Status)
		uc.metrics.IncBookingOutcome(stageAuthorize, "declined")
		uc.releaseHold(ctx, auth.Ref)
		return nil, &DeclinedError{Code: string(auth.Status), Reason: declineReasonForStatus(auth.Status)}
	}

	uc.metrics.IncBookingOutcome(stageAuthorize, "ok")
	return auth, nil
}

// persist фиксирует бронирование и задание в сериализуемой транзакции
// Доступность пересчитывается по состоянию БД под блокировкой даты
func (uc *UseCase) persist(
	ctx context.Context,
	req *Request,
	now time.Time,
	auth *domain.Authorization,
) (*domain.Booking, *domain.Job, string, error) {
	var (
		booking *domain.Booking
		job     *domain.Job
		stage   string
	)

	slot, _ := domain.SlotByLabel(req.Time)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Блокировка даты: фиксации на одну дату выполняются по очереди
		stage = stageLockDate
		if err := uc.bookingRepo.LockDate(txCtx, req.Date); err != nil {
			return err
		}

		stage = stageRecheck
		date := req.Date
		bookings, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{Date: &date})
		if err != nil {
			return err
		}

		// Время могло измениться с момента предварительной проверки
		if err := calendar.Check(req.Date, now, req.Time, bookedLabels(bookings), uc.rules); err != nil {
			return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
		}

		stage = stageBooking
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			UserID:              req.UserID,
			SelectedDate:        req.Date,
			SelectedTime:        req.Time,
			Address:             req.Address,
			IssueDescription:    req.IssueDescription,
			ArrivalInstructions: req.ArrivalInstructions,
			PaymentIntentRef:    auth.Ref,
			AmountCents:         auth.AmountCents,
			Currency:            auth.Currency,
			Status:              domain.StatusPaymentAuthorized,
		})
		if err != nil {
			return err
		}

		stage = stageJob
		createdJob, err := uc.jobRepo.Create(txCtx, &domain.Job{
			BookingID:            created.ID,
			UserID:               created.UserID,
			AppointmentDate:      created.SelectedDate,
			AppointmentTimeSlot:  created.SelectedTime,
			AppointmentTimestamp: domain.AppointmentStart(req.Date, slot, uc.opts.Location),
			Location:             created.Address,
			IssueDescription:     created.IssueDescription,
			Status:               domain.JobScheduled,
		})
		if err != nil {
			return err
		}

		booking, job = created, createdJob
		return nil
	})

	if errors.Is(err, txmanager.ErrBeginTx) || errors.Is(err, txmanager.ErrCommitTx) {
		stage = stageCommit
	}

	return booking, job, stage, err
}

// compensate снимает удержание после неудачной фиксации
// Проигрыш гонки за слот -> ErrSlotUnavailable; прочие ошибки -> ErrInconsistent с записью расхождения
func (uc *UseCase) compensate(ctx context.Context, req *Request, auth *domain.Authorization, stage string, cause error) error {
	// Запрос мог быть отменен клиентом, снятие удержания выполняется в любом случае
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	released := uc.releaseHold(cctx, auth.Ref)

	if isLostRace(cause) {
		uc.logger.Warn("CreateBooking: slot %s on %s taken concurrently at stage=%s: %v",
			req.Time, req.Date.Format(domain.DateFormat), stage, cause)
		uc.metrics.IncBookingOutcome(stage, "slot_unavailable")

		if !released {
			uc.recordCase(cctx, req, auth, stageRelease, cause, false)
		}
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, cause)
	}

	uc.metrics.IncBookingOutcome(stage, "inconsistent")
	caseID := uc.recordCase(cctx, req, auth, stage, cause, released)

	return &InconsistentError{
		CaseID:           caseID,
		PaymentIntentRef: auth.Ref,
		Stage:            stage,
		Err:              cause,
	}
}

// releaseHold снимает удержание, возвращает true при успехе
func (uc *UseCase) releaseHold(ctx context.Context, ref string) bool {
	if err := uc.gateway.Release(ctx, ref); err != nil {
		uc.logger.Error("CreateBooking: failed to release payment intent %s: %v", ref, err)
		return false
	}
	uc.logger.Info("CreateBooking: released payment intent %s", ref)
	return true
}

// recordCase записывает расхождение; ошибка записи только логируется
func (uc *UseCase) recordCase(
	ctx context.Context,
	req *Request,
	auth *domain.Authorization,
	stage string,
	cause error,
	released bool,
) int64 {
	recorded, err := uc.reconciliation.Record(ctx, &domain.ReconciliationCase{
		PaymentIntentRef: auth.Ref,
		UserID:           req.UserID,
		SelectedDate:     req.Date,
		SelectedTime:     req.Time,
		Stage:            stage,
		Reason:           cause.Error(),
		HoldReleased:     released,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: RECONCILIATION case not persisted, payment_intent=%s, stage=%s: %v",
			auth.Ref, stage, err)
		return 0
	}
	return recorded.ID
}

func (uc *UseCase) publish(ctx context.Context, booking *domain.Booking, job *domain.Job) {
	err := uc.publisher.Publish(ctx, events.BookingEvent{
		Type:             events.RoutingBookingCreated,
		BookingID:        booking.ID,
		JobID:            &job.ID,
		UserID:           booking.UserID,
		SelectedDate:     booking.SelectedDate.Format(domain.DateFormat),
		SelectedTime:     booking.SelectedTime,
		Status:           string(booking.Status),
		PaymentIntentRef: booking.PaymentIntentRef,
	})
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", booking.ID, err)
	}
}

// isLostRace ошибка означает, что слот занят конкурентным бронированием
func isLostRace(err error) bool {
	return errors.Is(err, ErrSlotUnavailable) ||
		errors.Is(err, txmanager.ErrSerialization) ||
		errors.Is(err, bookingRepo.ErrSlotNotAvailable) ||
		errors.Is(err, bookingRepo.ErrSerialization)
}

// mapGatewayError переводит ошибки шлюза в ошибки use case
func mapGatewayError(err error) error {
	var decline *stripe.DeclineError
	switch {
	case errors.As(err, &decline):
		return &DeclinedError{Code: decline.Code, Reason: decline.Reason}
	case errors.Is(err, stripe.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	case errors.Is(err, stripe.ErrInvalidRequest), errors.Is(err, stripe.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, bookingRepo.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func declineReasonForStatus(status domain.AuthorizationStatus) string {
	switch status {
	case domain.AuthRequiresAction:
		return "card requires additional authentication"
	case domain.AuthFailed:
		return "payment method was declined"
	default:
		return fmt.Sprintf("authorization ended in status %s", status)
	}
}

func toResponse(b *domain.Booking, j *domain.Job) *Response {
	return &Response{
		ID:                  b.ID,
		JobID:               j.ID,
		UserID:              b.UserID,
		SelectedDate:        b.SelectedDate,
		SelectedTime:        b.SelectedTime,
		Address:             b.Address,
		IssueDescription:    b.IssueDescription,
		ArrivalInstructions: b.ArrivalInstructions,
		PaymentIntentRef:    b.PaymentIntentRef,
		AmountCents:         b.AmountCents,
		Currency:            b.Currency,
		Status:              string(b.Status),
		AppointmentAt:       j.AppointmentTimestamp,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

// storeError отделяет недоступность БД от прочих ошибок хранилища
func storeError(op string, err error) error {
	if errors.Is(err, bookingRepo.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
