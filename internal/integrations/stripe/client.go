package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

var tracer = otel.Tracer("homeservice.integrations.stripe")

// Client адаптер платежного шлюза Stripe
// Все удержания создаются с ручным списанием (capture_method=manual)
type Client struct {
	api     *client.API
	log     Logger
	metrics Metrics
}

// NewClient создает клиента Stripe
// apiURL переопределяет адрес API (пусто = api.stripe.com)
// Автоматические повторы отключены: повтор решает вызывающий
func NewClient(secretKey, apiURL string, timeout time.Duration, log Logger, metrics Metrics) *Client {
	cfg := &stripeapi.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripeapi.Int64(0),
	}
	if apiURL != "" {
		cfg.URL = stripeapi.String(apiURL)
	}

	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Client{
		api: client.New(secretKey, &stripeapi.Backends{
			API: stripeapi.GetBackendWithConfig(stripeapi.APIBackend, cfg),
		}),
		log:     log,
		metrics: metrics,
	}
}

// CreateCustomer создает клиента в шлюзе и возвращает его идентификатор
func (c *Client) CreateCustomer(ctx context.Context, userID, idempotencyKey string) (ref string, err error) {
	ctx, done := c.observe(ctx, "create_customer", attribute.String("homeservice.user_id", userID))
	defer func() { done(err) }()

	params := &stripeapi.CustomerParams{}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)
	params.AddMetadata("user_id", userID)

	customer, err := c.api.Customers.New(params)
	if err != nil {
		return "", mapError("CreateCustomer", err)
	}

	c.log.Info("Stripe: created customer %s for user=%s", customer.ID, userID)
	return customer.ID, nil
}

// ListPaymentMethods возвращает карты клиента, карта по умолчанию помечена IsDefault
func (c *Client) ListPaymentMethods(ctx context.Context, customerRef string) (methods []domain.PaymentMethod, err error) {
	ctx, done := c.observe(ctx, "list_payment_methods")
	defer func() { done(err) }()

	defaultID, err := c.defaultPaymentMethod(ctx, customerRef)
	if err != nil {
		return nil, err
	}

	params := &stripeapi.PaymentMethodListParams{
		Customer: stripeapi.String(customerRef),
		Type:     stripeapi.String(string(stripeapi.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	methods = make([]domain.PaymentMethod, 0)
	iter := c.api.PaymentMethods.List(params)
	for iter.Next() {
		pm := toPaymentMethod(iter.PaymentMethod())
		pm.IsDefault = pm.ID == defaultID
		methods = append(methods, pm)
	}
	if err := iter.Err(); err != nil {
		return nil, mapError("ListPaymentMethods", err)
	}

	return methods, nil
}

// DefaultPaymentMethod возвращает карту по умолчанию или пустую строку
func (c *Client) DefaultPaymentMethod(ctx context.Context, customerRef string) (id string, err error) {
	ctx, done := c.observe(ctx, "default_payment_method")
	defer func() { done(err) }()

	return c.defaultPaymentMethod(ctx, customerRef)
}

func (c *Client) defaultPaymentMethod(ctx context.Context, customerRef string) (string, error) {
	params := &stripeapi.CustomerParams{}
	params.Context = ctx

	customer, err := c.api.Customers.Get(customerRef, params)
	if err != nil {
		return "", mapError("DefaultPaymentMethod", err)
	}

	if customer.InvoiceSettings == nil || customer.InvoiceSettings.DefaultPaymentMethod == nil {
		return "", nil
	}
	return customer.InvoiceSettings.DefaultPaymentMethod.ID, nil
}

// AttachPaymentMethod привязывает карту к клиенту
func (c *Client) AttachPaymentMethod(ctx context.Context, customerRef, paymentMethodID string) (pm *domain.PaymentMethod, err error) {
	ctx, done := c.observe(ctx, "attach_payment_method")
	defer func() { done(err) }()

	params := &stripeapi.PaymentMethodAttachParams{Customer: stripeapi.String(customerRef)}
	params.Context = ctx

	attached, err := c.api.PaymentMethods.Attach(paymentMethodID, params)
	if err != nil {
		return nil, mapError("AttachPaymentMethod", err)
	}

	result := toPaymentMethod(attached)
	return &result, nil
}

// DetachPaymentMethod отвязывает карту клиента
// Карта другого клиента считается ненайденной
func (c *Client) DetachPaymentMethod(ctx context.Context, customerRef, paymentMethodID string) (err error) {
	ctx, done := c.observe(ctx, "detach_payment_method")
	defer func() { done(err) }()

	if err := c.checkOwnership(ctx, customerRef, paymentMethodID); err != nil {
		return err
	}

	params := &stripeapi.PaymentMethodDetachParams{}
	params.Context = ctx

	if _, err := c.api.PaymentMethods.Detach(paymentMethodID, params); err != nil {
		return mapError("DetachPaymentMethod", err)
	}
	return nil
}

// SetDefaultPaymentMethod делает карту клиента картой по умолчанию
func (c *Client) SetDefaultPaymentMethod(ctx context.Context, customerRef, paymentMethodID string) (err error) {
	ctx, done := c.observe(ctx, "set_default_payment_method")
	defer func() { done(err) }()

	if err := c.checkOwnership(ctx, customerRef, paymentMethodID); err != nil {
		return err
	}

	params := &stripeapi.CustomerParams{
		InvoiceSettings: &stripeapi.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripeapi.String(paymentMethodID),
		},
	}
	params.Context = ctx

	if _, err := c.api.Customers.Update(customerRef, params); err != nil {
		return mapError("SetDefaultPaymentMethod", err)
	}
	return nil
}

func (c *Client) checkOwnership(ctx context.Context, customerRef, paymentMethodID string) error {
	params := &stripeapi.PaymentMethodParams{}
	params.Context = ctx

	pm, err := c.api.PaymentMethods.Get(paymentMethodID, params)
	if err != nil {
		return mapError("GetPaymentMethod", err)
	}
	if pm.Customer == nil || pm.Customer.ID != customerRef {
		return fmt.Errorf("%w: payment method %s", ErrNotFound, paymentMethodID)
	}
	return nil
}

// Authorize создает и подтверждает PaymentIntent с ручным списанием
// Успешное удержание возвращается в статусе requires_capture
func (c *Client) Authorize(ctx context.Context, p AuthorizeParams) (auth *domain.Authorization, err error) {
	ctx, done := c.observe(ctx, "authorize", attribute.Int64("homeservice.amount_cents", p.AmountCents))
	defer func() { done(err) }()

	params := &stripeapi.PaymentIntentParams{
		Amount:             stripeapi.Int64(p.AmountCents),
		Currency:           stripeapi.String(p.Currency),
		Customer:           stripeapi.String(p.CustomerRef),
		PaymentMethod:      stripeapi.String(p.PaymentMethodID),
		PaymentMethodTypes: stripeapi.StringSlice([]string{string(stripeapi.PaymentMethodTypeCard)}),
		CaptureMethod:      stripeapi.String(string(stripeapi.PaymentIntentCaptureMethodManual)),
		Confirm:            stripeapi.Bool(true),
	}
	if p.Description != "" {
		params.Description = stripeapi.String(p.Description)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, mapError("Authorize", err)
	}

	c.log.Info("Stripe: payment intent %s status=%s amount=%d", pi.ID, pi.Status, pi.Amount)
	return toAuthorization(pi), nil
}

// GetAuthorization возвращает текущее состояние удержания
func (c *Client) GetAuthorization(ctx context.Context, ref string) (auth *domain.Authorization, err error) {
	ctx, done := c.observe(ctx, "get_authorization")
	defer func() { done(err) }()

	params := &stripeapi.PaymentIntentParams{}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.Get(ref, params)
	if err != nil {
		return nil, mapError("GetAuthorization", err)
	}

	return toAuthorization(pi), nil
}

// Capture списывает удержанную сумму
// Повтор с тем же ключом идемпотентности не приводит к повторному списанию
func (c *Client) Capture(ctx context.Context, ref, idempotencyKey string) (auth *domain.Authorization, err error) {
	ctx, done := c.observe(ctx, "capture", attribute.String("homeservice.payment_intent", ref))
	defer func() { done(err) }()

	params := &stripeapi.PaymentIntentCaptureParams{}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)

	pi, err := c.api.PaymentIntents.Capture(ref, params)
	if err != nil {
		return nil, mapError("Capture", err)
	}

	c.log.Info("Stripe: captured payment intent %s status=%s", pi.ID, pi.Status)
	return toAuthorization(pi), nil
}

// Release снимает удержание (отмена PaymentIntent)
// Уже отмененное удержание не считается ошибкой
func (c *Client) Release(ctx context.Context, ref string) (err error) {
	ctx, done := c.observe(ctx, "release", attribute.String("homeservice.payment_intent", ref))
	defer func() { done(err) }()

	params := &stripeapi.PaymentIntentCancelParams{
		CancellationReason: stripeapi.String(string(stripeapi.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx
	params.SetIdempotencyKey("release-" + ref)

	_, err = c.api.PaymentIntents.Cancel(ref, params)
	if err == nil {
		c.log.Info("Stripe: released payment intent %s", ref)
		return nil
	}

	mapped := mapError("Release", err)
	if errors.Is(mapped, ErrInvalidState) {
		current, getErr := c.GetAuthorization(ctx, ref)
		if getErr == nil && current.Status == domain.AuthCanceled {
			return nil
		}
	}
	return mapped
}

// observe открывает span и возвращает функцию завершения с записью метрик
func (c *Client) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := tracer.Start(ctx, "stripe."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	start := time.Now()

	return ctx, func(err error) {
		c.metrics.ObserveGatewayCall(op, err, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func toAuthorization(pi *stripeapi.PaymentIntent) *domain.Authorization {
	return &domain.Authorization{
		Ref:         pi.ID,
		Status:      domain.AuthorizationStatus(pi.Status),
		AmountCents: pi.Amount,
		Currency:    string(pi.Currency),
	}
}

func toPaymentMethod(pm *stripeapi.PaymentMethod) domain.PaymentMethod {
	result := domain.PaymentMethod{ID: pm.ID}
	if pm.Card != nil {
		result.Brand = string(pm.Card.Brand)
		result.Last4 = pm.Card.Last4
		result.ExpMonth = pm.Card.ExpMonth
		result.ExpYear = pm.Card.ExpYear
	}
	return result
}
