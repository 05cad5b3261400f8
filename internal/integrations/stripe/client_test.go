package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripeapi "github.com/stripe/stripe-go/v76"

	"github.com/m04kA/HomeService-Booking/pkg/logger"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		notWant error
	}{
		{
			name: "card decline",
			err:  &stripeapi.Error{Type: stripeapi.ErrorTypeCard, Code: stripeapi.ErrorCodeCardDeclined, DeclineCode: "insufficient_funds", Msg: "Your card has insufficient funds.", HTTPStatusCode: 402},
			want: ErrDeclined,
		},
		{
			name: "unexpected state",
			err:  &stripeapi.Error{Type: stripeapi.ErrorTypeInvalidRequest, Code: stripeapi.ErrorCodePaymentIntentUnexpectedState, HTTPStatusCode: 400},
			want: ErrInvalidState,
		},
		{
			name: "missing resource",
			err:  &stripeapi.Error{Type: stripeapi.ErrorTypeInvalidRequest, Code: stripeapi.ErrorCodeResourceMissing, HTTPStatusCode: 404},
			want: ErrNotFound,
		},
		{
			name: "server error",
			err:  &stripeapi.Error{Type: stripeapi.ErrorTypeAPI, HTTPStatusCode: 503},
			want: ErrUnavailable,
		},
		{
			name: "rate limited",
			err:  &stripeapi.Error{Type: stripeapi.ErrorTypeInvalidRequest, HTTPStatusCode: 429},
			want: ErrUnavailable,
		},
		{
			name:    "bad parameter",
			err:     &stripeapi.Error{Type: stripeapi.ErrorTypeInvalidRequest, Code: stripeapi.ErrorCodeParameterInvalidInteger, HTTPStatusCode: 400},
			want:    ErrInvalidRequest,
			notWant: ErrUnavailable,
		},
		{
			name:    "network timeout",
			err:     context.DeadlineExceeded,
			want:    ErrUnavailable,
			notWant: ErrDeclined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError("Op", tt.err)
			assert.ErrorIs(t, got, tt.want)
			if tt.notWant != nil {
				assert.NotErrorIs(t, got, tt.notWant)
			}
		})
	}
}

func TestMapError_DeclineCarriesReason(t *testing.T) {
	err := mapError("Authorize", &stripeapi.Error{
		Type:        stripeapi.ErrorTypeCard,
		DeclineCode: "insufficient_funds",
		Msg:         "Your card has insufficient funds.",
	})

	var decline *DeclineError
	require.True(t, errors.As(err, &decline))
	assert.Equal(t, "insufficient_funds", decline.Code)
	assert.Equal(t, "Your card has insufficient funds.", decline.Reason)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("sk_test_123", srv.URL, 5*time.Second, logger.NewNop(), nil)
}

func TestAuthorize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "manual", r.PostForm.Get("capture_method"))
		assert.Equal(t, "true", r.PostForm.Get("confirm"))
		assert.Equal(t, "5000", r.PostForm.Get("amount"))
		assert.Equal(t, "authorize-key", r.Header.Get("Idempotency-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","status":"requires_capture","amount":5000,"currency":"usd"}`))
	})

	auth, err := client.Authorize(context.Background(), AuthorizeParams{
		CustomerRef:     "cus_1",
		PaymentMethodID: "pm_1",
		AmountCents:     5000,
		Currency:        "usd",
		IdempotencyKey:  "authorize-key",
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", auth.Ref)
	assert.True(t, auth.IsCapturable())
}

func TestAuthorize_Declined(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","decline_code":"insufficient_funds","message":"Your card has insufficient funds."}}`))
	})

	_, err := client.Authorize(context.Background(), AuthorizeParams{CustomerRef: "cus_1", PaymentMethodID: "pm_1", AmountCents: 5000, Currency: "usd"})

	assert.ErrorIs(t, err, ErrDeclined)
	var decline *DeclineError
	require.ErrorAs(t, err, &decline)
	assert.Equal(t, "insufficient_funds", decline.Code)
}

func TestCapture_AlreadyCapturedIsInvalidState(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents/pi_123/capture", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"payment_intent_unexpected_state","message":"This PaymentIntent could not be captured because it has a status of succeeded."}}`))
	})

	_, err := client.Capture(context.Background(), "pi_123", "capture-7")

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRelease_AlreadyCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"payment_intent_unexpected_state","message":"already canceled"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","status":"canceled","amount":5000,"currency":"usd"}`))
	})

	assert.NoError(t, client.Release(context.Background(), "pi_123"))
}

func TestGetAuthorization_Unavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"try again"}}`))
	})

	auth, err := client.GetAuthorization(context.Background(), "pi_123")

	assert.Nil(t, auth)
	assert.ErrorIs(t, err, ErrUnavailable)
}
