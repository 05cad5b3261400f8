package stripe

// AuthorizeParams параметры удержания суммы на карте
type AuthorizeParams struct {
	CustomerRef     string
	PaymentMethodID string
	AmountCents     int64
	Currency        string
	Description     string
	IdempotencyKey  string
	Metadata        map[string]string
}
