package paymentprovider

// PaymentIntent представляет платёжное намерение Stripe.
//
// ClientSecret передаётся клиенту для подтверждения платежа на фронтенде,
// Status — единственный источник истины о результате платежа
// ("succeeded", "requires_payment_method" и т.д.).
type PaymentIntent struct {
	ID           string `json:"id"`            // ID платёжного намерения, например "pi_..."
	ClientSecret string `json:"client_secret"` // Секрет для подтверждения на стороне клиента
	Status       string `json:"status"`        // Статус платежа
	Amount       int64  `json:"amount"`        // Сумма в минимальных единицах валюты
	Currency     string `json:"currency"`      // Валюта в нижнем регистре, например "gbp"
}

// APIError представляет тело ошибки Stripe API.
type APIError struct {
	Err struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
