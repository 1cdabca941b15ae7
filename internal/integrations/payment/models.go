package payment

// Order платежный ордер, зарегистрированный у провайдера
type Order struct {
	ID          string `json:"id"`
	AmountMinor int64  `json:"amount"` // Минорные единицы валюты
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
	Status      string `json:"status"`
}

// createOrderRequest тело запроса создания ордера
type createOrderRequest struct {
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
}

// Proof подписанное подтверждение платежа из callback провайдера
type Proof struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}
