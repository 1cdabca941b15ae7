package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платежного провайдера.
// Создание ордера только регистрирует намерение оплаты у провайдера,
// никаких изменений в состоянии бронирований здесь не происходит.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного провайдера
func NewClient(baseURL, keyID, keySecret string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateOrder регистрирует платежный ордер на указанную сумму.
// Таймаут ограничен httpClient; при таймауте или ошибке провайдера
// возвращается транзиентная ErrOrderCreation без каких-либо побочных эффектов.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency string) (*Order, error) {
	if amountMinor <= 0 {
		return nil, ErrInvalidAmount
	}

	reqBody := createOrderRequest{
		AmountMinor: amountMinor,
		Currency:    currency,
		Receipt:     "bkg_" + uuid.NewString(),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrOrderCreation, err)
	}

	url := c.baseURL + "/v1/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrOrderCreation, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("CreateOrder: provider request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		c.log.Error("CreateOrder: provider returned status %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrOrderCreation, resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if order.ID == "" {
		return nil, fmt.Errorf("%w: empty order id", ErrInvalidResponse)
	}

	c.log.Info("CreateOrder: order %s registered for amount=%d %s", order.ID, amountMinor, currency)
	return &order, nil
}

// VerifySignature проверяет подпись callback провайдера.
// Подпись пересчитывается на нашей стороне по shared secret, см. signature.go.
func (c *Client) VerifySignature(proof Proof) bool {
	return VerifySignature(c.keySecret, proof)
}
