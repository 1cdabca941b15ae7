package payment

import "errors"

var (
	// ErrOrderCreation возвращается, когда провайдер недоступен или отклонил запрос.
	// Ошибка транзиентная: клиент может повторить с той же суммой.
	ErrOrderCreation = errors.New("payment client: order creation failed")

	// ErrInvalidAmount возвращается при неположительной сумме ордера
	ErrInvalidAmount = errors.New("payment client: amount must be a positive integer of minor units")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("payment client: invalid response")
)
