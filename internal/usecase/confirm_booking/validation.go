package confirm_booking

import "fmt"

// validateRequest валидирует входные данные callback
func validateRequest(req *Request) error {
	if req.OrderID == "" {
		return fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}

	if req.PaymentID == "" {
		return fmt.Errorf("%w: paymentId is required", ErrInvalidInput)
	}

	if req.Signature == "" {
		return fmt.Errorf("%w: signature is required", ErrInvalidInput)
	}

	return nil
}
