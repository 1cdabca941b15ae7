package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign вычисляет подпись провайдера: HMAC-SHA256 от "orderID|paymentID"
// в hex-кодировке. Провайдер подписывает callback тем же shared secret.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature пересчитывает подпись и сравнивает с присланной.
// Сравнение через hmac.Equal, устойчивое к timing-атакам.
func VerifySignature(secret string, proof Proof) bool {
	if proof.OrderID == "" || proof.PaymentID == "" || proof.Signature == "" {
		return false
	}
	expected := Sign(secret, proof.OrderID, proof.PaymentID)
	return hmac.Equal([]byte(expected), []byte(proof.Signature))
}
