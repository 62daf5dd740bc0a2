package httpapi

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Заголовки доставки вебхука (формат svix, как у Linear).
const (
	headerWebhookID        = "webhook-id"
	headerWebhookTimestamp = "webhook-timestamp"
	headerWebhookSignature = "webhook-signature"
)

// WebhookSignatureMiddleware проверяет HMAC-подпись вебхука по схеме
// "v1,{base64(hmac-sha256(id.timestamp.body))}". Пустой секрет отключает
// проверку (дев-режим). Тело запроса восстанавливается для обработчика.
func WebhookSignatureMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)

			if err != nil {
				WriteUnauthorized(w, "failed to read request body")
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))

			msgID := r.Header.Get(headerWebhookID)
			timestamp := r.Header.Get(headerWebhookTimestamp)
			signature := r.Header.Get(headerWebhookSignature)

			if !verifySignature(body, msgID, timestamp, signature, secret) {
				WriteUnauthorized(w, "Invalid signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func verifySignature(body []byte, msgID, timestamp, signatureHeader, secret string) bool {
	if !strings.HasPrefix(signatureHeader, "v1,") {
		return false
	}

	received := strings.TrimPrefix(signatureHeader, "v1,")

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s.%s", msgID, timestamp, body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// Сравнение за постоянное время
	return hmac.Equal([]byte(received), []byte(expected))
}
