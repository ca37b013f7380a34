package commerce

import (
	"fmt"
	"net/http"

	"github.com/strandluxe/storefront/internal/domain"
)

// apiError is the platform's documented JSON error body.
type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// mapStatusError converts a non-2xx platform response into a domain error.
// The platform's message is safe to surface for client-caused failures;
// 5xx detail is hidden behind the generic internal message.
func mapStatusError(op string, status int, body apiError) error {
	msg := body.Message
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &domain.Error{Code: domain.EINVALID, Op: op, Message: msg}
	case http.StatusUnauthorized:
		return &domain.Error{Code: domain.EUNAUTHORIZED, Op: op, Message: msg}
	case http.StatusForbidden:
		return &domain.Error{Code: domain.EFORBIDDEN, Op: op, Message: msg}
	case http.StatusNotFound:
		return &domain.Error{Code: domain.ENOTFOUND, Op: op, Message: msg}
	case http.StatusConflict:
		return &domain.Error{Code: domain.ECONFLICT, Op: op, Message: msg}
	case http.StatusPaymentRequired:
		return &domain.Error{Code: domain.EPAYMENT, Op: op, Message: msg}
	case http.StatusTooManyRequests:
		return &domain.Error{Code: domain.ERATELIMIT, Op: op, Message: "Too many requests, slow down"}
	default:
		return &domain.Error{
			Code:    domain.EINTERNAL,
			Op:      op,
			Message: "Commerce platform request failed",
			Err:     fmt.Errorf("status %d: %s", status, msg),
		}
	}
}
