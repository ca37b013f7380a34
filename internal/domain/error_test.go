package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "message only",
			err: &Error{
				Code:    EINVALID,
				Message: "invalid input",
			},
			expected: "invalid input",
		},
		{
			name: "with operation",
			err: &Error{
				Code:    EINVALID,
				Op:      "checkout.address",
				Message: "invalid input",
			},
			expected: "checkout.address: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "commerce.cart.update",
				Message: "failed to update cart",
				Err:     errors.New("connection refused"),
			},
			expected: "commerce.cart.update: failed to update cart: connection refused",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to update cart",
				Err:     errors.New("connection refused"),
			},
			expected: "failed to update cart: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error", &Error{Code: ENOTFOUND, Message: "missing"}, ENOTFOUND},
		{"wrapped domain error", fmt.Errorf("outer: %w", &Error{Code: EPAYMENT, Message: "declined"}), EPAYMENT},
		{"plain error", errors.New("boom"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage_HidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("dial tcp: connection refused"), "commerce.cart.get", "failed to load cart")

	msg := ErrorMessage(err)
	if msg != "An internal error occurred. Please try again later." {
		t.Errorf("ErrorMessage() leaked internal detail: %q", msg)
	}
}

func TestErrorMessage_SupportRequired(t *testing.T) {
	msg := ErrorMessage(ErrChargedNotOrdered)
	if msg != ErrChargedNotOrdered.Message {
		t.Errorf("ErrorMessage() = %q, want the support-contact instruction", msg)
	}
	if ErrorCode(ErrChargedNotOrdered) != ESUPPORT {
		t.Errorf("ErrChargedNotOrdered code = %q, want %q", ErrorCode(ErrChargedNotOrdered), ESUPPORT)
	}
}

func TestWrapError_NilPassthrough(t *testing.T) {
	if got := WrapError(nil, EINTERNAL, "op", "msg"); got != nil {
		t.Errorf("WrapError(nil) = %v, want nil", got)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("checkout.address", "postal_code", "Postal code is required")

	if !IsValidationError(err) {
		t.Fatal("expected IsValidationError to be true")
	}

	fields := GetValidationFields(err)
	if fields["postal_code"] != "Postal code is required" {
		t.Errorf("unexpected field errors: %v", fields)
	}
}

func TestParseFulfillmentStatus(t *testing.T) {
	tests := []struct {
		in       string
		expected FulfillmentStatus
	}{
		{"pending", FulfillmentPending},
		{"shipped", FulfillmentShipped},
		{"requires_action", FulfillmentRequiresAction},
		{"partially_returned", FulfillmentOther},
		{"", FulfillmentOther},
	}

	for _, tt := range tests {
		if got := ParseFulfillmentStatus(tt.in); got != tt.expected {
			t.Errorf("ParseFulfillmentStatus(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
