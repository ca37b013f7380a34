package payments

import (
	"context"
	"fmt"

	"github.com/strandluxe/storefront/internal/domain"
)

// MockProvider is a mock payment provider for testing.
// Simulates successful confirmations without calling the processor.
type MockProvider struct {
	// ConfirmFunc allows customizing confirmation behavior
	ConfirmFunc func(ctx context.Context, params ConfirmParams) (*Payment, error)

	// RetrieveFunc allows customizing retrieval behavior
	RetrieveFunc func(ctx context.Context, clientSecret string) (*Payment, error)

	// Payments stores confirmed payments by intent id for retrieval
	Payments map[string]*Payment

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockProvider creates a new mock payment provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Payments: make(map[string]*Payment),
		CallLog:  []string{},
	}
}

var _ Provider = (*MockProvider)(nil)

// Confirm records a successful payment.
func (m *MockProvider) Confirm(ctx context.Context, params ConfirmParams) (*Payment, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("Confirm(%s, %s)", params.ClientSecret, params.PaymentMethodID))

	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, params)
	}

	intentID := IntentIDFromClientSecret(params.ClientSecret)
	if intentID == "" {
		return nil, domain.Invalid("payments.mock.confirm", "Payment session is malformed")
	}

	payment := &Payment{
		IntentID: intentID,
		Status:   StatusSucceeded,
		Currency: "usd",
	}
	m.Payments[intentID] = payment
	return payment, nil
}

// Retrieve returns a stored payment, or a fresh unconfirmed one.
func (m *MockProvider) Retrieve(ctx context.Context, clientSecret string) (*Payment, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("Retrieve(%s)", clientSecret))

	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, clientSecret)
	}

	intentID := IntentIDFromClientSecret(clientSecret)
	if intentID == "" {
		return nil, domain.Invalid("payments.mock.retrieve", "Payment session is malformed")
	}
	if p, ok := m.Payments[intentID]; ok {
		return p, nil
	}
	return &Payment{IntentID: intentID, Status: StatusRequiresPaymentMethod, Currency: "usd"}, nil
}
