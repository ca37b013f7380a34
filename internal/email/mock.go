package email

import (
	"context"
	"fmt"
)

// MockSender is a mock email sender for testing.
type MockSender struct {
	// SendFunc allows customizing send behavior
	SendFunc func(ctx context.Context, email *Email) (string, error)

	// Sent stores every message passed to Send
	Sent []*Email

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockSender creates a new mock email sender.
func NewMockSender() *MockSender {
	return &MockSender{Sent: []*Email{}, CallLog: []string{}}
}

var _ Sender = (*MockSender)(nil)

// Send records the message.
func (m *MockSender) Send(ctx context.Context, email *Email) (string, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("Send(%v, %s)", email.To, email.Subject))

	if m.SendFunc != nil {
		return m.SendFunc(ctx, email)
	}

	m.Sent = append(m.Sent, email)
	return fmt.Sprintf("mock-%d", len(m.Sent)), nil
}
