// Package checkout drives a remote cart through address capture, shipping
// selection, payment-session setup, and payment confirmation. Each browser
// session owns one checkout Session; the Orchestrator performs the remote
// side effects and advances the session's stage.
package checkout

import (
	"sync"

	"github.com/strandluxe/storefront/internal/domain"
)

// Stage is the single active phase of a checkout session. Stages advance
// strictly forward; the only backward transition is a full address
// re-submission.
type Stage string

const (
	StageAddress   Stage = "address"
	StageShipping  Stage = "shipping"
	StagePayment   Stage = "payment"
	StageCompleted Stage = "completed"
)

// Session is one browser session's checkout state. All fields are private;
// mutation happens only through the Orchestrator, which serializes runs
// with the in-flight latch and discards stale writes with the generation
// counter.
type Session struct {
	mu         sync.Mutex
	inFlight   bool
	generation uint64

	stage            Stage
	cartID           string
	email            string
	address          *domain.Address
	options          []domain.ShippingOption
	selectedOptionID string
	clientSecret     string
	orderID          string

	message         string
	noOptions       bool
	supportRequired bool
}

// NewSession creates a session at the address stage, bound to no cart.
func NewSession() *Session {
	return &Session{stage: StageAddress}
}

// State is a point-in-time snapshot of a session, safe to render.
type State struct {
	Stage            Stage                   `json:"stage"`
	CartID           string                  `json:"cart_id"`
	Email            string                  `json:"email,omitempty"`
	Address          *domain.Address         `json:"address,omitempty"`
	ShippingOptions  []domain.ShippingOption `json:"shipping_options,omitempty"`
	SelectedOptionID string                  `json:"selected_option_id,omitempty"`
	ClientSecret     string                  `json:"client_secret,omitempty"`
	OrderID          string                  `json:"order_id,omitempty"`

	// Message is a dismissable inline error for the shopper.
	Message string `json:"message,omitempty"`

	// NoShippingOptions marks the address as unservable: the shipping
	// stage was reached but with nothing to choose from.
	NoShippingOptions bool `json:"no_shipping_options,omitempty"`

	// SupportRequired marks the charged-but-not-ordered outcome. It must
	// render as a higher-severity state than Message: the shopper cannot
	// resolve it by retrying.
	SupportRequired bool `json:"support_required,omitempty"`
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	options := make([]domain.ShippingOption, len(s.options))
	copy(options, s.options)

	var addr *domain.Address
	if s.address != nil {
		a := *s.address
		addr = &a
	}

	return State{
		Stage:             s.stage,
		CartID:            s.cartID,
		Email:             s.email,
		Address:           addr,
		ShippingOptions:   options,
		SelectedOptionID:  s.selectedOptionID,
		ClientSecret:      s.clientSecret,
		OrderID:           s.orderID,
		Message:           s.message,
		NoShippingOptions: s.noOptions,
		SupportRequired:   s.supportRequired,
	}
}

// begin acquires the in-flight latch and returns the run's generation.
// A second submission while one is in flight is rejected, not queued.
func (s *Session) begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return 0, ErrSubmissionInFlight
	}
	s.inFlight = true
	s.generation++
	return s.generation, nil
}

// finish releases the latch and applies mutate, unless a newer run (or a
// reset) has bumped the generation, in which case the write is discarded.
func (s *Session) finish(gen uint64, mutate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	s.inFlight = false
	if mutate != nil {
		mutate()
	}
}

// Reset returns the session to a fresh address stage. Any in-flight run
// becomes stale: its eventual finish is discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.inFlight = false
	s.stage = StageAddress
	s.cartID = ""
	s.email = ""
	s.address = nil
	s.options = nil
	s.selectedOptionID = ""
	s.clientSecret = ""
	s.orderID = ""
	s.message = ""
	s.noOptions = false
	s.supportRequired = false
}
