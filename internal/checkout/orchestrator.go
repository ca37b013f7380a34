package checkout

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/strandluxe/storefront/internal/cart"
	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/domain"
	"github.com/strandluxe/storefront/internal/email"
	"github.com/strandluxe/storefront/internal/payments"
	"github.com/strandluxe/storefront/internal/telemetry"
)

// Orchestrator performs the remote side effects of each checkout step and
// advances session state. Every remote call within a step is sequential:
// each depends on the previous call's output. No step retries
// automatically; retry is always shopper-initiated.
type Orchestrator struct {
	commerce commerce.Client
	payments payments.Provider
	email    *email.Service
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger

	// returnURL is handed to the processor for off-site authentication
	// round trips.
	returnURL string
}

// NewOrchestrator creates the checkout orchestrator. email and metrics may
// be nil, which disables confirmation mail and funnel counters.
func NewOrchestrator(
	commerceClient commerce.Client,
	paymentProvider payments.Provider,
	sender *email.Service,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
	returnURL string,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		commerce:  commerceClient,
		payments:  paymentProvider,
		email:     sender,
		metrics:   metrics,
		logger:    logger,
		returnURL: returnURL,
	}
}

// Start binds the session to a cart and enters the address stage,
// pre-filling email and address from the remote cart. Starting over an
// in-progress checkout for the same cart resumes it instead.
func (o *Orchestrator) Start(ctx context.Context, s *Session, cartID string) (State, error) {
	gen, err := s.begin()
	if err != nil {
		return s.State(), err
	}

	if cur := s.State(); cur.CartID == cartID && cur.Stage != StageAddress && cur.Stage != StageCompleted {
		s.finish(gen, nil)
		return s.State(), nil
	}

	remote, err := o.commerce.RetrieveCart(ctx, cartID)
	if err != nil {
		s.finish(gen, nil)
		return s.State(), err
	}

	if o.metrics != nil {
		o.metrics.CheckoutStarted.Inc()
	}
	s.finish(gen, func() {
		s.stage = StageAddress
		s.cartID = cartID
		s.email = remote.Email
		s.address = remote.ShippingAddress
		s.options = nil
		s.selectedOptionID = ""
		s.clientSecret = ""
		s.orderID = ""
		s.message = ""
		s.noOptions = false
		s.supportRequired = false
	})
	return s.State(), nil
}

// SubmitAddress pushes email and address to the remote cart, then fetches
// the shipping options valid for that address. It is callable from any
// stage before completion: re-submitting the address is the one backward
// transition, and it invalidates any previously chosen shipping or payment
// state.
func (o *Orchestrator) SubmitAddress(ctx context.Context, s *Session, customerEmail string, addr domain.Address) (State, error) {
	gen, err := s.begin()
	if err != nil {
		return s.State(), err
	}

	cur := s.State()
	if cur.CartID == "" {
		s.finish(gen, nil)
		return s.State(), ErrNotStarted
	}
	if cur.Stage == StageCompleted {
		s.finish(gen, nil)
		return s.State(), ErrStageOrder
	}

	_, err = o.commerce.UpdateCart(ctx, cur.CartID, commerce.UpdateCartParams{
		Email:           customerEmail,
		ShippingAddress: &addr,
	})
	if err != nil {
		// Stay at the address stage with the submitted fields retained
		// for retry.
		s.finish(gen, func() {
			s.stage = StageAddress
			s.email = customerEmail
			s.address = &addr
			s.message = domain.ErrorMessage(err)
		})
		return s.State(), err
	}

	options, err := o.commerce.ListShippingOptions(ctx, cur.CartID)
	if err != nil {
		s.finish(gen, func() {
			s.stage = StageAddress
			s.email = customerEmail
			s.address = &addr
			s.message = domain.ErrorMessage(err)
		})
		return s.State(), err
	}

	if o.metrics != nil {
		o.metrics.CheckoutStep.WithLabelValues("address").Inc()
	}
	telemetry.AddBreadcrumb("checkout", "address accepted", map[string]interface{}{
		"cart_id":      cur.CartID,
		"option_count": len(options),
	})
	s.finish(gen, func() {
		s.stage = StageShipping
		s.email = customerEmail
		s.address = &addr
		s.options = options
		s.selectedOptionID = ""
		s.clientSecret = ""
		s.noOptions = len(options) == 0
		if s.noOptions {
			s.message = MsgNoShippingOptions
		} else {
			s.message = ""
		}
	})
	return s.State(), nil
}

// SelectShippingOption attaches the chosen option, then prepares the
// payment session: list providers, initiate a session with the first one,
// and re-fetch the cart for the confirmation secret. A failure at any
// sub-step leaves the session at the shipping stage; the attachment is not
// rolled back, so a retry re-enters here directly.
func (o *Orchestrator) SelectShippingOption(ctx context.Context, s *Session, optionID string) (State, error) {
	gen, err := s.begin()
	if err != nil {
		return s.State(), err
	}

	cur := s.State()
	if cur.Stage != StageShipping {
		s.finish(gen, nil)
		return s.State(), ErrStageOrder
	}

	fail := func(err error) (State, error) {
		s.finish(gen, func() {
			s.stage = StageShipping
			s.selectedOptionID = optionID
			s.message = domain.ErrorMessage(err)
		})
		return s.State(), err
	}

	remote, err := o.commerce.AddShippingMethod(ctx, cur.CartID, optionID)
	if err != nil {
		return fail(err)
	}

	providers, err := o.commerce.ListPaymentProviders(ctx, remote.RegionID)
	if err != nil {
		return fail(err)
	}
	if len(providers) == 0 {
		return fail(ErrNoPaymentProviders)
	}

	if _, err := o.commerce.InitiatePaymentSession(ctx, remote, providers[0].ID); err != nil {
		return fail(err)
	}

	refreshed, err := o.commerce.RetrieveCart(ctx, cur.CartID)
	if err != nil {
		return fail(err)
	}
	secret := refreshed.ClientSecret()
	if secret == "" {
		return fail(ErrMissingClientSecret)
	}

	if o.metrics != nil {
		o.metrics.CheckoutStep.WithLabelValues("shipping").Inc()
	}
	telemetry.AddBreadcrumb("checkout", "shipping selected", map[string]interface{}{
		"cart_id":   cur.CartID,
		"option_id": optionID,
	})
	s.finish(gen, func() {
		s.stage = StagePayment
		s.selectedOptionID = optionID
		s.clientSecret = secret
		s.message = ""
	})
	return s.State(), nil
}

// ConfirmPayment confirms the processor-side intent and completes the
// remote cart. Outcomes, in order of checking:
//   - processor failure: stay at the payment stage with the processor's
//     message, cart untouched;
//   - processor success with funds not captured: stay at the payment stage
//     with a generic message;
//   - cart completion returns an order: terminal success, the panel store
//     is cleared and the caller redirects to the order;
//   - anything else after capture: the charged-but-not-ordered outcome.
//     Never retried, never redirected; the shopper must contact support.
func (o *Orchestrator) ConfirmPayment(ctx context.Context, s *Session, panel *cart.Store, paymentMethodID string) (State, error) {
	gen, err := s.begin()
	if err != nil {
		return s.State(), err
	}

	cur := s.State()
	if cur.Stage != StagePayment {
		s.finish(gen, nil)
		return s.State(), ErrStageOrder
	}

	if o.metrics != nil {
		o.metrics.PaymentAttempts.Inc()
	}

	payment, err := o.payments.Confirm(ctx, payments.ConfirmParams{
		ClientSecret:    cur.ClientSecret,
		PaymentMethodID: paymentMethodID,
		ReturnURL:       o.returnURL,
		Billing:         billingFromState(cur),
	})
	if err != nil {
		if o.metrics != nil {
			o.metrics.PaymentFailed.WithLabelValues(domain.ErrorCode(err)).Inc()
		}
		s.finish(gen, func() {
			s.stage = StagePayment
			s.message = domain.ErrorMessage(err)
		})
		return s.State(), err
	}
	return o.settle(ctx, s, panel, gen, cur, payment)
}

// billingFromState turns the shipping address collected at the address
// stage into the cardholder details sent with the confirmation.
func billingFromState(cur State) *payments.BillingDetails {
	if cur.Address == nil {
		return nil
	}
	return &payments.BillingDetails{
		Name:    strings.TrimSpace(cur.Address.FirstName + " " + cur.Address.LastName),
		Email:   cur.Email,
		Phone:   cur.Address.Phone,
		Address: *cur.Address,
	}
}

// RefreshPayment re-checks the processor-side intent without confirming
// again. The storefront calls it when the shopper comes back from an
// off-site authentication redirect: the redirect itself carries no result,
// so the intent's current status decides whether checkout completes.
func (o *Orchestrator) RefreshPayment(ctx context.Context, s *Session, panel *cart.Store) (State, error) {
	gen, err := s.begin()
	if err != nil {
		return s.State(), err
	}

	cur := s.State()
	if cur.Stage != StagePayment {
		s.finish(gen, nil)
		return s.State(), ErrStageOrder
	}

	payment, err := o.payments.Retrieve(ctx, cur.ClientSecret)
	if err != nil {
		s.finish(gen, func() {
			s.stage = StagePayment
			s.message = domain.ErrorMessage(err)
		})
		return s.State(), err
	}

	return o.settle(ctx, s, panel, gen, cur, payment)
}

// settle drives the terminal part of checkout once the processor has
// reported on the intent: capture check, cart completion, panel clearing.
// The caller still holds the in-flight latch.
func (o *Orchestrator) settle(ctx context.Context, s *Session, panel *cart.Store, gen uint64, cur State, payment *payments.Payment) (State, error) {
	if !payment.Captured() {
		if o.metrics != nil {
			o.metrics.PaymentFailed.WithLabelValues("status_" + payment.Status).Inc()
		}
		s.finish(gen, func() {
			s.stage = StagePayment
			s.message = domain.ErrorMessage(ErrPaymentNotCompleted)
		})
		return s.State(), ErrPaymentNotCompleted
	}

	if o.metrics != nil {
		o.metrics.PaymentSucceeded.Inc()
	}

	result, err := o.commerce.CompleteCart(ctx, cur.CartID)
	if err != nil || result.Order == nil {
		// Funds are captured but no order exists. This is the one outcome
		// the shopper cannot resolve: retrying could double charge.
		if err != nil {
			o.logger.Error("cart completion failed after capture",
				"cart_id", cur.CartID,
				"intent_id", payment.IntentID,
				"error", err,
			)
		} else {
			o.logger.Error("cart completion returned no order after capture",
				"cart_id", cur.CartID,
				"intent_id", payment.IntentID,
				"platform_message", result.Message,
			)
		}
		telemetry.CaptureErrorFromContext(ctx, domain.ErrChargedNotOrdered, map[string]interface{}{
			"cart_id":   cur.CartID,
			"intent_id": payment.IntentID,
		})
		if o.metrics != nil {
			o.metrics.SupportOutcomes.Inc()
		}
		s.finish(gen, func() {
			s.stage = StagePayment
			s.supportRequired = true
			s.message = domain.ErrorMessage(domain.ErrChargedNotOrdered)
		})
		return s.State(), domain.ErrChargedNotOrdered
	}

	order := result.Order
	if o.metrics != nil {
		o.metrics.CheckoutStep.WithLabelValues("payment").Inc()
		o.metrics.CheckoutCompleted.Inc()
		o.metrics.OrdersCreated.Inc()
		o.metrics.OrderValue.Observe(float64(order.TotalCents))
		o.metrics.OrderItemCount.Observe(float64(len(order.Items)))
	}

	if panel != nil {
		panel.Clear()
		if o.metrics != nil {
			o.metrics.CartCleared.Inc()
		}
	}

	o.sendConfirmation(order)

	s.finish(gen, func() {
		s.stage = StageCompleted
		s.orderID = order.ID
		s.clientSecret = ""
		s.message = ""
	})
	return s.State(), nil
}

// sendConfirmation mails the order confirmation in the background. Send
// failures are logged, never surfaced to the shopper.
func (o *Orchestrator) sendConfirmation(order *domain.Order) {
	if o.email == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := o.email.SendOrderConfirmation(ctx, order); err != nil {
			o.logger.Error("order confirmation email failed",
				"order_id", order.ID,
				"email", order.Email,
				"error", err,
			)
			telemetry.CaptureError(err, map[string]interface{}{
				"order_id": order.ID,
			})
			if o.metrics != nil {
				o.metrics.EmailFailed.Inc()
			}
			return
		}
		if o.metrics != nil {
			o.metrics.EmailSent.Inc()
		}
	}()
}
