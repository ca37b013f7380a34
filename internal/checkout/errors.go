package checkout

import "github.com/strandluxe/storefront/internal/domain"

// Checkout flow errors.
var (
	// ErrSubmissionInFlight rejects a second concurrent submission on the
	// same session while one is still running.
	ErrSubmissionInFlight = &domain.Error{Code: domain.ECONFLICT, Message: "A submission is already in progress"}

	// ErrStageOrder rejects an operation attempted out of stage order.
	ErrStageOrder = &domain.Error{Code: domain.EINVALID, Message: "Complete the previous checkout step first"}

	// ErrNotStarted rejects operations on a session with no bound cart.
	ErrNotStarted = &domain.Error{Code: domain.EINVALID, Message: "Checkout has not been started"}

	// ErrPaymentNotCompleted is the generic message for a confirmation
	// that came back without the funds captured.
	ErrPaymentNotCompleted = &domain.Error{Code: domain.EPAYMENT, Message: "Payment was not completed. Please try again."}

	// ErrNoPaymentProviders occurs when the region has no provider to
	// start a payment session with.
	ErrNoPaymentProviders = &domain.Error{Code: domain.EINTERNAL, Message: "No payment providers are available"}

	// ErrMissingClientSecret occurs when the refreshed cart carries no
	// confirmation secret after a session was initiated.
	ErrMissingClientSecret = &domain.Error{Code: domain.EINTERNAL, Message: "Payment session could not be prepared"}
)

// MsgNoShippingOptions is shown when the shipping stage is reached with an
// empty option list; the shopper must change address to proceed.
const MsgNoShippingOptions = "No shipping options are available for this address"
