package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strandluxe/storefront/internal/cart"
	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/domain"
	"github.com/strandluxe/storefront/internal/email"
	"github.com/strandluxe/storefront/internal/payments"
)

type fixture struct {
	client   *commerce.MockClient
	provider *payments.MockProvider
	sender   *email.MockSender
	orch     *Orchestrator
	session  *Session
	panel    *cart.Store
	cartID   string
}

var testAddress = domain.Address{
	FirstName:    "Ada",
	LastName:     "Lovelace",
	AddressLine1: "12 Analytical Way",
	City:         "Portland",
	Province:     "or",
	PostalCode:   "97201",
	CountryCode:  "us",
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	client := commerce.NewMockClient()
	client.Products = []domain.Product{{
		ID:     "prod_1",
		Title:  "Silk Repair Serum",
		Handle: "silk-repair-serum",
		Variants: []domain.Variant{
			{ID: "var_1", Title: "50ml", CalculatedPriceCents: 4900, InStock: true},
		},
	}}

	remote, err := client.CreateCart(context.Background(), commerce.CreateCartParams{RegionID: "reg_us"})
	require.NoError(t, err)
	_, err = client.AddLineItem(context.Background(), remote.ID, commerce.AddLineItemParams{VariantID: "var_1", Quantity: 2})
	require.NoError(t, err)

	provider := payments.NewMockProvider()
	sender := email.NewMockSender()
	svc := email.NewService(sender, "orders@strandluxe.test", "Strand Luxe", nil)

	f := &fixture{
		client:   client,
		provider: provider,
		sender:   sender,
		orch:     NewOrchestrator(client, provider, svc, nil, nil, "https://shop.test/checkout/return"),
		session:  NewSession(),
		panel:    cart.NewStore(),
		cartID:   remote.ID,
	}
	f.panel.Add(client.Products[0], client.Products[0].Variants[0])
	return f
}

// advance walks the fixture to the requested stage.
func (f *fixture) advance(t *testing.T, to Stage) {
	t.Helper()
	ctx := context.Background()

	_, err := f.orch.Start(ctx, f.session, f.cartID)
	require.NoError(t, err)
	if to == StageAddress {
		return
	}

	state, err := f.orch.SubmitAddress(ctx, f.session, "ada@example.com", testAddress)
	require.NoError(t, err)
	require.Equal(t, StageShipping, state.Stage)
	if to == StageShipping {
		return
	}

	state, err = f.orch.SelectShippingOption(ctx, f.session, "so_standard")
	require.NoError(t, err)
	require.Equal(t, StagePayment, state.Stage)
}

func TestOrchestrator_Start_PrefillsFromRemoteCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.client.UpdateCart(ctx, f.cartID, commerce.UpdateCartParams{
		Email:           "saved@example.com",
		ShippingAddress: &testAddress,
	})
	require.NoError(t, err)

	state, err := f.orch.Start(ctx, f.session, f.cartID)
	require.NoError(t, err)
	assert.Equal(t, StageAddress, state.Stage)
	assert.Equal(t, "saved@example.com", state.Email)
	require.NotNil(t, state.Address)
	assert.Equal(t, "Portland", state.Address.City)
}

func TestOrchestrator_Start_ResumesInProgressCheckout(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StageShipping)

	state, err := f.orch.Start(context.Background(), f.session, f.cartID)
	require.NoError(t, err)
	assert.Equal(t, StageShipping, state.Stage, "restart must not discard an in-progress stage")
}

func TestOrchestrator_SubmitAddress_NotStarted(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.SubmitAddress(context.Background(), f.session, "ada@example.com", testAddress)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestOrchestrator_SubmitAddress_AdvancesToShipping(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StageAddress)

	state, err := f.orch.SubmitAddress(context.Background(), f.session, "ada@example.com", testAddress)
	require.NoError(t, err)
	assert.Equal(t, StageShipping, state.Stage)
	assert.Len(t, state.ShippingOptions, 1)
	assert.False(t, state.NoShippingOptions)
	assert.Empty(t, state.Message)

	remote, err := f.client.RetrieveCart(context.Background(), f.cartID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", remote.Email)
	require.NotNil(t, remote.ShippingAddress)
	assert.Equal(t, "97201", remote.ShippingAddress.PostalCode)
}

func TestOrchestrator_SubmitAddress_ZeroOptions(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StageAddress)
	f.client.ShippingOptions = nil

	state, err := f.orch.SubmitAddress(context.Background(), f.session, "ada@example.com", testAddress)
	require.NoError(t, err)
	assert.Equal(t, StageShipping, state.Stage)
	assert.Empty(t, state.ShippingOptions)
	assert.True(t, state.NoShippingOptions)
	assert.Equal(t, MsgNoShippingOptions, state.Message)
}

func TestOrchestrator_SubmitAddress_RemoteFailureRetainsFields(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StageAddress)
	f.client.UpdateCartFunc = func(ctx context.Context, cartID string, params commerce.UpdateCartParams) (*domain.Cart, error) {
		return nil, &domain.Error{Code: domain.EINTERNAL, Message: "boom"}
	}

	state, err := f.orch.SubmitAddress(context.Background(), f.session, "ada@example.com", testAddress)
	assert.Error(t, err)
	assert.Equal(t, StageAddress, state.Stage)
	assert.Equal(t, "ada@example.com", state.Email, "submitted fields retained for retry")
	require.NotNil(t, state.Address)
	assert.Equal(t, "Portland", state.Address.City)
	assert.NotEmpty(t, state.Message)
}

func TestOrchestrator_SubmitAddress_BackwardFromPayment(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StagePayment)

	state, err := f.orch.SubmitAddress(context.Background(), f.session, "ada@example.com", testAddress)
	require.NoError(t, err)
	assert.Equal(t, StageShipping, state.Stage)
	assert.Empty(t, state.SelectedOptionID, "re-submitting the address invalidates the shipping choice")
	assert.Empty(t, state.ClientSecret)
}

func TestOrchestrator_SelectShippingOption_OutOfOrder(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StageAddress)

	_, err := f.orch.SelectShippingOption(context.Background(), f.session, "so_standard")
	assert.ErrorIs(t, err, ErrStageOrder)
}

func TestOrchestrator_SelectShippingOption_AdvancesToPayment(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StageShipping)

	state, err := f.orch.SelectShippingOption(context.Background(), f.session, "so_standard")
	require.NoError(t, err)
	assert.Equal(t, StagePayment, state.Stage)
	assert.Equal(t, "so_standard", state.SelectedOptionID)
	assert.NotEmpty(t, state.ClientSecret)
}

func TestOrchestrator_SelectShippingOption_NoProvidersStaysAtShipping(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StageShipping)
	f.client.ListPaymentProvidersFunc = func(ctx context.Context, regionID string) ([]domain.PaymentProvider, error) {
		return nil, nil
	}

	state, err := f.orch.SelectShippingOption(context.Background(), f.session, "so_standard")
	assert.ErrorIs(t, err, ErrNoPaymentProviders)
	assert.Equal(t, StageShipping, state.Stage)
	assert.Equal(t, "so_standard", state.SelectedOptionID, "selection not rolled back")

	// retry re-enters the step directly
	f.client.ListPaymentProvidersFunc = nil
	state, err = f.orch.SelectShippingOption(context.Background(), f.session, "so_standard")
	require.NoError(t, err)
	assert.Equal(t, StagePayment, state.Stage)
}

func TestOrchestrator_ConfirmPayment_ProcessorDecline(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StagePayment)
	f.provider.ConfirmFunc = func(ctx context.Context, params payments.ConfirmParams) (*payments.Payment, error) {
		return nil, &domain.Error{Code: domain.EPAYMENT, Message: "Your card has insufficient funds."}
	}

	state, err := f.orch.ConfirmPayment(context.Background(), f.session, f.panel, "pm_card")
	assert.True(t, domain.IsCode(err, domain.EPAYMENT))
	assert.Equal(t, StagePayment, state.Stage)
	assert.Equal(t, "Your card has insufficient funds.", state.Message)
	assert.False(t, state.SupportRequired)
	assert.Empty(t, f.client.Orders, "cart untouched on processor failure")
	assert.NotZero(t, f.panel.Count(), "panel not cleared on failure")
}

func TestOrchestrator_ConfirmPayment_NotCaptured(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StagePayment)
	f.provider.ConfirmFunc = func(ctx context.Context, params payments.ConfirmParams) (*payments.Payment, error) {
		return &payments.Payment{IntentID: "pi_1", Status: payments.StatusRequiresAction}, nil
	}

	state, err := f.orch.ConfirmPayment(context.Background(), f.session, f.panel, "pm_card")
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)
	assert.Equal(t, StagePayment, state.Stage)
	assert.Empty(t, f.client.Orders)
}

func TestOrchestrator_ConfirmPayment_Success(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StagePayment)

	sent := make(chan *email.Email, 1)
	f.sender.SendFunc = func(ctx context.Context, msg *email.Email) (string, error) {
		sent <- msg
		return "mock-1", nil
	}

	state, err := f.orch.ConfirmPayment(context.Background(), f.session, f.panel, "pm_card")
	require.NoError(t, err)
	assert.Equal(t, StageCompleted, state.Stage)
	assert.NotEmpty(t, state.OrderID)
	assert.False(t, state.SupportRequired)
	assert.Equal(t, 0, f.panel.Count(), "panel cleared on success")
	assert.False(t, f.panel.IsOpen())

	select {
	case msg := <-sent:
		assert.Equal(t, []string{"ada@example.com"}, msg.To)
	case <-time.After(2 * time.Second):
		t.Fatal("order confirmation email was not sent")
	}
}

func TestOrchestrator_ConfirmPayment_ForwardsBillingDetails(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StagePayment)

	var got payments.ConfirmParams
	f.provider.ConfirmFunc = func(ctx context.Context, params payments.ConfirmParams) (*payments.Payment, error) {
		got = params
		return &payments.Payment{IntentID: "pi_1", Status: payments.StatusSucceeded}, nil
	}

	_, err := f.orch.ConfirmPayment(context.Background(), f.session, f.panel, "pm_card")
	require.NoError(t, err)

	require.NotNil(t, got.Billing, "confirmation must carry cardholder details")
	assert.Equal(t, "Ada Lovelace", got.Billing.Name)
	assert.Equal(t, "ada@example.com", got.Billing.Email)
	assert.Equal(t, testAddress, got.Billing.Address)
}

func TestOrchestrator_ConfirmPayment_ChargedNotOrdered(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StagePayment)
	f.client.CompleteCartFunc = func(ctx context.Context, cartID string) (*commerce.CompleteCartResult, error) {
		return &commerce.CompleteCartResult{
			Cart:    &domain.Cart{ID: cartID},
			Message: "inventory reservation failed",
		}, nil
	}

	state, err := f.orch.ConfirmPayment(context.Background(), f.session, f.panel, "pm_card")
	assert.ErrorIs(t, err, domain.ErrChargedNotOrdered)
	assert.True(t, domain.IsCode(err, domain.ESUPPORT))
	assert.True(t, state.SupportRequired, "support outcome must be distinguishable from retryable errors")
	assert.Equal(t, StagePayment, state.Stage)
	assert.Empty(t, state.OrderID, "no redirect on partial failure")
	assert.NotZero(t, f.panel.Count(), "panel kept: the platform cart still exists")
}

func TestOrchestrator_ConfirmPayment_CompletionTransportFailure(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StagePayment)
	f.client.CompleteCartFunc = func(ctx context.Context, cartID string) (*commerce.CompleteCartResult, error) {
		return nil, errors.New("connection reset")
	}

	state, err := f.orch.ConfirmPayment(context.Background(), f.session, f.panel, "pm_card")
	assert.ErrorIs(t, err, domain.ErrChargedNotOrdered,
		"a failed completion call after capture is the same support outcome")
	assert.True(t, state.SupportRequired)
}

func TestOrchestrator_RefreshPayment_CompletesAfterRedirect(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StagePayment)
	f.provider.RetrieveFunc = func(ctx context.Context, clientSecret string) (*payments.Payment, error) {
		return &payments.Payment{IntentID: "pi_1", Status: payments.StatusSucceeded}, nil
	}

	state, err := f.orch.RefreshPayment(context.Background(), f.session, f.panel)
	require.NoError(t, err)
	assert.Equal(t, StageCompleted, state.Stage)
	assert.NotEmpty(t, state.OrderID)
	assert.Equal(t, 0, f.panel.Count())
}

func TestOrchestrator_RefreshPayment_StillPendingStaysAtPayment(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StagePayment)
	f.provider.RetrieveFunc = func(ctx context.Context, clientSecret string) (*payments.Payment, error) {
		return &payments.Payment{IntentID: "pi_1", Status: payments.StatusRequiresAction}, nil
	}

	state, err := f.orch.RefreshPayment(context.Background(), f.session, f.panel)
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)
	assert.Equal(t, StagePayment, state.Stage)
	assert.Empty(t, f.client.Orders)
}

func TestOrchestrator_RefreshPayment_OutOfOrder(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StageShipping)

	_, err := f.orch.RefreshPayment(context.Background(), f.session, f.panel)
	assert.ErrorIs(t, err, ErrStageOrder)
}

func TestOrchestrator_InFlightLatchRejectsSecondSubmission(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StagePayment)

	release := make(chan struct{})
	started := make(chan struct{})
	f.provider.ConfirmFunc = func(ctx context.Context, params payments.ConfirmParams) (*payments.Payment, error) {
		close(started)
		<-release
		return &payments.Payment{IntentID: "pi_1", Status: payments.StatusSucceeded}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.orch.ConfirmPayment(context.Background(), f.session, f.panel, "pm_card")
		done <- err
	}()

	<-started
	_, err := f.orch.ConfirmPayment(context.Background(), f.session, f.panel, "pm_card")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StageCompleted, f.session.State().Stage)
}

func TestOrchestrator_StaleRunCannotOverwriteReset(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StagePayment)

	release := make(chan struct{})
	started := make(chan struct{})
	f.provider.ConfirmFunc = func(ctx context.Context, params payments.ConfirmParams) (*payments.Payment, error) {
		close(started)
		<-release
		return &payments.Payment{IntentID: "pi_1", Status: payments.StatusSucceeded}, nil
	}

	done := make(chan struct{})
	go func() {
		f.orch.ConfirmPayment(context.Background(), f.session, f.panel, "pm_card")
		close(done)
	}()

	<-started
	f.session.Reset()
	close(release)
	<-done

	assert.Equal(t, StageAddress, f.session.State().Stage,
		"the stale run's completion must not overwrite the reset")
}

func TestSession_Snapshot_CopiesOptions(t *testing.T) {
	f := newFixture(t)
	f.advance(t, StageShipping)

	state := f.session.State()
	require.Len(t, state.ShippingOptions, 1)
	state.ShippingOptions[0].Name = "mutated"

	assert.Equal(t, "Standard Shipping", f.session.State().ShippingOptions[0].Name)
}

func TestRegistry_IsolatesSessionsAndRemoves(t *testing.T) {
	r := NewRegistry(0)

	a := r.For("sess_a")
	b := r.For("sess_b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, r.For("sess_a"))

	r.Remove("sess_a")
	assert.NotSame(t, a, r.For("sess_a"), "removal must hand out fresh state")
}

func TestRegistry_PruneDropsIdleSessions(t *testing.T) {
	r := NewRegistry(time.Hour)
	current := time.Now()
	r.now = func() time.Time { return current }

	r.For("sess_old")
	current = current.Add(2 * time.Hour)
	r.For("sess_new")

	removed := r.Prune()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Len())
}
