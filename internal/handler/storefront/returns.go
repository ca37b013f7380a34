package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/domain"
	"github.com/strandluxe/storefront/internal/email"
	"github.com/strandluxe/storefront/internal/middleware"
	"github.com/strandluxe/storefront/internal/telemetry"
)

// ReturnHandler handles return reasons and return requests.
type ReturnHandler struct {
	client  commerce.Client
	email   *email.Service
	metrics *telemetry.BusinessMetrics
}

// NewReturnHandler creates a new return handler. email may be nil, in
// which case no acknowledgement mail is sent.
func NewReturnHandler(client commerce.Client, emailService *email.Service, metrics *telemetry.BusinessMetrics) *ReturnHandler {
	return &ReturnHandler{
		client:  client,
		email:   emailService,
		metrics: metrics,
	}
}

type createReturnRequest struct {
	OrderID string              `json:"order_id" validate:"required"`
	Items   []returnItemPayload `json:"items" validate:"required,min=1,dive"`
}

type returnItemPayload struct {
	LineItemID string `json:"line_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	ReasonID   string `json:"reason_id" validate:"required"`
	Note       string `json:"note"`
}

// ListReasons handles GET /api/return-reasons
func (h *ReturnHandler) ListReasons(w http.ResponseWriter, r *http.Request) {
	reasons, err := h.client.ListReturnReasons(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"return_reasons": reasons})
}

// Create handles POST /api/returns. Requires a signed-in customer; the
// platform validates line ownership and returnable quantities.
func (h *ReturnHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	items := make([]domain.ReturnItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.ReturnItem{
			LineItemID: it.LineItemID,
			Quantity:   it.Quantity,
			ReasonID:   it.ReasonID,
			Note:       it.Note,
		})
	}

	ret, err := h.client.CreateReturn(ctx, commerce.CreateReturnParams{
		Token:   middleware.GetCustomerToken(ctx),
		OrderID: req.OrderID,
		Items:   items,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ReturnsRequested.Inc()
	}

	if h.email != nil {
		logger := middleware.GetLogger(ctx)
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			order, err := h.client.RetrieveOrder(sendCtx, ret.OrderID)
			if err != nil {
				logger.Error("loading order for return acknowledgement failed", "order_id", ret.OrderID, "error", err)
				return
			}
			if err := h.email.SendReturnReceived(sendCtx, order.Email, ret, order); err != nil {
				logger.Error("return acknowledgement email failed", "order_id", ret.OrderID, "error", err)
				telemetry.CaptureError(err, map[string]interface{}{"order_id": ret.OrderID})
			}
		}()
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"return": ret})
}
