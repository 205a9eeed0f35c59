package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/checkout-fields/internal/domain/checkout"
	"github.com/erp/checkout-fields/internal/domain/shared"
	"github.com/erp/checkout-fields/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IsFinalSubmission is the reference host's final-submission predicate: a
// submission carrying a payment-method indicator is an actual
// order-submission attempt, not a live field edit.
func IsFinalSubmission(sub *checkout.Submission) bool {
	return sub != nil && strings.TrimSpace(sub.PaymentMethod) != ""
}

// CheckoutHandler drives the extension pipeline from the host's checkout
// endpoints.
type CheckoutHandler struct {
	pipeline *checkout.Pipeline
	store    checkout.OrderStore
	registry *HostFieldRegistry
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(pipeline *checkout.Pipeline, store checkout.OrderStore, registry *HostFieldRegistry, logger *zap.Logger) *CheckoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutHandler{
		pipeline: pipeline,
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// ListFields returns the registered additional checkout fields for the
// host frontend.
// GET /api/v1/checkout/fields
func (h *CheckoutHandler) ListFields(c *gin.Context) {
	defs := h.registry.Definitions()
	out := make([]dto.FieldDefinitionResponse, 0, len(defs))
	for _, def := range defs {
		out = append(out, dto.FieldDefinitionResponse{
			ID:                def.ID,
			Label:             def.Label,
			Location:          string(def.Location),
			Type:              string(def.Type),
			Required:          def.Required,
			ShowOptionalLabel: def.ShowOptionalLabel,
		})
	}
	c.JSON(http.StatusOK, out)
}

// UpdateDraft handles a live field edit. The validation stage runs but
// required-field enforcement does not apply to non-final submissions.
// PUT /api/v1/checkout/:orderID
func (h *CheckoutHandler) UpdateDraft(c *gin.Context) {
	sub, ok := h.bindSubmission(c)
	if !ok {
		return
	}
	// Live edits never carry a payment method
	sub.PaymentMethod = ""

	errs, err := h.pipeline.Validate(c.Request.Context(), sub)
	if err != nil {
		h.logger.Error("checkout validation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.CheckoutResponse{Status: "error"})
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{
		Status: "draft",
		Errors: toErrorResponses(errs.Errors()),
	})
}

// Submit handles a final order submission: validate, file the submitted
// values into the order's generic field storage and run the order-update
// stage.
// POST /api/v1/checkout/:orderID
func (h *CheckoutHandler) Submit(c *gin.Context) {
	sub, ok := h.bindSubmission(c)
	if !ok {
		return
	}

	errs, err := h.pipeline.Validate(c.Request.Context(), sub)
	if err != nil {
		h.logger.Error("checkout validation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.CheckoutResponse{Status: "error"})
		return
	}
	if errs.HasErrors() {
		c.JSON(http.StatusUnprocessableEntity, dto.CheckoutResponse{
			Status: "rejected",
			Errors: toErrorResponses(errs.Errors()),
		})
		return
	}

	if err := h.storeSubmittedFields(c, sub); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.CheckoutResponse{Status: "not_found"})
			return
		}
		h.logger.Error("storing submitted fields failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.CheckoutResponse{Status: "error"})
		return
	}

	if err := h.pipeline.UpdateOrder(c.Request.Context(), sub.OrderID, sub); err != nil {
		h.logger.Error("order update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.CheckoutResponse{Status: "error"})
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{Status: "processed"})
}

// storeSubmittedFields mirrors the host platform behavior of persisting
// submitted additional-field values into the order's generic storage before
// the order-update hook fires.
func (h *CheckoutHandler) storeSubmittedFields(c *gin.Context, sub *checkout.Submission) error {
	order, err := h.store.FindByID(c.Request.Context(), sub.OrderID)
	if err != nil {
		return err
	}

	for fieldID, value := range sub.Values {
		def, registered := h.registry.Lookup(fieldID)
		if !registered || value == "" {
			continue
		}
		order.SetFieldValue(StorageGroup(def.Location), fieldID, value)
	}

	return h.store.Save(c.Request.Context(), order)
}

func (h *CheckoutHandler) bindSubmission(c *gin.Context) (*checkout.Submission, bool) {
	orderID, err := uuid.Parse(c.Param("orderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.CheckoutResponse{Status: "invalid_order_id"})
		return nil, false
	}

	var req dto.CheckoutSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.CheckoutResponse{
			Status: "invalid_request",
			Errors: bindingErrors(err),
		})
		return nil, false
	}

	return &checkout.Submission{
		OrderID:       orderID,
		Values:        req.Fields,
		PaymentMethod: req.PaymentMethod,
	}, true
}

func toErrorResponses(errs []checkout.FieldError) []dto.FieldErrorResponse {
	out := make([]dto.FieldErrorResponse, 0, len(errs))
	for _, e := range errs {
		out = append(out, dto.FieldErrorResponse{
			FieldID: e.FieldID,
			Code:    e.Code,
			Message: e.Message,
		})
	}
	return out
}
