package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// payableHandler handles HTTP requests for bills, invoices and payments.
type payableHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPayableHandler(paymentService portssvc.PaymentSvcFacade) *payableHandler {
	return &payableHandler{paymentService: paymentService}
}

// registerPayableRoutes registers payable and payment routes under a tenant group.
func registerPayableRoutes(group *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPayableHandler(paymentService)

	payables := group.Group("/payables")
	{
		payables.POST("", h.createPayable)
		payables.GET("", h.listPayables)
		payables.GET("/:payableID", h.getPayable)
		payables.POST("/:payableID/payments", h.recordPayment)
	}

	payments := group.Group("/payments")
	{
		payments.POST("/:paymentID/reverse", h.reversePayment)
	}
}

// createPayable godoc
// @Summary Record a bill or invoice
// @Description Records a payable document and posts its accrual entry.
// @Tags payables
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param payable body dto.CreatePayableRequest true "Payable details"
// @Success 201 {object} dto.PayableResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Duplicate document number"
// @Security BearerAuth
// @Router /tenants/{tenantID}/payables [post]
func (h *payableHandler) createPayable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.CreatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayable", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payable, err := h.paymentService.CreatePayable(c.Request.Context(), tenantID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payable")
		return
	}

	logger.Info("Payable created", slog.String("payable_id", payable.PayableID), slog.String("kind", string(payable.Kind)))
	c.JSON(http.StatusCreated, dto.ToPayableResponse(payable))
}

// listPayables godoc
// @Summary List payables
// @Description Retrieves the tenant's payables, newest first, optionally filtered by kind.
// @Tags payables
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param kind query string false "BILL or INVOICE"
// @Success 200 {array} dto.PayableResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenantID}/payables [get]
func (h *payableHandler) listPayables(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var kind *domain.PayableKind
	if kindParam := c.Query("kind"); kindParam != "" {
		k := domain.PayableKind(kindParam)
		if !k.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be BILL or INVOICE"})
			return
		}
		kind = &k
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payables, err := h.paymentService.ListPayables(c.Request.Context(), tenantID, kind, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payables")
		return
	}

	c.JSON(http.StatusOK, dto.ToListPayableResponse(payables))
}

// getPayable godoc
// @Summary Get a payable
// @Description Retrieves a payable document by ID.
// @Tags payables
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param payableID path string true "Payable ID"
// @Success 200 {object} dto.PayableResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Payable not found"
// @Security BearerAuth
// @Router /tenants/{tenantID}/payables/{payableID} [get]
func (h *payableHandler) getPayable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	payableID := c.Param("payableID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payable, err := h.paymentService.GetPayableByID(c.Request.Context(), tenantID, payableID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve payable")
		return
	}

	c.JSON(http.StatusOK, dto.ToPayableResponse(payable))
}

// recordPayment godoc
// @Summary Record a payment against a payable
// @Description Settles part or all of a payable: payment row, paid-amount bump, bank and counterparty deltas, and the balanced GL entry, all in one transaction.
// @Tags payables
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param payableID path string true "Payable ID"
// @Param payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Payable not found"
// @Failure 422 {object} map[string]string "Overpayment or locked period"
// @Security BearerAuth
// @Router /tenants/{tenantID}/payables/{payableID}/payments [post]
func (h *payableHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	// The path is authoritative for which payable is being settled.
	req.PayableID = c.Param("payableID")

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), tenantID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("payable_id", payment.PayableID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// reversePayment godoc
// @Summary Reverse a payment
// @Description Undoes a payment by reversing its journal entry and rolling back payable, bank and counterparty state.
// @Tags payables
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param paymentID path string true "Payment ID"
// @Param reversal body dto.ReverseEntryRequest true "Reversal reason and date"
// @Success 200 {object} dto.PaymentResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 422 {object} map[string]string "Payment already reversed"
// @Security BearerAuth
// @Router /tenants/{tenantID}/payments/{paymentID}/reverse [post]
func (h *payableHandler) reversePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	paymentID := c.Param("paymentID")

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReversePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.paymentService.ReversePayment(c.Request.Context(), tenantID, paymentID, req.Reason, req.ReversalDate, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse payment")
		return
	}

	logger.Info("Payment reversed", slog.String("payment_id", paymentID))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}
