package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// bankCounterpartyHandler handles HTTP requests for bank accounts and
// counterparties.
type bankCounterpartyHandler struct {
	bankService    portssvc.BankAccountSvcFacade
	counterService portssvc.CounterpartySvcFacade
}

func newBankCounterpartyHandler(bankService portssvc.BankAccountSvcFacade, counterService portssvc.CounterpartySvcFacade) *bankCounterpartyHandler {
	return &bankCounterpartyHandler{
		bankService:    bankService,
		counterService: counterService,
	}
}

// registerBankCounterpartyRoutes registers bank-account and counterparty
// routes under a tenant group.
func registerBankCounterpartyRoutes(group *gin.RouterGroup, bankService portssvc.BankAccountSvcFacade, counterService portssvc.CounterpartySvcFacade) {
	h := newBankCounterpartyHandler(bankService, counterService)

	banks := group.Group("/bank-accounts")
	{
		banks.POST("", h.createBankAccount)
		banks.GET("/:bankAccountID", h.getBankAccount)
	}

	counterparties := group.Group("/counterparties")
	{
		counterparties.POST("", h.createCounterparty)
		counterparties.GET("/:counterpartyID", h.getCounterparty)
	}
}

// createBankAccount godoc
// @Summary Register a bank account
// @Description Registers a bank account against a GL asset account so its balance mirrors postings.
// @Tags side-effects
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param bankAccount body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenantID}/bank-accounts [post]
func (h *bankCounterpartyHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bank, err := h.bankService.CreateBankAccount(c.Request.Context(), tenantID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create bank account")
		return
	}

	logger.Info("Bank account created", slog.String("bank_account_id", bank.BankAccountID))
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(bank))
}

// getBankAccount godoc
// @Summary Get a bank account
// @Description Retrieves a bank account with its mirrored balance.
// @Tags side-effects
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param bankAccountID path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Security BearerAuth
// @Router /tenants/{tenantID}/bank-accounts/{bankAccountID} [get]
func (h *bankCounterpartyHandler) getBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	bankAccountID := c.Param("bankAccountID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bank, err := h.bankService.GetBankAccountByID(c.Request.Context(), tenantID, bankAccountID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve bank account")
		return
	}

	c.JSON(http.StatusOK, dto.ToBankAccountResponse(bank))
}

// createCounterparty godoc
// @Summary Register a counterparty
// @Description Registers a customer or vendor.
// @Tags side-effects
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param counterparty body dto.CreateCounterpartyRequest true "Counterparty details"
// @Success 201 {object} dto.CounterpartyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenantID}/counterparties [post]
func (h *bankCounterpartyHandler) createCounterparty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.CreateCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCounterparty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	counterparty, err := h.counterService.CreateCounterparty(c.Request.Context(), tenantID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create counterparty")
		return
	}

	logger.Info("Counterparty created", slog.String("counterparty_id", counterparty.CounterpartyID))
	c.JSON(http.StatusCreated, dto.ToCounterpartyResponse(counterparty))
}

// getCounterparty godoc
// @Summary Get a counterparty
// @Description Retrieves a counterparty with its running billed/paid totals.
// @Tags side-effects
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param counterpartyID path string true "Counterparty ID"
// @Success 200 {object} dto.CounterpartyResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Counterparty not found"
// @Security BearerAuth
// @Router /tenants/{tenantID}/counterparties/{counterpartyID} [get]
func (h *bankCounterpartyHandler) getCounterparty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	counterpartyID := c.Param("counterpartyID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	counterparty, err := h.counterService.GetCounterpartyByID(c.Request.Context(), tenantID, counterpartyID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve counterparty")
		return
	}

	c.JSON(http.StatusOK, dto.ToCounterpartyResponse(counterparty))
}
