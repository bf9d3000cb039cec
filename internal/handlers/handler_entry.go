package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// entryHandler handles HTTP requests for journal entries and account lines.
type entryHandler struct {
	postingService  portssvc.PostingSvcFacade
	reversalService portssvc.ReversalSvcFacade
}

func newEntryHandler(postingService portssvc.PostingSvcFacade, reversalService portssvc.ReversalSvcFacade) *entryHandler {
	return &entryHandler{
		postingService:  postingService,
		reversalService: reversalService,
	}
}

// RegisterEntryRoutes registers entry and ledger-line routes under a tenant group.
func RegisterEntryRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvcFacade, reversalService portssvc.ReversalSvcFacade) {
	h := newEntryHandler(postingService, reversalService)

	entries := group.Group("/entries")
	{
		entries.POST("", h.postEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}

	group.POST("/opening-balances", h.postOpeningBalances)
	group.GET("/accounts/:accountID/lines", h.listAccountLines)
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Validates and posts a balanced journal entry in one transaction.
// @Tags entries
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param entry body dto.CreateEntryRequest true "Entry with lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid or unbalanced entry"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 422 {object} map[string]string "Locked period or inactive account"
// @Security BearerAuth
// @Router /tenants/{tenantID}/entries [post]
func (h *entryHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.postingService.PostEntry(c.Request.Context(), tenantID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post entry")
		return
	}

	logger.Info("Entry posted", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// postOpeningBalances godoc
// @Summary Post opening balances
// @Description Posts the tenant's one-time opening balance entry. Rejected once any entry exists.
// @Tags entries
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param balances body dto.PostOpeningBalancesRequest true "Opening balance lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Opening balances already posted"
// @Security BearerAuth
// @Router /tenants/{tenantID}/opening-balances [post]
func (h *entryHandler) postOpeningBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.PostOpeningBalancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostOpeningBalances", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.postingService.PostOpeningBalances(c.Request.Context(), tenantID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post opening balances")
		return
	}

	logger.Info("Opening balances posted", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a page of posted entries, newest first. Reversal pairs are hidden unless includeReversals is set.
// @Tags entries
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Continuation token"
// @Param includeReversals query bool false "Include reversal pairs" default(false)
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid token"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenantID}/entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.postingService.ListEntries(c.Request.Context(), tenantID, requestingUserID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry with its lines.
// @Tags entries
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.GetEntryResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /tenants/{tenantID}/entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	entryID := c.Param("entryID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.postingService.GetEntryByID(c.Request.Context(), tenantID, entryID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve entry")
		return
	}

	c.JSON(http.StatusOK, dto.GetEntryResponse{
		Entry: dto.ToEntryResponse(entry),
		Lines: dto.ToLineResponses(entry.Lines),
	})
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Posts an exact debit/credit mirror of the entry and rolls back its side effects.
// @Tags entries
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param entryID path string true "Entry ID"
// @Param reversal body dto.ReverseEntryRequest true "Reversal reason and date"
// @Success 201 {object} dto.EntryResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 422 {object} map[string]string "Entry already reversed or is a reversal"
// @Security BearerAuth
// @Router /tenants/{tenantID}/entries/{entryID}/reverse [post]
func (h *entryHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	entryID := c.Param("entryID")

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.reversalService.ReverseEntry(c.Request.Context(), tenantID, entryID, req.Reason, req.ReversalDate, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse entry")
		return
	}

	logger.Info("Entry reversed", slog.String("entry_id", entryID), slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}

// listAccountLines godoc
// @Summary List an account's ledger lines
// @Description Retrieves a page of posted lines of one account, newest first.
// @Tags entries
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param accountID path string true "Account ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListLinesResponse
// @Failure 400 {object} map[string]string "Invalid token"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenantID}/accounts/{accountID}/lines [get]
func (h *entryHandler) listAccountLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	accountID := c.Param("accountID")

	var params dto.ListLinesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.postingService.ListLinesByAccount(c.Request.Context(), tenantID, accountID, requestingUserID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list account lines")
		return
	}

	c.JSON(http.StatusOK, resp)
}
