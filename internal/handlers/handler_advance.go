package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// advanceHandler handles HTTP requests for salary advances and payroll runs.
type advanceHandler struct {
	advanceService portssvc.AdvanceSvcFacade
}

func newAdvanceHandler(advanceService portssvc.AdvanceSvcFacade) *advanceHandler {
	return &advanceHandler{advanceService: advanceService}
}

// registerAdvanceRoutes registers advance and payroll-run routes under a tenant group.
func registerAdvanceRoutes(group *gin.RouterGroup, advanceService portssvc.AdvanceSvcFacade) {
	h := newAdvanceHandler(advanceService)

	advances := group.Group("/advances")
	{
		advances.POST("", h.createAdvance)
		advances.GET("", h.listAdvances)
		advances.GET("/:advanceID", h.getAdvance)
	}

	runs := group.Group("/payroll-runs")
	{
		runs.POST("", h.createPayrollRun)
		runs.GET("/:runID", h.getPayrollRun)
		runs.POST("/:runID/apply-deductions", h.applyDeductions)
		runs.POST("/:runID/reverse-deductions", h.reverseDeductions)
	}
}

// createAdvance godoc
// @Summary Grant a salary advance
// @Description Grants an advance and posts its disbursement entry from the given bank account.
// @Tags advances
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param advance body dto.CreateAdvanceRequest true "Advance details"
// @Success 201 {object} dto.AdvanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 422 {object} map[string]string "Locked period or missing system account"
// @Security BearerAuth
// @Router /tenants/{tenantID}/advances [post]
func (h *advanceHandler) createAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.CreateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAdvance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	advance, err := h.advanceService.CreateAdvance(c.Request.Context(), tenantID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create advance")
		return
	}

	logger.Info("Advance created", slog.String("advance_id", advance.AdvanceID), slog.String("employee_id", advance.EmployeeID))
	c.JSON(http.StatusCreated, dto.ToAdvanceResponse(advance))
}

// listAdvances godoc
// @Summary List salary advances
// @Description Retrieves the tenant's advances, optionally filtered by employee.
// @Tags advances
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param employeeID query string false "Filter by employee"
// @Success 200 {array} dto.AdvanceResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenantID}/advances [get]
func (h *advanceHandler) listAdvances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	employeeID := c.Query("employeeID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	advances, err := h.advanceService.ListAdvances(c.Request.Context(), tenantID, employeeID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list advances")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAdvanceResponse(advances))
}

// getAdvance godoc
// @Summary Get a salary advance
// @Description Retrieves a single advance by ID.
// @Tags advances
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param advanceID path string true "Advance ID"
// @Success 200 {object} dto.AdvanceResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Advance not found"
// @Security BearerAuth
// @Router /tenants/{tenantID}/advances/{advanceID} [get]
func (h *advanceHandler) getAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	advanceID := c.Param("advanceID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	advance, err := h.advanceService.GetAdvanceByID(c.Request.Context(), tenantID, advanceID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve advance")
		return
	}

	c.JSON(http.StatusOK, dto.ToAdvanceResponse(advance))
}

// createPayrollRun godoc
// @Summary Create a payroll run
// @Description Persists a DRAFT payroll run with its items.
// @Tags payroll
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param run body dto.CreatePayrollRunRequest true "Run with items"
// @Success 201 {object} dto.PayrollRunResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenantID}/payroll-runs [post]
func (h *advanceHandler) createPayrollRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.CreatePayrollRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayrollRun", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.advanceService.CreatePayrollRun(c.Request.Context(), tenantID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payroll run")
		return
	}

	logger.Info("Payroll run created", slog.String("payroll_run_id", run.PayrollRunID))
	c.JSON(http.StatusCreated, dto.ToPayrollRunResponse(run, run.Items))
}

// getPayrollRun godoc
// @Summary Get a payroll run
// @Description Retrieves a payroll run with its items.
// @Tags payroll
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param runID path string true "Payroll run ID"
// @Success 200 {object} dto.PayrollRunResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Run not found"
// @Security BearerAuth
// @Router /tenants/{tenantID}/payroll-runs/{runID} [get]
func (h *advanceHandler) getPayrollRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	runID := c.Param("runID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.advanceService.GetPayrollRun(c.Request.Context(), tenantID, runID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve payroll run")
		return
	}

	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run, run.Items))
}

// applyDeductions godoc
// @Summary Apply a payroll run's advance deductions
// @Description Consumes each item's deduction budget against the employee's open advances oldest-first and posts the payroll entry.
// @Tags payroll
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param runID path string true "Payroll run ID"
// @Param body body dto.ApplyDeductionsRequest true "Disbursing bank account"
// @Success 200 {object} dto.PayrollRunResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 422 {object} map[string]string "Run not in DRAFT status"
// @Security BearerAuth
// @Router /tenants/{tenantID}/payroll-runs/{runID}/apply-deductions [post]
func (h *advanceHandler) applyDeductions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	runID := c.Param("runID")

	var req dto.ApplyDeductionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyDeductions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.advanceService.ApplyDeductions(c.Request.Context(), tenantID, runID, req.BankAccountID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to apply deductions")
		return
	}

	logger.Info("Payroll deductions applied", slog.String("payroll_run_id", runID))
	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run, run.Items))
}

// reverseDeductions godoc
// @Summary Reverse a payroll run's advance deductions
// @Description Restores the run's advance deductions and reverses the payroll entry.
// @Tags payroll
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param runID path string true "Payroll run ID"
// @Success 200 {object} dto.PayrollRunResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 422 {object} map[string]string "Run not in APPLIED status"
// @Security BearerAuth
// @Router /tenants/{tenantID}/payroll-runs/{runID}/reverse-deductions [post]
func (h *advanceHandler) reverseDeductions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	runID := c.Param("runID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.advanceService.ReverseDeductions(c.Request.Context(), tenantID, runID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse deductions")
		return
	}

	logger.Info("Payroll deductions reversed", slog.String("payroll_run_id", runID))
	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run, run.Items))
}
