package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// periodHandler handles HTTP requests for financial periods and period locks.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(periodService portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: periodService}
}

// registerPeriodRoutes registers period and lock routes under a tenant group.
func registerPeriodRoutes(group *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := group.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.PUT("/:periodID/status", h.updatePeriodStatus)
	}

	locks := group.Group("/period-locks")
	{
		locks.POST("", h.createLock)
		locks.GET("", h.listLocks)
		locks.DELETE("/:lockID", h.deleteLock)
	}
}

// createPeriod godoc
// @Summary Create a financial period
// @Description Creates a financial period. Admin only.
// @Tags periods
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenantID}/periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), tenantID, req, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create period")
		return
	}

	logger.Info("Period created", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List financial periods
// @Description Retrieves all financial periods of the tenant, oldest first.
// @Tags periods
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} dto.PeriodResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenantID}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), tenantID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list periods")
		return
	}

	c.JSON(http.StatusOK, dto.ToListPeriodResponse(periods))
}

// updatePeriodStatus godoc
// @Summary Transition a period's status
// @Description Moves a period between OPEN, CLOSED and LOCKED. Admin only.
// @Tags periods
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param periodID path string true "Period ID"
// @Param status body dto.UpdatePeriodStatusRequest true "New status"
// @Success 200 {object} dto.PeriodResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Invalid transition"
// @Security BearerAuth
// @Router /tenants/{tenantID}/periods/{periodID}/status [put]
func (h *periodHandler) updatePeriodStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	periodID := c.Param("periodID")

	var req dto.UpdatePeriodStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePeriodStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.periodService.UpdatePeriodStatus(c.Request.Context(), tenantID, periodID, req, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update period status")
		return
	}

	logger.Info("Period status updated", slog.String("period_id", periodID), slog.String("status", string(period.Status)))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// createLock godoc
// @Summary Create a period lock
// @Description Creates an ad-hoc period lock blocking postings in its date range. Admin only.
// @Tags periods
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param lock body dto.CreateLockRequest true "Lock details"
// @Success 201 {object} dto.LockResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenantID}/period-locks [post]
func (h *periodHandler) createLock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.CreateLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	lock, err := h.periodService.CreateLock(c.Request.Context(), tenantID, req, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create period lock")
		return
	}

	logger.Info("Period lock created", slog.String("lock_id", lock.LockID))
	c.JSON(http.StatusCreated, dto.ToLockResponse(lock))
}

// listLocks godoc
// @Summary List period locks
// @Description Retrieves all ad-hoc period locks of the tenant.
// @Tags periods
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} dto.LockResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenantID}/period-locks [get]
func (h *periodHandler) listLocks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	locks, err := h.periodService.ListLocks(c.Request.Context(), tenantID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list period locks")
		return
	}

	c.JSON(http.StatusOK, dto.ToListLockResponse(locks))
}

// deleteLock godoc
// @Summary Delete a period lock
// @Description Removes an ad-hoc period lock. Admin only.
// @Tags periods
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param lockID path string true "Lock ID"
// @Success 204 "Deleted"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Lock not found"
// @Security BearerAuth
// @Router /tenants/{tenantID}/period-locks/{lockID} [delete]
func (h *periodHandler) deleteLock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	lockID := c.Param("lockID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.periodService.DeleteLock(c.Request.Context(), tenantID, lockID, requestingUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete period lock")
		return
	}

	logger.Info("Period lock deleted", slog.String("lock_id", lockID))
	c.Status(http.StatusNoContent)
}
