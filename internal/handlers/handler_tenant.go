package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// tenantHandler handles HTTP requests related to tenants and memberships.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

func newTenantHandler(tenantService portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{tenantService: tenantService}
}

// registerTenantRoutes registers tenant routes and nests every tenant-scoped
// resource under /tenants/:tenantID.
func registerTenantRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newTenantHandler(services.Tenant)

	tenantsTopLevel := rg.Group("/tenants")
	{
		tenantsTopLevel.POST("", h.createTenant)
	}

	tenantSpecific := rg.Group("/tenants/:tenantID")
	{
		tenantSpecific.GET("", h.getTenant)

		members := tenantSpecific.Group("/members")
		{
			members.POST("", h.addMember)
		}

		RegisterAccountRoutes(tenantSpecific, services.Account)
		RegisterEntryRoutes(tenantSpecific, services.Posting, services.Reversal)
		registerPeriodRoutes(tenantSpecific, services.Period)
		registerAdvanceRoutes(tenantSpecific, services.Advance)
		registerPayableRoutes(tenantSpecific, services.Payment)
		registerBankCounterpartyRoutes(tenantSpecific, services.BankAccount, services.Counterparty)
	}
}

// createTenant godoc
// @Summary Create a new tenant
// @Description Creates a new tenant and assigns the creator as admin.
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body dto.CreateTenantRequest true "Tenant details"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tenants [post]
func (h *tenantHandler) createTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTenant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create tenant")
		return
	}

	logger.Info("Tenant created", slog.String("tenant_id", tenant.TenantID))
	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

// getTenant godoc
// @Summary Get a tenant
// @Description Retrieves a tenant the caller is a member of.
// @Tags tenants
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{tenantID} [get]
func (h *tenantHandler) getTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), tenantID, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve tenant")
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// addMember godoc
// @Summary Add a member to a tenant
// @Description Grants a user a role in the tenant. Admin only.
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param member body dto.AddMemberRequest true "Member details"
// @Success 201 {object} dto.MembershipResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Already a member"
// @Security BearerAuth
// @Router /tenants/{tenantID}/members [post]
func (h *tenantHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	membership, err := h.tenantService.AddMember(c.Request.Context(), tenantID, req, requestingUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add member")
		return
	}

	logger.Info("Member added", slog.String("tenant_id", tenantID), slog.String("user_id", membership.UserID))
	c.JSON(http.StatusCreated, dto.ToMembershipResponse(membership))
}
