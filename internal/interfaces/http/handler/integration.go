package handler

import (
	"github.com/gin-gonic/gin"
	integrationapp "github.com/xpro/backend/internal/application/integration"
)

// IntegrationHandler exposes manual triggers for the CRM and vendor
// feed sync jobs that normally run on the scheduler
type IntegrationHandler struct {
	BaseHandler
	crmSyncService    *integrationapp.CRMSyncService
	vendorSyncService *integrationapp.VendorSyncService
}

// NewIntegrationHandler creates a new integration handler
func NewIntegrationHandler(crmSyncService *integrationapp.CRMSyncService, vendorSyncService *integrationapp.VendorSyncService) *IntegrationHandler {
	return &IntegrationHandler{
		crmSyncService:    crmSyncService,
		vendorSyncService: vendorSyncService,
	}
}

// TriggerVendorSync godoc
// @Summary      Run the vendor course feed sync now
// @Tags         integrations
// @Produce      json
// @Success      200 {object} dto.Response{data=integrationapp.VendorSyncStats}
// @Security     BearerAuth
// @Router       /admin/integrations/vendor-sync [post]
func (h *IntegrationHandler) TriggerVendorSync(c *gin.Context) {
	stats, err := h.vendorSyncService.Sync(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// TriggerContactSync godoc
// @Summary      Push all user profiles to the CRM now
// @Tags         integrations
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/integrations/crm/contacts [post]
func (h *IntegrationHandler) TriggerContactSync(c *gin.Context) {
	synced, err := h.crmSyncService.SyncAllContacts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"synced": synced})
}

// TriggerProductSync godoc
// @Summary      Push all products to the CRM now
// @Tags         integrations
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/integrations/crm/products [post]
func (h *IntegrationHandler) TriggerProductSync(c *gin.Context) {
	synced, err := h.crmSyncService.SyncAllProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"synced": synced})
}

// SweepSyncErrors godoc
// @Summary      Retry failed CRM sync records
// @Tags         integrations
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/integrations/crm/sweep [post]
func (h *IntegrationHandler) SweepSyncErrors(c *gin.Context) {
	retried, err := h.crmSyncService.SweepSyncErrors(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"retried": retried})
}
