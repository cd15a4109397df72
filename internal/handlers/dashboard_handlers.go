package handlers

import (
	"net/http"

	"crudefi_backend/internal/services"
	"crudefi_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetSummary: Error from dashboardService.Summary")
		utils.RespondInternalError(c, "Failed to load dashboard summary.")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, summary)
}
