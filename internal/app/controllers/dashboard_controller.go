package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/app/services"
	"github.com/yigit/researchdesk/internal/middleware"
)

// DashboardController serves the summary dashboard
type DashboardController struct {
	dashboardService services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Get returns the dashboard
// @Summary Dashboard
// @Description Status counts, publication count and yearly trends.
// @Description year narrows the counts to research completed in that year and publications of that year. The yearly trends ignore it and only follow program.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param program query string false "BSIT, BLIS, BSCS or all"
// @Param year query string false "Year or all. Applied to year_completed and publication_year in the counts, echoed back, never applied to trends"
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse}
// @Router /dashboard [get]
func (c *DashboardController) Get(ctx *gin.Context) {
	resp, err := c.dashboardService.Get(ctx.Request.Context(), dto.ParseDashboardFilter(ctx.Request.URL.Query()))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, resp, "")
}
