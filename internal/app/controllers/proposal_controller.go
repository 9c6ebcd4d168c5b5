package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/app/services"
	"github.com/yigit/researchdesk/internal/middleware"
)

// ProposalController serves the read-only proposal view of research
type ProposalController struct {
	proposalService services.ProposalService
}

// NewProposalController creates a new ProposalController
func NewProposalController(proposalService services.ProposalService) *ProposalController {
	return &ProposalController{proposalService: proposalService}
}

// List returns one page of proposals
// @Summary List proposals
// @Description Research records projected as proposals, sorted by title
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param program query string false "BSIT, BLIS, BSCS or any"
// @Param year_completed query string false "Year completed"
// @Param search query string false "Matches title, start date and completion percentage"
// @Param sort query string false "asc or desc by title"
// @Param page query int false "Page number" minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.ProposalItem]}
// @Router /proposals [get]
func (c *ProposalController) List(ctx *gin.Context) {
	list, err := c.proposalService.List(ctx.Request.Context(), dto.ParseProposalFilter(ctx.Request.URL.Query()), ctx.Request.URL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, list, "")
}
