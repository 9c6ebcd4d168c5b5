package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/app/services"
	"github.com/yigit/researchdesk/internal/middleware"
)

// ResearchController handles research endpoints
type ResearchController struct {
	researchService services.ResearchService
}

// NewResearchController creates a new ResearchController
func NewResearchController(researchService services.ResearchService) *ResearchController {
	return &ResearchController{researchService: researchService}
}

// List returns one page of research
// @Summary List research
// @Description Paginated research list with members. Filters are equality matches; program=any means no filter.
// @Tags research
// @Produce json
// @Security BearerAuth
// @Param type query string false "study, program or project"
// @Param status query string false "ongoing, completed or terminated"
// @Param year_completed query string false "Year completed"
// @Param program query string false "BSIT, BLIS, BSCS or any"
// @Param search query string false "Matches title, collaborating agency and funding source"
// @Param page query int false "Page number" minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.ResearchList}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /research [get]
func (c *ResearchController) List(ctx *gin.Context) {
	list, err := c.researchService.List(ctx.Request.Context(), dto.ParseResearchFilter(ctx.Request.URL.Query()), ctx.Request.URL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, list, "")
}

// Get returns a research record
// @Summary Get research
// @Description Research with its members and utilization
// @Tags research
// @Produce json
// @Security BearerAuth
// @Param id path int true "Research ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.ResearchDetail}
// @Failure 400 {object} dto.ErrorResponse "Invalid research ID"
// @Failure 404 {object} dto.ErrorResponse "Research not found"
// @Router /research/{id} [get]
func (c *ResearchController) Get(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	detail, err := c.researchService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, detail, "")
}

// Store creates a research record
// @Summary Create research
// @Description Multipart form. special_order and terminal_report accept pdf, doc and docx up to 10MB.
// @Tags research
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param research_title formData string true "Title"
// @Param type formData string true "study, program or project"
// @Param program formData string true "BSIT, BLIS or BSCS"
// @Param status formData string true "ongoing, completed or terminated"
// @Param funding_source formData string false "Funding source"
// @Param collaborating_agency formData string false "Collaborating agency"
// @Param start_date formData string false "YYYY-MM-DD"
// @Param year_completed formData string false "Year completed"
// @Param member_ids[] formData []int false "Member IDs" collectionFormat(multi)
// @Param special_order formData file false "Special order"
// @Param terminal_report formData file false "Terminal report"
// @Success 201 {object} dto.APIResponse{data=dto.ResearchItem} "Research added successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /research/store [post]
func (c *ResearchController) Store(ctx *gin.Context) {
	var form dto.ResearchForm
	bindErr := ctx.ShouldBind(&form)
	in, err := form.ToInput(bindErr, ctx.Request.PostForm)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	item, err := c.researchService.Create(ctx.Request.Context(), in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusCreated, item, "Research added successfully")
}

// Update replaces a research record
// @Summary Update research
// @Description Same fields as create. Files left out of the request keep their current value; member_ids left out keep the current team.
// @Tags research
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Research ID" Format(int64) minimum(1)
// @Param research_title formData string true "Title"
// @Param type formData string true "study, program or project"
// @Param program formData string true "BSIT, BLIS or BSCS"
// @Param status formData string true "ongoing, completed or terminated"
// @Param special_order formData file false "Special order"
// @Param terminal_report formData file false "Terminal report"
// @Success 200 {object} dto.APIResponse{data=dto.ResearchItem} "Research updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Research not found"
// @Router /research/{id} [patch]
func (c *ResearchController) Update(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	var form dto.ResearchForm
	bindErr := ctx.ShouldBind(&form)
	in, err := form.ToInput(bindErr, ctx.Request.PostForm)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	item, err := c.researchService.Update(ctx.Request.Context(), id, in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, item, "Research updated successfully")
}

// Delete removes a research record
// @Summary Delete research
// @Description Removes the research, its team rows, its utilization and every stored file
// @Tags research
// @Produce json
// @Security BearerAuth
// @Param id path int true "Research ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Research deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Research not found"
// @Router /research/{id} [delete]
func (c *ResearchController) Delete(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	if err := c.researchService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, nil, "Research deleted successfully")
}

// Options lists research for form dropdowns
// @Summary Research options
// @Tags research
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.Option}
// @Router /research/options [get]
func (c *ResearchController) Options(ctx *gin.Context) {
	options, err := c.researchService.Options(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, options, "")
}

// AddMember links a member to a research
// @Summary Add research member
// @Description Idempotent. Linking a member twice answers 200 without a second row.
// @Tags research
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Research ID" Format(int64) minimum(1)
// @Param request body dto.MembershipRequest true "Member"
// @Success 201 {object} dto.APIResponse "Member added successfully"
// @Success 200 {object} dto.APIResponse "Member is already linked"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Research not found"
// @Router /research/{id}/members [post]
func (c *ResearchController) AddMember(ctx *gin.Context) {
	addMember(ctx, c.researchService)
}

// RemoveMember unlinks a member from a research
// @Summary Remove research member
// @Tags research
// @Produce json
// @Security BearerAuth
// @Param id path int true "Research ID" Format(int64) minimum(1)
// @Param memberId path int true "Member ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Member removed successfully"
// @Failure 404 {object} dto.ErrorResponse "Member is not linked to this research"
// @Router /research/{id}/members/{memberId} [delete]
func (c *ResearchController) RemoveMember(ctx *gin.Context) {
	removeMember(ctx, c.researchService)
}
