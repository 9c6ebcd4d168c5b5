package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/app/services"
	"github.com/yigit/researchdesk/internal/middleware"
)

// UtilizationController handles utilization endpoints
type UtilizationController struct {
	utilizationService services.UtilizationService
}

// NewUtilizationController creates a new UtilizationController
func NewUtilizationController(utilizationService services.UtilizationService) *UtilizationController {
	return &UtilizationController{utilizationService: utilizationService}
}

// List returns one page of utilizations with program totals
// @Summary List utilizations
// @Tags utilizations
// @Produce json
// @Security BearerAuth
// @Param date_from query string false "YYYY-MM-DD, inclusive"
// @Param date_to query string false "YYYY-MM-DD, inclusive"
// @Param search query string false "Matches beneficiary and research title"
// @Param sort query string false "asc or desc by research title"
// @Param page query int false "Page number" minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.UtilizationList}
// @Router /utilizations [get]
func (c *UtilizationController) List(ctx *gin.Context) {
	list, err := c.utilizationService.List(ctx.Request.Context(), dto.ParseUtilizationFilter(ctx.Request.URL.Query()), ctx.Request.URL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, list, "")
}

// Get returns a utilization
// @Summary Get utilization
// @Tags utilizations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Utilization ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.UtilizationItem}
// @Failure 404 {object} dto.ErrorResponse "Utilization not found"
// @Router /utilizations/{id} [get]
func (c *UtilizationController) Get(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	item, err := c.utilizationService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, item, "")
}

// Store creates a utilization
// @Summary Create utilization
// @Description A research can be utilized once. certificate_of_utilization accepts any file up to 50000KB.
// @Tags utilizations
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param research_id formData int true "Research ID"
// @Param beneficiary formData string true "Beneficiary"
// @Param cert_date formData string true "YYYY-MM-DD"
// @Param certificate_of_utilization formData file false "Certificate of utilization"
// @Success 201 {object} dto.APIResponse{data=dto.UtilizationItem} "Utilization added successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /utilizations [post]
func (c *UtilizationController) Store(ctx *gin.Context) {
	var form dto.UtilizationForm
	in, err := form.ToInput(ctx.ShouldBind(&form))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	item, err := c.utilizationService.Create(ctx.Request.Context(), in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusCreated, item, "Utilization added successfully")
}

// Update replaces a utilization
// @Summary Update utilization
// @Tags utilizations
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Utilization ID" Format(int64) minimum(1)
// @Param research_id formData int true "Research ID"
// @Param beneficiary formData string true "Beneficiary"
// @Param cert_date formData string true "YYYY-MM-DD"
// @Param certificate_of_utilization formData file false "Certificate of utilization"
// @Success 200 {object} dto.APIResponse{data=dto.UtilizationItem} "Utilization updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Utilization not found"
// @Router /utilizations/{id} [put]
func (c *UtilizationController) Update(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	var form dto.UtilizationForm
	in, err := form.ToInput(ctx.ShouldBind(&form))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	item, err := c.utilizationService.Update(ctx.Request.Context(), id, in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, item, "Utilization updated successfully")
}

// Delete removes a utilization
// @Summary Delete utilization
// @Tags utilizations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Utilization ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Utilization deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Utilization not found"
// @Router /utilizations/{id} [delete]
func (c *UtilizationController) Delete(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	if err := c.utilizationService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, nil, "Utilization deleted successfully")
}
