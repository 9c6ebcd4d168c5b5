package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/app/services"
	"github.com/yigit/researchdesk/internal/middleware"
)

// PublicationController handles publication endpoints
type PublicationController struct {
	publicationService services.PublicationService
}

// NewPublicationController creates a new PublicationController
func NewPublicationController(publicationService services.PublicationService) *PublicationController {
	return &PublicationController{publicationService: publicationService}
}

// List returns one page of publications
// @Summary List publications
// @Tags publications
// @Produce json
// @Security BearerAuth
// @Param publication_program query string false "BSIT, BLIS, BSCS or any"
// @Param year_from query string false "Earliest publication year"
// @Param year_to query string false "Latest publication year"
// @Param search query string false "Matches title"
// @Param sort query string false "asc or desc by title"
// @Param page query int false "Page number" minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.PublicationItem]}
// @Router /publications [get]
func (c *PublicationController) List(ctx *gin.Context) {
	list, err := c.publicationService.List(ctx.Request.Context(), dto.ParsePublicationFilter(ctx.Request.URL.Query()), ctx.Request.URL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, list, "")
}

// Get returns a publication
// @Summary Get publication
// @Tags publications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Publication ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.PublicationItem}
// @Failure 404 {object} dto.ErrorResponse "Publication not found"
// @Router /publications/{id} [get]
func (c *PublicationController) Get(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	item, err := c.publicationService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, item, "")
}

// Store creates a publication
// @Summary Create publication
// @Description Multipart form. incentive_file, product_file and patent_file accept pdf, doc and docx up to 10MB.
// @Tags publications
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param publication_title formData string true "Title"
// @Param journal formData string true "Journal"
// @Param publication_year formData string true "YYYY"
// @Param publication_program formData string false "BSIT, BLIS or BSCS"
// @Param publisher formData string true "Publisher"
// @Param online_view formData string true "Online view URL"
// @Param member_ids[] formData []int false "Member IDs" collectionFormat(multi)
// @Param incentive_file formData file false "Incentive certificate"
// @Param product_file formData file false "Product certificate"
// @Param patent_file formData file false "Patent certificate"
// @Success 201 {object} dto.APIResponse{data=dto.PublicationItem} "Publication added successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /publications/store [post]
func (c *PublicationController) Store(ctx *gin.Context) {
	var form dto.PublicationForm
	bindErr := ctx.ShouldBind(&form)
	in, err := form.ToInput(bindErr, ctx.Request.PostForm)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	item, err := c.publicationService.Create(ctx.Request.Context(), in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusCreated, item, "Publication added successfully")
}

// Update replaces a publication
// @Summary Update publication
// @Description Same fields as create. Files left out of the request are kept; member_ids left out keep the current authors.
// @Tags publications
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Publication ID" Format(int64) minimum(1)
// @Param publication_title formData string true "Title"
// @Param journal formData string true "Journal"
// @Param publication_year formData string true "YYYY"
// @Param publisher formData string true "Publisher"
// @Param online_view formData string true "Online view URL"
// @Param incentive_file formData file false "Incentive certificate"
// @Success 200 {object} dto.APIResponse{data=dto.PublicationItem} "Publication updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Publication not found"
// @Router /publications/{id} [patch]
func (c *PublicationController) Update(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	var form dto.PublicationForm
	bindErr := ctx.ShouldBind(&form)
	in, err := form.ToInput(bindErr, ctx.Request.PostForm)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	item, err := c.publicationService.Update(ctx.Request.Context(), id, in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, item, "Publication updated successfully")
}

// Delete removes a publication
// @Summary Delete publication
// @Tags publications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Publication ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Publication deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Publication not found"
// @Router /publications/{id} [delete]
func (c *PublicationController) Delete(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	if err := c.publicationService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, nil, "Publication deleted successfully")
}

// AddMember links an author to a publication
// @Summary Add publication author
// @Tags publications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Publication ID" Format(int64) minimum(1)
// @Param request body dto.MembershipRequest true "Member"
// @Success 201 {object} dto.APIResponse "Member added successfully"
// @Success 200 {object} dto.APIResponse "Member is already linked"
// @Router /publications/{id}/members [post]
func (c *PublicationController) AddMember(ctx *gin.Context) {
	addMember(ctx, c.publicationService)
}

// RemoveMember unlinks an author from a publication
// @Summary Remove publication author
// @Tags publications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Publication ID" Format(int64) minimum(1)
// @Param memberId path int true "Member ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Member removed successfully"
// @Router /publications/{id}/members/{memberId} [delete]
func (c *PublicationController) RemoveMember(ctx *gin.Context) {
	removeMember(ctx, c.publicationService)
}
