package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/app/services"
	"github.com/yigit/researchdesk/internal/middleware"
)

// MemberController handles member endpoints
type MemberController struct {
	memberService services.MemberService
}

// NewMemberController creates a new MemberController
func NewMemberController(memberService services.MemberService) *MemberController {
	return &MemberController{memberService: memberService}
}

// List returns one page of members
// @Summary List members
// @Description Each row carries ongoing, completed and publication counts
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param rank query string false "Rank"
// @Param member_program query string false "BSIT, BLIS, BSCS or any"
// @Param teaches_grad_school query string false "1 or 0"
// @Param search query string false "Matches full name"
// @Param sort query string false "asc or desc by full name"
// @Param page query int false "Page number" minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.MemberItem]}
// @Router /members [get]
func (c *MemberController) List(ctx *gin.Context) {
	list, err := c.memberService.List(ctx.Request.Context(), dto.ParseMemberFilter(ctx.Request.URL.Query()), ctx.Request.URL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, list, "")
}

// Get returns a member
// @Summary Get member
// @Description Member with linked research and publications
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.MemberDetail}
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{id} [get]
func (c *MemberController) Get(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	detail, err := c.memberService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, detail, "")
}

// Store creates a member
// @Summary Create member
// @Description Multipart form. profile_photo must be an image up to 2MB; it is stored auto-oriented and fitted to 512x512.
// @Tags members
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param full_name formData string true "Full name"
// @Param rank formData string true "Rank"
// @Param member_program formData string false "BSIT, BLIS or BSCS"
// @Param member_email formData string false "E-mail"
// @Param teaches_grad_school formData bool false "Teaches in graduate school"
// @Param profile_photo formData file false "Profile photo"
// @Success 201 {object} dto.APIResponse{data=dto.MemberItem} "Member added successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /members/store [post]
func (c *MemberController) Store(ctx *gin.Context) {
	var form dto.MemberForm
	in, err := form.ToInput(ctx.ShouldBind(&form))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	item, err := c.memberService.Create(ctx.Request.Context(), in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusCreated, item, "Member added successfully")
}

// Update replaces a member
// @Summary Update member
// @Description Same fields as create; the photo is kept when none is uploaded
// @Tags members
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID" Format(int64) minimum(1)
// @Param full_name formData string true "Full name"
// @Param rank formData string true "Rank"
// @Param profile_photo formData file false "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.MemberItem} "Member updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{id} [put]
func (c *MemberController) Update(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	var form dto.MemberForm
	in, err := form.ToInput(ctx.ShouldBind(&form))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	item, err := c.memberService.Update(ctx.Request.Context(), id, in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, item, "Member updated successfully")
}

// Delete removes a member
// @Summary Delete member
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Member deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{id} [delete]
func (c *MemberController) Delete(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	if err := c.memberService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, nil, "Member deleted successfully")
}

// Options lists members for form dropdowns
// @Summary Member options
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.Option}
// @Router /members/options [get]
func (c *MemberController) Options(ctx *gin.Context) {
	options, err := c.memberService.Options(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, options, "")
}
