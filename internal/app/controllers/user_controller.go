package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/app/services"
	"github.com/yigit/researchdesk/internal/middleware"
)

// UserController handles the admin user dashboard
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// List returns the user dashboard
// @Summary User dashboard
// @Description One page of users plus login and record-creation analytics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "admin or user"
// @Param search query string false "Matches name, email and role"
// @Param sort query string false "asc or desc by name"
// @Param page query int false "Page number" minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.UserDashboard}
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	resp, err := c.userService.Dashboard(ctx.Request.Context(), dto.ParseUserFilter(ctx.Request.URL.Query()), ctx.Request.URL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, resp, "")
}

// Delete removes a user account
// @Summary Delete user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "User deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "You cannot delete your own account"
// @Router /admin/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	principalID, _ := middleware.UserID(ctx)
	if err := c.userService.Delete(ctx.Request.Context(), principalID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, http.StatusOK, nil, "User deleted successfully")
}
