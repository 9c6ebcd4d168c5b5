// Package routes wires controllers onto the gin engine
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/researchdesk/internal/app/controllers"
	"github.com/yigit/researchdesk/internal/middleware"
)

// Controllers groups every controller mounted under /api/v1.
type Controllers struct {
	Auth        *controllers.AuthController
	Research    *controllers.ResearchController
	Proposal    *controllers.ProposalController
	Member      *controllers.MemberController
	Publication *controllers.PublicationController
	Utilization *controllers.UtilizationController
	Dashboard   *controllers.DashboardController
	User        *controllers.UserController
	Health      *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", c.Health.Ping)
	router.GET("/health", c.Health.Health)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.POST("/auth/logout", c.Auth.Logout)
	authenticated.GET("/auth/me", c.Auth.Me)
	authenticated.GET("/dashboard", c.Dashboard.Get)
	authenticated.GET("/proposals", c.Proposal.List)

	// Writes below require the admin role as currently stored.
	admin := authenticated.Group("")
	admin.Use(authMiddleware.AdminRequired())

	research := authenticated.Group("/research")
	{
		research.GET("", c.Research.List)
		research.GET("/options", c.Research.Options)
		research.GET("/:id", c.Research.Get)
	}
	researchAdmin := admin.Group("/research")
	{
		researchAdmin.POST("/store", c.Research.Store)
		researchAdmin.PATCH("/:id", c.Research.Update)
		researchAdmin.DELETE("/:id", c.Research.Delete)
		researchAdmin.POST("/:id/members", c.Research.AddMember)
		researchAdmin.DELETE("/:id/members/:memberId", c.Research.RemoveMember)
	}

	members := authenticated.Group("/members")
	{
		members.GET("", c.Member.List)
		members.GET("/options", c.Member.Options)
		members.GET("/:id", c.Member.Get)
	}
	membersAdmin := admin.Group("/members")
	{
		membersAdmin.POST("/store", c.Member.Store)
		membersAdmin.PUT("/:id", c.Member.Update)
		membersAdmin.DELETE("/:id", c.Member.Delete)
	}

	publications := authenticated.Group("/publications")
	{
		publications.GET("", c.Publication.List)
		publications.GET("/:id", c.Publication.Get)
	}
	publicationsAdmin := admin.Group("/publications")
	{
		publicationsAdmin.POST("/store", c.Publication.Store)
		publicationsAdmin.PATCH("/:id", c.Publication.Update)
		publicationsAdmin.DELETE("/:id", c.Publication.Delete)
		publicationsAdmin.POST("/:id/members", c.Publication.AddMember)
		publicationsAdmin.DELETE("/:id/members/:memberId", c.Publication.RemoveMember)
	}

	utilizations := authenticated.Group("/utilizations")
	{
		utilizations.GET("", c.Utilization.List)
		utilizations.GET("/:id", c.Utilization.Get)
	}
	utilizationsAdmin := admin.Group("/utilizations")
	{
		utilizationsAdmin.POST("", c.Utilization.Store)
		utilizationsAdmin.PUT("/:id", c.Utilization.Update)
		utilizationsAdmin.DELETE("/:id", c.Utilization.Delete)
	}

	users := admin.Group("/admin/users")
	{
		users.GET("", c.User.List)
		users.DELETE("/:id", c.User.Delete)
	}
}
