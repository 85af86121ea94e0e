package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all auth-related routes.
// limit guards the credential endpoints; it may be nil.
func RegisterRoutes(
	router *gin.RouterGroup,
	handler *Handler,
	adminHandler *AdminHandler,
	middleware *Middleware,
	limit gin.HandlerFunc,
) {
	auth := router.Group("/auth")
	{
		public := auth.Group("")
		if limit != nil {
			public.Use(limit)
		}
		public.POST("/register", handler.Register)
		public.POST("/login", handler.Login)
		public.POST("/refresh", handler.Refresh)

		// OAuth routes
		auth.GET("/login/:provider", handler.OAuthLogin)
		auth.GET("/callback/:provider", handler.OAuthCallback)

		// Token-protected routes
		protected := auth.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/me", handler.Me)
			protected.POST("/logout", handler.Logout)
		}
	}

	// Admin routes
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAuth())
	admin.Use(middleware.RequireRole(RoleAdmin))
	{
		// User management
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
	}
}
