package menu

import (
	"HostelAPI/internal/auth"
	"HostelAPI/internal/v0/crud"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /menu. The period views are public, everything else is admin only.
func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware, limit gin.HandlerFunc) {
	menu := rg.Group("/menu")
	{
		menu.GET("/weekly", h.Weekly)
		menu.GET("/daily", h.Daily)
		menu.GET("/specials", h.Specials)
	}

	admin := func(extra ...gin.HandlerFunc) []gin.HandlerFunc {
		return crud.Gate(append([]gin.HandlerFunc{
			authMiddleware.RequireAuth(),
			authMiddleware.RequireRole(auth.RoleAdmin),
		}, extra...)...)
	}

	h.Register(menu, crud.Gates{
		List:   admin(),
		Get:    admin(),
		Create: admin(limit),
		Update: admin(limit),
		Delete: admin(limit),
	})
}
