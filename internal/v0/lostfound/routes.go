package lostfound

import (
	"HostelAPI/internal/auth"
	"HostelAPI/internal/v0/crud"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /lostfound. Every signed-in resident can browse reports.
func RegisterRoutes(rg *gin.RouterGroup, h *Handler, mw *auth.Middleware, limit gin.HandlerFunc) {
	signedIn := crud.Gate(mw.RequireAuth())
	admin := func(extra ...gin.HandlerFunc) []gin.HandlerFunc {
		return crud.Gate(append([]gin.HandlerFunc{mw.RequireAuth(), mw.RequireRole(auth.RoleAdmin)}, extra...)...)
	}

	group := rg.Group("/lostfound")
	crud.Mount(group, h, crud.Gates{
		List:   signedIn,
		Mine:   signedIn,
		Get:    signedIn,
		Create: crud.Gate(mw.RequireAuth(), limit),
		Update: admin(limit),
		Delete: admin(limit),
	})
	group.POST("/:id/image", append(crud.Gate(mw.RequireAuth(), limit), h.UploadImage)...)
}
