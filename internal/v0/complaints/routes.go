package complaints

import (
	"HostelAPI/internal/auth"
	"HostelAPI/internal/v0/crud"

	"github.com/gin-gonic/gin"
)

type Handler = crud.Handler[Complaint, CreateComplaintRequest, UpdateComplaintRequest]

func NewHandler(repo *Repository) *Handler {
	return crud.NewHandler[Complaint, CreateComplaintRequest, UpdateComplaintRequest]("complaint", "Complaint", repo)
}

// RegisterRoutes mounts /complaints
func RegisterRoutes(rg *gin.RouterGroup, h *Handler, mw *auth.Middleware, limit gin.HandlerFunc) {
	admin := func(extra ...gin.HandlerFunc) []gin.HandlerFunc {
		return crud.Gate(append([]gin.HandlerFunc{mw.RequireAuth(), mw.RequireRole(auth.RoleAdmin)}, extra...)...)
	}

	h.Register(rg.Group("/complaints"), crud.Gates{
		List:   admin(),
		Mine:   crud.Gate(mw.RequireAuth()),
		Get:    admin(),
		Create: crud.Gate(mw.RequireAuth(), limit),
		Update: admin(limit),
		Delete: admin(limit),
	})
}
