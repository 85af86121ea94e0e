package counseling

import (
	"HostelAPI/internal/auth"
	"HostelAPI/internal/v0/crud"

	"github.com/gin-gonic/gin"
)

type Handler = crud.Handler[Appointment, CreateAppointmentRequest, UpdateAppointmentRequest]

func NewHandler(repo *Repository) *Handler {
	return crud.NewHandler[Appointment, CreateAppointmentRequest, UpdateAppointmentRequest]("counseling", "Appointment", repo)
}

// RegisterRoutes mounts /counseling. Counselors see and manage every appointment.
func RegisterRoutes(rg *gin.RouterGroup, h *Handler, mw *auth.Middleware, limit gin.HandlerFunc) {
	staff := func(extra ...gin.HandlerFunc) []gin.HandlerFunc {
		return crud.Gate(append([]gin.HandlerFunc{mw.RequireAuth(), mw.RequireRole(auth.RoleCounselor, auth.RoleAdmin)}, extra...)...)
	}

	h.Register(rg.Group("/counseling"), crud.Gates{
		List:   staff(),
		Mine:   crud.Gate(mw.RequireAuth()),
		Get:    staff(),
		Create: crud.Gate(mw.RequireAuth(), limit),
		Update: staff(limit),
		Delete: crud.Gate(mw.RequireAuth(), mw.RequireRole(auth.RoleAdmin), limit),
	})
}
