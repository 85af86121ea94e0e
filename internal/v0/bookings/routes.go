package bookings

import (
	"HostelAPI/internal/auth"
	"HostelAPI/internal/v0/crud"

	"github.com/gin-gonic/gin"
)

type Handler = crud.Handler[Booking, CreateBookingRequest, UpdateBookingRequest]

func NewHandler(repo *Repository) *Handler {
	return crud.NewHandler[Booking, CreateBookingRequest, UpdateBookingRequest]("booking", "Booking", repo)
}

// RegisterRoutes mounts /bookings. Residents file and track their own bookings, wardens manage all of them.
func RegisterRoutes(rg *gin.RouterGroup, h *Handler, mw *auth.Middleware, limit gin.HandlerFunc) {
	signedIn := crud.Gate(mw.RequireAuth())
	admin := crud.Gate(mw.RequireAuth(), mw.RequireRole(auth.RoleAdmin))

	h.Register(rg.Group("/bookings"), crud.Gates{
		List:   admin,
		Mine:   signedIn,
		Get:    admin,
		Create: crud.Gate(mw.RequireAuth(), limit),
		Update: crud.Gate(mw.RequireAuth(), mw.RequireRole(auth.RoleAdmin), limit),
		Delete: crud.Gate(mw.RequireAuth(), mw.RequireRole(auth.RoleAdmin), limit),
	})
}
