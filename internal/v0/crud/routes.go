package crud

import (
	"github.com/gin-gonic/gin"
)

// Gates holds the middleware chain in front of each route. An empty chain
// leaves the route public.
type Gates struct {
	List   []gin.HandlerFunc
	Mine   []gin.HandlerFunc
	Get    []gin.HandlerFunc
	Create []gin.HandlerFunc
	Update []gin.HandlerFunc
	Delete []gin.HandlerFunc
}

func chain(gate []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	handlers := make([]gin.HandlerFunc, 0, len(gate)+1)
	handlers = append(handlers, gate...)
	return append(handlers, h)
}

// Endpoints is the handler set Mount wires. A resource handler embedding
// *Handler satisfies it and may shadow any single endpoint.
type Endpoints interface {
	List(c *gin.Context)
	ListMine(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// Register mounts the six standard routes on rg. /mine is skipped when
// its gate is nil, for resources without an owner.
func (h *Handler[T, C, P]) Register(rg *gin.RouterGroup, g Gates) {
	Mount(rg, h, g)
}

// Mount is Register for handlers that override some of the endpoints
func Mount(rg *gin.RouterGroup, e Endpoints, g Gates) {
	rg.GET("", chain(g.List, e.List)...)
	if g.Mine != nil {
		rg.GET("/mine", chain(g.Mine, e.ListMine)...)
	}
	rg.GET("/:id", chain(g.Get, e.Get)...)
	rg.POST("", chain(g.Create, e.Create)...)
	rg.PUT("/:id", chain(g.Update, e.Update)...)
	rg.DELETE("/:id", chain(g.Delete, e.Delete)...)
}

// Gate builds a middleware chain, dropping nil entries such as a disabled limiter
func Gate(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
