package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

// CORSConfig configures the allowed cross-origin callers
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

// CORS adapts go-chi/cors to gin. Preflight requests are answered by the
// cors handler and never reach the route.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 300
	}

	handler := cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", HeaderRequestID},
		ExposedHeaders:   []string{HeaderRequestID, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           maxAge,
	})

	return func(c *gin.Context) {
		called := false
		handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
		})).ServeHTTP(c.Writer, c.Request)

		if !called {
			c.Abort()
			return
		}
		c.Next()
	}
}

// SplitOrigins turns a comma separated ALLOWED_ORIGIN value into a list
func SplitOrigins(v string) []string {
	return strings.Split(v, ",")
}
