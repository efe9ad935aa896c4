package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/yukikurage/project-task-api/internal/config"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
)

// WrapHTTP adapts a net/http middleware to gin. The rest of the chain runs
// only when the wrapped middleware calls its next handler.
func WrapHTTP(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)
		if !called {
			c.Abort()
		}
	}
}

// CORS allows the configured browser origins with credentials.
func CORS(cfg *config.Config) gin.HandlerFunc {
	return WrapHTTP(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// RateLimit limits requests per client IP and answers 429 with the JSON
// error envelope.
func RateLimit(cfg *config.Config) gin.HandlerFunc {
	if cfg.RateLimitRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return WrapHTTP(httprate.Limit(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(apierrors.ErrTooManyRequests.Status())
			json.NewEncoder(w).Encode(apierrors.ErrTooManyRequests.Body())
		}),
	))
}
