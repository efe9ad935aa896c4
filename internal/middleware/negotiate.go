package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
)

// Negotiate decides once per request whether the caller expects JSON and
// forces the Accept header for those requests.
func Negotiate() gin.HandlerFunc {
	return func(c *gin.Context) {
		api := isAPIRequest(c.Request)
		c.Set(constants.ContextKeyExpectsJSON, api)

		if api && !acceptsJSON(c.Request) {
			c.Request.Header.Set("Accept", "application/json")
		}
		c.Next()
	}
}

// ExpectsJSON reports the classification made by Negotiate. Requests that
// were never classified are treated as API requests.
func ExpectsJSON(c *gin.Context) bool {
	if v, ok := c.Get(constants.ContextKeyExpectsJSON); ok {
		if api, ok := v.(bool); ok {
			return api
		}
	}
	return true
}

func isAPIRequest(r *http.Request) bool {
	return acceptsJSON(r) ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") ||
		r.URL.Path == constants.APIPathPrefix ||
		strings.HasPrefix(r.URL.Path, constants.APIPathPrefix+"/") ||
		r.Header.Get("Authorization") != ""
}

func acceptsJSON(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "application/json")
}
