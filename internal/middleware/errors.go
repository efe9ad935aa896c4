package middleware

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/logging"
)

// ErrorRouter renders the last error attached with c.Error and recovers
// panics. API requests get the JSON envelope, others a minimal HTML page.
func ErrorRouter() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				render(c, apierrors.Internal(fmt.Errorf("panic: %v", r)))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		render(c, c.Errors.Last().Err)
	}
}

// NotFound is the handler for unknown routes.
func NotFound(c *gin.Context) {
	c.Error(apierrors.ErrNotFound)
}

func render(c *gin.Context, err error) {
	apiErr := apierrors.Classify(err)
	status := apiErr.Status()

	if status >= http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	if ExpectsJSON(c) {
		c.AbortWithStatusJSON(status, apiErr.Body())
		return
	}

	title := html.EscapeString(fmt.Sprintf("%d %s", status, http.StatusText(status)))
	page := fmt.Sprintf("<!DOCTYPE html>\n<html><head><title>%s</title></head><body><h1>%s</h1></body></html>\n", title, title)
	c.Data(status, "text/html; charset=utf-8", []byte(page))
	c.Abort()
}
