package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/validation"
)

// bindPayload reads the request body as JSON, or as form values when the
// client posted a form.
func bindPayload(c *gin.Context) (validation.Payload, error) {
	contentType := c.ContentType()
	if contentType == "application/x-www-form-urlencoded" || contentType == "multipart/form-data" {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, apierrors.ValidationField("body", "The request body could not be parsed.")
		}
		return validation.FromForm(c.Request.PostForm), nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, apierrors.ValidationField("body", "The request body could not be read.")
	}
	return validation.Decode(body)
}

// parseID reads the :id path parameter. Anything that is not an identifier
// cannot resolve to a row, so it is reported as not found.
func parseID(c *gin.Context, notFound error) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.Error(notFound)
		return 0, false
	}
	return id, true
}

// pageURL returns the absolute URL of the current listing without query.
func pageURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.Path
}
