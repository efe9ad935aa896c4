package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindUnauthenticated:    http.StatusUnauthorized,
		KindTokenExpired:       http.StatusUnauthorized,
		KindTokenInvalid:       http.StatusUnauthorized,
		KindForbidden:          http.StatusForbidden,
		KindNotFound:           http.StatusNotFound,
		KindValidation:         http.StatusUnprocessableEntity,
		KindTooManyRequests:    http.StatusTooManyRequests,
		KindServiceUnavailable: http.StatusServiceUnavailable,
		KindInternal:           http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status())
	}
}

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("loading project: %w", NotFound("Project not found."))

	assert.True(t, goerrors.Is(err, ErrNotFound))
	assert.False(t, goerrors.Is(err, ErrForbidden))
}

func TestValidationInOrder_Summary(t *testing.T) {
	err := ValidationInOrder([]string{"name", "email"}, map[string][]string{
		"email": {"The email field is required."},
		"name":  {"The name field is required."},
	})

	assert.Equal(t, "The name field is required. (and 1 more error)", err.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status())
	assert.Contains(t, err.Body(), "errors")
}

func TestValidation_SingleAndMany(t *testing.T) {
	single := ValidationField("name", "The name field is required.")
	assert.Equal(t, "The name field is required.", single.Message)

	many := Validation(map[string][]string{
		"a": {"first.", "second."},
		"b": {"third."},
	})
	assert.Equal(t, "first. (and 2 more errors)", many.Message)
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))

	forbidden := Classify(fmt.Errorf("wrapped: %w", ErrForbidden))
	assert.Equal(t, KindForbidden, forbidden.Kind)

	internal := Classify(goerrors.New("db is down"))
	assert.Equal(t, KindInternal, internal.Kind)
	assert.Equal(t, "Server error", internal.Message)
	assert.NotContains(t, internal.Body()["message"], "db is down")
	assert.NotContains(t, internal.Body(), "errors")
}
