package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUser        = "user"
	ContextKeyClaims      = "token_claims"
	ContextKeyExpectsJSON = "expects_json"

	SessionCookieName = "project_session"
	SessionKeyToken   = "token"
)

// Pagination
const (
	MinPage             = 1
	ProjectPageSize     = 15
	TaskPageSize        = 20
	MaxNameLength       = 255
	MinPasswordLength   = 6
	MaxPasswordLength   = 72
	MaxAIGeneratedTasks = 20
)

// APIPathPrefix marks the JSON API surface.
const APIPathPrefix = "/api"
