package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/auth"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	provider *auth.Provider
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	jwtManager := auth.NewJWTManager(auth.JWTConfig{SecretKey: "secret", TTL: time.Hour, Issuer: "test"})
	provider := auth.NewProvider(userRepo, jwtManager, auth.NewMemoryRevocationList())

	authService := services.NewAuthService(userRepo, provider)
	authService.SetHashCost(bcrypt.MinCost)
	handler := NewAuthHandler(authService)

	r := gin.New()
	r.Use(middleware.Negotiate(), middleware.ErrorRouter())
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.POST("/api/register", handler.Register)
	r.POST("/api/login", handler.Login)
	r.GET("/api/profile", middleware.RequireAuth(provider), handler.Profile)
	r.PUT("/api/profile", middleware.RequireAuth(provider), handler.UpdateProfile)
	r.POST("/api/logout", middleware.RequireAuth(provider), handler.Logout)

	return authTestEnv{db: db, router: r, provider: provider}
}

func (env authTestEnv) postJSON(t *testing.T, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, "User registered successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Alice", data["name"])
	assert.Equal(t, "alice@example.com", data["email"])
	assert.NotContains(t, data, "password")
}

func TestAuthHandler_RegisterForm(t *testing.T) {
	env := setupAuthTestEnv(t)

	form := url.Values{"name": {"Bob"}, "email": {"bob@example.com"}, "password": {"secret1"}}
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Bob", decode(t, w)["data"].(map[string]interface{})["name"])
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	env := setupAuthTestEnv(t)
	testutil.CreateUser(t, env.db, "Alice", "alice@example.com", "secret1")

	w := env.postJSON(t, "/api/register", map[string]string{
		"name":     "Other",
		"email":    "alice@example.com",
		"password": "123",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	errs := decode(t, w)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestAuthHandler_RegisterMalformedBody(t *testing.T) {
	env := setupAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	testutil.CreateUser(t, env.db, "Alice", "alice@example.com", "secret1")

	w := env.postJSON(t, "/api/login", map[string]string{"email": "alice@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Login successfully", body["message"])
	token := body["token"].(string)
	assert.NotEmpty(t, token)

	user, _, err := env.provider.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, constants.SessionCookieName, cookies[0].Name)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	env := setupAuthTestEnv(t)
	testutil.CreateUser(t, env.db, "Alice", "alice@example.com", "secret1")

	cases := map[string]interface{}{
		"wrong password": map[string]string{"email": "alice@example.com", "password": "secret2"},
		"unknown email":  map[string]string{"email": "nobody@example.com", "password": "secret1"},
		"missing fields": map[string]string{},
		"wrong types":    map[string]interface{}{"email": 5, "password": true},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			w := env.postJSON(t, "/api/login", payload, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Invalid login", decode(t, w)["message"])
		})
	}
}

func TestAuthHandler_ProfileAndLogout(t *testing.T) {
	env := setupAuthTestEnv(t)
	testutil.CreateUser(t, env.db, "Alice", "alice@example.com", "secret1")

	w := env.postJSON(t, "/api/login", map[string]string{"email": "alice@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Profile retrieved successfully", decode(t, w)["message"])

	w = env.postJSON(t, "/api/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out", decode(t, w)["message"])

	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token invalid", decode(t, w)["message"])
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	env := setupAuthTestEnv(t)
	testutil.CreateUser(t, env.db, "Alice", "alice@example.com", "secret1")

	w := env.postJSON(t, "/api/login", map[string]string{"email": "alice@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	body, err := json.Marshal(map[string]interface{}{"name": "Alicia", "password": "changed1"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/api/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alicia", decode(t, w)["data"].(map[string]interface{})["name"])

	w = env.postJSON(t, "/api/login", map[string]string{"email": "alice@example.com", "password": "changed1"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
