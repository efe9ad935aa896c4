package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/dto"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/validation"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user.
func (h *AuthHandler) Register(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		c.Error(err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), payload)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.Response{
		Message: "User registered successfully",
		Data:    dto.ToProfileDTO(*user),
	})
}

// Login authenticates a user, returns a bearer token and keeps a copy of it
// in the session for browser clients.
func (h *AuthHandler) Login(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		c.Error(err)
		return
	}

	credentials, err := validation.Rules{
		validation.String("email"),
		validation.Password("password"),
	}.Validate(c.Request.Context(), payload)
	if err != nil {
		c.Error(services.ErrInvalidLogin)
		return
	}

	email, password := "", ""
	if v := credentials.String("email"); v != nil {
		email = *v
	}
	if v := credentials.String("password"); v != nil {
		password = *v
	}

	token, _, err := h.authService.Login(c.Request.Context(), email, password)
	if err != nil {
		c.Error(err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, token)
	if err := session.Save(); err != nil {
		c.Error(fmt.Errorf("failed to save session: %w", err))
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successfully",
		Token:   token,
	})
}

// Logout revokes the current token and clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
		c.Error(err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		c.Error(fmt.Errorf("failed to clear session: %w", err))
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.authService.Profile(middleware.CurrentUser(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Profile retrieved successfully",
		Data:    dto.ToProfileDTO(*user),
	})
}

// UpdateProfile changes the authenticated user's name, email or password.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		c.Error(err)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), payload)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Profile updated successfully",
		Data:    dto.ToProfileDTO(*user),
	})
}
