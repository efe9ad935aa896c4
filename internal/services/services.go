package services

import (
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = apierrors.NotFound("Project not found")
	ErrTaskNotFound    = apierrors.NotFound("Task not found")
)

// requireActor fails with Unauthenticated when no identity was established.
func requireActor(actor *models.User) error {
	if actor == nil {
		return apierrors.ErrUnauthenticated
	}
	return nil
}

// lookupError maps a missing row to notFound and wraps anything else.
func lookupError(err error, notFound error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}
