// Package testutil holds database fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/logging"
	"github.com/yukikurage/project-task-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database closed at test cleanup.
// Application logging is silenced along with GORM's.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	logging.SetLogger(zerolog.Nop())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" gets its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user whose password is hashed with the minimum bcrypt cost.
func CreateUser(t *testing.T, db *gorm.DB, name, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a project owned by owner (nil for none).
func CreateProject(t *testing.T, db *gorm.DB, name string, owner *models.User) *models.Project {
	t.Helper()

	project := &models.Project{Name: name}
	if owner != nil {
		project.OwnerID = &owner.ID
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTask inserts a task in project, optionally assigned.
func CreateTask(t *testing.T, db *gorm.DB, project *models.Project, name string, assignee *models.User) *models.Task {
	t.Helper()

	task := &models.Task{ProjectID: project.ID, Name: name}
	if assignee != nil {
		task.AssignedTo = &assignee.ID
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

// Date parses a YYYY-MM-DD literal and fails the test on error.
func Date(t *testing.T, value string) *time.Time {
	t.Helper()

	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return &d
}
