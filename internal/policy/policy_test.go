package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/project-task-api/internal/models"
)

func uid(id uint64) *uint64 { return &id }

func TestCanProject(t *testing.T) {
	owner := &models.User{ID: 1}
	assignee := &models.User{ID: 2}
	stranger := &models.User{ID: 3}

	project := &models.Project{
		ID:      10,
		OwnerID: uid(owner.ID),
		Tasks: []models.Task{
			{ID: 100, AssignedTo: uid(assignee.ID)},
			{ID: 101},
		},
	}

	tests := []struct {
		name   string
		user   *models.User
		action Action
		want   bool
	}{
		{"owner views", owner, ActionView, true},
		{"owner updates", owner, ActionUpdate, true},
		{"owner deletes", owner, ActionDelete, true},
		{"assignee views", assignee, ActionView, true},
		{"assignee cannot update", assignee, ActionUpdate, false},
		{"assignee cannot delete", assignee, ActionDelete, false},
		{"stranger cannot view", stranger, ActionView, false},
		{"stranger cannot update", stranger, ActionUpdate, false},
		{"stranger cannot delete", stranger, ActionDelete, false},
		{"anonymous cannot view", nil, ActionView, false},
		{"unknown action", owner, Action("archive"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanProject(tt.user, tt.action, project))
		})
	}
}

func TestCanProject_NoOwner(t *testing.T) {
	orphan := &models.Project{ID: 1}
	user := &models.User{ID: 1}

	assert.False(t, CanProject(user, ActionView, orphan))
	assert.False(t, CanProject(user, ActionUpdate, orphan))
	assert.False(t, CanProject(user, ActionDelete, orphan))
}

func TestCanProject_OwnershipProperty(t *testing.T) {
	for ownerID := uint64(1); ownerID <= 5; ownerID++ {
		project := &models.Project{OwnerID: uid(ownerID)}
		for userID := uint64(1); userID <= 5; userID++ {
			user := &models.User{ID: userID}
			isOwner := userID == ownerID
			assert.Equal(t, isOwner, CanProject(user, ActionUpdate, project))
			assert.Equal(t, isOwner, CanProject(user, ActionDelete, project))
			assert.Equal(t, isOwner, CanProject(user, ActionView, project))
		}
	}
}

func TestCanTask_Unrestricted(t *testing.T) {
	task := &models.Task{ID: 1, ProjectID: 1}
	for _, action := range []Action{ActionView, ActionUpdate, ActionDelete} {
		assert.True(t, CanTask(nil, action, task))
		assert.True(t, CanTask(&models.User{ID: 9}, action, task))
	}
}
