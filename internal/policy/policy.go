// Package policy decides who may view or change projects and tasks. The
// predicates are pure: they only look at the data passed in.
package policy

import "github.com/yukikurage/project-task-api/internal/models"

// Action is an operation subject to authorization.
type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// CanProject reports whether user may perform action on project. For
// ActionView the project's tasks must be loaded: an assignee of any task can
// see the project.
func CanProject(user *models.User, action Action, project *models.Project) bool {
	if user == nil || project == nil {
		return false
	}

	owner := IsOwner(user, project)
	switch action {
	case ActionView:
		return owner || isAssignedToAnyTask(user.ID, project.Tasks)
	case ActionUpdate, ActionDelete:
		return owner
	default:
		return false
	}
}

// CanTask reports whether user may perform action on task. Tasks carry no
// ownership rule: every caller, including anonymous ones, is allowed.
// TODO: restrict task mutations to the project owner or the assignee once
// product confirms the intended rule.
func CanTask(_ *models.User, _ Action, _ *models.Task) bool {
	return true
}

// IsOwner reports whether user owns project.
func IsOwner(user *models.User, project *models.Project) bool {
	return user != nil && project != nil && project.OwnerID != nil && *project.OwnerID == user.ID
}

func isAssignedToAnyTask(userID uint64, tasks []models.Task) bool {
	for _, t := range tasks {
		if t.AssignedTo != nil && *t.AssignedTo == userID {
			return true
		}
	}
	return false
}
