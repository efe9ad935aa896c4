package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskStatuses lists the accepted values for Task.Status.
var TaskStatuses = []string{
	string(TaskStatusTodo),
	string(TaskStatusInProgress),
	string(TaskStatusDone),
}

// TaskPriorities lists the accepted values for Task.Priority.
var TaskPriorities = []string{
	string(TaskPriorityLow),
	string(TaskPriorityMedium),
	string(TaskPriorityHigh),
}

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	ProjectID   uint64         `gorm:"not null" json:"project_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	AssignedTo  *uint64        `json:"assigned_to"`
	Priority    *TaskPriority  `gorm:"type:varchar(20)" json:"priority"`
	DueDate     *time.Time     `gorm:"type:date" json:"due_date"`
	Status      *TaskStatus    `gorm:"type:varchar(20)" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project  *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee *User    `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}
