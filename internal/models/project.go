package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// ProjectStatuses lists the accepted values for Project.Status.
var ProjectStatuses = []string{
	string(ProjectStatusPlanning),
	string(ProjectStatusOngoing),
	string(ProjectStatusCompleted),
}

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	StartDate   *time.Time     `gorm:"type:date" json:"start_date"`
	EndDate     *time.Time     `gorm:"type:date" json:"end_date"`
	Status      *ProjectStatus `gorm:"type:varchar(20)" json:"status"`
	OwnerID     *uint64        `json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Tasks []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
