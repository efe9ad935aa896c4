package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-task-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.PerPage)
	}
}

// UserSummary limits a preloaded user to the columns exposed in summaries.
func UserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}
