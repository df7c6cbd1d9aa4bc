package database

import (
	"gorm.io/gorm"
)

// OrderedByPosition orders tasks by position; ties fall back to creation order.
func OrderedByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("tasks.position ASC").Order("tasks.created_at ASC").Order("tasks.id ASC")
}

// InDepartment restricts tasks to one department
func InDepartment(departmentID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.department_id = ?", departmentID)
	}
}

// VisibleToUser keeps tasks the user created, is assigned to, or is a collaborator on
func VisibleToUser(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"tasks.created_by = ? OR tasks.assigned_to = ? OR tasks.shared_with LIKE ?",
			userID, userID, SharedWithPattern(userID),
		)
	}
}

// SharedWithPattern matches a user id inside the JSON encoded shared_with column.
func SharedWithPattern(userID string) string {
	return `%"` + userID + `"%`
}
