package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is one of the known task statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task represents a unit of work assigned to a user.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	UserID      string
	User        *UserRef // populated join; nil when the reference did not resolve
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserRef is the embedded view of a task's user produced by the populate join.
type UserRef struct {
	ID    string
	Name  string
	Email string
}

// TaskPatch carries the fields of a partial task update. A nil field means
// "leave unchanged".
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	UserID      *string
}

// IsZero reports whether the patch carries no fields at all.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.UserID == nil
}
