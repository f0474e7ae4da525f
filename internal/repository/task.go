package repository

import (
	"context"

	"taskboard/internal/domain"
)

// TaskRepository exposes persistence operations for Task entities. Read
// operations resolve the task's user reference into Task.User when the
// referenced user still exists; otherwise User stays nil and the raw id is
// all callers get.
type TaskRepository interface {
	Init(ctx context.Context) error
	List(ctx context.Context) ([]domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (string, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	Reassign(ctx context.Context, id string, userID string) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
