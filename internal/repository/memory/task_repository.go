package memory

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard/internal/apperr"
	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

type TaskRepository struct {
	store *Store
}

func NewTaskRepository(store *Store) repository.TaskRepository {
	return &TaskRepository{store: store}
}

func (r *TaskRepository) Init(ctx context.Context) error {
	return nil
}

func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(r.store.tasks))
	for _, t := range r.store.tasks {
		r.populate(&t)
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	task, ok := r.store.tasks[id]
	if !ok {
		return nil, apperr.NotFound("task with id %s not found", id)
	}
	r.populate(&task)
	return &task, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[task.UserID]; !ok {
		return "", apperr.BadRequest("referenced user %s does not exist", task.UserID)
	}

	now := time.Now().UTC()
	task.ID = primitive.NewObjectID().Hex()
	task.CreatedAt = now
	task.UpdatedAt = now

	r.store.tasks[task.ID] = *task
	r.populate(task)
	return task.ID, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	task, ok := r.store.tasks[id]
	if !ok {
		return nil, apperr.NotFound("task with id %s not found", id)
	}

	if patch.UserID != nil {
		if _, ok := r.store.users[*patch.UserID]; !ok {
			return nil, apperr.BadRequest("referenced user %s does not exist", *patch.UserID)
		}
		task.UserID = *patch.UserID
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	task.UpdatedAt = time.Now().UTC()

	r.store.tasks[id] = task
	r.populate(&task)
	return &task, nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	return r.Update(ctx, id, domain.TaskPatch{Status: &status})
}

func (r *TaskRepository) Reassign(ctx context.Context, id string, userID string) (*domain.Task, error) {
	return r.Update(ctx, id, domain.TaskPatch{UserID: &userID})
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tasks[id]; !ok {
		return apperr.NotFound("task with id %s not found", id)
	}
	delete(r.store.tasks, id)
	return nil
}

// populate resolves the task's user reference against the user collection.
// A dangling reference is not an error: User stays nil and callers fall back
// to the raw id. Callers must hold at least a read lock.
func (r *TaskRepository) populate(task *domain.Task) {
	task.User = nil
	if user, ok := r.store.users[task.UserID]; ok {
		task.User = &domain.UserRef{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		}
	}
}
