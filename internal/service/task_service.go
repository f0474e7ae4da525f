package service

import (
	"context"
	"strings"

	"taskboard/internal/apperr"
	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

// TaskService coordinates task operations and enforces the cross-entity
// invariant the repositories alone cannot guarantee: a task's user reference
// must resolve at create or reassign time. Dangling references left behind
// by a later user deletion are permitted.
type TaskService interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	CreateTask(ctx context.Context, title, description string, status *domain.TaskStatus, userID string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	ReassignTask(ctx context.Context, id string, userID string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type taskService struct {
	tasks repository.TaskRepository
	users repository.UserRepository
}

func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository) TaskService {
	return &taskService{tasks: tasks, users: users}
}

func (s *taskService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.List(ctx)
}

func (s *taskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.Get(ctx, id)
}

func (s *taskService) CreateTask(ctx context.Context, title, description string, status *domain.TaskStatus, userID string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.BadRequest("title is required")
	}
	if status != nil && !domain.ValidTaskStatus(*status) {
		return nil, apperr.BadRequest("invalid task status %q", string(*status))
	}

	if err := s.probeUser(ctx, userID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       title,
		Description: description,
		Status:      domain.TaskStatusPending,
		UserID:      userID,
	}
	if status != nil {
		task.Status = *status
	}

	if _, err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.IsZero() {
		return s.tasks.Get(ctx, id)
	}
	if patch.Status != nil && !domain.ValidTaskStatus(*patch.Status) {
		return nil, apperr.BadRequest("invalid task status %q", string(*patch.Status))
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return nil, apperr.BadRequest("title is required")
		}
		patch.Title = &trimmed
	}
	if patch.UserID != nil {
		if err := s.probeUser(ctx, *patch.UserID); err != nil {
			return nil, err
		}
	}
	return s.tasks.Update(ctx, id, patch)
}

func (s *taskService) UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !domain.ValidTaskStatus(status) {
		return nil, apperr.BadRequest("invalid task status %q", string(status))
	}
	return s.tasks.UpdateStatus(ctx, id, status)
}

func (s *taskService) ReassignTask(ctx context.Context, id string, userID string) (*domain.Task, error) {
	if err := s.probeUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.tasks.Reassign(ctx, id, userID)
}

func (s *taskService) DeleteTask(ctx context.Context, id string) error {
	// no fetch needed: Delete itself reports NotFound for an unknown id
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) probeUser(ctx context.Context, userID string) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.BadRequest("referenced user %s does not exist", userID)
	}
	return nil
}
