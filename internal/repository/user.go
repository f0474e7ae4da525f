package repository

import (
	"context"

	"taskboard/internal/domain"
)

// UserRepository defines persistence operations for User entities. Both the
// mongo-backed and the in-memory implementations satisfy it with identical
// semantics; callers never learn which mode is active.
type UserRepository interface {
	Init(ctx context.Context) error
	List(ctx context.Context) ([]domain.User, error)
	// Get returns the user or a NotFound error for an unknown id.
	Get(ctx context.Context, id string) (*domain.User, error)
	// Create assigns the id and timestamps. Returns a Duplicate error when
	// the email is already taken.
	Create(ctx context.Context, user *domain.User) (string, error)
	// Update merges the non-nil patch fields, refreshes UpdatedAt and returns
	// the stored record. Returns a Duplicate error when the patch changes the
	// email to one already taken.
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// FindByEmail looks a user up by normalized email. Returns (nil, nil)
	// when no user has the address.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Exists is a lightweight existence probe that fetches no fields.
	Exists(ctx context.Context, id string) (bool, error)
}
