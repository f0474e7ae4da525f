package memory

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard/internal/apperr"
	"taskboard/internal/domain"
	"taskboard/internal/repository"
	"taskboard/internal/validation"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Init(ctx context.Context) error {
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]domain.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, apperr.NotFound("user with id %s not found", id)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := validation.NormalizeEmail(user.Email)
	for _, existing := range r.store.users {
		if existing.Email == email {
			return "", apperr.Duplicate("email %s is already in use", email)
		}
	}

	now := time.Now().UTC()
	user.ID = primitive.NewObjectID().Hex()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now

	r.store.users[user.ID] = *user
	return user.ID, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, apperr.NotFound("user with id %s not found", id)
	}

	if patch.Email != nil {
		email := validation.NormalizeEmail(*patch.Email)
		for otherID, other := range r.store.users {
			if otherID != id && other.Email == email {
				return nil, apperr.Duplicate("email %s is already in use", email)
			}
		}
		user.Email = email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Age != nil {
		age := *patch.Age
		user.Age = &age
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}
	user.UpdatedAt = time.Now().UTC()

	r.store.users[id] = user
	return &user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return apperr.NotFound("user with id %s not found", id)
	}
	delete(r.store.users, id)
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	email = validation.NormalizeEmail(email)
	for _, user := range r.store.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.users[id]
	return ok, nil
}
