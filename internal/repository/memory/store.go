// Package memory implements the repository interfaces on process-local
// collections. It is the fallback mode used when the database is unreachable
// at startup; nothing survives a restart.
package memory

import (
	"sync"

	"taskboard/internal/domain"
)

// Store owns the fallback collections. It is constructed once in main and
// shared by the user and task repositories so the task repository can join
// against users when populating references.
//
// The mutex only protects map access. Probe-then-write sequences (email
// uniqueness, user existence before a task write) span two calls and can
// still race across concurrent requests; the durable mode covers the email
// case with a unique index instead.
type Store struct {
	mu    sync.RWMutex
	users map[string]domain.User
	tasks map[string]domain.Task
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]domain.User),
		tasks: make(map[string]domain.Task),
	}
}
