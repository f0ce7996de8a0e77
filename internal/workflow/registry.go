package workflow

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("workflow not found")

// Registry keeps the open workflows of a running server by id.
type Registry struct {
	mu        sync.RWMutex
	workflows map[string]*Controller
}

func NewRegistry() *Registry {
	return &Registry{
		workflows: make(map[string]*Controller),
	}
}

// Save registers c under its id.
func (r *Registry) Save(c *Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[c.ID()] = c
}

// Load returns the workflow with id, or ErrNotFound.
func (r *Registry) Load(id string) (*Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.workflows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// Delete disposes and forgets the workflow with id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	c, ok := r.workflows[id]
	delete(r.workflows, id)
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	c.Dispose()
	return nil
}

func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.workflows[id]
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workflows)
}

// Close disposes every workflow.
func (r *Registry) Close() {
	r.mu.Lock()
	workflows := r.workflows
	r.workflows = make(map[string]*Controller)
	r.mu.Unlock()

	for _, c := range workflows {
		c.Dispose()
	}
}
