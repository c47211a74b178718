package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
)

// MemoryStore implements [models.Store] over an append-only slice.
type MemoryStore struct {
	mu     sync.Mutex
	todos  []models.Todo
	nextID int64
}

// NewMemoryStore creates an empty [MemoryStore] whose first id is 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		todos:  []models.Todo{},
		nextID: 1,
	}
}

// List returns copies of all live todos, in creation order.
//
// A blank search returns everything; otherwise titles are matched case-insensitively against the search text as
// given, surrounding spaces included.
func (s *MemoryStore) List(search string) []models.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	blank := strings.TrimSpace(search) == ""
	q := strings.ToLower(search)
	out := []models.Todo{}
	for _, todo := range s.todos {
		if todo.Deleted {
			continue
		}
		if !blank && !strings.Contains(strings.ToLower(todo.Title), q) {
			continue
		}
		out = append(out, todo)
	}
	return out
}

// Create appends a new todo with the next id.
func (s *MemoryStore) Create(title string) (models.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Todo{}, fmt.Errorf("%w: %s", shared.ErrInvalidInput, models.MsgTitleEmpty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	todo := models.Todo{ID: s.nextID, Title: title}
	s.nextID++
	s.todos = append(s.todos, todo)
	return todo, nil
}

// Update overlays the fields present in patch onto the live todo with id.
func (s *MemoryStore) Update(id int64, patch models.UpdateTodo) (models.Todo, error) {
	if err := patch.Validate(); err != nil {
		return models.Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.find(id)
	if err != nil {
		return models.Todo{}, err
	}
	s.todos[i] = patch.Apply(s.todos[i])
	return s.todos[i], nil
}

// Toggle flips the completed flag of the live todo with id.
func (s *MemoryStore) Toggle(id int64) (models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.find(id)
	if err != nil {
		return models.Todo{}, err
	}
	s.todos[i].Completed = !s.todos[i].Completed
	return s.todos[i], nil
}

// Delete soft-deletes the live todo with id.
func (s *MemoryStore) Delete(id int64) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.find(id)
	if err != nil {
		return models.DeleteResult{}, err
	}
	s.todos[i].Deleted = true
	return models.DeleteResult{Message: models.MsgDeleted}, nil
}

// Len returns the number of live todos.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, todo := range s.todos {
		if !todo.Deleted {
			n++
		}
	}
	return n
}

// find returns the index of the first live todo with id. Callers must hold mu.
func (s *MemoryStore) find(id int64) (int, error) {
	for i := range s.todos {
		if s.todos[i].ID == id && !s.todos[i].Deleted {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: id %d", shared.ErrTodoNotFound, id)
}
