// package models defines the data model for the todo service
package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/tdx/internal/shared"
)

// Validation messages returned to API clients.
const (
	MsgTitleEmpty = "title must not be empty"
	MsgNotFound   = "Todo not found"
	MsgDeleted    = "Todo deleted"
)

// Todo is a single task record.
//
// Deleted todos stay in the store with Deleted set and are skipped by every operation.
type Todo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Deleted   bool   `json:"deleted"`
}

// Store defines the operations the gateway performs on the todo collection.
type Store interface {
	List(search string) []Todo                       // List returns live todos whose title contains search
	Create(title string) (Todo, error)               // Create appends a todo with the next id
	Update(id int64, patch UpdateTodo) (Todo, error) // Update overlays the fields present in patch
	Toggle(id int64) (Todo, error)                   // Toggle flips Completed
	Delete(id int64) (DeleteResult, error)           // Delete marks the todo as deleted
}

// DeleteResult is the confirmation payload for a delete.
type DeleteResult struct {
	Message string `json:"message"`
}

// CreateTodo is the body of a create request.
type CreateTodo struct {
	Title *string `json:"title"`
}

// Validate requires a title that is not blank after trimming.
func (c CreateTodo) Validate() error {
	if c.Title == nil || strings.TrimSpace(*c.Title) == "" {
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, MsgTitleEmpty)
	}
	return nil
}

// UpdateTodo is the body of a replace/update request. Nil fields are left untouched.
type UpdateTodo struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// Validate rejects a present but blank title.
func (u UpdateTodo) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, MsgTitleEmpty)
	}
	return nil
}

// Apply returns current with the fields present in u copied over it.
// ID and Deleted are never changed.
func (u UpdateTodo) Apply(current Todo) Todo {
	next := current
	if u.Title != nil {
		next.Title = strings.TrimSpace(*u.Title)
	}
	if u.Completed != nil {
		next.Completed = *u.Completed
	}
	return next
}
