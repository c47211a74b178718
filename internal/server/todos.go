package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
)

// TodoHandler serves the /api/todos endpoints on top of a [models.Store].
type TodoHandler struct {
	store  models.Store
	logger *log.Logger
}

// NewTodoHandler creates a [TodoHandler] backed by store.
func NewTodoHandler(store models.Store, logger *log.Logger) *TodoHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TodoHandler{store: store, logger: logger}
}

// Routes returns the todo endpoints.
func (h *TodoHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/api/todos", Handler: h.List},
		{Method: http.MethodGet, Pattern: "/api/todos/search", Handler: h.LegacySearch},
		{Method: http.MethodPost, Pattern: "/api/todos", Handler: h.Create},
		{Method: http.MethodPut, Pattern: "/api/todos/{id}", Handler: h.Update},
		{Method: http.MethodPatch, Pattern: "/api/todos/{id}", Handler: h.Toggle},
		{Method: http.MethodDelete, Pattern: "/api/todos/{id}", Handler: h.Delete},
	}
}

// List returns live todos, filtered by the search query parameter.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, h.store.List(r.URL.Query().Get("search")), http.StatusOK)
}

// LegacySearch is List under its old path, filtered by the title query parameter.
func (h *TodoHandler) LegacySearch(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, h.store.List(r.URL.Query().Get("title")), http.StatusOK)
}

// Create adds a todo from a {title} body.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body models.CreateTodo
	if err := decodeBody(w, r, &body); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := body.Validate(); err != nil {
		WriteJSONError(w, models.MsgTitleEmpty, http.StatusBadRequest)
		return
	}

	todo, err := h.store.Create(*body.Title)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.logger.Debug("todo created", "id", todo.ID, "request_id", RequestIDFrom(r.Context()))
	WriteJSON(w, todo, http.StatusCreated)
}

// Update overlays the {title?, completed?} body onto the todo named by the path id.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body models.UpdateTodo
	if err := decodeBody(w, r, &body); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := body.Validate(); err != nil {
		WriteJSONError(w, models.MsgTitleEmpty, http.StatusBadRequest)
		return
	}

	todo, err := h.store.Update(id, body)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	WriteJSON(w, todo, http.StatusOK)
}

// Toggle flips the completed flag of the todo named by the path id.
func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	todo, err := h.store.Toggle(id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	WriteJSON(w, todo, http.StatusOK)
}

// Delete soft-deletes the todo named by the path id.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := h.store.Delete(id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.logger.Debug("todo deleted", "id", id, "request_id", RequestIDFrom(r.Context()))
	WriteJSON(w, res, http.StatusOK)
}

// writeStoreError maps store errors onto status codes.
func (h *TodoHandler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrTodoNotFound):
		WriteJSONError(w, models.MsgNotFound, http.StatusNotFound)
	case errors.Is(err, shared.ErrInvalidInput):
		WriteJSONError(w, models.MsgTitleEmpty, http.StatusBadRequest)
	default:
		h.logger.Error("store operation failed", "error", err)
		WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// pathID parses the {id} path value, writing a 400 when it is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		WriteJSONError(w, "id must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSONError(w, "Cannot "+r.Method+" "+r.URL.Path, http.StatusNotFound)
}
