package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/tdx/internal/formatter"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/desertthunder/tdx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TodosList prints live todos, styled by default or exported with --format.
func (r *Runner) TodosList(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	var todos []models.Todo
	var err error
	if cmd.Bool("legacy") {
		todos, err = r.todoClient().LegacySearch(ctx, cmd.String("search"))
	} else {
		todos, err = r.todoClient().List(ctx, cmd.String("search"))
	}
	if err != nil {
		return fmt.Errorf("failed to list todos: %w", err)
	}

	r.logger.Debug("listed todos", "count", len(todos))

	format := cmd.String("format")
	output := cmd.String("output")

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(todos, cmd.Bool("pretty"))
	case output != "":
		if err := formatter.WriteExport(todos, format, output); err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d todos to %s\n", len(todos), output)
	case format != "":
		data, err := formatter.Export(todos, format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	default:
		return r.writePlain("%s", ui.RenderTodos("Todos", todos))
	}
}

// TodosAdd creates a todo from the title argument.
func (r *Runner) TodosAdd(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	todo, err := r.todoClient().Create(ctx, title)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return r.writeTodo(cmd, "Created", todo)
}

// TodosUpdate overlays --title and --completed onto a todo. Unset flags leave fields untouched.
func (r *Runner) TodosUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := todoID(cmd)
	if err != nil {
		return err
	}
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	var patch models.UpdateTodo
	if cmd.IsSet("title") {
		title := cmd.String("title")
		patch.Title = &title
	}
	if cmd.IsSet("completed") {
		completed := cmd.Bool("completed")
		patch.Completed = &completed
	}

	todo, err := r.todoClient().Update(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update todo %d: %w", id, err)
	}
	return r.writeTodo(cmd, "Updated", todo)
}

// TodosToggle flips a todo's completed state.
func (r *Runner) TodosToggle(ctx context.Context, cmd *cli.Command) error {
	id, err := todoID(cmd)
	if err != nil {
		return err
	}
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	todo, err := r.todoClient().Toggle(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to toggle todo %d: %w", id, err)
	}
	return r.writeTodo(cmd, "Toggled", todo)
}

// TodosDelete soft deletes a todo.
func (r *Runner) TodosDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := todoID(cmd)
	if err != nil {
		return err
	}
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	result, err := r.todoClient().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, err)
	}
	return r.writePlain("✓ %s (#%d)\n", result.Message, id)
}

func (r *Runner) writeTodo(cmd *cli.Command, verb string, todo models.Todo) error {
	if cmd.Bool("json") {
		return r.writeJSON(todo, cmd.Bool("pretty"))
	}
	return r.writePlain("%s: %s\n", verb, ui.RenderTodo(todo))
}

func todoID(cmd *cli.Command) (int64, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q must be an integer", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
