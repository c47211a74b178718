package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/tdx/internal/models"
)

const (
	markDone = "✓"
	markOpen = "○"
)

// RenderTodo renders a single todo as a checklist line without a trailing newline.
func RenderTodo(t models.Todo) string {
	id := styles.Help(fmt.Sprintf("#%d", t.ID))
	if t.Completed {
		return fmt.Sprintf("%s %s %s", styles.OK(markDone), t.Title, id)
	}
	return fmt.Sprintf("%s %s %s", styles.Warn(markOpen), t.Title, id)
}

// RenderTodos renders a titled checklist. An empty list renders a hint instead.
func RenderTodos(title string, todos []models.Todo) string {
	var b strings.Builder

	done := 0
	for _, t := range todos {
		if t.Completed {
			done++
		}
	}

	b.WriteString(styles.Title(fmt.Sprintf("%s (%d/%d done)", title, done, len(todos))))
	b.WriteString("\n")

	if len(todos) == 0 {
		b.WriteString(styles.Help("nothing to do"))
		b.WriteString("\n")
		return b.String()
	}

	for _, t := range todos {
		b.WriteString(RenderTodo(t))
		b.WriteString("\n")
	}
	return b.String()
}
