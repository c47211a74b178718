// Package ui styles terminal output for the tdx CLI with lipgloss.
//
// A [Palette] holds the named styles; [RenderTodos] and [RenderTodo] turn
// todos into checklist lines (✓ for completed, ○ for open) with the id
// dimmed alongside. Styles degrade to plain text when output is not a TTY.
package ui
