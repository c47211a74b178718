// package formatter renders todo lists as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
)

// Supported export formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// ExportToCSV converts todos to CSV format with columns: ID, Title, Completed
func ExportToCSV(todos []models.Todo) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Completed"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, todo := range todos {
		record := []string{
			strconv.FormatInt(todo.ID, 10),
			todo.Title,
			strconv.FormatBool(todo.Completed),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts todos to a Markdown task list under the given heading
func ExportToMarkdown(todos []models.Todo, heading string) ([]byte, error) {
	var buf bytes.Buffer

	if heading == "" {
		heading = "Todos"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", heading))

	done := 0
	for _, todo := range todos {
		if todo.Completed {
			done++
		}
	}
	buf.WriteString(fmt.Sprintf("**Done**: %d/%d\n\n", done, len(todos)))

	for _, todo := range todos {
		mark := " "
		if todo.Completed {
			mark = "x"
		}
		buf.WriteString(fmt.Sprintf("- [%s] %s (#%d)\n", mark, escapeMarkdown(todo.Title), todo.ID))
	}

	return buf.Bytes(), nil
}

// ExportToText converts todos to plain text format
func ExportToText(todos []models.Todo) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Todos: %d\n\n", len(todos)))

	for _, todo := range todos {
		buf.WriteString(fmt.Sprintf("%4d. [%s] %s\n", todo.ID, checkbox(todo.Completed), todo.Title))
	}

	return buf.Bytes(), nil
}

// Export renders todos in the named format.
func Export(todos []models.Todo, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText, "txt":
		return ExportToText(todos)
	case FormatMarkdown, "md":
		return ExportToMarkdown(todos, "")
	case FormatCSV:
		return ExportToCSV(todos)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders todos in the named format and writes them to path.
func WriteExport(todos []models.Todo, format, path string) error {
	data, err := Export(todos, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}

func checkbox(done bool) string {
	if done {
		return "x"
	}
	return " "
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
