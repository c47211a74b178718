package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/server"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/desertthunder/tdx/internal/store"
	tu "github.com/desertthunder/tdx/internal/testing"
)

// newTestRunner starts a gateway over st and returns a runner whose client config points at it.
func newTestRunner(t *testing.T, st *store.MemoryStore) (*Runner, *bytes.Buffer) {
	t.Helper()

	logger := shared.NewLogger(&bytes.Buffer{})
	config := shared.DefaultConfig()

	gateway := server.NewGateway(config, st, logger)
	srv := httptest.NewServer(gateway.Handler())
	t.Cleanup(srv.Close)

	config.Client.BaseURL = srv.URL

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:     config,
		Logger:     logger,
		Output:     output,
		HTTPClient: srv.Client(),
	})
	return runner, output
}

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	return r.App().Run(context.Background(), append([]string{"tdx"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			st := store.NewMemoryStore()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Store:      st,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.store != st {
				t.Error("expected store to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output == nil {
				t.Error("expected default output to be set")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected default http client")
			}
			if runner.store != nil {
				t.Error("expected store to stay nil until serve")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for _, c := range commands {
			names[c.Name] = true
		}
		for _, want := range []string{"serve", "config", "todos"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestConfigCommands(t *testing.T) {
	t.Run("init writes the example config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(&bytes.Buffer{})})

		if err := run(t, runner, "config", "init", "--config", path); err != nil {
			t.Fatalf("config init failed: %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "identity_header") {
			t.Error("expected written config to contain identity_header")
		}
		if !strings.Contains(output.String(), path) {
			t.Errorf("expected output to name the path, got %q", output.String())
		}
	})

	t.Run("init refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})

		if err := run(t, runner, "config", "init", "--config", path); err != nil {
			t.Fatalf("first init failed: %v", err)
		}
		if err := run(t, runner, "config", "init", "--config", path); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("show prints the resolved config", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(&bytes.Buffer{})})

		if err := run(t, runner, "config", "show"); err != nil {
			t.Fatalf("config show failed: %v", err)
		}
		if !strings.Contains(output.String(), `identity_header = "x-user-id"`) {
			t.Errorf("expected identity header in output, got:\n%s", output.String())
		}
	})

	t.Run("show loads an explicit config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := shared.CreateConfigFile(path); err != nil {
			t.Fatalf("failed to create config: %v", err)
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(&bytes.Buffer{})})

		if err := run(t, runner, "config", "show", "--config", path); err != nil {
			t.Fatalf("config show failed: %v", err)
		}
		if !strings.Contains(output.String(), "port = 3000") {
			t.Errorf("expected port in output, got:\n%s", output.String())
		}
	})
}

func TestTodosCommands(t *testing.T) {
	t.Run("add then list", func(t *testing.T) {
		st := store.NewMemoryStore()
		runner, output := newTestRunner(t, st)

		if err := run(t, runner, "todos", "add", "Buy Milk"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if !strings.Contains(output.String(), "Created:") || !strings.Contains(output.String(), "Buy Milk") {
			t.Errorf("unexpected add output %q", output.String())
		}
		if st.Len() != 1 {
			t.Fatalf("expected 1 todo in store, got %d", st.Len())
		}

		output.Reset()
		if err := run(t, runner, "todos", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Buy Milk") || !strings.Contains(output.String(), "(0/1 done)") {
			t.Errorf("unexpected list output %q", output.String())
		}
	})

	t.Run("add without title", func(t *testing.T) {
		runner, _ := newTestRunner(t, store.NewMemoryStore())

		if err := run(t, runner, "todos", "add"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("list as JSON with search", func(t *testing.T) {
		st := store.NewMemoryStore()
		st.Create("Buy Milk")
		st.Create("Walk dog")
		runner, output := newTestRunner(t, st)

		if err := run(t, runner, "todos", "list", "--json", "--search", "MILK"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		var todos []models.Todo
		if err := json.Unmarshal(output.Bytes(), &todos); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, output.String())
		}
		if len(todos) != 1 || todos[0].Title != "Buy Milk" {
			t.Errorf("expected only Buy Milk, got %+v", todos)
		}
	})

	t.Run("list with legacy endpoint", func(t *testing.T) {
		st := store.NewMemoryStore()
		st.Create("Buy Milk")
		st.Create("Walk dog")
		runner, output := newTestRunner(t, st)

		if err := run(t, runner, "todos", "list", "--legacy", "--search", "dog", "--format", "csv"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		want := "ID,Title,Completed\n2,Walk dog,false\n"
		if output.String() != want {
			t.Errorf("expected %q, got %q", want, output.String())
		}
	})

	t.Run("list with unknown format", func(t *testing.T) {
		runner, _ := newTestRunner(t, store.NewMemoryStore())

		if err := run(t, runner, "todos", "list", "--format", "pdf"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("list exported to file", func(t *testing.T) {
		st := store.NewMemoryStore()
		st.Create("Buy Milk")
		runner, output := newTestRunner(t, st)
		path := filepath.Join(t.TempDir(), "todos.md")

		if err := run(t, runner, "todos", "list", "--format", "markdown", "--output", path); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		if !strings.Contains(tu.MustReadFile(t, path), "- [ ] Buy Milk (#1)") {
			t.Errorf("unexpected export content:\n%s", tu.MustReadFile(t, path))
		}
		if !strings.Contains(output.String(), "Exported 1 todos") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("update overlays only set flags", func(t *testing.T) {
		st := store.NewMemoryStore()
		st.Create("Wash car")
		runner, output := newTestRunner(t, st)

		if err := run(t, runner, "todos", "update", "--completed", "--json", "1"); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		var todo models.Todo
		if err := json.Unmarshal(output.Bytes(), &todo); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if !todo.Completed || todo.Title != "Wash car" {
			t.Errorf("expected completed Wash car, got %+v", todo)
		}

		output.Reset()
		if err := run(t, runner, "todos", "update", "--title", "Wash the car", "--json", "1"); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		todo = models.Todo{}
		if err := json.Unmarshal(output.Bytes(), &todo); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if !todo.Completed || todo.Title != "Wash the car" {
			t.Errorf("expected completed to survive a title update, got %+v", todo)
		}
	})

	t.Run("toggle then delete", func(t *testing.T) {
		st := store.NewMemoryStore()
		st.Create("Buy Milk")
		runner, output := newTestRunner(t, st)

		if err := run(t, runner, "todos", "toggle", "1"); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if !strings.Contains(output.String(), "Toggled:") {
			t.Errorf("unexpected toggle output %q", output.String())
		}

		output.Reset()
		if err := run(t, runner, "todos", "rm", "1"); err != nil {
			t.Fatalf("rm failed: %v", err)
		}
		if !strings.Contains(output.String(), "Todo deleted (#1)") {
			t.Errorf("unexpected rm output %q", output.String())
		}
		if st.Len() != 0 {
			t.Errorf("expected no live todos, got %d", st.Len())
		}

		if err := run(t, runner, "todos", "toggle", "1"); !errors.Is(err, shared.ErrTodoNotFound) {
			t.Errorf("expected ErrTodoNotFound after delete, got %v", err)
		}
	})

	t.Run("id validation", func(t *testing.T) {
		runner, _ := newTestRunner(t, store.NewMemoryStore())

		if err := run(t, runner, "todos", "toggle"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := run(t, runner, "todos", "rm", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("missing user id is unauthorized", func(t *testing.T) {
		runner, _ := newTestRunner(t, store.NewMemoryStore())
		runner.config.Client.UserID = ""

		if err := run(t, runner, "todos", "list"); !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestServe(t *testing.T) {
	t.Run("stops when the context is cancelled", func(t *testing.T) {
		st := store.NewMemoryStore()
		st.Create("Buy Milk")
		logs := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Store:  st,
			Logger: shared.NewLogger(logs),
			Output: &bytes.Buffer{},
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := runner.App().Run(ctx, []string{"tdx", "serve", "--host", "127.0.0.1", "--port", "0"})
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
		if !strings.Contains(logs.String(), "gateway stopped") {
			t.Errorf("expected shutdown log, got:\n%s", logs.String())
		}
	})

	t.Run("rejects an out of range port", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})

		err := run(t, runner, "serve", "--port", "70000")
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
