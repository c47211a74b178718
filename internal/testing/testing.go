// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/tdx/internal/models"
)

// ErrStoreFailure is returned by every [FailingStore] method.
var ErrStoreFailure = errors.New("store failure")

// FailingStore is a [models.Store] whose operations always fail with an error the gateway does not recognise.
type FailingStore struct{}

func (f *FailingStore) List(search string) []models.Todo { return []models.Todo{} }
func (f *FailingStore) Create(title string) (models.Todo, error) {
	return models.Todo{}, ErrStoreFailure
}
func (f *FailingStore) Update(id int64, patch models.UpdateTodo) (models.Todo, error) {
	return models.Todo{}, ErrStoreFailure
}
func (f *FailingStore) Toggle(id int64) (models.Todo, error) {
	return models.Todo{}, ErrStoreFailure
}
func (f *FailingStore) Delete(id int64) (models.DeleteResult, error) {
	return models.DeleteResult{}, ErrStoreFailure
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// NewResponse builds an [http.Response] with the given status and body for use with [MockRoundTripper].
func NewResponse(status int, body io.ReadCloser) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       body,
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
