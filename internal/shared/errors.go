package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Gateway errors
	ErrUnauthorized = fmt.Errorf("missing identity header")
	ErrRateLimited  = fmt.Errorf("rate limit exceeded")

	// Store errors
	ErrTodoNotFound = fmt.Errorf("todo not found")

	// API client errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
