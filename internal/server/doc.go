// Package server implements the HTTP gateway in front of the todo store.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally. Middleware wraps the whole mux, so it runs
// before route dispatch, including for paths that match no route.
//
// # Middleware Chain
//
// [NewGateway] installs, outermost first: a body closer, request id, request logging, CORS, the identity header
// check and, when server.rate_limit is positive, a token bucket limiter. CORS answers preflight requests itself so
// browsers can reach the API without sending the identity header on OPTIONS.
//
// # Todo Endpoints
//
//	GET    /api/todos?search=        → list live todos, optionally filtered by title
//	GET    /api/todos/search?title=  → same filter, older query parameter
//	POST   /api/todos                → create, 201
//	PUT    /api/todos/{id}           → overlay title and/or completed
//	PATCH  /api/todos/{id}           → toggle completed
//	DELETE /api/todos/{id}           → soft delete
//
// Request bodies are decoded strictly: unknown properties and wrong types are rejected with 400. Every error is
// written as {"statusCode", "message", "error"}.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which returns the routes they serve,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
