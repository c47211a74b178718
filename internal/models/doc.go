// Package models defines the todo entity and the store contract shared by the gateway and the CLI client.
//
// The package contains two categories of types:
//
// 1. Entity: [Todo] is the single record kept by the store. It carries a soft delete flag rather than being removed.
//
// 2. Inputs: request payloads validated before anything reaches the store
//   - [CreateTodo] : title for a new todo
//   - [UpdateTodo] : optional title and completed fields, merged with [UpdateTodo.Apply]
//
// The [Store] interface is the contract the gateway depends on; internal/store provides the in-memory implementation.
package models
