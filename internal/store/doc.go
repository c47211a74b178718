// Package store implements the in-memory todo collection behind the gateway.
//
// [MemoryStore] keeps every todo in a single slice for the lifetime of the process. Deletes are soft: the record stays
// in the slice with its deleted flag set, and every lookup skips it. Identifiers come from a counter that starts at 1
// and only ever increases, so an id is never handed out twice even after its todo is deleted.
//
// All lookups are linear scans, which is fine for the small lists this service holds.
package store
