// Package types defines the core data model shared across the polisearch
// pipeline: retrieval strategies, query intent, document chunks, session
// state, and the final response returned to callers.
//
// All types in this package are plain data carriers. The orchestration
// logic that mutates a Session lives in pkg/orchestrator; the types here
// only enforce structural invariants (unique strategy tracking, append-only
// candidates, required constructor fields).
package types
