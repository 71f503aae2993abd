// Package search provides the chunk index backends: a remote Azure AI
// Search client, an in-process vector index for offline runs, and a
// circuit-breaking wrapper.
//
// All backends implement the Backend interface and share the Request and
// Filter types, so retrieval strategies are backend-agnostic.
package search
