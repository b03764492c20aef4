// Package ingestion provides pipeline orchestration for syncing documents
// into the vector index.
//
// The Pipeline type manages the sync workflow for a document, including:
//   - Parsing and chunking content by document type
//   - Generating embeddings for every chunk
//   - Replacing the document's previous vectors in the index
//
// Sync failures are logged but never returned; callers treat syncing as a
// side effect that must not take them down. SyncAsync schedules the same
// work on a worker pool. Delete follows the same contract: index failures
// are logged and swallowed.
//
// Syncs of the same document are serialized within the process so the
// delete and write phases of two syncs cannot interleave. Separate
// processes syncing one document still race at the index; last write wins
// per record ID.
package ingestion
