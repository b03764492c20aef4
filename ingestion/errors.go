package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrNoStrategy is returned when a document type has no registered
	// sync strategy.
	ErrNoStrategy = errors.New("no sync strategy for document type")

	// ErrEmbeddingFailed wraps embedder failures while preparing records.
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)
