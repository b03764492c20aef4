package vectorstore

import (
	"context"
	"time"

	"github.com/poiesic/recallit/core"
)

// Metadata keys written alongside every vector. Query filters use the same
// keys, so renaming one is a breaking change for existing indexes.
const (
	MetaDocumentID          = "documentId"
	MetaDocumentType        = "documentType"
	MetaContent             = "content"
	MetaTopic               = "topic"
	MetaSectionTitle        = "sectionTitle"
	MetaChunkIndex          = "chunkIndex"
	MetaTotalChunks         = "totalChunks"
	MetaSourceTranscriptIDs = "sourceTranscriptIds"
	MetaStartTime           = "startTime"
	MetaEndTime             = "endTime"
	MetaSpeakers            = "speakers"
	MetaFingerprint         = "fingerprint"
	MetaCreatedAt           = "createdAt"
)

// Vector is the wire-level record shape the index accepts.
type Vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Match is one scored result from a similarity query, ordered by the index
// from most to least similar.
type Match struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// QueryRequest describes a single nearest-neighbor lookup against the index.
type QueryRequest struct {
	Vector          []float32
	TopK            int
	Filter          map[string]any
	IncludeMetadata bool
}

// NamespaceStats reports per-namespace vector counts.
type NamespaceStats struct {
	VectorCount int `json:"vectorCount"`
}

// IndexStats aggregates index-wide statistics.
type IndexStats struct {
	Dimension        int                       `json:"dimension"`
	IndexFullness    float64                   `json:"indexFullness"`
	TotalVectorCount int                       `json:"totalVectorCount"`
	Namespaces       map[string]NamespaceStats `json:"namespaces"`
}

// Index is the surface recallit needs from an external vector index:
// namespace-scoped data operations plus index lifecycle management.
// Implementations must be thread-safe.
type Index interface {
	// Upsert writes vectors into a namespace, replacing any vector that
	// already carries the same ID.
	Upsert(ctx context.Context, namespace string, vectors []Vector) error

	// Query returns the nearest neighbors of req.Vector within a namespace,
	// ordered by descending score.
	Query(ctx context.Context, namespace string, req QueryRequest) ([]Match, error)

	// DeleteByIDs removes the identified vectors from a namespace.
	// IDs that do not exist are ignored.
	DeleteByIDs(ctx context.Context, namespace string, ids []string) error

	// DeleteByFilter removes every vector in a namespace whose metadata
	// matches the filter expression.
	DeleteByFilter(ctx context.Context, namespace string, filter map[string]any) error

	// DeleteAll removes every vector in a namespace.
	DeleteAll(ctx context.Context, namespace string) error

	// Stats reports index-wide statistics across all namespaces.
	Stats(ctx context.Context) (*IndexStats, error)

	// IndexExists reports whether the configured index has been created.
	IndexExists(ctx context.Context) (bool, error)

	// EnsureIndex creates the configured index if it does not exist.
	// Calling it against an existing index is a no-op.
	EnsureIndex(ctx context.Context) error
}

// EmbedFunc turns query text into a vector. Callers supply it to QueryByText
// so that embedding generation stays outside the store.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// vectorFromRecord flattens a VectorRecord into the wire shape. Provenance
// keys follow the document type: transcript records carry the time range and
// speakers, summary records carry the section title and source transcripts.
func vectorFromRecord(record core.VectorRecord) Vector {
	metadata := map[string]any{
		MetaDocumentID:   record.Metadata.DocumentID,
		MetaDocumentType: string(record.Metadata.DocumentType),
		MetaContent:      record.Content,
		MetaChunkIndex:   record.Metadata.ChunkIndex,
		MetaTotalChunks:  record.Metadata.TotalChunks,
		MetaCreatedAt:    record.Metadata.CreatedAt.UTC().Format(time.RFC3339),
	}
	if record.Metadata.Topic != "" {
		metadata[MetaTopic] = record.Metadata.Topic
	}
	if record.Metadata.Fingerprint != "" {
		metadata[MetaFingerprint] = record.Metadata.Fingerprint
	}

	switch record.Metadata.DocumentType {
	case core.DocumentTypeTranscript:
		metadata[MetaStartTime] = record.Metadata.StartTime
		metadata[MetaEndTime] = record.Metadata.EndTime
		if len(record.Metadata.Speakers) > 0 {
			metadata[MetaSpeakers] = record.Metadata.Speakers
		}
	case core.DocumentTypeSummary:
		if record.Metadata.SectionTitle != "" {
			metadata[MetaSectionTitle] = record.Metadata.SectionTitle
		}
		if len(record.Metadata.SourceTranscriptIDs) > 0 {
			metadata[MetaSourceTranscriptIDs] = record.Metadata.SourceTranscriptIDs
		}
	}

	return Vector{ID: record.ID, Values: record.Embedding, Metadata: metadata}
}
