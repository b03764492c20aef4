// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package vectorstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/recallit/core"
)

const (
	// DefaultNamespace scopes operations when the caller supplies none.
	DefaultNamespace = "default"

	// DefaultBatchSize caps how many records a single upsert carries.
	DefaultBatchSize = 100

	// DefaultTopK is the query result size when none is requested.
	DefaultTopK = 10
)

// WriteOptions tunes WriteDocuments. The zero value selects defaults.
type WriteOptions struct {
	// Namespace scopes the write. Empty means DefaultNamespace.
	Namespace string

	// BatchSize caps how many records a single upsert carries.
	// Zero means DefaultBatchSize.
	BatchSize int

	// Progress, when set, is called after each batch with the overall
	// completion percentage (0-100).
	Progress func(percent int)
}

// WriteResult accounts for a single WriteDocuments call.
type WriteResult struct {
	// Success is false only when the index rejected a write. Batches
	// skipped for lacking embeddings are recorded in Errors instead.
	Success bool

	// DocumentsWritten counts the records actually sent to the index.
	DocumentsWritten int

	// Namespace is the effective namespace the write targeted.
	Namespace string

	// Errors lists the batches that produced no valid vectors.
	Errors []string
}

// QueryOptions tunes Query and QueryByText. The zero value selects defaults.
type QueryOptions struct {
	// Namespace scopes the query. Empty means DefaultNamespace.
	Namespace string

	// TopK is the number of neighbors requested from the index.
	// Zero means DefaultTopK.
	TopK int

	// Filter restricts matches by metadata before scoring.
	Filter map[string]any

	// MinScore drops matches scoring below it after the index responds.
	// Zero keeps everything.
	MinScore float32
}

// QueryResult is an ordered set of matches from one namespace.
type QueryResult struct {
	Matches   []Match
	Namespace string
}

// Store wraps an Index with the batching, filtering, and namespace
// conventions the rest of recallit relies on. It holds no state beyond the
// index handle and is safe for concurrent use.
type Store struct {
	index  Index
	logger *slog.Logger
}

// NewStore creates a store over an index client.
func NewStore(index Index) (*Store, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	return &Store{
		index:  index,
		logger: slog.Default().With("component", "vectorstore"),
	}, nil
}

// WriteDocuments upserts records in sequential batches. Records without an
// embedding are excluded; a batch left with no valid vectors is skipped and
// recorded in the result's Errors. An index rejection aborts the write and
// is returned alongside the partial result.
func (s *Store) WriteDocuments(ctx context.Context, records []core.VectorRecord, opts *WriteOptions) (*WriteResult, error) {
	options := writeDefaults(opts)

	result := &WriteResult{Success: true, Namespace: options.Namespace}

	if len(records) == 0 {
		s.logger.Warn("write requested with no records", "namespace", options.Namespace)
		return result, nil
	}

	batches := (len(records) + options.BatchSize - 1) / options.BatchSize
	for b := 0; b < batches; b++ {
		start := b * options.BatchSize
		end := min(start+options.BatchSize, len(records))

		vectors := make([]Vector, 0, end-start)
		for _, record := range records[start:end] {
			if len(record.Embedding) == 0 {
				continue
			}
			vectors = append(vectors, vectorFromRecord(record))
		}

		if len(vectors) == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Batch %d: No valid embeddings", b+1))
			reportProgress(options.Progress, b+1, batches)
			continue
		}

		if err := s.index.Upsert(ctx, options.Namespace, vectors); err != nil {
			result.Success = false
			s.logger.Error("batch upsert failed",
				"namespace", options.Namespace,
				"batch", b+1,
				"batches", batches,
				"error", err)
			return result, fmt.Errorf("%w: batch %d: %w", ErrUpsertFailed, b+1, err)
		}

		result.DocumentsWritten += len(vectors)
		reportProgress(options.Progress, b+1, batches)

		s.logger.Debug("batch written",
			"namespace", options.Namespace,
			"batch", b+1,
			"batches", batches,
			"vectors", len(vectors))
	}

	if result.DocumentsWritten == 0 {
		s.logger.Warn("no records written, all batches lacked embeddings",
			"namespace", options.Namespace,
			"records", len(records),
			"skipped_batches", len(result.Errors))
	}

	return result, nil
}

// Query returns the nearest neighbors of vector, dropping matches below
// MinScore after the index responds.
func (s *Store) Query(ctx context.Context, vector []float32, opts *QueryOptions) (*QueryResult, error) {
	options := queryDefaults(opts)

	if len(vector) == 0 {
		return nil, ErrEmptyQueryVector
	}

	matches, err := s.index.Query(ctx, options.Namespace, QueryRequest{
		Vector:          vector,
		TopK:            options.TopK,
		Filter:          options.Filter,
		IncludeMetadata: true,
	})
	if err != nil {
		s.logger.Error("query failed", "namespace", options.Namespace, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	if options.MinScore > 0 {
		kept := make([]Match, 0, len(matches))
		for _, match := range matches {
			if match.Score >= options.MinScore {
				kept = append(kept, match)
			}
		}
		matches = kept
	}

	return &QueryResult{Matches: matches, Namespace: options.Namespace}, nil
}

// QueryByText embeds text with embed and queries with the resulting vector.
func (s *Store) QueryByText(ctx context.Context, text string, embed EmbedFunc, opts *QueryOptions) (*QueryResult, error) {
	if embed == nil {
		return nil, ErrEmbedderRequired
	}

	vector, err := embed(ctx, text)
	if err != nil {
		s.logger.Error("query text embedding failed", "error", err)
		return nil, fmt.Errorf("embed query text: %w", err)
	}

	return s.Query(ctx, vector, opts)
}

// DeleteNamespace removes every vector in a namespace.
func (s *Store) DeleteNamespace(ctx context.Context, namespace string) error {
	namespace = orDefault(namespace)

	if err := s.index.DeleteAll(ctx, namespace); err != nil {
		s.logger.Error("namespace delete failed", "namespace", namespace, "error", err)
		return fmt.Errorf("%w: namespace %s: %w", ErrDeleteFailed, namespace, err)
	}

	s.logger.Debug("namespace deleted", "namespace", namespace)
	return nil
}

// DeleteDocuments removes the identified vectors from a namespace. An empty
// id list is a no-op and never reaches the index.
func (s *Store) DeleteDocuments(ctx context.Context, ids []string, namespace string) error {
	if len(ids) == 0 {
		s.logger.Debug("delete requested with no ids")
		return nil
	}
	namespace = orDefault(namespace)

	if err := s.index.DeleteByIDs(ctx, namespace, ids); err != nil {
		s.logger.Error("delete failed", "namespace", namespace, "ids", len(ids), "error", err)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	s.logger.Debug("documents deleted", "namespace", namespace, "ids", len(ids))
	return nil
}

// DeleteByDocumentID removes every vector derived from one source document,
// matched by metadata rather than by enumerating record ids.
func (s *Store) DeleteByDocumentID(ctx context.Context, documentID, namespace string) error {
	namespace = orDefault(namespace)

	filter := map[string]any{
		MetaDocumentID: map[string]any{"$eq": documentID},
	}
	if err := s.index.DeleteByFilter(ctx, namespace, filter); err != nil {
		s.logger.Error("delete by document failed",
			"namespace", namespace,
			"document_id", documentID,
			"error", err)
		return fmt.Errorf("%w: document %s: %w", ErrDeleteFailed, documentID, err)
	}

	s.logger.Debug("document vectors deleted", "namespace", namespace, "document_id", documentID)
	return nil
}

// Stats reports index-wide statistics.
func (s *Store) Stats(ctx context.Context) (*IndexStats, error) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatsFailed, err)
	}
	return stats, nil
}

// IndexExists reports whether the configured index has been created.
func (s *Store) IndexExists(ctx context.Context) (bool, error) {
	return s.index.IndexExists(ctx)
}

// EnsureIndex creates the configured index if it does not exist.
func (s *Store) EnsureIndex(ctx context.Context) error {
	return s.index.EnsureIndex(ctx)
}

func writeDefaults(opts *WriteOptions) WriteOptions {
	var options WriteOptions
	if opts != nil {
		options = *opts
	}
	options.Namespace = orDefault(options.Namespace)
	if options.BatchSize <= 0 {
		options.BatchSize = DefaultBatchSize
	}
	return options
}

func queryDefaults(opts *QueryOptions) QueryOptions {
	var options QueryOptions
	if opts != nil {
		options = *opts
	}
	options.Namespace = orDefault(options.Namespace)
	if options.TopK <= 0 {
		options.TopK = DefaultTopK
	}
	return options
}

func orDefault(namespace string) string {
	if namespace == "" {
		return DefaultNamespace
	}
	return namespace
}

func reportProgress(progress func(int), batch, batches int) {
	if progress == nil {
		return
	}
	progress(batch * 100 / batches)
}
