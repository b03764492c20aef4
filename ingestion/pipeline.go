package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/chunking"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/vectorstore"
)

// Pipeline orchestrates document synchronization into the vector index.
// It owns the per-type strategies, the worker pool behind SyncAsync, and
// the per-document locks that keep concurrent syncs of one document from
// interleaving.
type Pipeline struct {
	store          *vectorstore.Store
	provider       ai.AIProvider
	segmenter      ai.TopicSegmenter
	strategies     map[core.DocumentType]syncStrategy
	pool           *ants.Pool
	locks          *keyedMutex
	topicHints     []string
	batchSize      int
	maxChunkTokens int
	tokenCounter   chunking.TokenCounter
	progress       func(percent int)
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for asynchronous syncs.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithTopicHints seeds transcript segmentation with known workspace topics.
func WithTopicHints(hints ...string) Option {
	return func(p *Pipeline) error {
		p.topicHints = hints
		return nil
	}
}

// WithBatchSize sets the upsert batch size used when writing records.
// Default is vectorstore.DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		p.batchSize = size
		return nil
	}
}

// WithProgress registers a callback invoked with the cumulative write
// percentage (0 to 100) after each batch of a sync lands.
func WithProgress(progress func(percent int)) Option {
	return func(p *Pipeline) error {
		p.progress = progress
		return nil
	}
}

// WithSegmenter replaces the provider's topic segmenter for transcript
// chunking. Dry runs use this to swap in deterministic segmentation
// without touching the embedding path.
func WithSegmenter(segmenter ai.TopicSegmenter) Option {
	return func(p *Pipeline) error {
		if segmenter == nil {
			return chunking.ErrSegmenterRequired
		}
		p.segmenter = segmenter
		return nil
	}
}

// WithMaxChunkTokens caps transcript chunk sizes.
// Default is chunking.DefaultMaxChunkTokens.
func WithMaxChunkTokens(tokens int) Option {
	return func(p *Pipeline) error {
		p.maxChunkTokens = tokens
		return nil
	}
}

// WithTokenCounter sets the counter used to enforce transcript chunk
// budgets. Default is the chunker's rune-based estimate; pass a
// chunking.TiktokenCounter for exact BPE counts. A nil counter keeps the
// default.
func WithTokenCounter(counter chunking.TokenCounter) Option {
	return func(p *Pipeline) error {
		p.tokenCounter = counter
		return nil
	}
}

// NewPipeline creates a document sync pipeline over a vector store and an
// AI provider.
func NewPipeline(store *vectorstore.Store, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:     store,
		provider:  provider,
		segmenter: provider.TopicSegmenter(),
		pool:      pool,
		locks:     newKeyedMutex(defaultLockStripes),
		batchSize: vectorstore.DefaultBatchSize,
		logger:    slog.Default().With("component", "ingestion"),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Build strategies after options are applied so they see the final
	// segmenter, hints, and token budget.
	var chunkerOpts []chunking.TranscriptOption
	if p.maxChunkTokens > 0 {
		chunkerOpts = append(chunkerOpts, chunking.WithMaxChunkTokens(p.maxChunkTokens))
	}
	if p.tokenCounter != nil {
		chunkerOpts = append(chunkerOpts, chunking.WithTokenCounter(p.tokenCounter))
	}
	transcriptChunker, err := chunking.NewTranscriptChunker(p.segmenter, chunkerOpts...)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.strategies = newStrategies(transcriptChunker, p.topicHints)

	return p, nil
}

// Sync makes the index reflect a document's current content: parse and
// chunk it, embed the chunks, clear the document's previous vectors, and
// write the new ones. Failures are logged, never returned; callers treat
// syncing as a side effect that must not take them down.
func (p *Pipeline) Sync(ctx context.Context, doc *core.Document) {
	start := time.Now()

	if err := core.ValidateDocument(doc); err != nil {
		p.logger.Error("sync rejected invalid document", "error", err)
		return
	}

	logger := p.logger.With("document_id", doc.ID, "document_type", string(doc.Type))

	// An empty document is nothing to sync. Its previous vectors stay until
	// the caller deletes the document explicitly.
	if doc.Content == "" {
		logger.Debug("sync skipped, document content is empty")
		return
	}

	p.locks.lock(doc.ID)
	defer p.locks.unlock(doc.ID)

	strategy, err := p.strategyFor(doc.Type)
	if err != nil {
		logger.Error("sync aborted", "error", err)
		return
	}

	chunks, err := strategy.chunk(ctx, doc)
	if err != nil {
		logger.Error("sync aborted during chunking", "error", err)
		return
	}
	if len(chunks) == 0 {
		logger.Debug("sync skipped, chunking produced no chunks")
		return
	}

	records, err := p.buildRecords(ctx, doc, strategy, chunks)
	if err != nil {
		logger.Error("sync aborted preparing records", "error", err)
		return
	}

	namespace := doc.WorkspaceID

	// Clear before writing so chunks that no longer exist cannot survive
	// as stale tails. Embedding already succeeded at this point, which
	// keeps an unreachable embedder from wiping good vectors.
	if err := p.store.DeleteByDocumentID(ctx, doc.ID, namespace); err != nil {
		logger.Error("sync aborted clearing previous vectors", "error", err)
		return
	}

	result, err := p.store.WriteDocuments(ctx, records, &vectorstore.WriteOptions{
		Namespace: namespace,
		BatchSize: p.batchSize,
		Progress:  p.progress,
	})
	if err != nil {
		logger.Error("sync write failed", "written", result.DocumentsWritten, "error", err)
		return
	}

	logger.Info("document synced",
		"namespace", result.Namespace,
		"chunks", len(chunks),
		"written", result.DocumentsWritten,
		"skipped_batches", len(result.Errors),
		"elapsed", time.Since(start))
}

// SyncAsync schedules Sync on the worker pool and returns immediately.
// The error covers scheduling only; processing errors are logged by Sync.
// The sync runs under a fresh context so it survives the caller's.
func (p *Pipeline) SyncAsync(doc *core.Document) error {
	return p.pool.Submit(func() {
		p.Sync(context.Background(), doc)
	})
}

// Delete removes every vector derived from a document. Like Sync, index
// failures are logged and swallowed; documents that were never synced and
// namespaces that do not exist are not failures either. The error covers
// input validation only.
func (p *Pipeline) Delete(ctx context.Context, documentID, namespace string) error {
	if documentID == "" {
		return core.ErrEmptyDocumentID
	}

	p.locks.lock(documentID)
	defer p.locks.unlock(documentID)

	if err := p.store.DeleteByDocumentID(ctx, documentID, namespace); err != nil {
		p.logger.Error("document delete failed",
			"document_id", documentID,
			"namespace", namespace,
			"error", err)
	}
	return nil
}

// buildRecords turns chunks into embedded vector records. Record IDs are
// deterministic per document and chunk index, so writes replace rather
// than accumulate.
func (p *Pipeline) buildRecords(ctx context.Context, doc *core.Document, strategy syncStrategy, chunks []core.Chunk) ([]core.VectorRecord, error) {
	createdAt := time.Now().UTC()

	sourceIDs := doc.SourceTranscriptIDs
	if sourceIDs == nil {
		sourceIDs = []string{}
	}

	texts := make([]string, len(chunks))
	records := make([]core.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
		records[i] = core.VectorRecord{
			ID:      strategy.recordID(doc.ID, chunk.Index),
			Content: chunk.Content,
			Metadata: core.RecordMetadata{
				DocumentID:          doc.ID,
				DocumentType:        doc.Type,
				Topic:               chunk.Topic,
				SectionTitle:        chunk.Metadata.SectionTitle,
				ChunkIndex:          chunk.Index,
				TotalChunks:         len(chunks),
				SourceTranscriptIDs: sourceIDs,
				StartTime:           chunk.Metadata.StartTime,
				EndTime:             chunk.Metadata.EndTime,
				Speakers:            chunk.Metadata.Speakers,
				Fingerprint:         core.FingerprintHex(chunk.Content),
				CreatedAt:           createdAt,
			},
		}
	}

	if len(texts) == 0 {
		return records, nil
	}

	embeddings, err := p.provider.Embedder().EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if len(embeddings) != len(records) {
		return nil, fmt.Errorf("%w: expected %d embeddings, received %d", ErrEmbeddingFailed, len(records), len(embeddings))
	}
	for i := range embeddings {
		records[i].Embedding = embeddings[i]
	}

	return records, nil
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
