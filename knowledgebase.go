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


package recallit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/ai/openai"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/ingestion"
	"github.com/poiesic/recallit/vectorstore"
	"github.com/poiesic/recallit/vectorstore/pinecone"
)

// KnowledgeBase wires the vector index, store, and AI provider into one
// handle. It is the entry point library consumers and the CLI share.
type KnowledgeBase struct {
	index    vectorstore.Index
	store    *vectorstore.Store
	provider ai.AIProvider
	logger   *slog.Logger

	pipelineOpts []ingestion.Option
	pipelineMu   sync.Mutex
	pipeline     *ingestion.Pipeline
}

// KnowledgeBaseOption configures a KnowledgeBase.
type KnowledgeBaseOption func(*knowledgeBaseOptions)

type knowledgeBaseOptions struct {
	aiConfig     *ai.Config
	indexConfig  *vectorstore.Config
	index        vectorstore.Index
	provider     ai.AIProvider
	pipelineOpts []ingestion.Option
}

// WithAIConfig sets the embedding and segmentation endpoints.
func WithAIConfig(config *ai.Config) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.aiConfig = config
	}
}

// WithIndexConfig sets the vector index connection settings.
func WithIndexConfig(config *vectorstore.Config) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.indexConfig = config
	}
}

// WithIndex injects an index client directly, bypassing the Pinecone
// client. Tests and local setups use this.
func WithIndex(index vectorstore.Index) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.index = index
	}
}

// WithProvider injects an AI provider directly, bypassing the OpenAI
// compatible client. Tests and dry runs use this.
func WithProvider(provider ai.AIProvider) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.provider = provider
	}
}

// WithPipelineOptions configures the pipeline behind SyncDocument,
// SyncDocumentAsync, and DeleteDocument. Callers needing several
// differently-configured pipelines use NewIngestionPipeline instead.
func WithPipelineOptions(opts ...ingestion.Option) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.pipelineOpts = opts
	}
}

// NewKnowledgeBase builds the full stack: index client, store, and AI
// provider. Missing index credentials fail here, before any operation
// runs.
func NewKnowledgeBase(opts ...KnowledgeBaseOption) (*KnowledgeBase, error) {
	// Apply options
	options := &knowledgeBaseOptions{
		aiConfig:    ai.DefaultConfig(),
		indexConfig: vectorstore.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	index := options.index
	if index == nil {
		var err error
		index, err = pinecone.NewClient(options.indexConfig)
		if err != nil {
			return nil, err
		}
	}

	store, err := vectorstore.NewStore(index)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	return &KnowledgeBase{
		index:        index,
		store:        store,
		provider:     provider,
		logger:       slog.Default(),
		pipelineOpts: options.pipelineOpts,
	}, nil
}

// Close stops the sync pipeline, then releases the AI provider. The index
// client holds no connections that outlive requests.
func (kb *KnowledgeBase) Close() error {
	kb.pipelineMu.Lock()
	if kb.pipeline != nil {
		kb.pipeline.Release()
		kb.pipeline = nil
	}
	kb.pipelineMu.Unlock()

	if err := kb.provider.Close(); err != nil {
		kb.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}

// Store returns the vector store.
func (kb *KnowledgeBase) Store() *vectorstore.Store {
	return kb.store
}

// Provider returns the AI provider.
func (kb *KnowledgeBase) Provider() ai.AIProvider {
	return kb.provider
}

// NewIngestionPipeline creates a document sync pipeline over this
// knowledge base's store and provider.
func (kb *KnowledgeBase) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(kb.store, kb.provider, opts...)
}

// defaultPipeline builds the pipeline the document operations share on
// first use. It lives until Close.
func (kb *KnowledgeBase) defaultPipeline() (*ingestion.Pipeline, error) {
	kb.pipelineMu.Lock()
	defer kb.pipelineMu.Unlock()

	if kb.pipeline == nil {
		pipeline, err := ingestion.NewPipeline(kb.store, kb.provider, kb.pipelineOpts...)
		if err != nil {
			return nil, err
		}
		kb.pipeline = pipeline
	}
	return kb.pipeline, nil
}

// SyncDocument parses, chunks, embeds, and writes one document into its
// workspace. Sync failures are logged, not returned; the error covers
// pipeline construction only.
func (kb *KnowledgeBase) SyncDocument(ctx context.Context, doc *core.Document) error {
	pipeline, err := kb.defaultPipeline()
	if err != nil {
		return err
	}
	pipeline.Sync(ctx, doc)
	return nil
}

// SyncDocumentAsync queues the document for background sync and returns
// once it is accepted.
func (kb *KnowledgeBase) SyncDocumentAsync(doc *core.Document) error {
	pipeline, err := kb.defaultPipeline()
	if err != nil {
		return err
	}
	return pipeline.SyncAsync(doc)
}

// DeleteDocument removes every vector the document produced in the
// workspace. Index failures are logged, not returned; the error covers
// pipeline construction and input validation only. Deleting a document that
// was never synced is not an error.
func (kb *KnowledgeBase) DeleteDocument(ctx context.Context, documentID, workspaceID string) error {
	pipeline, err := kb.defaultPipeline()
	if err != nil {
		return err
	}
	return pipeline.Delete(ctx, documentID, workspaceID)
}

// Search embeds text with the configured embedder and returns the nearest
// matches.
func (kb *KnowledgeBase) Search(ctx context.Context, text string, opts *vectorstore.QueryOptions) (*vectorstore.QueryResult, error) {
	return kb.store.QueryByText(ctx, text, kb.provider.Embedder().EmbedText, opts)
}

// EnsureIndex creates the backing index if it does not exist.
func (kb *KnowledgeBase) EnsureIndex(ctx context.Context) error {
	return kb.store.EnsureIndex(ctx)
}

// IndexExists reports whether the backing index has been created.
func (kb *KnowledgeBase) IndexExists(ctx context.Context) (bool, error) {
	return kb.store.IndexExists(ctx)
}

// Stats reports index-wide statistics.
func (kb *KnowledgeBase) Stats(ctx context.Context) (*vectorstore.IndexStats, error) {
	return kb.store.Stats(ctx)
}
