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


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/poiesic/recallit"
	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/chunking"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/ingestion"
	"github.com/poiesic/recallit/parse"
	"github.com/poiesic/recallit/vectorstore"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "recallit",
		Usage: "Meeting knowledge base backed by a vector index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupApp,
		Commands: []*cli.Command{
			{
				Name:  "index",
				Usage: "Manage the vector index",
				Subcommands: []*cli.Command{
					{
						Name:   "create",
						Usage:  "Create the vector index if it does not already exist",
						Action: indexCreateCommand,
						Flags: slices.Concat([]cli.Flag{
							&cli.IntFlag{
								Name:  "dimension",
								Usage: "Embedding dimension for a newly created index",
								Value: vectorstore.DefaultDimension,
							},
							&cli.StringFlag{
								Name:  "metric",
								Usage: "Similarity metric for a newly created index",
								Value: vectorstore.DefaultMetric,
							},
							&cli.StringFlag{
								Name:  "cloud",
								Usage: "Serverless cloud provider",
								Value: vectorstore.DefaultCloud,
							},
							&cli.StringFlag{
								Name:  "region",
								Usage: "Serverless region",
								Value: vectorstore.DefaultRegion,
							},
						}, indexFlags()),
					},
					{
						Name:   "stats",
						Usage:  "Show vector counts per workspace",
						Action: indexStatsCommand,
						Flags:  indexFlags(),
					},
				},
			},
			{
				Name:   "sync",
				Usage:  "Chunk, embed, and index a document file",
				Action: syncCommand,
				Flags: slices.Concat([]cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the document file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Document type (transcript, summary)",
						Value:   string(core.DocumentTypeTranscript),
					},
					&cli.StringFlag{
						Name:    "workspace",
						Aliases: []string{"w"},
						Usage:   "Workspace namespace to write into",
						Value:   vectorstore.DefaultNamespace,
					},
					&cli.StringFlag{
						Name:  "id",
						Usage: "Document id (generated when omitted)",
					},
					&cli.StringSliceFlag{
						Name:  "source",
						Usage: "Source transcript id for summary documents (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "topic-hint",
						Usage: "Expected discussion topic, used to steer segmentation (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print chunk boundaries without embedding or writing",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records per index write",
						Value: vectorstore.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "max-chunk-tokens",
						Usage: "Token budget per chunk (0 uses the chunker default)",
					},
					&cli.StringFlag{
						Name:  "tiktoken-encoding",
						Usage: "BPE encoding for exact token counting, e.g. cl100k_base (empty uses a rune estimate)",
					},
				}, indexFlags(), embeddingFlags(), segmenterFlags()),
			},
			{
				Name:      "query",
				Usage:     "Search indexed documents by meaning",
				ArgsUsage: "QUERY",
				Action:    queryCommand,
				Flags: slices.Concat([]cli.Flag{
					&cli.StringFlag{
						Name:    "workspace",
						Aliases: []string{"w"},
						Usage:   "Workspace namespace to search",
						Value:   vectorstore.DefaultNamespace,
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of matches",
						Value:   vectorstore.DefaultTopK,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Drop matches scoring below this similarity",
					},
				}, indexFlags(), embeddingFlags()),
			},
			{
				Name:  "delete",
				Usage: "Remove vectors from the index",
				Subcommands: []*cli.Command{
					{
						Name:   "document",
						Usage:  "Delete every vector belonging to a document",
						Action: deleteDocumentCommand,
						Flags: slices.Concat([]cli.Flag{
							&cli.StringFlag{
								Name:     "id",
								Usage:    "Document id to delete",
								Required: true,
							},
							&cli.StringFlag{
								Name:    "workspace",
								Aliases: []string{"w"},
								Usage:   "Workspace namespace holding the document",
								Value:   vectorstore.DefaultNamespace,
							},
						}, indexFlags()),
					},
					{
						Name:   "namespace",
						Usage:  "Delete every vector in a workspace namespace",
						Action: deleteNamespaceCommand,
						Flags: slices.Concat([]cli.Flag{
							&cli.StringFlag{
								Name:     "workspace",
								Aliases:  []string{"w"},
								Usage:    "Workspace namespace to clear",
								Required: true,
							},
						}, indexFlags()),
					},
				},
			},
		},
	}
}

// indexFlags are shared by every command that touches the vector index.
func indexFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "Pinecone API key (falls back to PINECONE_API_KEY)",
		},
		&cli.StringFlag{
			Name:  "index",
			Usage: "Pinecone index name (falls back to PINECONE_INDEX)",
		},
	}
}

// embeddingFlags configure the OpenAI-compatible embedding service.
func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "ai-api-key",
			Usage: "API key for the embedding and segmentation services",
			Value: "none",
		},
	}
}

// segmenterFlags configure the topic segmentation service.
func segmenterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "segmenter-host",
			Usage: "Segmentation service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "segmenter-model",
			Usage: "Segmentation model name",
			Value: "qwen2.5:3b",
		},
	}
}

func indexCreateCommand(c *cli.Context) error {
	ctx := context.Background()

	kb, err := newKnowledgeBase(c,
		vectorstore.WithDimension(c.Int("dimension")),
		vectorstore.WithMetric(c.String("metric")),
		vectorstore.WithServerless(c.String("cloud"), c.String("region")),
	)
	if err != nil {
		return err
	}
	defer kb.Close()

	if err := kb.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Index ready")
	return nil
}

func indexStatsCommand(c *cli.Context) error {
	ctx := context.Background()

	kb, err := newKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	stats, err := kb.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch index stats: %w", err)
	}

	printStats(os.Stdout, stats)
	return nil
}

func syncCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	doc, err := documentFromFlags(c)
	if err != nil {
		return err
	}

	// Resolved before the dry-run branch so a bad encoding name fails fast.
	pipelineOpts, err := pipelineOptions(c)
	if err != nil {
		return err
	}

	// A dry run never needs credentials: it chunks with the deterministic
	// heuristic segmenter and prints what a real sync would index.
	if c.Bool("dry-run") {
		chunks, err := previewChunks(ctx, doc, c.StringSlice("topic-hint"))
		if err != nil {
			return fmt.Errorf("dry run failed: %w", err)
		}
		printChunks(os.Stdout, doc, chunks)
		return nil
	}

	kb, err := newKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	pipeline, err := kb.NewIngestionPipeline(pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	if err := kb.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("failed to ensure index: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Document: %s (%s)\n", doc.ID, doc.Type)
	fmt.Fprintf(os.Stderr, "Workspace: %s\n", doc.WorkspaceID)
	fmt.Fprintln(os.Stderr)

	// Sync reports its outcome through the log; failures never unwind here.
	pipeline.Sync(ctx, doc)
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	text := strings.Join(c.Args().Slice(), " ")
	if text == "" {
		return fmt.Errorf("query text is required")
	}

	kb, err := newKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	result, err := kb.Search(ctx, text, &vectorstore.QueryOptions{
		Namespace: c.String("workspace"),
		TopK:      c.Int("top-k"),
		MinScore:  float32(c.Float64("min-score")),
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	printMatches(os.Stdout, result.Matches)
	return nil
}

func deleteDocumentCommand(c *cli.Context) error {
	ctx := context.Background()

	kb, err := newKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	documentID := c.String("id")
	if err := kb.Store().DeleteByDocumentID(ctx, documentID, c.String("workspace")); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Deleted vectors for document %s\n", documentID)
	return nil
}

func deleteNamespaceCommand(c *cli.Context) error {
	ctx := context.Background()

	kb, err := newKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	workspace := c.String("workspace")
	if err := kb.Store().DeleteNamespace(ctx, workspace); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Deleted workspace %s\n", workspace)
	return nil
}

// newKnowledgeBase builds the knowledge base from command flags. Empty flag
// values fall back to the PINECONE_API_KEY and PINECONE_INDEX environment
// variables during config validation.
func newKnowledgeBase(c *cli.Context, extra ...vectorstore.ConfigOption) (*recallit.KnowledgeBase, error) {
	opts := []vectorstore.ConfigOption{
		vectorstore.WithAPIKey(c.String("api-key")),
		vectorstore.WithIndexName(c.String("index")),
	}
	opts = append(opts, extra...)

	kb, err := recallit.NewKnowledgeBase(
		recallit.WithIndexConfig(vectorstore.NewConfig(opts...)),
		recallit.WithAIConfig(aiConfigFromFlags(c)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	return kb, nil
}

// aiConfigFromFlags maps AI service flags onto an ai.Config, keeping the
// package defaults on commands that do not declare the flags. The segmenter
// follows the embedding host unless overridden.
func aiConfigFromFlags(c *cli.Context) *ai.Config {
	var opts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		opts = append(opts, ai.WithHost(host))
	}
	if host := c.String("segmenter-host"); host != "" {
		opts = append(opts, ai.WithSegmenterHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("segmenter-model"); model != "" {
		opts = append(opts, ai.WithSegmenterModel(model))
	}
	if key := c.String("ai-api-key"); key != "" {
		opts = append(opts, ai.WithAPIKey(key))
	}
	return ai.NewConfig(opts...)
}

// documentFromFlags assembles the document to sync, generating an id when
// none was supplied.
func documentFromFlags(c *cli.Context) (*core.Document, error) {
	docType := core.DocumentType(c.String("type"))
	if err := core.ValidateDocumentType(docType); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(c.String("file"))
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}

	id := c.String("id")
	if id == "" {
		id = uuid.New().String()
	}

	return &core.Document{
		ID:                  id,
		WorkspaceID:         c.String("workspace"),
		Type:                docType,
		Content:             string(raw),
		SourceTranscriptIDs: c.StringSlice("source"),
		CreatedBy:           "recallit-cli",
		CreatedAt:           time.Now().UTC(),
	}, nil
}

// pipelineOptions translates sync flags into ingestion options.
func pipelineOptions(c *cli.Context) ([]ingestion.Option, error) {
	opts := []ingestion.Option{
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithProgress(func(percent int) {
			fmt.Fprintf(os.Stderr, "Progress: %d%%\n", percent)
		}),
	}
	if hints := c.StringSlice("topic-hint"); len(hints) > 0 {
		opts = append(opts, ingestion.WithTopicHints(hints...))
	}
	if max := c.Int("max-chunk-tokens"); max > 0 {
		opts = append(opts, ingestion.WithMaxChunkTokens(max))
	}
	if encoding := c.String("tiktoken-encoding"); encoding != "" {
		counter, err := chunking.NewTiktokenCounter(encoding)
		if err != nil {
			return nil, fmt.Errorf("failed to load tiktoken encoding: %w", err)
		}
		opts = append(opts, ingestion.WithTokenCounter(counter))
	}
	return opts, nil
}

// previewChunks chunks a document the way a sync would, substituting the
// deterministic heuristic segmenter for the LLM.
func previewChunks(ctx context.Context, doc *core.Document, topicHints []string) ([]core.Chunk, error) {
	switch doc.Type {
	case core.DocumentTypeTranscript:
		utterances, err := parse.Transcript(doc.Content)
		if err != nil {
			return nil, err
		}
		chunker, err := chunking.NewTranscriptChunker(&chunking.HeuristicSegmenter{})
		if err != nil {
			return nil, err
		}
		return chunker.Chunk(ctx, utterances, topicHints)
	case core.DocumentTypeSummary:
		return chunking.NewSectionChunker().Chunk(parse.Sections(doc.Content)), nil
	default:
		return nil, fmt.Errorf("unsupported document type %q", doc.Type)
	}
}

func printChunks(w io.Writer, doc *core.Document, chunks []core.Chunk) {
	fmt.Fprintf(w, "%s: %d chunks\n", doc.ID, len(chunks))
	for _, chunk := range chunks {
		fmt.Fprintf(w, "\n[%d] %s (units %d-%d)\n%s\n", chunk.Index, chunk.Topic, chunk.StartIdx, chunk.EndIdx, chunk.Content)
	}
}

func printMatches(w io.Writer, matches []vectorstore.Match) {
	fmt.Fprintf(w, "Found %d hits\n", len(matches))
	for i, match := range matches {
		fmt.Fprintf(w, "%d: '%s' (%s)[%0.3f]\n", i, snippet(match.Metadata, 96), match.ID, match.Score)
	}
}

func printStats(w io.Writer, stats *vectorstore.IndexStats) {
	fmt.Fprintf(w, "Dimension: %d\n", stats.Dimension)
	fmt.Fprintf(w, "Total vectors: %d\n", stats.TotalVectorCount)
	fmt.Fprintf(w, "Fullness: %0.3f\n", stats.IndexFullness)
	if len(stats.Namespaces) == 0 {
		return
	}
	fmt.Fprintln(w, "Namespaces:")
	for _, name := range slices.Sorted(maps.Keys(stats.Namespaces)) {
		fmt.Fprintf(w, "  %s: %d\n", name, stats.Namespaces[name].VectorCount)
	}
}

// snippet returns the match content collapsed to one line of at most max runes.
func snippet(metadata map[string]any, max int) string {
	content, _ := metadata[vectorstore.MetaContent].(string)
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "..."
}

func setupApp(c *cli.Context) error {
	// .env is optional; credentials may come from the real environment.
	_ = godotenv.Load()
	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
