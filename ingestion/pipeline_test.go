package ingestion

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recallit/ai"
	aimock "github.com/poiesic/recallit/ai/mock"
	"github.com/poiesic/recallit/chunking"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/vectorstore"
	vsmock "github.com/poiesic/recallit/vectorstore/mock"
)

const meetingTranscript = `00:00:05 Alice: Let's review the budget first.
00:00:20 Bob: The numbers look solid this quarter.
00:00:42 Alice: Moving on to hiring plans.
00:01:01 Carol: Two offers are already out.`

const meetingSummary = `# Decisions
Budget approved for Q3.

# Action Items
Alice drafts the offer letter.`

func transcriptDoc() *core.Document {
	return &core.Document{
		ID:          "doc-1",
		WorkspaceID: "ws-1",
		Type:        core.DocumentTypeTranscript,
		Content:     meetingTranscript,
		CreatedBy:   "alice",
	}
}

func summaryDoc() *core.Document {
	return &core.Document{
		ID:                  "sum-1",
		WorkspaceID:         "ws-1",
		Type:                core.DocumentTypeSummary,
		Content:             meetingSummary,
		SourceTranscriptIDs: []string{"doc-1"},
		CreatedBy:           "alice",
	}
}

// twoSpanSegmenter proposes a budget span over the first two utterances and
// a hiring span over the rest.
func twoSpanSegmenter(segmenter *aimock.MockTopicSegmenter) {
	segmenter.SegmentTranscriptFunc = func(ctx context.Context, utterances []core.Utterance, topicHints []string) ([]ai.TopicSpan, error) {
		return []ai.TopicSpan{
			{Topic: "budget", Start: 0, End: 1},
			{Topic: "hiring", Start: 2, End: len(utterances) - 1},
		}, nil
	}
}

type testRig struct {
	index     *vsmock.MockIndex
	embedder  *aimock.MockEmbedder
	segmenter *aimock.MockTopicSegmenter
	pipeline  *Pipeline
}

func newTestRig(t *testing.T, opts ...Option) *testRig {
	t.Helper()

	index := vsmock.NewMockIndex()
	store, err := vectorstore.NewStore(index)
	require.NoError(t, err)

	embedder := aimock.NewMockEmbedder()
	segmenter := aimock.NewMockTopicSegmenter()
	provider := aimock.NewMockProviderWithServices(embedder, segmenter)

	pipeline, err := NewPipeline(store, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &testRig{
		index:     index,
		embedder:  embedder,
		segmenter: segmenter,
		pipeline:  pipeline,
	}
}

func TestNewPipeline(t *testing.T) {
	index := vsmock.NewMockIndex()
	store, err := vectorstore.NewStore(index)
	require.NoError(t, err)
	provider := aimock.NewMockProvider()

	t.Run("requires a store", func(t *testing.T) {
		_, err := NewPipeline(nil, provider)
		require.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("requires a provider", func(t *testing.T) {
		_, err := NewPipeline(store, nil)
		require.ErrorIs(t, err, ErrAIProviderRequired)
	})

	t.Run("rejects a nil segmenter override", func(t *testing.T) {
		_, err := NewPipeline(store, provider, WithSegmenter(nil))
		require.ErrorIs(t, err, chunking.ErrSegmenterRequired)
	})

	t.Run("constructs with defaults", func(t *testing.T) {
		pipeline, err := NewPipeline(store, provider)
		require.NoError(t, err)
		defer pipeline.Release()
		assert.NotNil(t, pipeline)
	})
}

func TestPipeline_SyncTranscript(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)
	twoSpanSegmenter(rig.segmenter)

	rig.pipeline.Sync(ctx, transcriptDoc())

	assert.Equal(t, []string{"doc-1-chunk-0", "doc-1-chunk-1"}, rig.index.IDs("ws-1"))

	vector, ok := rig.index.Vector("ws-1", "doc-1-chunk-0")
	require.True(t, ok)
	assert.NotEmpty(t, vector.Values)
	assert.Equal(t, "doc-1", vector.Metadata[vectorstore.MetaDocumentID])
	assert.Equal(t, "transcript", vector.Metadata[vectorstore.MetaDocumentType])
	assert.Equal(t, "budget", vector.Metadata[vectorstore.MetaTopic])
	assert.Equal(t, 0, vector.Metadata[vectorstore.MetaChunkIndex])
	assert.Equal(t, 2, vector.Metadata[vectorstore.MetaTotalChunks])
	assert.Equal(t, 5, vector.Metadata[vectorstore.MetaStartTime])
	assert.Equal(t, 20, vector.Metadata[vectorstore.MetaEndTime])
	assert.Equal(t, []string{"Alice", "Bob"}, vector.Metadata[vectorstore.MetaSpeakers])
	assert.NotEmpty(t, vector.Metadata[vectorstore.MetaFingerprint])

	second, ok := rig.index.Vector("ws-1", "doc-1-chunk-1")
	require.True(t, ok)
	assert.Equal(t, "hiring", second.Metadata[vectorstore.MetaTopic])
	assert.Equal(t, 42, second.Metadata[vectorstore.MetaStartTime])
	assert.Equal(t, 61, second.Metadata[vectorstore.MetaEndTime])
}

func TestPipeline_SyncSummary(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)
	rig.pipeline.Sync(ctx, summaryDoc())

	assert.Equal(t, []string{"sum-1-section-0", "sum-1-section-1"}, rig.index.IDs("ws-1"))

	vector, ok := rig.index.Vector("ws-1", "sum-1-section-0")
	require.True(t, ok)
	assert.Equal(t, "summary", vector.Metadata[vectorstore.MetaDocumentType])
	assert.Equal(t, "Decisions", vector.Metadata[vectorstore.MetaTopic])
	assert.Equal(t, "Decisions", vector.Metadata[vectorstore.MetaSectionTitle])
	assert.Equal(t, []string{"doc-1"}, vector.Metadata[vectorstore.MetaSourceTranscriptIDs])

	// Segmentation is a transcript concern; summaries never reach it.
	assert.Equal(t, 0, rig.segmenter.CallCount())
}

func TestPipeline_Sync_UnchangedDocumentKeepsIDs(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)
	twoSpanSegmenter(rig.segmenter)

	rig.pipeline.Sync(ctx, transcriptDoc())
	first := rig.index.IDs("ws-1")
	require.Equal(t, []string{"doc-1-chunk-0", "doc-1-chunk-1"}, first)

	rig.pipeline.Sync(ctx, transcriptDoc())

	// Ids derive from the document id and chunk position, so an unchanged
	// document re-syncs onto the same vectors.
	assert.Equal(t, first, rig.index.IDs("ws-1"))
	assert.Equal(t, 2, rig.index.VectorCount("ws-1"))
	assert.Equal(t, 2, rig.index.DeleteCalls())
}

func TestPipeline_Sync_ReplacesPreviousVectors(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)
	twoSpanSegmenter(rig.segmenter)
	rig.pipeline.Sync(ctx, transcriptDoc())
	require.Equal(t, 2, rig.index.VectorCount("ws-1"))

	// The document shrank to a single topic since the last sync.
	rig.segmenter.SegmentTranscriptFunc = nil
	rig.pipeline.Sync(ctx, transcriptDoc())

	assert.Equal(t, []string{"doc-1-chunk-0"}, rig.index.IDs("ws-1"))
}

func TestPipeline_Sync_InvalidDocuments(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		doc  *core.Document
	}{
		{"nil document", nil},
		{"empty id", &core.Document{Type: core.DocumentTypeTranscript, Content: meetingTranscript}},
		{"unknown type", &core.Document{ID: "doc-1", Type: core.DocumentType("image"), Content: "x"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rig := newTestRig(t)
			rig.pipeline.Sync(ctx, tc.doc)

			assert.Equal(t, 0, rig.index.UpsertCalls())
			assert.Equal(t, 0, rig.index.DeleteCalls())
			assert.Equal(t, 0, rig.embedder.CallCount())
		})
	}
}

func TestPipeline_Sync_MalformedTranscript(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)
	doc := transcriptDoc()
	doc.Content = "this line has no timecode"

	rig.pipeline.Sync(ctx, doc)

	assert.Equal(t, 0, rig.index.UpsertCalls())
	assert.Equal(t, 0, rig.index.DeleteCalls())
	assert.Equal(t, 0, rig.embedder.CallCount())
}

func TestPipeline_Sync_SegmenterFailure(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)
	rig.segmenter.SegmentTranscriptFunc = func(ctx context.Context, utterances []core.Utterance, topicHints []string) ([]ai.TopicSpan, error) {
		return nil, errors.New("model unavailable")
	}

	rig.pipeline.Sync(ctx, transcriptDoc())

	assert.Equal(t, 0, rig.index.UpsertCalls())
	assert.Equal(t, 0, rig.index.DeleteCalls())
	assert.Equal(t, 0, rig.embedder.CallCount())
}

func TestPipeline_Sync_EmbedderFailurePreservesOldVectors(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)
	rig.pipeline.Sync(ctx, transcriptDoc())
	require.Equal(t, 1, rig.index.VectorCount("ws-1"))

	rig.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("model offline")
	}
	rig.pipeline.Sync(ctx, transcriptDoc())

	// Embedding runs before the old vectors are cleared, so a failing
	// embedder leaves the previous sync intact.
	assert.Equal(t, 1, rig.index.VectorCount("ws-1"))
}

func TestPipeline_Sync_UpsertFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)
	rig.index.UpsertFunc = func(ctx context.Context, namespace string, vectors []vectorstore.Vector) error {
		return errors.New("quota exceeded")
	}

	rig.pipeline.Sync(ctx, transcriptDoc())

	// The failure surfaces in the log only. The namespace is empty because
	// the old vectors were already cleared when the write failed.
	assert.Equal(t, 0, rig.index.VectorCount("ws-1"))

	rig.index.UpsertFunc = nil
	rig.pipeline.Sync(ctx, transcriptDoc())
	assert.Equal(t, 1, rig.index.VectorCount("ws-1"))
}

func TestPipeline_Sync_EmptyContent(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)
	rig.pipeline.Sync(ctx, transcriptDoc())
	require.Equal(t, 1, rig.index.VectorCount("ws-1"))
	require.Equal(t, 1, rig.index.DeleteCalls())

	doc := transcriptDoc()
	doc.Content = ""
	rig.pipeline.Sync(ctx, doc)

	// An emptied document is nothing to sync: no embedding, no delete, no
	// write. The previous vectors stay until the document is deleted.
	assert.Equal(t, 1, rig.index.VectorCount("ws-1"))
	assert.Equal(t, 1, rig.index.UpsertCalls())
	assert.Equal(t, 1, rig.index.DeleteCalls())
	assert.Equal(t, 1, rig.embedder.CallCount())
}

func TestPipeline_Sync_NoChunks(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)
	doc := transcriptDoc()
	doc.Content = "\n\n   \n"

	rig.pipeline.Sync(ctx, doc)

	// Whitespace-only content parses to zero utterances and zero chunks.
	assert.Equal(t, 0, rig.index.UpsertCalls())
	assert.Equal(t, 0, rig.index.DeleteCalls())
	assert.Equal(t, 0, rig.embedder.CallCount())
}

func TestPipeline_Sync_UsesBatchSize(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t, WithBatchSize(1))
	twoSpanSegmenter(rig.segmenter)

	rig.pipeline.Sync(ctx, transcriptDoc())

	assert.Equal(t, 2, rig.index.UpsertCalls())
	assert.Equal(t, 2, rig.index.VectorCount("ws-1"))
}

func TestPipeline_Sync_ReportsProgress(t *testing.T) {
	ctx := context.Background()

	var reported []int
	rig := newTestRig(t, WithBatchSize(1), WithProgress(func(percent int) {
		reported = append(reported, percent)
	}))
	twoSpanSegmenter(rig.segmenter)

	rig.pipeline.Sync(ctx, transcriptDoc())

	assert.Equal(t, []int{50, 100}, reported)
}

// flatRateCounter prices every utterance at a fixed token cost so tests can
// force splits at predictable points.
type flatRateCounter struct {
	cost  int
	calls int
}

func (c *flatRateCounter) Count(string) int {
	c.calls++
	return c.cost
}

func TestPipeline_Sync_UsesConfiguredTokenCounter(t *testing.T) {
	ctx := context.Background()

	counter := &flatRateCounter{cost: 100}
	rig := newTestRig(t, WithTokenCounter(counter), WithMaxChunkTokens(150))

	rig.pipeline.Sync(ctx, transcriptDoc())

	// Each utterance costs 100 tokens against a 150 budget, so the single
	// topic span splits into one chunk per utterance.
	assert.Equal(t,
		[]string{"doc-1-chunk-0", "doc-1-chunk-1", "doc-1-chunk-2", "doc-1-chunk-3"},
		rig.index.IDs("ws-1"))
	assert.Greater(t, counter.calls, 0)
}

func TestPipeline_Sync_TopicHintsReachSegmenter(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t, WithTopicHints("budget", "hiring"))

	var gotHints []string
	rig.segmenter.SegmentTranscriptFunc = func(ctx context.Context, utterances []core.Utterance, topicHints []string) ([]ai.TopicSpan, error) {
		gotHints = topicHints
		return []ai.TopicSpan{{Topic: "budget", Start: 0, End: len(utterances) - 1}}, nil
	}

	rig.pipeline.Sync(ctx, transcriptDoc())

	assert.Equal(t, []string{"budget", "hiring"}, gotHints)
}

func TestPipeline_Sync_DefaultNamespace(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)
	doc := transcriptDoc()
	doc.WorkspaceID = ""

	rig.pipeline.Sync(ctx, doc)

	assert.Equal(t, 1, rig.index.VectorCount(vectorstore.DefaultNamespace))
}

func TestPipeline_SyncAsync(t *testing.T) {
	rig := newTestRig(t)
	twoSpanSegmenter(rig.segmenter)

	require.NoError(t, rig.pipeline.SyncAsync(transcriptDoc()))

	assert.Eventually(t, func() bool {
		return rig.index.VectorCount("ws-1") == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPipeline_SameDocumentSyncsSerialize(t *testing.T) {
	ctx := context.Background()

	rig := newTestRig(t)

	var inRegion atomic.Int32
	var violated atomic.Bool

	rig.index.DeleteByFilterFunc = func(ctx context.Context, namespace string, filter map[string]any) error {
		if inRegion.Add(1) > 1 {
			violated.Store(true)
		}
		time.Sleep(2 * time.Millisecond)
		return nil
	}
	rig.index.UpsertFunc = func(ctx context.Context, namespace string, vectors []vectorstore.Vector) error {
		time.Sleep(2 * time.Millisecond)
		if inRegion.Add(-1) > 0 {
			violated.Store(true)
		}
		return nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rig.pipeline.Sync(ctx, transcriptDoc())
		}()
	}
	wg.Wait()

	assert.False(t, violated.Load(), "delete and write phases of concurrent syncs interleaved")
}

func TestPipeline_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes only the named document", func(t *testing.T) {
		rig := newTestRig(t)
		rig.pipeline.Sync(ctx, transcriptDoc())
		rig.pipeline.Sync(ctx, summaryDoc())
		require.Equal(t, 3, rig.index.VectorCount("ws-1"))

		require.NoError(t, rig.pipeline.Delete(ctx, "doc-1", "ws-1"))

		assert.Equal(t, []string{"sum-1-section-0", "sum-1-section-1"}, rig.index.IDs("ws-1"))
	})

	t.Run("requires a document id", func(t *testing.T) {
		rig := newTestRig(t)
		require.ErrorIs(t, rig.pipeline.Delete(ctx, "", "ws-1"), core.ErrEmptyDocumentID)
	})

	t.Run("unknown documents are not errors", func(t *testing.T) {
		rig := newTestRig(t)
		require.NoError(t, rig.pipeline.Delete(ctx, "never-synced", "ws-1"))
	})

	t.Run("index failures are logged, not returned", func(t *testing.T) {
		rig := newTestRig(t)
		rig.index.DeleteByFilterFunc = func(ctx context.Context, namespace string, filter map[string]any) error {
			return errors.New("index unavailable")
		}

		require.NoError(t, rig.pipeline.Delete(ctx, "doc-1", "ws-1"))
	})
}

func TestPipeline_StrategyCoverage(t *testing.T) {
	rig := newTestRig(t)

	for _, docType := range core.DocumentTypes() {
		strategy, err := rig.pipeline.strategyFor(docType)
		require.NoError(t, err, "document type %q has no registered strategy", docType)
		assert.NotNil(t, strategy)
	}

	_, err := rig.pipeline.strategyFor(core.DocumentType("image"))
	require.ErrorIs(t, err, ErrNoStrategy)
}
