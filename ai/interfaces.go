package ai

import (
	"context"

	"github.com/poiesic/recallit/core"
)

// Embedder turns text into vectors for semantic similarity search.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText embeds a single text. A nil error always carries a vector,
	// possibly empty when the service returns nothing for the input.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds a batch of texts in one request and returns vectors
	// in input order. Prefer it over repeated EmbedText calls when more than
	// one text is at hand.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// TopicSegmenter proposes topic boundaries over an ordered utterance sequence.
// Implementations must be thread-safe for concurrent use.
type TopicSegmenter interface {
	// SegmentTranscript analyzes the utterances and returns topic spans, each
	// labeling a contiguous index range. Spans should appear in transcript
	// order; the chunking engine normalizes gaps and overlaps, so a segmenter
	// only has to produce a reasonable proposal, not a perfect partition.
	// topicHints optionally biases labeling toward known workspace topics.
	// Returns an error if segmentation fails; callers must not silently fall
	// back to an unsegmented result.
	SegmentTranscript(ctx context.Context, utterances []core.Utterance, topicHints []string) ([]TopicSpan, error)
}

// TopicSpan labels one contiguous utterance range with a topic.
type TopicSpan struct {
	// Topic is a short lowercase label for the span's subject matter.
	// Example: "q3 roadmap", "hiring", "incident review"
	Topic string

	// Start is the inclusive index of the first utterance in the span.
	Start int

	// End is the inclusive index of the last utterance in the span.
	End int
}

// AIProvider bundles the model-facing services behind one constructor and
// one lifecycle. Both services are built from the same Config and are safe
// for concurrent use.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// TopicSegmenter returns the transcript segmentation service.
	TopicSegmenter() TopicSegmenter

	// Close releases resources held by the services. The provider must not
	// be used after Close.
	Close() error
}
