package mock

import (
	"context"
	"sync"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/core"
)

// MockTopicSegmenter is a test double for ai.TopicSegmenter.
// It allows custom behavior injection via function fields.
type MockTopicSegmenter struct {
	// SegmentTranscriptFunc is called by SegmentTranscript if set.
	// If nil, uses default single-span behavior.
	SegmentTranscriptFunc func(ctx context.Context, utterances []core.Utterance, topicHints []string) ([]ai.TopicSpan, error)

	mu        sync.Mutex
	callCount int
}

// NewMockTopicSegmenter creates a mock segmenter with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockSegmenter().
func NewMockTopicSegmenter() *MockTopicSegmenter {
	return &MockTopicSegmenter{}
}

// SegmentTranscript returns a single span covering every utterance.
// The topic is the first hint when hints are provided, "general discussion"
// otherwise. Tests needing multiple spans inject SegmentTranscriptFunc.
func (m *MockTopicSegmenter) SegmentTranscript(ctx context.Context, utterances []core.Utterance, topicHints []string) ([]ai.TopicSpan, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.SegmentTranscriptFunc != nil {
		return m.SegmentTranscriptFunc(ctx, utterances, topicHints)
	}

	if len(utterances) == 0 {
		return []ai.TopicSpan{}, nil
	}

	topic := "general discussion"
	if len(topicHints) > 0 {
		topic = topicHints[0]
	}

	return []ai.TopicSpan{
		{Topic: topic, Start: 0, End: len(utterances) - 1},
	}, nil
}

// CallCount returns the number of times SegmentTranscript was called.
func (m *MockTopicSegmenter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockTopicSegmenter) Reset() {
	m.mu.Lock()
	m.callCount = 0
	m.mu.Unlock()
	m.SegmentTranscriptFunc = nil
}
