package chunking

import (
	"context"
	"strings"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/core"
)

// DefaultGapSeconds is the silence length that forces a topic boundary when
// none is configured.
const DefaultGapSeconds = 120

// HeuristicSegmenter is a deterministic ai.TopicSegmenter for dry-run and
// test use. A new span opens when an utterance mentions a different topic
// hint, or after a silence of GapSeconds or more. Same input, same spans;
// it never fails.
type HeuristicSegmenter struct {
	// GapSeconds is the silence length that forces a topic boundary.
	// Zero or negative means DefaultGapSeconds.
	GapSeconds int
}

var _ ai.TopicSegmenter = (*HeuristicSegmenter)(nil)

// SegmentTranscript proposes topic spans using hint mentions and time gaps.
func (h *HeuristicSegmenter) SegmentTranscript(_ context.Context, utterances []core.Utterance, topicHints []string) ([]ai.TopicSpan, error) {
	if len(utterances) == 0 {
		return []ai.TopicSpan{}, nil
	}

	gap := h.GapSeconds
	if gap <= 0 {
		gap = DefaultGapSeconds
	}

	topic := matchHint(utterances[0].Text, topicHints)
	if topic == "" {
		topic = defaultTopic
	}

	var spans []ai.TopicSpan
	start := 0
	for i := 1; i < len(utterances); i++ {
		hinted := matchHint(utterances[i].Text, topicHints)

		boundary := false
		switch {
		case hinted != "" && hinted != topic:
			boundary = true
		case utterances[i].Timecode-utterances[i-1].Timecode >= gap:
			boundary = true
			if hinted == "" {
				hinted = defaultTopic
			}
		}

		if boundary {
			spans = append(spans, ai.TopicSpan{Topic: topic, Start: start, End: i - 1})
			start = i
			topic = hinted
		}
	}
	spans = append(spans, ai.TopicSpan{Topic: topic, Start: start, End: len(utterances) - 1})

	return spans, nil
}

// matchHint returns the first hint mentioned in the text, or "".
func matchHint(text string, hints []string) string {
	lower := strings.ToLower(text)
	for _, hint := range hints {
		if hint != "" && strings.Contains(lower, strings.ToLower(hint)) {
			return hint
		}
	}
	return ""
}
