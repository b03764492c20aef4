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


package chunking

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/core"
)

const (
	// DefaultMaxChunkTokens is the per-chunk token budget when none is configured.
	DefaultMaxChunkTokens = 512

	// defaultTopic labels spans the segmenter left unlabeled.
	defaultTopic = "general discussion"
)

// TranscriptChunker groups utterances into topic-coherent chunks.
// Boundary detection is delegated to an ai.TopicSegmenter; the chunker owns
// normalization and the token budget.
type TranscriptChunker struct {
	segmenter ai.TopicSegmenter
	counter   TokenCounter
	maxTokens int
	logger    *slog.Logger
}

// TranscriptOption configures a TranscriptChunker.
type TranscriptOption func(*TranscriptChunker)

// WithTokenCounter sets the token counter used for the chunk budget.
func WithTokenCounter(counter TokenCounter) TranscriptOption {
	return func(c *TranscriptChunker) {
		c.counter = counter
	}
}

// WithMaxChunkTokens sets the per-chunk token budget.
func WithMaxChunkTokens(max int) TranscriptOption {
	return func(c *TranscriptChunker) {
		c.maxTokens = max
	}
}

// NewTranscriptChunker creates a transcript chunker over the given segmenter.
// Defaults: RuneCounter for token estimation, DefaultMaxChunkTokens budget.
func NewTranscriptChunker(segmenter ai.TopicSegmenter, opts ...TranscriptOption) (*TranscriptChunker, error) {
	if segmenter == nil {
		return nil, ErrSegmenterRequired
	}

	c := &TranscriptChunker{
		segmenter: segmenter,
		counter:   RuneCounter{},
		maxTokens: DefaultMaxChunkTokens,
		logger:    slog.Default().With("component", "transcript-chunker"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Chunk converts utterances into an ordered chunk sequence. Zero utterances
// yield an empty sequence. A segmenter failure fails the call; there is no
// fallback chunking.
func (c *TranscriptChunker) Chunk(ctx context.Context, utterances []core.Utterance, topicHints []string) ([]core.Chunk, error) {
	if len(utterances) == 0 {
		return []core.Chunk{}, nil
	}

	spans, err := c.segmenter.SegmentTranscript(ctx, utterances, topicHints)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSegmentationFailed, err)
	}

	spans = normalizeSpans(spans, len(utterances))
	spans = c.splitOversized(spans, utterances)

	chunks := make([]core.Chunk, 0, len(spans))
	for i, span := range spans {
		chunks = append(chunks, buildChunk(i, span, utterances))
	}

	c.logger.Debug("chunked transcript",
		"utterances", len(utterances),
		"chunks", len(chunks))

	return chunks, nil
}

// normalizeSpans forces a segmenter proposal into a total, ordered,
// non-overlapping cover of [0, n): spans are clamped to bounds, overlaps cut,
// gaps absorbed by pulling the following span's start back, and the last span
// stretched to the final utterance. An unusable proposal degrades to a single
// span; the segmenter succeeded, so this is shape repair, not a fallback.
func normalizeSpans(spans []ai.TopicSpan, n int) []ai.TopicSpan {
	clean := make([]ai.TopicSpan, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > n-1 {
			s.End = n - 1
		}
		if s.Start > s.End {
			continue
		}
		if strings.TrimSpace(s.Topic) == "" {
			s.Topic = defaultTopic
		}
		clean = append(clean, s)
	}

	slices.SortStableFunc(clean, func(a, b ai.TopicSpan) int {
		return a.Start - b.Start
	})

	out := make([]ai.TopicSpan, 0, len(clean))
	cursor := 0
	for _, s := range clean {
		if s.End < cursor {
			continue
		}
		s.Start = cursor
		out = append(out, s)
		cursor = s.End + 1
		if cursor >= n {
			break
		}
	}

	if len(out) == 0 {
		return []ai.TopicSpan{{Topic: defaultTopic, Start: 0, End: n - 1}}
	}
	out[len(out)-1].End = n - 1
	return out
}

// splitOversized splits spans whose rendered content exceeds the token
// budget, at utterance boundaries. A single oversized utterance stays whole:
// units are never split across chunks.
func (c *TranscriptChunker) splitOversized(spans []ai.TopicSpan, utterances []core.Utterance) []ai.TopicSpan {
	out := make([]ai.TopicSpan, 0, len(spans))
	for _, span := range spans {
		out = append(out, c.splitSpan(span, utterances)...)
	}
	return out
}

func (c *TranscriptChunker) splitSpan(span ai.TopicSpan, utterances []core.Utterance) []ai.TopicSpan {
	var parts []ai.TopicSpan
	start := span.Start
	tokens := 0
	for i := span.Start; i <= span.End; i++ {
		cost := c.counter.Count(utteranceLine(utterances[i]))
		if i > start && tokens+cost > c.maxTokens {
			parts = append(parts, ai.TopicSpan{Topic: span.Topic, Start: start, End: i - 1})
			start = i
			tokens = 0
		}
		tokens += cost
	}
	parts = append(parts, ai.TopicSpan{Topic: span.Topic, Start: start, End: span.End})
	return parts
}

// utteranceLine renders one utterance the way it is embedded and stored.
func utteranceLine(u core.Utterance) string {
	return u.Speaker + ": " + u.Text
}

func buildChunk(index int, span ai.TopicSpan, utterances []core.Utterance) core.Chunk {
	lines := make([]string, 0, span.End-span.Start+1)
	var speakers []string
	seen := make(map[string]bool)
	for i := span.Start; i <= span.End; i++ {
		u := utterances[i]
		lines = append(lines, utteranceLine(u))
		if !seen[u.Speaker] {
			seen[u.Speaker] = true
			speakers = append(speakers, u.Speaker)
		}
	}

	return core.Chunk{
		Index:    index,
		Topic:    span.Topic,
		StartIdx: span.Start,
		EndIdx:   span.End,
		Content:  strings.Join(lines, "\n"),
		Metadata: core.ChunkMetadata{
			StartTime: utterances[span.Start].Timecode,
			EndTime:   utterances[span.End].Timecode,
			Speakers:  speakers,
		},
	}
}
