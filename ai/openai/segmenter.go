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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/core"
)

// Parse failures are retried; transport failures are not. Small instruct
// models produce malformed JSON often enough that one attempt is unreliable.
const maxParseAttempts = 3

// TopicSegmenter proposes topic boundaries for transcripts through an
// OpenAI-compatible chat endpoint.
type TopicSegmenter struct {
	client llms.Model
	logger *slog.Logger
}

var _ ai.TopicSegmenter = (*TopicSegmenter)(nil)

// span mirrors one entry of the model's JSON response.
type span struct {
	Topic string `json:"topic"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// segmentation mirrors the response envelope the prompt asks for.
type segmentation struct {
	TopicSpans []span `json:"topic_spans"`
}

// newTopicSegmenter returns the concrete type for wiring inside the package.
func newTopicSegmenter(config *ai.Config) (*TopicSegmenter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Chat client for the segmentation model. The token is passed through
	// as-is; local gateways accept any value.
	client, err := openai.New(
		openai.WithBaseURL(config.SegmenterHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.SegmenterModel),
	)
	if err != nil {
		return nil, err
	}

	return &TopicSegmenter{
		client: client,
		logger: slog.Default().With("component", "openai-segmenter"),
	}, nil
}

// NewTopicSegmenter builds a segmenter from the configuration.
//
// Returns the ai.TopicSegmenter interface to enforce abstraction.
func NewTopicSegmenter(config *ai.Config) (ai.TopicSegmenter, error) {
	return newTopicSegmenter(config)
}

// SegmentTranscript proposes topic spans for the utterances using an LLM.
// Spans are returned in transcript order; gap and overlap resolution is the
// chunking engine's responsibility.
func (s *TopicSegmenter) SegmentTranscript(ctx context.Context, utterances []core.Utterance, topicHints []string) ([]ai.TopicSpan, error) {
	if len(utterances) == 0 {
		return []ai.TopicSpan{}, nil
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, buildSegmentationPrompt(topicHints)),
		llms.TextParts(llms.ChatMessageTypeHuman, formatTranscript(utterances)),
	}

	var result segmentation
	var lastErr error
	for attempt := 1; attempt <= maxParseAttempts; attempt++ {
		response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			s.logger.Error("segmentation request failed", "attempt", attempt, "err", err)
			return nil, err
		}
		if len(response.Choices) == 0 {
			s.logger.Debug("model returned no choices")
			return []ai.TopicSpan{}, nil
		}

		cleaned := cleanModelJSON(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
			lastErr = err
			s.logger.Warn("segmenter response did not parse",
				"attempt", attempt,
				"response", cleaned,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}
	if lastErr != nil {
		s.logger.Error("segmenter response unparseable after retries", "err", lastErr)
		return nil, lastErr
	}

	spans := make([]ai.TopicSpan, 0, len(result.TopicSpans))
	for _, sp := range result.TopicSpans {
		spans = append(spans, ai.TopicSpan{
			Topic: strings.ToLower(strings.TrimSpace(sp.Topic)),
			Start: sp.Start,
			End:   sp.End,
		})
	}

	slices.SortStableFunc(spans, func(a, b ai.TopicSpan) int {
		return a.Start - b.Start
	})

	s.logger.Debug("segmented transcript",
		"utterances", len(utterances),
		"spans", len(spans))

	return spans, nil
}

// cleanModelJSON strips markdown code fences and repairs the quoting
// mistakes small models make, leaving text ready for unmarshaling.
func cleanModelJSON(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return repairJSON(strings.TrimSpace(text))
}

// formatTranscript renders utterances as numbered lines for the model.
// The index numbers are what the model's span boundaries refer to.
func formatTranscript(utterances []core.Utterance) string {
	var b strings.Builder
	for i, u := range utterances {
		fmt.Fprintf(&b, "%d. [%ds] %s: %s\n", i, u.Timecode, u.Speaker, u.Text)
	}
	return b.String()
}
