package openai

import (
	"fmt"
	"strings"
)

const segmentationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "topic_spans": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "topic": {
            "type": "string",
            "pattern": "^[a-z0-9]+( [a-z0-9]+)*$"
          },
          "start": {
            "type": "integer",
            "minimum": 0
          },
          "end": {
            "type": "integer",
            "minimum": 0
          }
        },
        "required": ["topic", "start", "end"],
        "additionalProperties": false
      }
    }
  },
  "required": ["topic_spans"],
  "additionalProperties": false
}`

const segmentationPromptTemplate = `Split the numbered transcript into contiguous topic spans and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Each input line is numbered; "start" and "end" are inclusive line numbers.
- Spans must appear in transcript order, must not overlap, and together should cover every line.
- Open a new span only when the conversation genuinely moves to a different subject; small asides stay in the current span.
- Topic labels must be lowercase, 1-4 words, describing what the span is about.
- Known workspace topics: %s. Prefer these labels when a span matches one; otherwise coin a fitting label.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.



Example:
Input:
0. [10s] Alice: Let's look at the Q3 numbers first.
1. [25s] Bob: Revenue is up twelve percent.
2. [41s] Alice: Great. Now, about the London office move.
3. [58s] Bob: The lease is signed, we move in May.
Output:
{
  "topic_spans": [
    {"topic":"q3 results","start":0,"end":1},
    {"topic":"london office move","start":2,"end":3}
  ]
}

Example (single topic, whole transcript):
Input:
0. [5s] Carol: Standup time, what did everyone finish?
1. [19s] Dan: Closed the billing bug.
2. [30s] Carol: Nice, I shipped the exporter.
Output:
{
  "topic_spans": [
    {"topic":"standup updates","start":0,"end":2}
  ]
}`

// buildSegmentationPrompt creates the system prompt with topic hints embedded.
func buildSegmentationPrompt(topicHints []string) string {
	hints := "none"
	if len(topicHints) > 0 {
		hints = strings.Join(topicHints, ", ")
	}
	return fmt.Sprintf(segmentationPromptTemplate,
		segmentationResponseSchema,
		hints)
}
