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


package ingestion

import (
	"context"
	"fmt"

	"github.com/poiesic/recallit/chunking"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/parse"
)

// syncStrategy is the internal interface that turns one document type into
// vector records. Each strategy owns its parsing and chunking; the pipeline
// owns everything after that.
type syncStrategy interface {
	// chunk parses a document's content and splits it into ordered chunks.
	chunk(ctx context.Context, doc *core.Document) ([]core.Chunk, error)

	// recordID names the vector derived from one chunk of a document.
	// IDs are deterministic so re-syncing replaces instead of duplicating.
	recordID(documentID string, index int) string
}

// transcriptStrategy chunks timecoded transcripts along topic boundaries.
type transcriptStrategy struct {
	chunker    *chunking.TranscriptChunker
	topicHints []string
}

var _ syncStrategy = (*transcriptStrategy)(nil)

func (s *transcriptStrategy) chunk(ctx context.Context, doc *core.Document) ([]core.Chunk, error) {
	utterances, err := parse.Transcript(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}
	return s.chunker.Chunk(ctx, utterances, s.topicHints)
}

func (s *transcriptStrategy) recordID(documentID string, index int) string {
	return core.ChunkRecordID(documentID, index)
}

// summaryStrategy chunks markdown summaries along top-level headings.
type summaryStrategy struct {
	chunker chunking.SectionChunker
}

var _ syncStrategy = (*summaryStrategy)(nil)

func (s *summaryStrategy) chunk(ctx context.Context, doc *core.Document) ([]core.Chunk, error) {
	return s.chunker.Chunk(parse.Sections(doc.Content)), nil
}

func (s *summaryStrategy) recordID(documentID string, index int) string {
	return core.SectionRecordID(documentID, index)
}

// newStrategies builds the full document-type registry. Every type in
// core.DocumentTypes must appear here; strategyFor fails fast on a type
// that slipped in without a strategy.
func newStrategies(transcriptChunker *chunking.TranscriptChunker, topicHints []string) map[core.DocumentType]syncStrategy {
	return map[core.DocumentType]syncStrategy{
		core.DocumentTypeTranscript: &transcriptStrategy{
			chunker:    transcriptChunker,
			topicHints: topicHints,
		},
		core.DocumentTypeSummary: &summaryStrategy{},
	}
}

func (p *Pipeline) strategyFor(docType core.DocumentType) (syncStrategy, error) {
	strategy, ok := p.strategies[docType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoStrategy, docType)
	}
	return strategy, nil
}
