// Package chunking converts ordered structural units into retrieval-sized,
// topic-coherent chunks.
//
// TranscriptChunker delegates boundary detection to an ai.TopicSegmenter,
// then normalizes the proposal into a total partition of the utterance
// sequence: contiguous index ranges, no overlaps, no utterance split across
// two chunks, stable ordering. Spans that blow the token budget are split
// further at utterance boundaries.
//
// SectionChunker maps sections to chunks one to one; author-drawn headings
// are already topic boundaries.
//
// HeuristicSegmenter is the deterministic segmenter used in dry-run and test
// mode. It applies the same contract as the LLM segmenter, so chunk shape is
// identical either way; only boundary quality differs.
//
// A segmenter failure fails the chunking call. There is no silent fallback
// to single-chunk output, because unlabeled topic loss would quietly degrade
// retrieval quality.
package chunking
