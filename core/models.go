package core

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint generates a deterministic 64-bit digest of text content using
// BLAKE2b hashing. Identical content produces identical fingerprints.
func Fingerprint(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// FingerprintHex renders the content fingerprint as a fixed-width hex string
// suitable for record metadata.
func FingerprintHex(text string) string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], Fingerprint(text))
	return hex.EncodeToString(buf[:])
}

// DocumentType identifies the structural format of a document's content.
type DocumentType string

const (
	// DocumentTypeTranscript is a timestamped, speaker-attributed transcript.
	DocumentTypeTranscript DocumentType = "transcript"
	// DocumentTypeSummary is a heading-structured summary document.
	DocumentTypeSummary DocumentType = "summary"
)

// DocumentTypes returns every supported document type. Components that map
// behavior per type are tested for completeness against this list.
func DocumentTypes() []DocumentType {
	return []DocumentType{DocumentTypeTranscript, DocumentTypeSummary}
}

// Document is the unit of ingestion: a workspace-scoped piece of content in
// the shape handed over by the document store.
type Document struct {
	ID                  string
	WorkspaceID         string
	Type                DocumentType
	Content             string
	SourceTranscriptIDs []string // summaries: the transcripts they were derived from
	CreatedBy           string
	CreatedAt           time.Time
}

// Utterance is a single timestamped statement in a transcript. Source order
// is significant and is preserved through chunking.
type Utterance struct {
	Timecode int // seconds from session start
	Speaker  string
	Text     string
}

// Section is one heading-delimited region of a structured document.
type Section struct {
	Title   string
	Content string
}

// ChunkMetadata carries the provenance of a chunk within its source document.
type ChunkMetadata struct {
	StartTime    int      // transcript chunks: timecode of the first utterance
	EndTime      int      // transcript chunks: timecode of the last utterance
	Speakers     []string // transcript chunks: distinct speakers, order of first appearance
	SectionTitle string   // section chunks: the originating heading
}

// Chunk is a topic-coherent group of contiguous source units. StartIdx and
// EndIdx are inclusive indices into the parsed unit sequence.
type Chunk struct {
	Index    int
	Topic    string
	StartIdx int
	EndIdx   int
	Content  string
	Metadata ChunkMetadata
}

// RecordMetadata is stored alongside each vector in the index. It drives
// document-scoped deletes and attributes query matches back to their source.
type RecordMetadata struct {
	DocumentID          string
	DocumentType        DocumentType
	Topic               string
	SectionTitle        string
	ChunkIndex          int
	TotalChunks         int
	SourceTranscriptIDs []string
	StartTime           int
	EndTime             int
	Speakers            []string
	Fingerprint         string // content digest, for drift inspection
	CreatedAt           time.Time
}

// VectorRecord is the durable artifact of a sync: one embedded chunk ready
// for the vector index. Embedding may be empty until the embedder runs.
type VectorRecord struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  RecordMetadata
}

// ChunkRecordID returns the deterministic index ID for a transcript-derived
// chunk. Re-syncing an unchanged document reproduces the same IDs.
func ChunkRecordID(documentID string, index int) string {
	return fmt.Sprintf("%s-chunk-%d", documentID, index)
}

// SectionRecordID returns the deterministic index ID for a summary section.
func SectionRecordID(documentID string, index int) string {
	return fmt.Sprintf("%s-section-%d", documentID, index)
}
