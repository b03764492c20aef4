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


package core

import (
	"fmt"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Type must be a known DocumentType
//
// NOT validated:
//   - Content (empty content is legal; the pipeline treats it as nothing to sync)
//   - WorkspaceID (empty falls back to the default namespace)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentID)
	}

	if err := ValidateDocumentType(doc.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateDocumentType validates that a DocumentType has a known value.
func ValidateDocumentType(t DocumentType) error {
	for _, known := range DocumentTypes() {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidDocumentType, t)
}

// ValidateRecord validates a VectorRecord before it is handed to the index.
//
// Validation rules:
//   - ID must not be empty
//   - Content must not be empty
//
// NOT validated (populated later by the pipeline):
//   - Embedding (records without one are excluded at write time, not rejected)
func ValidateRecord(record *VectorRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyRecordID)
	}

	if record.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyContent)
	}

	return nil
}

// ValidateChunkSequence checks that chunks partition unitCount source units:
// every range in bounds, chunks contiguous and non-overlapping, every unit
// covered exactly once, and Index fields matching slice position.
func ValidateChunkSequence(chunks []Chunk, unitCount int) error {
	if unitCount == 0 {
		if len(chunks) != 0 {
			return fmt.Errorf("%w: %d chunks over zero units", ErrInvalidChunkSequence, len(chunks))
		}
		return nil
	}

	next := 0
	for i, c := range chunks {
		if c.Index != i {
			return fmt.Errorf("%w: chunk at position %d carries index %d", ErrInvalidChunkSequence, i, c.Index)
		}
		if c.StartIdx > c.EndIdx {
			return fmt.Errorf("%w: chunk %d has inverted range [%d, %d]", ErrInvalidChunkSequence, i, c.StartIdx, c.EndIdx)
		}
		if c.StartIdx != next {
			return fmt.Errorf("%w: chunk %d starts at %d, want %d", ErrInvalidChunkSequence, i, c.StartIdx, next)
		}
		next = c.EndIdx + 1
	}

	if next != unitCount {
		return fmt.Errorf("%w: chunks cover %d of %d units", ErrInvalidChunkSequence, next, unitCount)
	}

	return nil
}
