package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid transcript",
			doc: &Document{
				ID:          "doc-1",
				WorkspaceID: "ws-1",
				Type:        DocumentTypeTranscript,
				Content:     "00:00:01 Alice: Hello",
			},
			wantErr: nil,
		},
		{
			name: "valid summary",
			doc: &Document{
				ID:      "doc-2",
				Type:    DocumentTypeSummary,
				Content: "# Overview\nNotes.",
			},
			wantErr: nil,
		},
		{
			name: "valid document with empty content",
			doc: &Document{
				ID:   "doc-3",
				Type: DocumentTypeTranscript,
			},
			wantErr: nil,
		},
		{
			name: "valid document with empty workspace",
			doc: &Document{
				ID:      "doc-4",
				Type:    DocumentTypeSummary,
				Content: "text",
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "empty id",
			doc: &Document{
				Type:    DocumentTypeTranscript,
				Content: "00:00:01 Alice: Hello",
			},
			wantErr: ErrEmptyDocumentID,
		},
		{
			name: "unknown type",
			doc: &Document{
				ID:      "doc-5",
				Type:    DocumentType("spreadsheet"),
				Content: "cells",
			},
			wantErr: ErrInvalidDocumentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateDocument() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *VectorRecord
		wantErr error
	}{
		{
			name: "valid record",
			record: &VectorRecord{
				ID:        "doc-1-chunk-0",
				Content:   "Alice: Hello",
				Embedding: []float32{0.1, 0.2},
			},
			wantErr: nil,
		},
		{
			name: "valid record without embedding",
			record: &VectorRecord{
				ID:      "doc-1-chunk-1",
				Content: "Bob: Hi",
			},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "empty id",
			record: &VectorRecord{
				Content: "Alice: Hello",
			},
			wantErr: ErrEmptyRecordID,
		},
		{
			name: "empty content",
			record: &VectorRecord{
				ID: "doc-1-chunk-0",
			},
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRecord() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateRecord() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunkSequence(t *testing.T) {
	tests := []struct {
		name      string
		chunks    []Chunk
		unitCount int
		wantErr   bool
	}{
		{
			name:      "empty over zero units",
			chunks:    nil,
			unitCount: 0,
			wantErr:   false,
		},
		{
			name: "single chunk covering all units",
			chunks: []Chunk{
				{Index: 0, StartIdx: 0, EndIdx: 4},
			},
			unitCount: 5,
			wantErr:   false,
		},
		{
			name: "contiguous partition",
			chunks: []Chunk{
				{Index: 0, StartIdx: 0, EndIdx: 2},
				{Index: 1, StartIdx: 3, EndIdx: 3},
				{Index: 2, StartIdx: 4, EndIdx: 6},
			},
			unitCount: 7,
			wantErr:   false,
		},
		{
			name: "chunks over zero units",
			chunks: []Chunk{
				{Index: 0, StartIdx: 0, EndIdx: 0},
			},
			unitCount: 0,
			wantErr:   true,
		},
		{
			name: "gap between chunks",
			chunks: []Chunk{
				{Index: 0, StartIdx: 0, EndIdx: 1},
				{Index: 1, StartIdx: 3, EndIdx: 4},
			},
			unitCount: 5,
			wantErr:   true,
		},
		{
			name: "overlapping chunks",
			chunks: []Chunk{
				{Index: 0, StartIdx: 0, EndIdx: 2},
				{Index: 1, StartIdx: 2, EndIdx: 4},
			},
			unitCount: 5,
			wantErr:   true,
		},
		{
			name: "inverted range",
			chunks: []Chunk{
				{Index: 0, StartIdx: 3, EndIdx: 1},
			},
			unitCount: 4,
			wantErr:   true,
		},
		{
			name: "uncovered tail",
			chunks: []Chunk{
				{Index: 0, StartIdx: 0, EndIdx: 2},
			},
			unitCount: 5,
			wantErr:   true,
		},
		{
			name: "index mismatch",
			chunks: []Chunk{
				{Index: 1, StartIdx: 0, EndIdx: 4},
			},
			unitCount: 5,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunkSequence(tt.chunks, tt.unitCount)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidChunkSequence) {
					t.Errorf("ValidateChunkSequence() error = %v, want ErrInvalidChunkSequence", err)
				}
				return
			}

			if err != nil {
				t.Errorf("ValidateChunkSequence() error = %v, want nil", err)
			}
		})
	}
}
