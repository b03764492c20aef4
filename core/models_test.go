package core

import (
	"testing"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same fingerprint",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp1 := Fingerprint(tt.content)
			fp2 := Fingerprint(tt.content)

			if tt.wantSame && fp1 != fp2 {
				t.Errorf("Fingerprint() produced different digests for same content: %d vs %d", fp1, fp2)
			}
		})
	}
}

func TestFingerprint_Different(t *testing.T) {
	fp1 := Fingerprint("content1")
	fp2 := Fingerprint("content2")

	if fp1 == fp2 {
		t.Errorf("Fingerprint() produced same digest for different content")
	}
}

func TestFingerprintHex(t *testing.T) {
	hex1 := FingerprintHex("some chunk content")
	hex2 := FingerprintHex("some chunk content")

	if hex1 != hex2 {
		t.Errorf("FingerprintHex() produced different digests for same content: %s vs %s", hex1, hex2)
	}
	if len(hex1) != 16 {
		t.Errorf("FingerprintHex() length = %d, want 16", len(hex1))
	}
}

func TestChunkRecordID(t *testing.T) {
	tests := []struct {
		name       string
		documentID string
		index      int
		want       string
	}{
		{
			name:       "first chunk",
			documentID: "doc-123",
			index:      0,
			want:       "doc-123-chunk-0",
		},
		{
			name:       "later chunk",
			documentID: "doc-123",
			index:      17,
			want:       "doc-123-chunk-17",
		},
		{
			name:       "uuid document id",
			documentID: "3f8a2c1e-9b47-4d3a-8f21-0c6e5b9a7d42",
			index:      2,
			want:       "3f8a2c1e-9b47-4d3a-8f21-0c6e5b9a7d42-chunk-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkRecordID(tt.documentID, tt.index)
			if got != tt.want {
				t.Errorf("ChunkRecordID() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSectionRecordID(t *testing.T) {
	got := SectionRecordID("doc-9", 3)
	want := "doc-9-section-3"

	if got != want {
		t.Errorf("SectionRecordID() = %v, want %v", got, want)
	}
}

func TestDocumentTypes_Known(t *testing.T) {
	types := DocumentTypes()

	if len(types) == 0 {
		t.Fatalf("DocumentTypes() returned no types")
	}

	for _, dt := range types {
		if err := ValidateDocumentType(dt); err != nil {
			t.Errorf("ValidateDocumentType(%q) = %v, want nil", dt, err)
		}
	}
}
