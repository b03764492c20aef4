package chunking

import (
	"github.com/poiesic/recallit/core"
)

// SectionChunker maps sections to chunks one to one. No merging, no
// splitting: an author-drawn heading is already a topic boundary.
type SectionChunker struct{}

// NewSectionChunker creates a section chunker.
func NewSectionChunker() *SectionChunker {
	return &SectionChunker{}
}

// Chunk converts sections into an ordered chunk sequence, one chunk per
// section. The section title doubles as the chunk topic and is kept at the
// head of the content so it embeds alongside the body.
func (SectionChunker) Chunk(sections []core.Section) []core.Chunk {
	chunks := make([]core.Chunk, 0, len(sections))
	for i, section := range sections {
		chunks = append(chunks, core.Chunk{
			Index:    i,
			Topic:    section.Title,
			StartIdx: i,
			EndIdx:   i,
			Content:  sectionContent(section),
			Metadata: core.ChunkMetadata{
				SectionTitle: section.Title,
			},
		})
	}
	return chunks
}

func sectionContent(section core.Section) string {
	switch {
	case section.Title == "":
		return section.Content
	case section.Content == "":
		return section.Title
	default:
		return section.Title + "\n" + section.Content
	}
}
