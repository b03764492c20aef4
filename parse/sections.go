package parse

import (
	"strings"

	"github.com/poiesic/recallit/core"
)

// Sections parses heading-delimited text into ordered sections, one per
// top-level `# ` heading, content running to the next such heading.
// Non-blank content before the first heading, or a document with no
// headings at all, becomes a single untitled section. Sub-headings stay
// inside their parent section's content.
//
// Sections never fails: plain structured text has no malformed shape, and
// empty input yields an empty sequence.
func Sections(raw string) []core.Section {
	var sections []core.Section

	title := ""
	inSection := false
	var body []string

	flush := func() {
		if !inSection {
			return
		}
		sections = append(sections, core.Section{
			Title:   title,
			Content: strings.TrimSpace(strings.Join(body, "\n")),
		})
	}

	// Split rather than scan so lines of any length survive intact.
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if heading, found := strings.CutPrefix(line, "# "); found {
			flush()
			title = strings.TrimSpace(heading)
			inSection = true
			body = body[:0]
			continue
		}

		// Non-blank content ahead of any heading opens an untitled section.
		if !inSection && strings.TrimSpace(line) != "" {
			inSection = true
		}
		body = append(body, line)
	}
	flush()

	return sections
}
