package chunking

import (
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates how many model tokens a piece of text consumes.
// Implementations must be safe for concurrent use.
type TokenCounter interface {
	Count(text string) int
}

// RuneCounter approximates token count as one token per four runes, the
// usual rule of thumb for English prose. It needs no model data, which keeps
// tests and dry-run mode offline.
type RuneCounter struct{}

// Count returns the estimated token count for text.
func (RuneCounter) Count(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// TiktokenCounter counts exact tokens using a tiktoken BPE encoding. Use
// "cl100k_base" for OpenAI embedding models. The encoding data is fetched on
// first load, so production setups should prefer this while offline tooling
// sticks with RuneCounter.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named BPE encoding.
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{encoding: enc}, nil
}

// Count returns the exact token count for text.
func (c *TiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

var (
	_ TokenCounter = RuneCounter{}
	_ TokenCounter = (*TiktokenCounter)(nil)
)
