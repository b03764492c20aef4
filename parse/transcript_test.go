package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recallit/core"
)

func TestTranscript(t *testing.T) {
	t.Run("single clock timecode line", func(t *testing.T) {
		utterances, err := Transcript("00:00:15 Alice: Hi")

		require.NoError(t, err)
		require.Len(t, utterances, 1)
		assert.Equal(t, core.Utterance{Timecode: 15, Speaker: "Alice", Text: "Hi"}, utterances[0])
	})

	t.Run("bare second count", func(t *testing.T) {
		utterances, err := Transcript("90 Bob: let's start")

		require.NoError(t, err)
		require.Len(t, utterances, 1)
		assert.Equal(t, core.Utterance{Timecode: 90, Speaker: "Bob", Text: "let's start"}, utterances[0])
	})

	t.Run("hours roll into seconds", func(t *testing.T) {
		utterances, err := Transcript("01:02:03 Carol: checking in")

		require.NoError(t, err)
		require.Len(t, utterances, 1)
		assert.Equal(t, 3723, utterances[0].Timecode)
	})

	t.Run("multiple lines preserve order", func(t *testing.T) {
		raw := "00:00:05 Alice: Morning everyone\n" +
			"00:00:12 Bob: Morning\n" +
			"00:01:30 Alice: Agenda first"

		utterances, err := Transcript(raw)

		require.NoError(t, err)
		require.Len(t, utterances, 3)
		assert.Equal(t, "Alice", utterances[0].Speaker)
		assert.Equal(t, "Bob", utterances[1].Speaker)
		assert.Equal(t, 90, utterances[2].Timecode)
	})

	t.Run("blank lines skipped", func(t *testing.T) {
		raw := "\n00:00:05 Alice: Hello\n\n\n00:00:10 Bob: Hi\n"

		utterances, err := Transcript(raw)

		require.NoError(t, err)
		assert.Len(t, utterances, 2)
	})

	t.Run("text keeps embedded colons", func(t *testing.T) {
		utterances, err := Transcript("00:00:15 Alice: meet at 5:30 pm")

		require.NoError(t, err)
		require.Len(t, utterances, 1)
		assert.Equal(t, "meet at 5:30 pm", utterances[0].Text)
	})

	t.Run("empty input yields empty sequence", func(t *testing.T) {
		utterances, err := Transcript("")

		require.NoError(t, err)
		assert.Empty(t, utterances)
	})

	t.Run("speaker names with spaces", func(t *testing.T) {
		utterances, err := Transcript("15 Alice Smith: present")

		require.NoError(t, err)
		require.Len(t, utterances, 1)
		assert.Equal(t, "Alice Smith", utterances[0].Speaker)
	})
}

func TestTranscript_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		line int
	}{
		{
			name: "no timecode",
			raw:  "Alice: Hi",
			line: 1,
		},
		{
			name: "missing speaker delimiter",
			raw:  "00:00:15 Alice said hi",
			line: 1,
		},
		{
			name: "empty speaker",
			raw:  "00:00:15 : Hi",
			line: 1,
		},
		{
			name: "minutes out of range",
			raw:  "00:75:00 Alice: Hi",
			line: 1,
		},
		{
			name: "seconds out of range",
			raw:  "00:00:99 Alice: Hi",
			line: 1,
		},
		{
			name: "two-field timecode",
			raw:  "00:15 Alice: Hi",
			line: 1,
		},
		{
			name: "four-field timecode",
			raw:  "00:00:00:15 Alice: Hi",
			line: 1,
		},
		{
			name: "negative second count",
			raw:  "-5 Alice: Hi",
			line: 1,
		},
		{
			name: "non-numeric timecode",
			raw:  "noon Alice: Hi",
			line: 1,
		},
		{
			name: "bad line after good lines",
			raw:  "00:00:05 Alice: Hello\n00:00:10 Bob: Hi\ngarbage",
			line: 3,
		},
		{
			name: "lone word",
			raw:  "hello",
			line: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			utterances, err := Transcript(tt.raw)

			require.Error(t, err)
			assert.Nil(t, utterances)
			assert.ErrorIs(t, err, ErrMalformedTranscript)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.line, parseErr.Line)
			assert.NotEmpty(t, parseErr.Reason)
		})
	}
}

func TestTranscript_Deterministic(t *testing.T) {
	raw := "00:00:05 Alice: Hello\n120 Bob: Hi there"

	first, err1 := Transcript(raw)
	second, err2 := Transcript(raw)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}
