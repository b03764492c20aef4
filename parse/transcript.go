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


package parse

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/recallit/core"
)

// Transcript parses raw transcript text into an ordered utterance sequence.
//
// Each non-blank line must match `TIMECODE SPEAKER: TEXT`, where TIMECODE is
// either HH:MM:SS or a bare non-negative second count. Blank lines are
// skipped. The first line that matches neither form fails the whole parse
// with a *ParseError.
func Transcript(raw string) ([]core.Utterance, error) {
	var utterances []core.Utterance

	scanner := bufio.NewScanner(strings.NewReader(raw))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		utterance, err := parseUtteranceLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		utterances = append(utterances, utterance)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNo + 1, Reason: err.Error()}
	}

	return utterances, nil
}

func parseUtteranceLine(line string, lineNo int) (core.Utterance, error) {
	timecode, rest, found := strings.Cut(line, " ")
	if !found {
		return core.Utterance{}, &ParseError{Line: lineNo, Reason: "missing speaker segment"}
	}

	seconds, err := parseTimecode(timecode)
	if err != nil {
		return core.Utterance{}, &ParseError{Line: lineNo, Reason: err.Error()}
	}

	speaker, text, found := strings.Cut(rest, ":")
	if !found {
		return core.Utterance{}, &ParseError{Line: lineNo, Reason: "missing speaker delimiter"}
	}

	speaker = strings.TrimSpace(speaker)
	if speaker == "" {
		return core.Utterance{}, &ParseError{Line: lineNo, Reason: "empty speaker"}
	}

	return core.Utterance{
		Timecode: seconds,
		Speaker:  speaker,
		Text:     strings.TrimSpace(text),
	}, nil
}

// parseTimecode accepts HH:MM:SS (minutes and seconds capped at 59) or a
// bare second count.
func parseTimecode(token string) (int, error) {
	if !strings.Contains(token, ":") {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("timecode %q is not a second count", token)
		}
		return n, nil
	}

	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("timecode %q is not HH:MM:SS", token)
	}

	fields := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("timecode %q is not HH:MM:SS", token)
		}
		fields[i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("timecode %q has out-of-range minutes or seconds", token)
	}

	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}
