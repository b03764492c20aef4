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


package openai

import "strings"

// repairJSON fixes the most common way small instruct models mangle JSON
// output: object keys missing their opening quote, as in `{topic": "x"}`
// or `, start": 3`. A bare word directly after '{' or ',' that turns out
// to end in `":` gets the quote inserted; everything else is copied
// through verbatim.
func repairJSON(s string) string {
	in := []rune(s)
	var out strings.Builder
	out.Grow(len(s) + 16)

	for i := 0; i < len(in); {
		c := in[i]
		out.WriteRune(c)
		i++
		if c != '{' && c != ',' {
			continue
		}

		// Only key positions need inspection: whitespace, then either a
		// quote (already well formed) or a bare word.
		for i < len(in) && (in[i] == ' ' || in[i] == '\t' || in[i] == '\n') {
			out.WriteRune(in[i])
			i++
		}
		if i >= len(in) || !isASCIILetter(in[i]) {
			continue
		}

		start := i
		for i < len(in) && (isASCIILetter(in[i]) || in[i] == '_' || in[i] == ' ') {
			i++
		}
		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			// Missing opening quote. Insert it and drop a stray space at
			// either edge of the key; the closing quote at in[i] is copied
			// by the outer loop.
			out.WriteRune('"')
			for j := start; j < i; j++ {
				if in[j] == ' ' && (j == start || j == i-1) {
					continue
				}
				out.WriteRune(in[j])
			}
		} else {
			for j := start; j < i; j++ {
				out.WriteRune(in[j])
			}
		}
	}

	return out.String()
}

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
