// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package commonmark

import "strings"

// atxHeading is the result of attempting to parse a line as an ATX
// heading opener, "#"{1,6} SP ... (trailing "#"s optionally closing it).
type atxHeading struct {
	level int
	start int // byte offset in rest where the heading content begins
}

func parseATXHeading(rest string) atxHeading {
	n := 0
	for n < len(rest) && rest[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return atxHeading{}
	}
	if n == len(rest) {
		return atxHeading{level: n, start: n}
	}
	if rest[n] != ' ' && rest[n] != '\t' {
		return atxHeading{}
	}
	i := n
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	return atxHeading{level: n, start: i}
}

// atxHeadingContent strips the trailing "#"-run closer (and the spaces
// before it) from an ATX heading's raw content.
func atxHeadingContent(s string) string {
	s = strings.TrimRight(s, " \t")
	trimmed := strings.TrimRight(s, "#")
	if trimmed == s {
		return s
	}
	if trimmed == "" || strings.HasSuffix(trimmed, " ") || strings.HasSuffix(trimmed, "\t") {
		return strings.TrimRight(trimmed, " \t")
	}
	return s
}

// codeFence is the result of attempting to parse a line as a fenced
// code block opener: a run of three-or-more '`' or '~', n long.
type codeFence struct {
	n      int
	ch     byte
	indent int
	info   string
}

func parseCodeFence(rest string) codeFence {
	if len(rest) == 0 {
		return codeFence{}
	}
	ch := rest[0]
	if ch != '`' && ch != '~' {
		return codeFence{}
	}
	n := 0
	for n < len(rest) && rest[n] == ch {
		n++
	}
	if n < 3 {
		return codeFence{}
	}
	info := rest[n:]
	if ch == '`' && strings.ContainsRune(info, '`') {
		return codeFence{}
	}
	return codeFence{n: n, ch: ch, info: strings.TrimSpace(info)}
}

// parseThematicBreak reports the number of marker characters found if
// rest is a thematic break line ("***", "---", "___", possibly spaced
// out and with trailing whitespace), or -1 if it is not.
func parseThematicBreak(rest string) int {
	rest = strings.TrimRight(rest, " \t")
	if len(rest) == 0 {
		return -1
	}
	ch := rest[0]
	if ch != '-' && ch != '_' && ch != '*' {
		return -1
	}
	n := 0
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c == ch {
			n++
			continue
		}
		if c == ' ' || c == '\t' {
			continue
		}
		return -1
	}
	if n < 3 {
		return -1
	}
	return n
}

// parseSetextUnderline reports 1 for a "=" underline, 2 for a "-"
// underline, or 0 if rest is not a setext heading underline.
func parseSetextUnderline(rest string) int {
	rest = strings.TrimRight(rest, " \t")
	if rest == "" {
		return 0
	}
	ch := rest[0]
	if ch != '=' && ch != '-' {
		return 0
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] != ch {
			return 0
		}
	}
	if ch == '=' {
		return 1
	}
	return 2
}

// listMarker is the result of attempting to parse a line as a list-item
// marker: a bullet ('-', '+', '*') or an ordered marker (1-9 digits
// followed by '.' or ')').
type listMarker struct {
	end     int // byte offset in rest just past the marker and its required following space
	ordered bool
	start   int
	delim   byte
}

func parseListMarker(rest string) listMarker {
	if len(rest) == 0 {
		return listMarker{end: -1}
	}
	switch rest[0] {
	case '-', '+', '*':
		// A bullet must be followed by a space, a tab or the end of
		// the line, so "---" is never a marker here. "- - -" does
		// parse as one; the callers check parseThematicBreak first so
		// that the thematic break wins.
		if len(rest) > 1 && rest[1] != ' ' && rest[1] != '\t' {
			return listMarker{end: -1}
		}
		end := 1
		if end < len(rest) && (rest[end] == ' ' || rest[end] == '\t') {
			end++
		}
		return listMarker{end: end, delim: rest[0]}
	}
	i := 0
	for i < len(rest) && isASCIIDigit(rest[i]) {
		i++
		if i > 9 {
			return listMarker{end: -1}
		}
	}
	if i == 0 || i >= len(rest) {
		return listMarker{end: -1}
	}
	if rest[i] != '.' && rest[i] != ')' {
		return listMarker{end: -1}
	}
	delim := rest[i]
	num := atoiClamped(rest[:i])
	i++
	if i < len(rest) && rest[i] != ' ' && rest[i] != '\t' {
		return listMarker{end: -1}
	}
	if i < len(rest) {
		i++
	}
	return listMarker{end: i, ordered: true, start: num, delim: delim}
}

func atoiClamped(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// isHTMLBlockOpener reports whether rest opens an HTML block under any
// of CommonMark's seven HTML-block start conditions. It runs the full
// check in [htmlBlockConditionOf], including condition 7 (a complete
// open or closing tag alone on its line).
func isHTMLBlockOpener(rest string) bool {
	return htmlBlockConditionOf(rest) > 0
}
