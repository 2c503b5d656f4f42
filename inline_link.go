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

import (
	"strings"

	"gitlab.com/golang-commonmark/mdurl"
)

// inlineLink is the result of parsing a "(<dest> "<title>")" inline
// link/image trailer.
type inlineLink struct {
	dest  string
	title string
	n     int // bytes consumed, including the enclosing parens
	ok    bool

	// destStart/destEnd are the byte offsets of the raw destination text
	// within the trailer string passed to parseInlineLinkTrailer, or
	// 0,0 if the trailer had no destination (an empty "()").
	destStart, destEnd int
}

// parseInlineLinkTrailer parses a link/image's "(...)" trailer starting
// at s[0] == '('.
func parseInlineLinkTrailer(s string) inlineLink {
	if len(s) == 0 || s[0] != '(' {
		return inlineLink{}
	}
	i := 1
	i = skipInlineSpace(s, i)
	destStart := i
	dest, n, ok := parseLinkDestination(s[i:])
	if !ok {
		if i < len(s) && s[i] == ')' {
			return inlineLink{n: i + 1, ok: true}
		}
		return inlineLink{}
	}
	i += n
	destEnd := i
	before := i
	i = skipInlineSpaceNewline(s, i)
	title := ""
	if i > before && i < len(s) && (s[i] == '"' || s[i] == '\'' || s[i] == '(') {
		t, tn, tok := parseLinkTitle(s[i:])
		if tok {
			title = t
			i += tn
			i = skipInlineSpaceNewline(s, i)
		}
	}
	if i >= len(s) || s[i] != ')' {
		return inlineLink{}
	}
	return inlineLink{dest: normalizeLinkURL(dest), title: title, n: i + 1, ok: true, destStart: destStart, destEnd: destEnd}
}

func skipInlineSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func skipInlineSpaceNewline(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

// parseLinkDestination parses a link destination: either a
// "<...>"-bracketed form or a bare sequence of non-space characters
// with balanced parentheses.
func parseLinkDestination(s string) (string, int, bool) {
	if len(s) == 0 {
		return "", 0, false
	}
	if s[0] == '<' {
		for i := 1; i < len(s); i++ {
			switch s[i] {
			case '>':
				return s[1:i], i + 1, true
			case '\\':
				i++
			case '<', '\n':
				return "", 0, false
			}
		}
		return "", 0, false
	}
	depth := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i += 2
			continue
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				return s[:i], i, i > 0
			}
			depth--
		case c == ' ' || c == '\t' || c == '\n':
			return s[:i], i, i > 0
		}
		i++
	}
	return s[:i], i, i > 0
}

// parseLinkTitle parses a title in '"..."', '\'...\'', or '(...)' form.
func parseLinkTitle(s string) (string, int, bool) {
	if len(s) == 0 {
		return "", 0, false
	}
	open := s[0]
	close := open
	if open == '(' {
		close = ')'
	}
	if open != '"' && open != '\'' && open != '(' {
		return "", 0, false
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case close:
			return s[1:i], i + 1, true
		}
	}
	return "", 0, false
}

// normalizeLinkURL percent-encodes a raw link destination the way
// CommonMark's reference implementation does, using the same
// normalization the markdown-it family of parsers relies on.
func normalizeLinkURL(raw string) string {
	raw = unescapeInline(raw)
	u, err := mdurl.Parse(raw)
	if err != nil {
		return raw
	}
	return mdurl.Encode(u.String())
}

// parseSchemeAutolink recognizes CommonMark's "<scheme:...>" autolink.
func parseSchemeAutolink(s string) (url string, n int, ok bool) {
	if len(s) == 0 || s[0] != '<' {
		return "", 0, false
	}
	i := 1
	start := i
	if i >= len(s) || !isASCIILetter(s[i]) {
		return "", 0, false
	}
	i++
	for i < len(s) && (isASCIILetter(s[i]) || isASCIIDigit(s[i]) || strings.IndexByte("+.-", s[i]) >= 0) {
		i++
	}
	if i-start < 2 || i-start > 32 || i >= len(s) || s[i] != ':' {
		return "", 0, false
	}
	i++
	bodyStart := i
	for i < len(s) {
		switch s[i] {
		case '>':
			return s[bodyStart:i], i + 1, true
		case ' ', '\t', '\n', '<':
			return "", 0, false
		}
		i++
	}
	return "", 0, false
}

// parseEmailAutolink recognizes a "<user@host>" autolink per
// CommonMark's simplified email grammar.
func parseEmailAutolink(s string) (addr string, n int, ok bool) {
	if len(s) == 0 || s[0] != '<' {
		return "", 0, false
	}
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return "", 0, false
	}
	body := s[1:end]
	if !looksLikeEmail(body) {
		return "", 0, false
	}
	return body, end + 1, true
}

func looksLikeEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	for i := 0; i < len(local); i++ {
		c := local[i]
		if !(isASCIILetter(c) || isASCIIDigit(c) || strings.IndexByte(".!#$%&'*+/=?^_`{|}~-", c) >= 0) {
			return false
		}
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 1 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !(isASCIILetter(c) || isASCIIDigit(c) || c == '-') {
				return false
			}
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
	}
	return true
}

// unescapeInline resolves CommonMark backslash escapes of ASCII
// punctuation, used when computing a node's flattened text (link
// destinations, alt text, code span content is handled separately).
func unescapeInline(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]) {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

// flattenText renders a slice of already-resolved inline Items back to
// plain text, used for link/image alt text and heading labels.
func flattenText(items []Item) string {
	var b strings.Builder
	var walk func([]Item)
	walk = func(items []Item) {
		for _, it := range items {
			switch n := it.(type) {
			case *Text:
				b.WriteString(n.S)
			case *Code:
				b.WriteString(n.Text)
			case *LineBreak:
				b.WriteByte(' ')
			case *Link:
				walk(n.Children())
			case *Image:
				b.WriteString(n.Text)
			case *FootnoteRef:
				// omitted from flattened label text.
			}
		}
	}
	walk(items)
	return b.String()
}
