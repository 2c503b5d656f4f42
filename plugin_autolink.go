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

	"gitlab.com/golang-commonmark/linkify"
	"gitlab.com/golang-commonmark/puny"
)

// autolinkPlugin is the built-in GFM autolink text plugin, id 1.
type autolinkPlugin struct{}

// builtinAutolinkPlugin is always consulted first, ahead of any
// caller-registered [TextPlugin].
var builtinAutolinkPlugin TextPlugin = autolinkPlugin{}

func (autolinkPlugin) ID() int              { return 1 }
func (autolinkPlugin) ProcessInLinks() bool { return false }

// Scan splits t at every bare URL/e-mail match and replaces each match
// with a synthetic Link, leaving the untouched text around it as
// sibling Text nodes.
func (autolinkPlugin) Scan(t *Text) []Item {
	matches := linkify.Links(t.S)
	if len(matches) == 0 {
		return nil
	}

	// Sub-span positions are only derived for single-line Text runs;
	// a Text node produced by joining across a hard/soft break keeps
	// its autolink candidates unresolved (NullPosition) rather than
	// risk a wrong column.
	multiline := t.span.Start.Line != t.span.End.Line
	pos := func(byteOffset int) Position {
		if multiline {
			return NullPosition()
		}
		return Position{Line: t.span.Start.Line, Col: t.span.Start.Col + byteOffset}
	}

	var out []Item
	last := 0
	for _, m := range matches {
		if m.Start < last || m.Start >= m.End {
			continue
		}
		if m.Start > last {
			out = append(out, plainTextSlice(t, last, m.Start, pos))
		}
		out = append(out, buildAutolink(t, m, pos))
		last = m.End
	}
	if last == 0 {
		// No match actually consumed anything distinct; treat as no-op.
		return nil
	}
	if last < len(t.S) {
		out = append(out, plainTextSlice(t, last, len(t.S), pos))
	}
	return out
}

func buildAutolink(t *Text, m linkify.Link, pos func(int) Position) *Link {
	raw := t.S[m.Start:m.End]
	url := autolinkURL(m.Scheme, raw)
	if host := autolinkHost(url); host != "" {
		if ascii := puny.ToASCII(host); ascii != host {
			url = strings.Replace(url, host, ascii, 1)
		}
	}
	span := Span{Start: pos(m.Start), End: pos(m.End)}
	link := &Link{
		base:    base{span: span},
		URL:     url,
		Text:    raw,
		TextPos: span,
		URLPos:  span,
	}
	link.append(&Text{base: base{span: span}, S: raw})
	return link
}

// autolinkURL builds the href for a linkify match: "http:", "https:",
// "ftp:" and "//" matches already carry their scheme as part of raw
// (linkify.Links reports Start at the scheme, not the host), a bare
// domain/IP match needs "http://" prepended, and a schema-less e-mail
// match (found via '@' rather than an explicit "mailto:") needs
// "mailto:" prepended.
func autolinkURL(scheme, raw string) string {
	switch scheme {
	case "":
		return "http://" + raw
	case "mailto:":
		if strings.HasPrefix(strings.ToLower(raw), "mailto:") {
			return raw
		}
		return "mailto:" + raw
	default:
		return raw
	}
}

func plainTextSlice(t *Text, start, end int, pos func(int) Position) *Text {
	return &Text{
		base: base{span: Span{Start: pos(start), End: pos(end)}},
		S:    t.S[start:end],
	}
}

// autolinkHost extracts the authority component of url well enough to
// punycode-encode a bare domain; it is not a general URL parser.
func autolinkHost(url string) string {
	rest := url
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	rest = strings.TrimPrefix(rest, "mailto:")
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	}
	return rest
}
