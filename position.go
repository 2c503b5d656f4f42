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

	"go4.org/bytereplacer"
)

// Position is a single point in the original, untransformed ("virgin")
// source text: a 1-based line number and a 0-based column measured in
// bytes of the original line (a tab counts as one byte).
//
// A Position with a negative Line means the position is unset.
type Position struct {
	Line int
	Col  int
}

// NullPosition returns the unset Position.
func NullPosition() Position {
	return Position{Line: -1, Col: -1}
}

// IsValid reports whether p refers to an actual location in the source.
func (p Position) IsValid() bool {
	return p.Line >= 0 && p.Col >= 0
}

// Less reports whether p comes strictly before q in reading order.
func (p Position) Less(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Span is a half-open range of virgin [Position]s, [Start, End),
// that a node's source text occupies. The zero Span is not unset:
// IsValid reports true for it, since line 0, column 0 passes
// [Position.IsValid]. Use [NullSpan] to construct an unset Span.
type Span struct {
	Start Position
	End   Position
}

// NullSpan returns the unset Span.
func NullSpan() Span {
	return Span{Start: NullPosition(), End: NullPosition()}
}

// IsValid reports whether the span refers to an actual range in the source.
func (s Span) IsValid() bool {
	return s.Start.IsValid()
}

// Covers reports whether s fully contains other.
func (s Span) Covers(other Span) bool {
	return s.IsValid() && other.IsValid() &&
		!other.Start.Less(s.Start) && !s.End.Less(other.End)
}

const tabStopSize = 4

// nulReplacer substitutes the handful of bytes CommonMark requires
// be scrubbed from the source before any other processing happens:
// NUL becomes U+FFFD, per the CommonMark "Insecure characters" rule.
var nulReplacer = bytereplacer.New("\x00", "�")

// edit records one substitution applied while transforming a line
// from its virgin form to the form the block/inline scanners see,
// so that a column in the transformed text can be mapped back
// to a column in the original line.
type edit struct {
	transformedStart int
	transformedEnd   int
	virginStart      int
	virginEnd        int
}

// InternalString is a single physical line, carrying both the form the
// scanners operate over (tabs expanded to the next 4-column stop, NUL
// bytes replaced) and enough history to map any position in that form
// back to a column in the virgin (pre-transformation) line.
type InternalString struct {
	virgin      string
	transformed string
	edits       []edit
}

// newInternalString builds an InternalString from one raw physical line
// (its trailing line terminator, if any, already stripped).
func newInternalString(raw string) *InternalString {
	raw = string(nulReplacer.Replace([]byte(raw)))
	s := &InternalString{virgin: raw}
	var b strings.Builder
	b.Grow(len(raw))
	col := 0
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\t' {
			b.WriteByte(c)
			col++
			continue
		}
		start := b.Len()
		vcol := col
		next := (col/tabStopSize + 1) * tabStopSize
		for ; col < next; col++ {
			b.WriteByte(' ')
		}
		s.edits = append(s.edits, edit{
			transformedStart: start,
			transformedEnd:   b.Len(),
			virginStart:      vcol,
			virginEnd:        vcol + 1,
		})
	}
	s.transformed = b.String()
	return s
}

// Text returns the transformed line text that the scanners operate over.
func (s *InternalString) Text() string {
	if s == nil {
		return ""
	}
	return s.transformed
}

// VirginCol maps a 0-based column in the transformed text back to the
// corresponding 0-based column in the original line. If end is true,
// the column is treated as exclusive (the position just past the last
// consumed rune), which matters when the column falls inside an
// expanded tab.
func (s *InternalString) VirginCol(col int, end bool) int {
	if s == nil {
		return col
	}
	for _, e := range s.edits {
		if col < e.transformedStart {
			break
		}
		if col < e.transformedEnd {
			if end {
				return e.virginEnd
			}
			return e.virginStart
		}
		col -= (e.transformedEnd - e.transformedStart) - (e.virginEnd - e.virginStart)
	}
	return col
}

// VirginSubstring returns the original source text corresponding to the
// transformed-text byte range [start, end).
func (s *InternalString) VirginSubstring(start, end int) string {
	if s == nil {
		return ""
	}
	vs, ve := s.VirginCol(start, false), s.VirginCol(end, true)
	if vs < 0 || ve > len(s.virgin) || vs > ve {
		return ""
	}
	return s.virgin[vs:ve]
}

// LineMeta carries the bookkeeping a line needs beyond its text: its
// original (1-based) line number, and MayBreakList, which marks a line
// whose lazy continuation could also terminate an enclosing list.
// Nothing in the parser sets MayBreakList, so it is always false.
// LineMeta records no HTML comment positions.
type LineMeta struct {
	LineNo       int
	MayBreakList bool
}

// Line is one entry of a [LineBuffer]: the tab-expanded/NUL-scrubbed
// text plus its original-line metadata.
type Line struct {
	Text *InternalString
	Meta LineMeta
}

// LineBuffer holds the ordered, immutable sequence of lines that make up
// a document (or a sub-range of one, as returned by [LineBuffer.Slice]).
// Indices are document order, 0-based.
type LineBuffer struct {
	lines []Line
}

// NewLineBuffer splits source into logical lines (normalizing \r\n and
// bare \r to a single logical break) and builds their transformed forms.
func NewLineBuffer(source string) *LineBuffer {
	lb := &LineBuffer{}
	lineNo := 0
	start := 0
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			lineNo++
			lb.lines = append(lb.lines, Line{
				Text: newInternalString(source[start:i]),
				Meta: LineMeta{LineNo: lineNo},
			})
			start = i + 1
		case '\r':
			lineNo++
			end := i
			if i+1 < len(source) && source[i+1] == '\n' {
				i++
			}
			lb.lines = append(lb.lines, Line{
				Text: newInternalString(source[start:end]),
				Meta: LineMeta{LineNo: lineNo},
			})
			start = i + 1
		}
	}
	if start < len(source) {
		lineNo++
		lb.lines = append(lb.lines, Line{
			Text: newInternalString(source[start:]),
			Meta: LineMeta{LineNo: lineNo},
		})
	}
	return lb
}

// Len returns the number of lines in the buffer.
func (lb *LineBuffer) Len() int {
	if lb == nil {
		return 0
	}
	return len(lb.lines)
}

// Line returns the i'th line.
func (lb *LineBuffer) Line(i int) Line {
	return lb.lines[i]
}

// Slice returns the sub-buffer covering lines [start, end).
func (lb *LineBuffer) Slice(start, end int) *LineBuffer {
	return &LineBuffer{lines: lb.lines[start:end]}
}
