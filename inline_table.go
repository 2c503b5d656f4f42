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
	"unicode"
	"unicode/utf8"
)

// tryParseTable recognizes a GFM pipe table starting at physical line
// i (a header row whose very next line is a valid alignment row) and,
// if the cell counts match, consumes every following row up to but not
// including the first blank line, the first line indented 4 or more
// columns, or the first row with fewer cells than the header. It
// returns the constructed Table and the number of physical lines
// consumed, or ok=false if line i does not open a table.
func tryParseTable(lb *LineBuffer, i int, col int) (*Table, int, bool) {
	if i+1 >= lb.Len() {
		return nil, 0, false
	}
	header := lb.Line(i)
	headerRest := header.Text.Text()[col:]
	alignLine := lb.Line(i + 1)
	alignIndent, alignRest := leadingIndent(alignLine.Text.Text())
	if alignIndent >= codeBlockIndentLimit || !isTableAlignmentRow(alignRest) {
		return nil, 0, false
	}

	headerBody, headerOffset := trimOuterPipesWithOffset(headerRest)
	headerSpans := splitTableRowSpans(headerBody)
	alignCells := splitTableRow(strings.Trim(alignRest, "|"))
	if len(headerSpans) == 0 || len(headerSpans) != len(alignCells) {
		return nil, 0, false
	}

	alignments := make([]Alignment, len(alignCells))
	for i, cell := range alignCells {
		cell = strings.TrimSpace(cell)
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":")
		switch {
		case left && right:
			alignments[i] = AlignCenter
		case left:
			alignments[i] = AlignLeft
		case right:
			alignments[i] = AlignRight
		default:
			alignments[i] = AlignNone
		}
	}

	t := &Table{
		base:        base{span: Span{Start: Position{Line: header.Meta.LineNo, Col: col}, End: Position{Line: alignLine.Meta.LineNo, Col: len(alignLine.Text.Text())}}},
		Alignments:  alignments,
		ColumnCount: len(alignments),
	}
	t.Rows = append(t.Rows, buildTableRow(header, col+headerOffset, headerSpans, alignments))

	consumed := 2
	for i+consumed < lb.Len() {
		ln := lb.Line(i + consumed)
		rest := ln.Text.Text()
		if isBlankString(rest) {
			break
		}
		indent, body := leadingIndent(rest)
		if indent >= codeBlockIndentLimit {
			break
		}
		rowBody, rowOffset := trimOuterPipesWithOffset(body)
		cellSpans := splitTableRowSpans(rowBody)
		if len(cellSpans) < len(alignments) {
			break
		}
		t.Rows = append(t.Rows, buildTableRow(ln, indent+rowOffset, cellSpans, alignments))
		consumed++
	}
	t.span.End = t.Rows[len(t.Rows)-1].span.End
	return t, consumed, true
}

// tableCellSpan is one unescaped '|'-delimited field of a table row,
// together with the byte offset it started at within the row text
// splitTableRowSpans was given.
type tableCellSpan struct {
	text  string
	start int
}

// splitTableRowSpans splits line on unescaped '|', the same way
// [splitTableRow] does, but additionally records each field's starting
// byte offset so callers can map its content back to real positions.
func splitTableRowSpans(line string) []tableCellSpan {
	var cells []tableCellSpan
	start := 0
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '|':
			cells = append(cells, tableCellSpan{text: line[start:i], start: start})
			start = i + 1
		}
	}
	cells = append(cells, tableCellSpan{text: line[start:], start: start})
	return cells
}

// trimOuterPipesWithOffset trims s the same way a table row is bounded
// before splitting on '|' (surrounding whitespace, then at most one
// leading/trailing run of '|'), and returns the byte offset within s
// that the trimmed text starts at.
func trimOuterPipesWithOffset(s string) (trimmed string, offset int) {
	lead := leadingWhitespaceLen(s)
	ts := strings.TrimSpace(s)
	trimmed = strings.Trim(ts, "|")
	pipesLead := len(ts) - len(strings.TrimLeft(ts, "|"))
	return trimmed, lead + pipesLead
}

func leadingWhitespaceLen(s string) int {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

// buildTableRow turns cells (already split out of ln's content starting
// at baseCol) into a TableRow, parsing each cell's inline content with
// a position mapper anchored to its real column on ln rather than a
// synthetic Line 1 origin.
func buildTableRow(ln Line, baseCol int, cells []tableCellSpan, alignments []Alignment) *TableRow {
	row := &TableRow{base: base{span: Span{
		Start: Position{Line: ln.Meta.LineNo, Col: 0},
		End:   Position{Line: ln.Meta.LineNo, Col: len(ln.Text.Text())},
	}}}
	for i := 0; i < len(alignments); i++ {
		var raw string
		cellStart := baseCol
		if i < len(cells) {
			raw = cells[i].text
			cellStart = baseCol + cells[i].start
		}
		lead := leadingWhitespaceLen(raw)
		text := strings.TrimSpace(raw)
		cellCol := cellStart + lead
		cellSpan := Span{
			Start: Position{Line: ln.Meta.LineNo, Col: ln.Text.VirginCol(cellCol, false)},
			End:   Position{Line: ln.Meta.LineNo, Col: ln.Text.VirginCol(cellCol+len(text), true)},
		}
		cell := &TableCell{base: base{span: cellSpan}, Align: alignments[i]}
		cell.append(parseInlinesAt(unescapeTableCell(text), ln, cellCol)...)
		row.Cells = append(row.Cells, cell)
	}
	return row
}

// unescapeTableCell resolves the "\|" escape GFM tables require to
// embed a literal pipe inside a cell; the inline scanner otherwise has
// no reason to treat '|' specially.
func unescapeTableCell(s string) string {
	return strings.ReplaceAll(s, `\|`, "|")
}
