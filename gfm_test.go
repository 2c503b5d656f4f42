// Copyright 2024 Ross Light
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	doc := Parse("| a | b |\n| - | -: |\n| 1 | 2 |\n", ParseOptions{})
	var table *Table
	for _, c := range doc.Children() {
		if tb, ok := c.(*Table); ok {
			table = tb
			break
		}
	}
	require.NotNil(t, table, "no Table in parsed document")
	assert.Equal(t, 2, table.ColumnCount)
	require.Len(t, table.Rows, 2, "header row is Rows[0]")
	require.Len(t, table.Alignments, 2)
	assert.Equal(t, AlignRight, table.Alignments[1])
}

func TestParseTaskList(t *testing.T) {
	doc := Parse("- [x] done\n- [ ] todo\n", ParseOptions{})
	var list *List
	for _, c := range doc.Children() {
		if l, ok := c.(*List); ok {
			list = l
			break
		}
	}
	if list == nil {
		t.Fatal("no List in parsed document")
	}
	items := list.Children()
	if len(items) != 2 {
		t.Fatalf("len(list items) = %d; want 2", len(items))
	}
	first, ok := items[0].(*ListItem)
	if !ok || !first.IsTask || !first.Checked {
		t.Errorf("items[0] = %+v; want checked task item", items[0])
	}
	second, ok := items[1].(*ListItem)
	if !ok || !second.IsTask || second.Checked {
		t.Errorf("items[1] = %+v; want unchecked task item", items[1])
	}
}

func TestParseStrikethrough(t *testing.T) {
	doc := Parse("~~gone~~\n", ParseOptions{})
	p := firstParagraph(t, doc)
	text := firstText(t, p)
	if !text.StyleOpts.Has(Strikethrough) {
		t.Errorf("text.StyleOpts = %v; want Strikethrough set", text.StyleOpts)
	}
}

func TestParseFootnote(t *testing.T) {
	doc := Parse("See note.[^1]\n\n[^1]: The note body.\n", ParseOptions{})
	var ref *FootnoteRef
	p := firstParagraph(t, doc)
	for _, c := range p.Children() {
		if r, ok := c.(*FootnoteRef); ok {
			ref = r
			break
		}
	}
	if ref == nil {
		t.Fatal("no FootnoteRef in paragraph")
	}
	if ref.ID != "1" {
		t.Errorf("ref.ID = %q; want %q", ref.ID, "1")
	}
	fn := doc.References().Footnote("1")
	if fn == nil {
		t.Fatal("ReferenceStore.Footnote(\"1\") = nil")
	}
}

func TestParseTightVsLooseList(t *testing.T) {
	tight := Parse("- one\n- two\n", ParseOptions{})
	list := firstList(t, tight)
	if !list.Tight {
		t.Error("adjacent single-line items should produce a tight list")
	}

	loose := Parse("- one\n\n- two\n", ParseOptions{})
	list2 := firstList(t, loose)
	if list2.Tight {
		t.Error("items separated by a blank line should produce a loose list")
	}
}

func firstList(t *testing.T, doc *Document) *List {
	t.Helper()
	for _, c := range doc.Children() {
		if l, ok := c.(*List); ok {
			return l
		}
	}
	t.Fatal("no List in parsed document")
	return nil
}
