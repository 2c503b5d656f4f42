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

import "testing"

func TestInsecureCharacters(t *testing.T) {
	const input = "Hello,\x00World\n"
	const want = "Hello,�World"

	doc := Parse(input, ParseOptions{})
	p := firstParagraph(t, doc)
	text := firstText(t, p)
	if text.S != want {
		t.Errorf("text = %q; want %q", text.S, want)
	}
}

func TestParseHeading(t *testing.T) {
	doc := Parse("# Title\n", ParseOptions{})
	var h *Heading
	for _, c := range doc.Children() {
		if hh, ok := c.(*Heading); ok {
			h = hh
			break
		}
	}
	if h == nil {
		t.Fatal("no Heading in parsed document")
	}
	if h.Level != 1 {
		t.Errorf("h.Level = %d; want 1", h.Level)
	}
	text := firstText(t, h.P)
	if text.S != "Title" {
		t.Errorf("text = %q; want %q", text.S, "Title")
	}
}

func TestParseEmphasisMerging(t *testing.T) {
	doc := Parse("Hello, *World*!\n", ParseOptions{})
	p := firstParagraph(t, doc)
	children := p.Children()
	if len(children) != 3 {
		t.Fatalf("len(paragraph children) = %d; want 3 (%v)", len(children), children)
	}
	a, ok := children[0].(*Text)
	if !ok || a.S != "Hello, " {
		t.Errorf("children[0] = %+v; want Text %q", children[0], "Hello, ")
	}
	b, ok := children[1].(*Text)
	if !ok || b.S != "World" {
		t.Fatalf("children[1] = %+v; want Text %q", children[1], "World")
	}
	if len(b.OpenDelims) != 1 || b.OpenDelims[0].Style != Italic {
		t.Errorf("children[1].OpenDelims = %+v; want one Italic opener", b.OpenDelims)
	}
	if len(b.CloseDelims) != 1 || b.CloseDelims[0].Style != Italic {
		t.Errorf("children[1].CloseDelims = %+v; want one Italic closer", b.CloseDelims)
	}
	c, ok := children[2].(*Text)
	if !ok || c.S != "!" {
		t.Errorf("children[2] = %+v; want Text %q", children[2], "!")
	}
}

func TestParseLeadingAnchor(t *testing.T) {
	doc := Parse("hello\n", ParseOptions{})
	children := doc.Children()
	if len(children) == 0 {
		t.Fatal("parsed document has no children")
	}
	if _, ok := children[0].(*Anchor); !ok {
		t.Errorf("children[0] = %T; want *Anchor", children[0])
	}
}

func TestParseReferenceLink(t *testing.T) {
	doc := Parse("[foo]\n\n[foo]: /url \"title\"\n", ParseOptions{})
	p := firstParagraph(t, doc)
	var link *Link
	for _, c := range p.Children() {
		if l, ok := c.(*Link); ok {
			link = l
			break
		}
	}
	if link == nil {
		t.Fatal("no Link resolved from reference-style [foo]")
	}
	if link.URL != "/url" {
		t.Errorf("link.URL = %q; want %q", link.URL, "/url")
	}
}

// TestSpansNestWithinParents walks a handful of representative
// documents and checks that every child's span falls within its
// parent's, mirroring how the teacher's fuzz test validated
// StartOffset/Source agreement for the old byte-offset model.
func TestSpansNestWithinParents(t *testing.T) {
	inputs := []string{
		"# Heading\n\nA paragraph with *emphasis* and `code`.\n",
		"> quoted\n> text\n",
		"- one\n- two\n  - nested\n",
		"| a | b |\n| - | - |\n| 1 | 2 |\n",
		"[foo]: /url\n\nSee [foo].\n",
	}
	for _, in := range inputs {
		doc := Parse(in, ParseOptions{})
		Walk(doc, &WalkOptions{
			Pre: func(cur *Cursor) bool {
				parent := cur.Parent()
				if parent == nil {
					return true
				}
				ps, cs := parent.Position(), cur.Item().Position()
				if !ps.IsValid() || !cs.IsValid() {
					return true
				}
				if !ps.Covers(cs) {
					t.Errorf("input %q: %T span %v not covered by parent %T span %v", in, cur.Item(), cs, parent, ps)
				}
				return true
			},
		})
	}
}

func firstParagraph(t *testing.T, doc *Document) *Paragraph {
	t.Helper()
	for _, c := range doc.Children() {
		if p, ok := c.(*Paragraph); ok {
			return p
		}
	}
	t.Fatal("no Paragraph in parsed document")
	return nil
}

func firstText(t *testing.T, p *Paragraph) *Text {
	t.Helper()
	for _, c := range p.Children() {
		if tx, ok := c.(*Text); ok {
			return tx
		}
	}
	t.Fatal("no Text in paragraph")
	return nil
}
