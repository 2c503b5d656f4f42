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

	"golang.org/x/text/cases"
)

// foldCaser performs the full Unicode case fold CommonMark requires for
// matching link labels. strings.ToLower is not sufficient: CommonMark's
// label matching is defined in terms of Unicode case folding, which
// differs from simple lower-casing for a handful of code points (e.g.
// the German ß).
var foldCaser = cases.Fold()

// normalizeLabel case-folds and collapses internal whitespace in a label,
// per CommonMark's link label matching rules, and appends the per-file
// scope suffix so that labels defined in different files of a recursive
// include never collide.
func normalizeLabel(label, scope string) string {
	label = strings.Join(strings.Fields(label), " ")
	label = foldCaser.String(label)
	if scope == "" {
		return label
	}
	return label + scope
}

// fileScope builds the "/<workingPath>/<fileName>" suffix used to scope
// labels registered while parsing one file of a multi-file run.
func fileScope(workingPath, fileName string) string {
	if workingPath == "" && fileName == "" {
		return ""
	}
	return "/" + workingPath + "/" + fileName
}

// ReferenceStore holds the three keyed maps a [Document] owns: labeled
// links, labeled headings, and footnotes. All three are
// populated while the block/inline parsers walk the document once
// (first definition wins on conflicts) and consulted during inline
// resolution, so that a definition appearing later in the document is
// still visible to an earlier reference.
type ReferenceStore struct {
	labeledLinks    map[string]*Link
	labeledHeadings map[string]*Heading
	footnotes       map[string]*Footnote
	scope           string
}

func newReferenceStore() *ReferenceStore {
	return &ReferenceStore{
		labeledLinks:    make(map[string]*Link),
		labeledHeadings: make(map[string]*Heading),
		footnotes:       make(map[string]*Footnote),
	}
}

// LabeledLink looks up a link reference definition by its normalized
// label, returning nil if none was registered.
func (s *ReferenceStore) LabeledLink(label string) *Link {
	if s == nil {
		return nil
	}
	return s.labeledLinks[label+s.scope]
}

// LabeledHeading looks up a heading by its normalized label.
func (s *ReferenceStore) LabeledHeading(label string) *Heading {
	if s == nil {
		return nil
	}
	return s.labeledHeadings[label+s.scope]
}

// Footnote looks up a footnote definition by its bare id (without the
// "^" sigil).
func (s *ReferenceStore) Footnote(id string) *Footnote {
	if s == nil {
		return nil
	}
	return s.footnotes[id+s.scope]
}

// registerLink stores lnk under label (scoped to this store's file)
// unless a definition already exists (first definition wins).
func (s *ReferenceStore) registerLink(label string, lnk *Link) {
	if label == "" {
		return
	}
	label += s.scope
	if _, exists := s.labeledLinks[label]; exists {
		return
	}
	s.labeledLinks[label] = lnk
}

// registerHeading stores h under both its derived-from-text label and,
// if distinct, that label's lower-cased form, so both variants resolve.
func (s *ReferenceStore) registerHeading(label string, h *Heading) {
	if label == "" {
		return
	}
	label += s.scope
	if _, exists := s.labeledHeadings[label]; !exists {
		s.labeledHeadings[label] = h
	}
	lower := strings.ToLower(label)
	if lower != label {
		if _, exists := s.labeledHeadings[lower]; !exists {
			s.labeledHeadings[lower] = h
		}
	}
}

// registerFootnote stores f under id (scoped to this store's file)
// unless already present.
func (s *ReferenceStore) registerFootnote(id string, f *Footnote) {
	if id == "" {
		return
	}
	id += s.scope
	if _, exists := s.footnotes[id]; exists {
		return
	}
	s.footnotes[id] = f
}

// collectReferences walks a freshly parsed Document, stripping every
// transient [linkDefItem] out of the tree and registering its label
// into refs, and registering every [Heading]'s derived slug and every
// [Footnote]'s id. It runs once, immediately after block parsing,
// before [resolveReferences] fills in forward-referenced Link/Image
// destinations: CommonMark link definitions and footnotes may be
// referenced before their own definition appears.
func collectReferences(doc *Document) {
	doc.children = collectReferencesIn(doc.children, doc.refs)
}

func collectReferencesIn(items []Item, refs *ReferenceStore) []Item {
	out := items[:0]
	for _, it := range items {
		switch n := it.(type) {
		case *linkDefItem:
			lnk := &Link{base: n.base, URL: n.url, Text: n.title, TextPos: NullSpan(), URLPos: NullSpan()}
			refs.registerLink(normalizeLabel(n.label, ""), lnk)
			continue
		case *Heading:
			label := n.Label
			if label == "" {
				label = slugify(flattenText(n.P.Children()))
			}
			n.Label = label
			refs.registerHeading(normalizeLabel(label, ""), n)
		case *Footnote:
			refs.registerFootnote(n.ID, n)
			n.children = collectReferencesIn(n.children, refs)
		case *Blockquote:
			n.children = collectReferencesIn(n.children, refs)
		case *List:
			n.children = collectReferencesIn(n.children, refs)
		case *ListItem:
			n.children = collectReferencesIn(n.children, refs)
		}
		out = append(out, it)
	}
	return out
}

// resolveReferences walks the tree a second time, filling in the
// destination of every reference-style or shortcut Link/Image from its
// refLabel now that every definition in the document is known. A
// reference that resolves against no definition reverts to literal
// text with its brackets preserved, per Markdown's no-parse-errors
// policy; so does a [FootnoteRef] whose id matches no footnote.
func resolveReferences(doc *Document) {
	doc.children = resolveReferencesIn(doc.children, doc.refs)
}

func resolveReferencesIn(items []Item, refs *ReferenceStore) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		switch n := it.(type) {
		case *Link:
			n.children = resolveReferencesIn(n.children, refs)
			if n.P != nil {
				n.P.children = n.children
			}
			if n.refLabel != "" {
				normalized := normalizeLabel(n.refLabel, "")
				def := refs.LabeledLink(normalized)
				if def == nil {
					if h := refs.LabeledHeading(normalized); h != nil {
						n.URL = "#" + h.Label
						n.refLabel = ""
						out = append(out, n)
						continue
					}
					out = append(out, literalReferenceItems("[", n.children, n.span, n.refBracket)...)
					continue
				}
				n.URL = def.URL
				n.refLabel = ""
			}
		case *Image:
			if n.P != nil {
				n.P.children = resolveReferencesIn(n.P.children, refs)
			}
			if literal := resolveImageRef(n, refs); literal != nil {
				out = append(out, literal...)
				continue
			}
		case *FootnoteRef:
			if refs.Footnote(n.ID) == nil {
				out = append(out, &Text{base: base{span: n.span}, S: "[^" + n.ID + "]"})
				continue
			}
		case *Paragraph:
			n.children = resolveReferencesIn(n.children, refs)
		case *Heading:
			if n.P != nil {
				n.P.children = resolveReferencesIn(n.P.children, refs)
			}
		case *Blockquote:
			n.children = resolveReferencesIn(n.children, refs)
		case *List:
			n.children = resolveReferencesIn(n.children, refs)
		case *ListItem:
			n.children = resolveReferencesIn(n.children, refs)
		case *Footnote:
			n.children = resolveReferencesIn(n.children, refs)
		case *TableCell:
			n.children = resolveReferencesIn(n.children, refs)
		case *Table:
			for _, row := range n.Rows {
				for _, cell := range row.Cells {
					cell.children = resolveReferencesIn(cell.children, refs)
				}
			}
		}
		out = append(out, it)
	}
	return out
}

// resolveImageRef resolves img's refLabel in place and returns nil, or,
// if img's label matches no definition, leaves img untouched and
// returns its literal "![alt][label]" replacement.
func resolveImageRef(img *Image, refs *ReferenceStore) []Item {
	if img.refLabel == "" {
		return nil
	}
	def := refs.LabeledLink(normalizeLabel(img.refLabel, ""))
	if def == nil {
		var inner []Item
		if img.P != nil {
			inner = img.P.children
		}
		return literalReferenceItems("![", inner, img.span, img.refBracket)
	}
	img.URL = def.URL
	img.refLabel = ""
	return nil
}

// literalReferenceItems reconstructs an unresolved reference's bracket
// syntax as literal text around its already-parsed inner nodes, so
// that markup nested inside an unresolved "[*foo*][bar]" still renders
// as emphasis rather than being re-flattened to plain text.
func literalReferenceItems(open string, inner []Item, span Span, refBracket *string) []Item {
	items := make([]Item, 0, len(inner)+2)
	items = append(items, &Text{base: base{span: span}, S: open})
	items = append(items, inner...)
	closer := "]"
	if refBracket != nil {
		closer += "[" + *refBracket + "]"
	}
	items = append(items, &Text{base: base{span: span}, S: closer})
	return items
}

// slugify derives a GitHub-style heading label from its flattened
// text: lower-cased, ASCII letters and digits kept, each run of
// spaces, tabs and '-' between them collapsed to a single '-', and
// every other character dropped.
func slugify(text string) string {
	text = strings.ToLower(text)
	var b strings.Builder
	dash := false
	for _, r := range text {
		switch {
		case r == '-' || r == ' ' || r == '\t':
			if b.Len() > 0 {
				dash = true
			}
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if dash {
				b.WriteByte('-')
				dash = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// cloneInto rebuilds the three reference maps for an already-cloned
// tree newDoc. Headings and footnotes are found by re-walking newDoc
// and matching each node's span against the original entries, so those
// entries point into the new tree (never the original) without an
// explicit old-to-new pointer table. Link definitions are not part of
// the tree, so each labeled link is copied with Clone instead. Either
// way a cloned Document's reference store never aliases the original's
// nodes.
func (s *ReferenceStore) cloneInto(newDoc *Document) *ReferenceStore {
	out := newReferenceStore()
	if s == nil {
		return out
	}
	out.scope = s.scope
	for label, l := range s.labeledLinks {
		out.labeledLinks[label] = l.Clone().(*Link)
	}
	var walk func(items []Item)
	walk = func(items []Item) {
		for _, it := range items {
			switch n := it.(type) {
			case *Link:
				for label, orig := range s.labeledLinks {
					if orig.URL == n.URL && orig.Text == n.Text && orig.span == n.span {
						out.labeledLinks[label] = n
					}
				}
				if n.P != nil {
					walk(n.P.Children())
				}
			case *Heading:
				for label, orig := range s.labeledHeadings {
					if orig.span == n.span {
						out.labeledHeadings[label] = n
					}
				}
				if n.P != nil {
					walk(n.P.Children())
				}
			case *Footnote:
				for id, orig := range s.footnotes {
					if orig.span == n.span {
						out.footnotes[id] = n
					}
				}
				walk(n.Children())
			case *Paragraph:
				walk(n.Children())
			case *Blockquote:
				walk(n.Children())
			case *List:
				walk(n.Children())
			case *ListItem:
				walk(n.Children())
			case *TableCell:
				walk(n.Children())
			}
		}
	}
	walk(newDoc.Children())
	return out
}
