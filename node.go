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

//go:generate stringer -type=Kind -output=kind_string.go

// Kind enumerates the tagged variants of [Item].
type Kind int

const (
	// Leaf inlines.
	TextKind Kind = 1 + iota
	LineBreakKind
	MathKind
	CodeKind
	RawHtmlKind
	AnchorKind
	HorizontalLineKind
	PageBreakKind

	// Composite inlines.
	LinkKind
	ImageKind
	FootnoteRefKind

	// Blocks.
	ParagraphKind
	HeadingKind
	BlockquoteKind
	ListKind
	ListItemKind
	TableKind
	TableRowKind
	TableCellKind
	FootnoteKind

	// Root.
	DocumentKind
)

// StyleOpt is a bit in the [StyleOpts] mask applied to inline runs.
type StyleOpt uint8

const (
	Bold StyleOpt = 1 << iota
	Italic
	Strikethrough
)

// StyleOpts is a bitmask of [StyleOpt] values.
type StyleOpts uint8

// Has reports whether all bits in opt are set.
func (s StyleOpts) Has(opt StyleOpt) bool {
	return StyleOpts(opt)&s == StyleOpts(opt)
}

// StyleDelim records the exact source position of one emphasis delimiter
// run that opened or closed a styled span. Style information is attached
// positionally to the [Text] nodes it surrounds rather than represented
// as a wrapping node: the first Text of a styled run carries the opener
// in OpenDelims, the last Text carries the closer in CloseDelims.
type StyleDelim struct {
	Style StyleOpt
	Span  Span
}

// Item is the capability shared by every node in a parsed document:
// a tagged kind, a source position, and the ability to produce an
// independent deep copy.
type Item interface {
	Kind() Kind
	Position() Span
	Clone() Item
}

// base holds the fields common to every concrete node type.
type base struct {
	span Span
}

func (b *base) Position() Span { return b.span }

// container is embedded by every node that owns an ordered, mutable
// sequence of children exclusively (Paragraph, Blockquote, List,
// ListItem, TableCell, Footnote, Document).
type container struct {
	children []Item
}

// Children returns the node's children in document order.
func (c *container) Children() []Item {
	return c.children
}

func (c *container) append(items ...Item) {
	c.children = append(c.children, items...)
}

func cloneChildren(children []Item) []Item {
	if children == nil {
		return nil
	}
	out := make([]Item, len(children))
	for i, c := range children {
		out[i] = c.Clone()
	}
	return out
}

// ---- Leaf inlines ----

// Text is a run of plain inline text, optionally carrying emphasis
// delimiters that open or close at its boundary.
type Text struct {
	base
	S           string
	StyleOpts   StyleOpts
	OpenDelims  []StyleDelim
	CloseDelims []StyleDelim
}

func (t *Text) Kind() Kind { return TextKind }
func (t *Text) Clone() Item {
	c := *t
	c.OpenDelims = append([]StyleDelim(nil), t.OpenDelims...)
	c.CloseDelims = append([]StyleDelim(nil), t.CloseDelims...)
	return &c
}

// LineBreak is either a hard or a soft line break within a paragraph.
// Hard is set only for the backslash form: trailing spaces are trimmed
// from each paragraph line, so a line ending in two or more spaces
// gives a soft break.
type LineBreak struct {
	base
	Hard bool
}

func (l *LineBreak) Kind() Kind  { return LineBreakKind }
func (l *LineBreak) Clone() Item { c := *l; return &c }

// Math is a LaTeX-style math span. The parser produces only the inline
// "$...$" form (Inline is true): a fenced code block whose info string
// is "math" stays a [Code] block, and "$$...$$" is not read as one
// math span. StartDelim and EndDelim are not set by the parser.
type Math struct {
	base
	Expr       string
	Inline     bool
	StartDelim Span
	EndDelim   Span
}

func (m *Math) Kind() Kind  { return MathKind }
func (m *Math) Clone() Item { c := *m; return &c }

// Code is a code span or a code block (fenced or indented).
// StartDelim and EndDelim are not set by the parser; both stay the
// zero Span, whether or not a fence was closed.
type Code struct {
	base
	Text       string
	Inline     bool
	Fenced     bool
	Syntax     string
	StartDelim Span
	EndDelim   Span
	SyntaxPos  Span
}

func (c *Code) Kind() Kind  { return CodeKind }
func (c *Code) Clone() Item { cc := *c; return &cc }

// RawHtml is a raw HTML span (inline) or block.
type RawHtml struct {
	base
	Text    string
	FreeTag bool
}

func (h *RawHtml) Kind() Kind  { return RawHtmlKind }
func (h *RawHtml) Clone() Item { c := *h; return &c }

// Anchor is a synthetic marker: the document's leading anchor or a
// recursive-inclusion seam.
type Anchor struct {
	base
	Label string
}

func (a *Anchor) Kind() Kind  { return AnchorKind }
func (a *Anchor) Clone() Item { c := *a; return &c }

// HorizontalLine is a thematic break.
type HorizontalLine struct {
	base
}

func (h *HorizontalLine) Kind() Kind  { return HorizontalLineKind }
func (h *HorizontalLine) Clone() Item { c := *h; return &c }

// PageBreak is a synthetic marker inserted by the recursive-inclusion
// orchestrator between stitched-together documents.
type PageBreak struct {
	base
}

func (p *PageBreak) Kind() Kind  { return PageBreakKind }
func (p *PageBreak) Clone() Item { c := *p; return &c }

// ---- Composite inlines ----

// Link is an inline or reference-style link. Its description is parsed
// both as flattened text and retained as its own inner Paragraph (P)
// for round-tripping.
type Link struct {
	base
	container
	URL       string
	Text      string
	P         *Paragraph
	TextPos   Span
	URLPos    Span
	StyleOpts StyleOpts

	refLabel   string  // set instead of URL when this is a reference-style/shortcut link awaiting resolveReferences
	refBracket *string // non-nil for "[text][label]" or "[text][]"; nil for shortcut "[text]"
}

func (l *Link) Kind() Kind { return LinkKind }
func (l *Link) Clone() Item {
	c := *l
	c.children = cloneChildren(l.children)
	if l.P != nil {
		c.P = l.P.Clone().(*Paragraph)
	}
	return &c
}

// Image is an image reference. Alt text is flattened for accessibility,
// but the inner Paragraph describing it is also kept.
type Image struct {
	base
	URL     string
	Text    string
	P       *Paragraph
	TextPos Span
	URLPos  Span

	refLabel   string
	refBracket *string
}

func (img *Image) Kind() Kind { return ImageKind }
func (img *Image) Clone() Item {
	c := *img
	if img.P != nil {
		c.P = img.P.Clone().(*Paragraph)
	}
	return &c
}

// FootnoteRef is a reference to a footnote definition, [^id].
type FootnoteRef struct {
	base
	ID    string
	IDPos Span
}

func (f *FootnoteRef) Kind() Kind  { return FootnoteRefKind }
func (f *FootnoteRef) Clone() Item { c := *f; return &c }

// ---- Blocks ----

// Paragraph holds parsed inline content. It never contains block-level
// children.
type Paragraph struct {
	base
	container
}

func (p *Paragraph) Kind() Kind { return ParagraphKind }
func (p *Paragraph) Clone() Item {
	c := &Paragraph{base: p.base}
	c.children = cloneChildren(p.children)
	return c
}

// Heading is an ATX or setext heading.
type Heading struct {
	base
	P        *Paragraph
	Level    int
	Label    string
	LabelPos Span
	Delims   []Span
}

func (h *Heading) Kind() Kind { return HeadingKind }
func (h *Heading) Clone() Item {
	c := *h
	if h.P != nil {
		c.P = h.P.Clone().(*Paragraph)
	}
	c.Delims = append([]Span(nil), h.Delims...)
	return &c
}

// Blockquote is a block quote.
type Blockquote struct {
	base
	container
	Delims []Span
}

func (b *Blockquote) Kind() Kind { return BlockquoteKind }
func (b *Blockquote) Clone() Item {
	c := &Blockquote{base: b.base, Delims: append([]Span(nil), b.Delims...)}
	c.children = cloneChildren(b.children)
	return c
}

// orderedPreState distinguishes the first item of a renumbered ordered
// list from one continuing the previous number.
type orderedPreState int

const (
	Start orderedPreState = iota
	Continue
)

// List contains only ListItem children; every item shares the same
// bullet/ordered-delimiter character.
type List struct {
	base
	container
	Ordered bool
	Delim   byte
	Tight   bool
}

func (l *List) Kind() Kind { return ListKind }
func (l *List) Clone() Item {
	c := &List{base: l.base, Ordered: l.Ordered, Delim: l.Delim, Tight: l.Tight}
	c.children = cloneChildren(l.children)
	return c
}

// ListItem is one item of a List.
type ListItem struct {
	base
	container
	Ordered         bool
	StartNumber     int
	IsTask          bool
	Checked         bool
	Delim           byte
	TaskDelim       Span
	OrderedPreState orderedPreState

	hadInternalBlank bool // set by the block splitter; consumed by list grouping to decide Tight
}

func (i *ListItem) Kind() Kind { return ListItemKind }
func (i *ListItem) Clone() Item {
	c := *i
	c.children = cloneChildren(i.children)
	return &c
}

// Alignment is a GFM table column alignment.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Table is a GFM pipe table.
type Table struct {
	base
	Rows        []*TableRow
	Alignments  []Alignment
	ColumnCount int
}

func (t *Table) Kind() Kind { return TableKind }
func (t *Table) Clone() Item {
	c := &Table{base: t.base, Alignments: append([]Alignment(nil), t.Alignments...), ColumnCount: t.ColumnCount}
	c.Rows = make([]*TableRow, len(t.Rows))
	for i, r := range t.Rows {
		c.Rows[i] = r.Clone().(*TableRow)
	}
	return c
}

// TableRow is one row (header or body) of a Table.
type TableRow struct {
	base
	Cells []*TableCell
}

func (r *TableRow) Kind() Kind { return TableRowKind }
func (r *TableRow) Clone() Item {
	c := &TableRow{base: r.base}
	c.Cells = make([]*TableCell, len(r.Cells))
	for i, cell := range r.Cells {
		c.Cells[i] = cell.Clone().(*TableCell)
	}
	return c
}

// TableCell is one cell of a TableRow.
type TableCell struct {
	base
	container
	Align Alignment
}

func (c *TableCell) Kind() Kind { return TableCellKind }
func (c *TableCell) Clone() Item {
	n := &TableCell{base: c.base, Align: c.Align}
	n.children = cloneChildren(c.children)
	return n
}

// Footnote is a footnote definition, containing one or more block
// children (typically paragraphs).
type Footnote struct {
	base
	container
	ID    string
	IDPos Span
}

func (f *Footnote) Kind() Kind { return FootnoteKind }
func (f *Footnote) Clone() Item {
	c := &Footnote{base: f.base, ID: f.ID, IDPos: f.IDPos}
	c.children = cloneChildren(f.children)
	return c
}

// Document is the root of a parsed tree. It owns the reference store
// (footnotes, labeled links, labeled headings) in addition to its
// top-level block children.
type Document struct {
	base
	container
	refs *ReferenceStore
}

func (d *Document) Kind() Kind { return DocumentKind }

// References returns the document's reference store.
func (d *Document) References() *ReferenceStore { return d.refs }

// AppendChildren appends items to the document's top-level children.
// It exists for orchestrators outside the core (package include) that
// stitch multiple parsed Documents into one with synthetic PageBreak
// and Anchor markers; the core itself never calls it.
func (d *Document) AppendChildren(items ...Item) {
	d.children = append(d.children, items...)
}

func (d *Document) Clone() Item {
	c := &Document{base: d.base}
	c.children = cloneChildren(d.children)
	c.refs = d.refs.cloneInto(c)
	return c
}
