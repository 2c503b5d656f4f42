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

// TextPlugin is the C8 hook: a post-inline-construction pass that
// rescans the content of a surviving Text node and may splice
// additional inline items (typically Link) in its place.
//
// Plugins run after paragraph optimization so that a plugin sees one
// coherent Text run per style span rather than the raw, unmerged
// fragments the inline scanner produced.
type TextPlugin interface {
	// ID uniquely identifies the plugin. 1 is reserved for the
	// built-in GFM autolink plugin.
	ID() int

	// ProcessInLinks reports whether this plugin also rescans Text
	// nodes living inside a Link's description. The built-in autolink
	// plugin reports false, so it never linkifies link text.
	ProcessInLinks() bool

	// Scan examines t and returns a replacement slice of Items if it
	// matched anything, or nil if t is unchanged.
	Scan(t *Text) []Item
}

// runPlugins applies builtin (if non-nil) followed by extra, in order,
// over every Text node in doc's paragraphs, headings, table cells and
// link descriptions; image descriptions are not scanned. The first
// plugin in the list to return a non-nil replacement for a given node
// wins.
func runPlugins(doc *Document, builtin TextPlugin, extra []TextPlugin) {
	plugins := make([]TextPlugin, 0, 1+len(extra))
	if builtin != nil {
		plugins = append(plugins, builtin)
	}
	plugins = append(plugins, extra...)
	if len(plugins) == 0 {
		return
	}
	runPluginsIn(doc.children, plugins, false)
}

func runPluginsIn(items []Item, plugins []TextPlugin, inLink bool) {
	for _, it := range items {
		switch n := it.(type) {
		case *Paragraph:
			n.children = applyPlugins(n.children, plugins, inLink)
		case *Heading:
			if n.P != nil {
				n.P.children = applyPlugins(n.P.children, plugins, inLink)
			}
		case *Blockquote:
			runPluginsIn(n.children, plugins, inLink)
		case *List:
			runPluginsIn(n.children, plugins, inLink)
		case *ListItem:
			runPluginsIn(n.children, plugins, inLink)
		case *Footnote:
			runPluginsIn(n.children, plugins, inLink)
		case *TableCell:
			n.children = applyPlugins(n.children, plugins, inLink)
		case *Table:
			for _, row := range n.Rows {
				for _, cell := range row.Cells {
					cell.children = applyPlugins(cell.children, plugins, inLink)
				}
			}
		case *Link:
			if n.P != nil {
				runPluginsIn(n.P.children, plugins, true)
			}
		}
	}
}

// applyPlugins rewrites one container's direct children, and the
// children of every Link among them, replacing each Text node matched
// by a plugin with that plugin's output.
func applyPlugins(items []Item, plugins []TextPlugin, inLink bool) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if lnk, ok := it.(*Link); ok {
			lnk.children = applyPlugins(lnk.children, plugins, true)
			if lnk.P != nil {
				lnk.P.children = lnk.children
			}
		}
		t, ok := it.(*Text)
		if !ok {
			out = append(out, it)
			continue
		}
		replaced := false
		for _, p := range plugins {
			if inLink && !p.ProcessInLinks() {
				continue
			}
			if repl := p.Scan(t); repl != nil {
				out = append(out, repl...)
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, t)
		}
	}
	return out
}
