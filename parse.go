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

// Package commonmark parses CommonMark text, with the GFM table,
// strikethrough, task-list and autolink extensions, into a
// position-annotated Document tree.
package commonmark

// ParseOptions configures a single call to [Parse]. The zero value
// parses one free-standing file with full paragraph optimization and
// no extra text plugins.
type ParseOptions struct {
	// WorkingPath and FileName scope the reference labels this parse
	// registers, so that a multi-file recursive include never lets
	// one file's link definitions leak into another's.
	WorkingPath string
	FileName    string

	// SemiOptimizeParagraphs selects semi- over full paragraph Text
	// merging. Both settings give the same result: adjacent Text runs
	// are never merged across a Text that closes or opens a style.
	SemiOptimizeParagraphs bool

	// Plugins are consulted, in order, after the built-in GFM
	// autolink plugin. Id 1 is reserved for the built-in.
	Plugins []TextPlugin
}

// Parse runs the full two-phase pipeline (block splitting, inline
// analysis and emphasis resolution, reference collection and
// resolution, text plugins) over source and returns the resulting
// Document.
//
// Parse never reports an error: CommonMark is total over any input;
// ambiguity is resolved by the grammar, not rejected.
func Parse(source string, opts ParseOptions) *Document {
	lb := NewLineBuffer(source)
	items := parseBlocks(lb)

	doc := &Document{}
	doc.base.span = Span{Start: Position{Line: 1, Col: 0}, End: Position{Line: 1, Col: 0}}
	if n := lb.Len(); n > 0 {
		last := lb.Line(n - 1)
		doc.base.span.End = Position{Line: last.Meta.LineNo, Col: len(last.Text.Text())}
	}
	doc.children = items
	doc.refs = newReferenceStore()
	doc.refs.scope = fileScope(opts.WorkingPath, opts.FileName)

	collectReferences(doc)
	resolveReferences(doc)

	optimizeParagraphs(doc, !opts.SemiOptimizeParagraphs)
	runPlugins(doc, builtinAutolinkPlugin, opts.Plugins)

	anchor := &Anchor{base: base{span: NullSpan()}}
	doc.children = append([]Item{anchor}, doc.children...)
	return doc
}
