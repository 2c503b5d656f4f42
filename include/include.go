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

// Package include is the recursive file-inclusion orchestrator: it
// calls commonmark.Parse once per file and stitches the resulting
// Documents into one, separated by synthetic PageBreak and Anchor
// markers. The core parser does no I/O and knows nothing of multiple
// files; all of that lives here.
package include

import (
	"path"
	"strings"

	"github.com/mdtree/commonmark"
)

// FileReader reads the contents of a Markdown file by path. Callers
// supply the implementation (a real filesystem, an embed.FS, a map of
// fixtures in a test) since the core and this package deliberately do
// no I/O of their own.
type FileReader interface {
	ReadFile(path string) (string, error)
}

// Options configures a call to Include.
type Options struct {
	// Recursive enables following local link targets into their own
	// parse. If false, Include parses only root.
	Recursive bool

	// AllowedExtensions lists the file suffixes, without the leading
	// dot, considered Markdown when recursing. A nil map defaults to
	// {"md", "markdown"}.
	AllowedExtensions map[string]bool

	// ParseOptions is passed through to every per-file Parse call. Its
	// WorkingPath and FileName are overwritten per file so that each
	// file's labels stay correctly scoped; the rest (SemiOptimizeParagraphs,
	// Plugins) apply uniformly across the whole inclusion tree.
	ParseOptions commonmark.ParseOptions
}

func (o Options) allows(ext string) bool {
	exts := o.AllowedExtensions
	if exts == nil {
		exts = map[string]bool{"md": true, "markdown": true}
	}
	return exts[strings.TrimPrefix(ext, ".")]
}

// Include parses root via fr and, if opts.Recursive, every local
// Markdown file it links to, transitively, stitching each included
// Document's children onto the result separated by a PageBreak and an
// Anchor marker. A link target already visited (a cycle, or a file
// linked more than once) is parsed only once; later visits are
// skipped rather than re-included, so the stitched document stays
// finite.
//
// A link target that cannot be read (missing file, read error) is
// left as an ordinary unresolved link rather than aborting the whole
// parse, consistent with the core parser's own posture that no input
// should abort the whole operation.
func Include(root string, fr FileReader, opts Options) (*commonmark.Document, error) {
	inc := &includer{fr: fr, opts: opts, visited: map[string]bool{root: true}}
	return inc.parseFile(root)
}

type includer struct {
	fr      FileReader
	opts    Options
	visited map[string]bool
}

func (inc *includer) parseFile(filePath string) (*commonmark.Document, error) {
	source, err := inc.fr.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	popts := inc.opts.ParseOptions
	popts.WorkingPath, popts.FileName = splitPath(filePath)
	doc := commonmark.Parse(source, popts)
	if !inc.opts.Recursive {
		return doc, nil
	}

	dir := path.Dir(filePath)
	var targets []string
	commonmark.Walk(doc, &commonmark.WalkOptions{
		Pre: func(cur *commonmark.Cursor) bool {
			link, ok := cur.Item().(*commonmark.Link)
			if !ok || isRemoteURL(link.URL) || !inc.opts.allows(path.Ext(link.URL)) {
				return true
			}
			targets = append(targets, path.Join(dir, link.URL))
			return true
		},
	})

	for _, target := range targets {
		if inc.visited[target] {
			continue
		}
		inc.visited[target] = true
		sub, err := inc.parseFile(target)
		if err != nil {
			continue
		}
		anchor := &commonmark.Anchor{}
		doc.AppendChildren(&commonmark.PageBreak{}, anchor)
		doc.AppendChildren(sub.Children()...)
	}
	return doc, nil
}

// splitPath divides a slash-separated file path into the directory
// (WorkingPath) and base name (FileName) used to scope that file's
// reference labels.
func splitPath(filePath string) (workingPath, fileName string) {
	return path.Dir(filePath), path.Base(filePath)
}

// isRemoteURL reports whether url names a resource outside the local
// file tree (an absolute URL with a scheme, or a protocol-relative
// "//host/..." reference), which recursion never follows.
func isRemoteURL(url string) bool {
	if strings.HasPrefix(url, "//") {
		return true
	}
	scheme, rest, ok := strings.Cut(url, ":")
	return ok && scheme != "" && rest != "" && isSchemeName(scheme)
}

func isSchemeName(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
