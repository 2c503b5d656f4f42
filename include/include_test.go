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

package include

import (
	"fmt"
	"testing"

	"github.com/mdtree/commonmark"
)

type mapReader map[string]string

func (m mapReader) ReadFile(path string) (string, error) {
	s, ok := m[path]
	if !ok {
		return "", fmt.Errorf("include: no such file %q", path)
	}
	return s, nil
}

func TestIncludeNonRecursive(t *testing.T) {
	fr := mapReader{
		"root.md": "See [other](other.md).\n",
	}
	doc, err := Include("root.md", fr, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(doc.Children()); n == 0 {
		t.Fatal("root document has no children")
	}
}

func TestIncludeRecursiveStitchesLinkedFile(t *testing.T) {
	fr := mapReader{
		"root.md":  "See [other](sub/other.md) for more.\n",
		"sub/other.md": "Included content.\n",
	}
	doc, err := Include("root.md", fr, Options{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}

	var sawPageBreak, sawIncludedText bool
	commonmark.Walk(doc, &commonmark.WalkOptions{
		Pre: func(cur *commonmark.Cursor) bool {
			switch n := cur.Item().(type) {
			case *commonmark.PageBreak:
				sawPageBreak = true
			case *commonmark.Text:
				if n.S == "Included content." {
					sawIncludedText = true
				}
			}
			return true
		},
	})
	if !sawPageBreak {
		t.Error("stitched document has no PageBreak marker")
	}
	if !sawIncludedText {
		t.Error("stitched document never includes sub/other.md's content")
	}
}

func TestIncludeSkipsNonMarkdownLinks(t *testing.T) {
	fr := mapReader{
		"root.md": "See [image](pic.png) and [site](https://example.com/x.md).\n",
	}
	doc, err := Include("root.md", fr, Options{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}
	// Neither target is readable from fr and both should be skipped
	// without error: pic.png fails the extension filter, the remote
	// URL fails isRemoteURL.
	if doc == nil {
		t.Fatal("Include returned nil document")
	}
}

func TestIncludeAvoidsCycles(t *testing.T) {
	fr := mapReader{
		"a.md": "[to b](b.md)\n",
		"b.md": "[to a](a.md)\n",
	}
	doc, err := Include("a.md", fr, Options{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}
	if doc == nil {
		t.Fatal("Include returned nil document")
	}
}

func TestIncludeCustomExtensions(t *testing.T) {
	fr := mapReader{
		"root.mkd": "See [other](other.mkd).\n",
		"other.mkd": "Other content.\n",
	}
	doc, err := Include("root.mkd", fr, Options{
		Recursive:         true,
		AllowedExtensions: map[string]bool{"mkd": true},
	})
	if err != nil {
		t.Fatal(err)
	}

	var sawOther bool
	commonmark.Walk(doc, &commonmark.WalkOptions{
		Pre: func(cur *commonmark.Cursor) bool {
			if n, ok := cur.Item().(*commonmark.Text); ok && n.S == "Other content." {
				sawOther = true
			}
			return true
		},
	})
	if !sawOther {
		t.Error("custom AllowedExtensions did not follow the .mkd link")
	}
}
