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

package htmlvisitor

import (
	"testing"

	"github.com/mdtree/commonmark"
)

func TestRenderStringBasics(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Paragraph",
			in:   "Hello, *World*!\n",
			want: "<p>Hello, <em>World</em>!</p>\n",
		},
		{
			name: "Heading",
			in:   "# Title\n",
			want: "<h1 id=\"title\">Title</h1>\n",
		},
		{
			name: "FencedCode",
			in:   "```go\nfmt.Println(1)\n```\n",
			want: "<pre><code class=\"language-go\">fmt.Println(1)</code></pre>\n",
		},
		{
			name: "TightList",
			in:   "- one\n- two\n",
			want: "<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n",
		},
	}
	r := &Renderer{}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := commonmark.Parse(test.in, commonmark.ParseOptions{})
			got := r.RenderString(doc)
			if got != test.want {
				t.Errorf("RenderString(Parse(%q)) = %q; want %q", test.in, got, test.want)
			}
		})
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	doc := commonmark.Parse("5 < 6 & 7 > 3\n", commonmark.ParseOptions{})
	r := &Renderer{}
	got := r.RenderString(doc)
	if want := "&lt;"; !contains(got, want) {
		t.Errorf("RenderString(...) = %q; want it to contain %q", got, want)
	}
}

func TestIgnoreRawDropsHTML(t *testing.T) {
	doc := commonmark.Parse("Some <script>alert(1)</script> text.\n", commonmark.ParseOptions{})
	r := &Renderer{IgnoreRaw: true}
	got := r.RenderString(doc)
	if contains(got, "<script>") {
		t.Errorf("RenderString with IgnoreRaw = %q; want no raw <script> tag", got)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (func() bool {
		for i := 0; i+len(substr) <= len(s); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	})()
}
