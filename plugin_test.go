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

func TestAutolinkPlugin(t *testing.T) {
	doc := Parse("Visit https://example.com for more.\n", ParseOptions{})
	p := firstParagraph(t, doc)

	var link *Link
	for _, c := range p.Children() {
		if l, ok := c.(*Link); ok {
			link = l
			break
		}
	}
	if link == nil {
		t.Fatalf("no autolinked Link in %+v", p.Children())
	}
	if link.URL != "https://example.com" {
		t.Errorf("link.URL = %q; want %q", link.URL, "https://example.com")
	}
}

// countingPlugin records every Text it is asked to Scan without
// rewriting any of them.
type countingPlugin struct {
	seen *int
}

func (p countingPlugin) ID() int              { return 2 }
func (p countingPlugin) ProcessInLinks() bool { return true }
func (p countingPlugin) Scan(t *Text) []Item {
	*p.seen++
	return nil
}

func TestCustomTextPluginIsCalled(t *testing.T) {
	seen := 0
	doc := Parse("Some plain text in a paragraph.\n", ParseOptions{
		Plugins: []TextPlugin{countingPlugin{seen: &seen}},
	})
	_ = doc
	if seen == 0 {
		t.Error("custom TextPlugin.Scan was never called")
	}
}
