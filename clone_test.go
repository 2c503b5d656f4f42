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

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// cloneCmpOpts ignores unexported fields: Clone is only required to
// reproduce the exported, structural shape of a node, not its private
// bookkeeping (e.g. ListItem.hadInternalBlank, Link.refLabel).
var cloneCmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(
		Text{}, LineBreak{}, Math{}, Code{}, RawHtml{}, Anchor{}, HorizontalLine{}, PageBreak{},
		Link{}, Image{}, FootnoteRef{},
		Paragraph{}, Heading{}, Blockquote{}, List{}, ListItem{}, Table{}, TableRow{}, TableCell{}, Footnote{},
	),
}

func TestDocumentCloneIsDeepEqual(t *testing.T) {
	doc := Parse("# Title\n\nA paragraph with *emphasis* and a [link](/url).\n\n- one\n- two\n", ParseOptions{})
	clone := doc.Clone()

	if diff := cmp.Diff(doc.Children(), clone.(*Document).Children(), cloneCmpOpts...); diff != "" {
		t.Errorf("Clone() children differ from original (-want +got):\n%s", diff)
	}
}

func TestDocumentCloneIsIndependent(t *testing.T) {
	doc := Parse("hello\n", ParseOptions{})
	clone := doc.Clone().(*Document)

	p, ok := clone.Children()[1].(*Paragraph)
	if !ok {
		t.Fatal("clone's second child is not a Paragraph")
	}
	text, ok := p.Children()[0].(*Text)
	if !ok {
		t.Fatal("clone paragraph's first child is not a Text")
	}
	text.S = "mutated"

	origP := doc.Children()[1].(*Paragraph)
	origText := origP.Children()[0].(*Text)
	if origText.S == "mutated" {
		t.Error("mutating the clone's Text also mutated the original: Clone is not deep")
	}
}
