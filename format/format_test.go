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

package format

import (
	"strings"
	"testing"

	"github.com/mdtree/commonmark"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Paragraph",
			in:   "hello world\n",
			want: "hello world\n",
		},
		{
			name: "FencedCode",
			in:   "```go\nfmt.Println(1)\n```\n",
			want: "```go\nfmt.Println(1)\n```\n",
		},
		{
			name: "Blockquote",
			in:   "> quoted text\n",
			want: "> quoted text\n",
		},
		{
			name: "TightBulletList",
			in:   "- one\n- two\n",
			want: "- one\n- two\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := commonmark.Parse(test.in, commonmark.ParseOptions{})
			var sb strings.Builder
			if err := Format(&sb, doc); err != nil {
				t.Fatal(err)
			}
			if got := sb.String(); got != test.want {
				t.Errorf("Format(Parse(%q)) = %q; want %q", test.in, got, test.want)
			}
		})
	}
}
