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

package poscache

import (
	"testing"

	"github.com/mdtree/commonmark"
)

func TestAtFindsDeepestNode(t *testing.T) {
	doc := commonmark.Parse("# Title\n\nSome *emphasized* text.\n", commonmark.ParseOptions{})
	cache := Build(doc)

	got := cache.At(1, 2)
	if got == nil {
		t.Fatal("At(1, 2) = nil; want a node covering the heading text")
	}
	if _, ok := got.(*commonmark.Heading); ok {
		t.Error("At(1, 2) returned the Heading itself; want a deeper node (its inline content)")
	}
}

func TestAtOutsideAnySpan(t *testing.T) {
	doc := commonmark.Parse("hello\n", commonmark.ParseOptions{})
	cache := Build(doc)

	if got := cache.At(1000, 0); got != nil {
		t.Errorf("At(1000, 0) = %v; want nil", got)
	}
}

func TestCoveringReturnsSmallestEnclosing(t *testing.T) {
	doc := commonmark.Parse("> quoted paragraph\n", commonmark.ParseOptions{})
	cache := Build(doc)

	whole := doc.Position()
	got := cache.Covering(whole)
	if got == nil {
		t.Fatal("Covering(whole document span) = nil")
	}
	if got != commonmark.Item(doc) {
		t.Errorf("Covering(whole document span) = %T; want the Document, the only node spanning it", got)
	}
}
