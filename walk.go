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

// A Cursor describes an [Item] encountered during [Walk].
type Cursor struct {
	item   Item
	parent Item
	index  int
}

// Item returns the current [Item].
func (c *Cursor) Item() Item {
	return c.item
}

// Parent returns the parent of the current [Item]
// (as returned by [*Cursor.Item]), or nil at the root.
func (c *Cursor) Parent() Item {
	return c.parent
}

// Index returns the index >= 0 of the current [Item] in the list of
// children that contains it, or a value < 0 at the root.
func (c *Cursor) Index() int {
	return c.index
}

// WalkOptions is the set of parameters to [Walk].
type WalkOptions struct {
	// If Pre is not nil, it is called for each item before the item's
	// children are traversed (pre-order). If Pre returns false, no
	// children are traversed, and Post is not called for that item.
	Pre func(c *Cursor) bool
	// If Post is not nil, it is called for each item after the item's
	// children are traversed (post-order). If Post returns false,
	// traversal is terminated and Walk returns immediately.
	Post func(c *Cursor) bool
}

// itemChildren returns it's direct children in document order, for
// every node kind that carries them: containers expose their
// slice directly; Heading and Image expose the inner Paragraph they
// wrap; Link exposes its own children (the same items its P holds);
// Table flattens to its rows and each row to its cells.
func itemChildren(it Item) []Item {
	switch n := it.(type) {
	case *Document:
		return n.children
	case *Paragraph:
		return n.children
	case *Blockquote:
		return n.children
	case *List:
		return n.children
	case *ListItem:
		return n.children
	case *Footnote:
		return n.children
	case *TableCell:
		return n.children
	case *Heading:
		if n.P != nil {
			return []Item{n.P}
		}
	case *Link:
		return n.children
	case *Image:
		if n.P != nil {
			return []Item{n.P}
		}
	case *Table:
		out := make([]Item, 0, len(n.Rows))
		for _, r := range n.Rows {
			out = append(out, r)
		}
		return out
	case *TableRow:
		out := make([]Item, 0, len(n.Cells))
		for _, c := range n.Cells {
			out = append(out, c)
		}
		return out
	}
	return nil
}

// Walk traverses an [Item] recursively, starting with root, and
// calling [WalkOptions.Pre] and [WalkOptions.Post].
func Walk(root Item, opts *WalkOptions) {
	type walkFrame struct {
		Cursor
		post bool
	}

	stack := []walkFrame{{Cursor: Cursor{item: root, index: -1}}}
	cursor := new(Cursor)
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if curr.post {
			if opts.Post != nil {
				*cursor = curr.Cursor
				if !opts.Post(cursor) {
					break
				}
			}
			continue
		}

		if opts.Pre != nil {
			*cursor = curr.Cursor
			if !opts.Pre(cursor) {
				continue
			}
		}
		curr.post = true
		stack = append(stack, curr)
		kids := itemChildren(curr.item)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, walkFrame{
				Cursor: Cursor{parent: curr.item, item: kids[i], index: i},
			})
		}
	}
}
