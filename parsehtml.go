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

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// htmlBlockConditionOf reports which of CommonMark's seven HTML-block
// start conditions (1-7) rest opens, or 0 if none. rest is the line
// text starting at its first non-indent column.
func htmlBlockConditionOf(rest string) int {
	for i, cond := range htmlBlockConditions {
		if cond.start(rest) {
			return i + 1
		}
	}
	return 0
}

// htmlBlockEnds reports whether line satisfies the end condition of
// the HTML block opened under condition number cond (1-7, as returned
// by [htmlBlockConditionOf]).
func htmlBlockEnds(cond int, line string) bool {
	if cond < 1 || cond > len(htmlBlockConditions) {
		return false
	}
	return htmlBlockConditions[cond-1].end(line)
}

// htmlBlockInterruptsParagraph reports whether an HTML block opened
// under condition cond is allowed to interrupt an open paragraph
// without an intervening blank line: every condition can except 7.
func htmlBlockInterruptsParagraph(cond int) bool {
	if cond < 1 || cond > len(htmlBlockConditions) {
		return false
	}
	return htmlBlockConditions[cond-1].canInterrupt
}

var htmlBlockConditions = []struct {
	start        func(line string) bool
	end          func(line string) bool
	canInterrupt bool
}{
	{
		start: func(line string) bool {
			for _, starter := range htmlBlockStarters1 {
				if hasCaseInsensitivePrefix(line, starter) {
					rest := line[len(starter):]
					if rest == "" || isSpaceTabOrEOL(rest[0]) || rest[0] == '>' {
						return true
					}
				}
			}
			return false
		},
		end: func(line string) bool {
			for _, ender := range htmlBlockEnders1 {
				if caseInsensitiveContains(line, ender) {
					return true
				}
			}
			return false
		},
		canInterrupt: true,
	},
	{
		start:        func(line string) bool { return strings.HasPrefix(line, "<!--") },
		end:          func(line string) bool { return strings.Contains(line, "-->") },
		canInterrupt: true,
	},
	{
		start:        func(line string) bool { return strings.HasPrefix(line, "<?") },
		end:          func(line string) bool { return strings.Contains(line, "?>") },
		canInterrupt: true,
	},
	{
		start: func(line string) bool {
			return strings.HasPrefix(line, "<!") && len(line) >= 3 && isASCIILetter(line[2])
		},
		end:          func(line string) bool { return strings.Contains(line, ">") },
		canInterrupt: true,
	},
	{
		start:        func(line string) bool { return strings.HasPrefix(line, "<![CDATA[") },
		end:          func(line string) bool { return strings.Contains(line, "]]>") },
		canInterrupt: true,
	},
	{
		start: func(line string) bool {
			switch {
			case strings.HasPrefix(line, "</"):
				line = line[2:]
			case strings.HasPrefix(line, "<"):
				line = line[1:]
			default:
				return false
			}
			for _, starter := range htmlBlockStarters6 {
				if hasCaseInsensitivePrefix(line, starter) {
					rest := line[len(starter):]
					if rest == "" || isSpaceTabOrEOL(rest[0]) || rest[0] == '>' || strings.HasPrefix(rest, "/>") {
						return true
					}
				}
			}
			return false
		},
		end:          isBlankString,
		canInterrupt: true,
	},
	{
		start: func(line string) bool {
			if !strings.HasPrefix(line, "<") {
				return false
			}
			c := &htmlCursor{s: line, i: 0}
			if strings.HasPrefix(line, "</") {
				c.i = 1
				if parseHTMLClosingTag(c) < 0 {
					return false
				}
			} else {
				if parseHTMLOpenTag(c) < 0 {
					return false
				}
			}
			return c.i >= len(line)
		},
		end:          isBlankString,
		canInterrupt: false,
	},
}

var (
	htmlBlockStarters1 = []string{"<pre", "<script", "<style", "<textarea"}
	htmlBlockEnders1   = []string{"</pre>", "</script>", "</style>", "</textarea>"}

	htmlBlockStarters6 = []string{
		atom.Address.String(), atom.Article.String(), atom.Aside.String(), atom.Base.String(),
		atom.Basefont.String(), atom.Blockquote.String(), atom.Body.String(), atom.Caption.String(),
		atom.Center.String(), atom.Col.String(), atom.Colgroup.String(), atom.Dd.String(),
		atom.Details.String(), atom.Dialog.String(), atom.Dir.String(), atom.Div.String(),
		atom.Dl.String(), atom.Dt.String(), atom.Fieldset.String(), atom.Figcaption.String(),
		atom.Figure.String(), atom.Footer.String(), atom.Form.String(), atom.Frame.String(),
		atom.Frameset.String(), atom.H1.String(), atom.H2.String(), atom.H3.String(),
		atom.H4.String(), atom.H5.String(), atom.H6.String(), atom.Head.String(),
		atom.Header.String(), atom.Hr.String(), atom.Html.String(), atom.Iframe.String(),
		atom.Legend.String(), atom.Li.String(), atom.Link.String(), atom.Main.String(),
		atom.Menu.String(), atom.Menuitem.String(), atom.Nav.String(), atom.Noframes.String(),
		atom.Ol.String(), atom.Optgroup.String(), atom.Option.String(), atom.P.String(),
		atom.Param.String(), atom.Section.String(), atom.Source.String(), atom.Summary.String(),
		atom.Table.String(), atom.Tbody.String(), atom.Td.String(), atom.Tfoot.String(),
		atom.Th.String(), atom.Thead.String(), atom.Title.String(), atom.Tr.String(),
		atom.Track.String(), atom.Ul.String(),
	}
)

func hasCaseInsensitivePrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}

func caseInsensitiveContains(s, search string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(search))
}

func isSpaceTabOrEOL(c byte) bool {
	return c == ' ' || c == '\t'
}

// htmlCursor is a minimal byte cursor over one inline scan buffer
// (almost always one logical line, already stripped of its leading
// indent), used to recognize the raw-HTML tag grammar shared by
// HTML-block condition 7 and inline raw-HTML spans.
type htmlCursor struct {
	s string
	i int
}

func (c *htmlCursor) current() byte {
	if c.i >= len(c.s) {
		return 0
	}
	return c.s[c.i]
}

func (c *htmlCursor) next() bool {
	if c.i >= len(c.s) {
		return false
	}
	c.i++
	return c.i < len(c.s)
}

func (c *htmlCursor) rest() string {
	if c.i >= len(c.s) {
		return ""
	}
	return c.s[c.i:]
}

// parseHTMLTag attempts to parse a complete HTML tag, comment,
// processing instruction, declaration, or CDATA section starting at
// c.i (which must point at '<'). On success it returns the end offset
// (exclusive) of the construct; on failure it returns -1 and leaves c
// in an unspecified position.
func parseHTMLTag(c *htmlCursor) int {
	if c.current() != '<' {
		return -1
	}
	if !c.next() {
		return -1
	}
	switch c.current() {
	case '?':
		if !c.next() {
			return -1
		}
		for {
			if idx := strings.Index(c.rest(), "?>"); idx >= 0 {
				c.i += idx + 2
				return c.i
			}
			return -1
		}
	case '!':
		if !c.next() {
			return -1
		}
		rest := c.rest()
		switch {
		case len(rest) > 0 && isASCIILetter(rest[0]):
			for c.current() != '>' {
				if !c.next() {
					return -1
				}
			}
			c.next()
			return c.i
		case strings.HasPrefix(rest, "--"):
			if idx := strings.Index(rest[2:], "-->"); idx >= 0 {
				c.i += 2 + idx + 3
				return c.i
			}
			return -1
		case strings.HasPrefix(rest, "[CDATA["):
			if idx := strings.Index(rest, "]]>"); idx >= 0 {
				c.i += idx + 3
				return c.i
			}
			return -1
		default:
			return -1
		}
	case '/':
		return parseHTMLClosingTag(c)
	default:
		return parseHTMLOpenTag(c)
	}
}

// parseHTMLOpenTag parses an open tag sans the leading '<'.
func parseHTMLOpenTag(c *htmlCursor) int {
	if !parseHTMLTagName(c) {
		return -1
	}
	for {
		before := c.i
		skipHTMLSpace(c)
		switch c.current() {
		case '/':
			c.next()
			if c.current() != '>' {
				return -1
			}
			c.next()
			return c.i
		case '>':
			c.next()
			return c.i
		}
		if c.i == before || !parseHTMLAttribute(c) {
			return -1
		}
	}
}

// parseHTMLClosingTag parses a closing tag sans the leading '<'.
func parseHTMLClosingTag(c *htmlCursor) int {
	if c.current() != '/' {
		return -1
	}
	c.next()
	if !parseHTMLTagName(c) {
		return -1
	}
	skipHTMLSpace(c)
	if c.current() != '>' {
		return -1
	}
	c.next()
	return c.i
}

func parseHTMLTagName(c *htmlCursor) bool {
	if !isASCIILetter(c.current()) {
		return false
	}
	c.next()
	for isASCIILetter(c.current()) || isASCIIDigit(c.current()) || c.current() == '-' {
		if !c.next() {
			break
		}
	}
	return true
}

func parseHTMLAttribute(c *htmlCursor) bool {
	if ch := c.current(); !isASCIILetter(ch) && ch != '_' && ch != ':' {
		return false
	}
	c.next()
	for {
		ch := c.current()
		if isASCIILetter(ch) || isASCIIDigit(ch) || strings.IndexByte("_.:-", ch) >= 0 {
			if !c.next() {
				return true
			}
			continue
		}
		break
	}
	before := c.i
	skipHTMLSpace(c)
	if c.current() != '=' {
		c.i = before
		return true
	}
	c.next()
	skipHTMLSpace(c)
	switch ch := c.current(); {
	case ch == '\'':
		c.next()
		for c.current() != '\'' {
			if !c.next() {
				return false
			}
		}
		c.next()
		return true
	case ch == '"':
		c.next()
		for c.current() != '"' {
			if !c.next() {
				return false
			}
		}
		c.next()
		return true
	case isUnquotedAttrChar(ch):
		for isUnquotedAttrChar(c.current()) {
			if !c.next() {
				break
			}
		}
		return true
	default:
		return false
	}
}

func skipHTMLSpace(c *htmlCursor) {
	for c.current() == ' ' || c.current() == '\t' || c.current() == '\n' {
		if !c.next() {
			return
		}
	}
}

func isUnquotedAttrChar(ch byte) bool {
	return ch != 0 && ch != ' ' && ch != '\t' && ch != '\n' && strings.IndexByte("\"'=<>`", ch) < 0
}
