package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Select returns all elements matching a CSS selector.
// Supported subset:
//   - tag: "main", "img"
//   - .class: ".content"
//   - #id: "#main"
//   - attribute clauses, repeatable: "a[href]", `meta[name=viewport]`,
//     `a[href^="#"][href*="main"]` (operators =, ^=, *=, values optionally quoted)
//   - descendant combinator (space): "form input"
//   - selector groups (comma): "button,[role=button],a[role=button]"
func (d *Document) Select(selector string) []*html.Node {
	var out []*html.Node
	seen := map[*html.Node]bool{}
	for _, group := range splitGroups(selector) {
		for _, n := range d.selectGroup(group) {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// SelectOne returns the first element matching the selector, or nil.
func (d *Document) SelectOne(selector string) *html.Node {
	ms := d.Select(selector)
	if len(ms) == 0 {
		return nil
	}
	return ms[0]
}

func (d *Document) selectGroup(group string) []*html.Node {
	parts := strings.Fields(group)
	if len(parts) == 0 {
		return nil
	}
	matches := matchSimple(d.root, parseSimpleSelector(parts[0]))
	for i := 1; i < len(parts); i++ {
		sel := parseSimpleSelector(parts[i])
		var next []*html.Node
		for _, parent := range matches {
			next = append(next, matchSimple(parent, sel)...)
		}
		matches = next
	}
	return matches
}

// splitGroups splits on commas outside of brackets and quotes.
func splitGroups(selector string) []string {
	var groups []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(selector); i++ {
		c := selector[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == ',' && depth == 0:
			groups = append(groups, strings.TrimSpace(selector[start:i]))
			start = i + 1
		}
	}
	groups = append(groups, strings.TrimSpace(selector[start:]))
	return groups
}

type attrClause struct {
	key string
	op  string // "", "=", "^=", "*="
	val string
}

type simpleSelector struct {
	tag   string
	id    string
	class string
	attrs []attrClause
}

// parseSimpleSelector parses "tag.class", "#id", "tag[attr^=val][attr2]", etc.
func parseSimpleSelector(sel string) simpleSelector {
	var s simpleSelector

	for {
		idx := strings.IndexByte(sel, '[')
		if idx < 0 {
			break
		}
		end := strings.IndexByte(sel[idx:], ']')
		if end < 0 {
			break
		}
		s.attrs = append(s.attrs, parseAttrClause(sel[idx+1:idx+end]))
		sel = sel[:idx] + sel[idx+end+1:]
	}

	if idx := strings.IndexByte(sel, '#'); idx >= 0 {
		s.id = sel[idx+1:]
		sel = sel[:idx]
	}
	if idx := strings.IndexByte(sel, '.'); idx >= 0 {
		s.class = sel[idx+1:]
		sel = sel[:idx]
	}
	s.tag = sel
	return s
}

func parseAttrClause(body string) attrClause {
	var c attrClause
	for _, op := range []string{"^=", "*=", "="} {
		if idx := strings.Index(body, op); idx >= 0 {
			c.key = strings.TrimSpace(body[:idx])
			c.op = op
			c.val = strings.Trim(strings.TrimSpace(body[idx+len(op):]), `"'`)
			return c
		}
	}
	c.key = strings.TrimSpace(body)
	return c
}

func matchSimple(root *html.Node, s simpleSelector) []*html.Node {
	var results []*html.Node
	var f func(*html.Node)
	f = func(n *html.Node) {
		if matchesSelector(n, s) {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(root)
	return results
}

func matchesSelector(n *html.Node, s simpleSelector) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.id != "" && Attr(n, "id") != s.id {
		return false
	}
	if s.class != "" {
		found := false
		for _, c := range strings.Fields(Attr(n, "class")) {
			if c == s.class {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, c := range s.attrs {
		if !matchesAttr(n, c) {
			return false
		}
	}
	return true
}

func matchesAttr(n *html.Node, c attrClause) bool {
	if !HasAttr(n, c.key) {
		return false
	}
	val := Attr(n, c.key)
	switch c.op {
	case "":
		return true
	case "=":
		return val == c.val
	case "^=":
		return strings.HasPrefix(val, c.val)
	case "*=":
		return strings.Contains(val, c.val)
	}
	return false
}
