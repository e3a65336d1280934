// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Parse parses an HTML page into a node tree.
func Parse(body []byte) (*html.Node, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

func isElement(n *html.Node, tags ...string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// Find returns the first element named tag below n in document order, or nil.
func Find(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, tag) {
			return c
		}
		if found := Find(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every element below n whose name is one of tags, in
// document order.
func FindAll(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if isElement(c, tags...) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindByClass returns every tag element below n carrying class among its
// space-separated classes.
func FindByClass(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	for _, el := range FindAll(n, tag) {
		if HasClass(el, class) {
			out = append(out, el)
		}
	}
	return out
}

// HasClass reports whether n's class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	v, _ := Attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Select resolves a descendant chain of tag names such as "main p" and
// returns the matches in document order without duplicates.
func Select(n *html.Node, selector string) []*html.Node {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil
	}
	matches := FindAll(n, parts[0])
	for _, part := range parts[1:] {
		seen := make(map[*html.Node]bool)
		var next []*html.Node
		for _, m := range matches {
			for _, d := range FindAll(m, part) {
				if !seen[d] {
					seen[d] = true
					next = append(next, d)
				}
			}
		}
		matches = next
	}
	return matches
}

// Text returns the concatenated text of every text node below n, untrimmed.
func Text(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		if p.Type == html.TextNode {
			buf.WriteString(p.Data)
		}
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Resolve resolves href against base the way a browser follows a link.
func Resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", base, err)
	}
	h, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parsing link %q: %w", href, err)
	}
	return b.ResolveReference(h).String(), nil
}
