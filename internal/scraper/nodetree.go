// Package scraper turns rendered page HTML into structured content records.
// The heuristics run against a small node-tree capability surface so they stay
// decoupled from any one DOM representation; the only implementation wraps
// goquery.
package scraper

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// NodeTree is a queryable snapshot of a rendered page.
type NodeTree interface {
	// SelectFirst returns the first node matching the selector, or nil.
	SelectFirst(selector string) Node
	// SelectAll returns every node matching the selector in document order.
	SelectAll(selector string) []Node
	// Body returns the document body.
	Body() Node
}

// Node is one element of the tree.
type Node interface {
	// Text returns the rendered text of the node and its descendants.
	Text() string
	// Attr returns the attribute value, or "" when absent.
	Attr(name string) string
	// TagName returns the lowercase element name.
	TagName() string
	// InnerHTML returns the markup inside the node.
	InnerHTML() string
	// SelectFirst scopes a selector query to this subtree, excluding the node itself.
	SelectFirst(selector string) Node
	// SelectAll scopes a selector query to this subtree, excluding the node itself.
	SelectAll(selector string) []Node
	// Same reports whether both handles point at the same underlying element.
	Same(other Node) bool
}

type goqueryTree struct {
	doc *goquery.Document
}

type goqueryNode struct {
	sel *goquery.Selection
}

// ParseTree builds a NodeTree from raw HTML.
func ParseTree(rawHTML string) (NodeTree, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	return &goqueryTree{doc: doc}, nil
}

func (t *goqueryTree) SelectFirst(selector string) Node {
	return firstNode(t.doc.Find(selector))
}

func (t *goqueryTree) SelectAll(selector string) []Node {
	return allNodes(t.doc.Find(selector))
}

func (t *goqueryTree) Body() Node {
	if n := firstNode(t.doc.Find("body")); n != nil {
		return n
	}
	return &goqueryNode{sel: t.doc.Selection}
}

func (n *goqueryNode) Text() string {
	return n.sel.Text()
}

func (n *goqueryNode) Attr(name string) string {
	val, _ := n.sel.Attr(name)
	return val
}

func (n *goqueryNode) TagName() string {
	return goquery.NodeName(n.sel)
}

func (n *goqueryNode) InnerHTML() string {
	if len(n.sel.Nodes) == 0 {
		return ""
	}
	var buf bytes.Buffer
	for c := n.sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

func (n *goqueryNode) SelectFirst(selector string) Node {
	return firstNode(n.sel.Find(selector))
}

func (n *goqueryNode) SelectAll(selector string) []Node {
	return allNodes(n.sel.Find(selector))
}

func (n *goqueryNode) Same(other Node) bool {
	o, ok := other.(*goqueryNode)
	if !ok || len(n.sel.Nodes) == 0 || len(o.sel.Nodes) == 0 {
		return false
	}
	return n.sel.Nodes[0] == o.sel.Nodes[0]
}

func firstNode(sel *goquery.Selection) Node {
	if sel.Length() == 0 {
		return nil
	}
	return &goqueryNode{sel: sel.First()}
}

func allNodes(sel *goquery.Selection) []Node {
	if sel.Length() == 0 {
		return nil
	}
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &goqueryNode{sel: s})
	})
	return nodes
}
