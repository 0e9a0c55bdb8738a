// internal/highlight/html.go
package highlight

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment は HTML 断片を Node ツリーに変換します。
// コメントと DOCTYPE は捨てます。
func ParseFragment(r io.Reader) ([]*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("highlight.ParseFragment: %w", err)
	}
	out := make([]*Node, 0, len(parsed))
	for _, n := range parsed {
		if c := fromHTML(n); c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func fromHTML(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
		el := &Node{Type: ElementNode, Data: n.Data}
		if len(n.Attr) > 0 {
			el.Attr = make([]Attribute, 0, len(n.Attr))
			for _, a := range n.Attr {
				key := a.Key
				if a.Namespace != "" {
					key = a.Namespace + ":" + a.Key
				}
				el.Attr = append(el.Attr, Attribute{Key: key, Val: a.Val})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	default:
		return nil
	}
}

// Render は nodes を HTML としてシリアライズします。
func Render(w io.Writer, nodes []*Node) error {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := html.Render(w, toHTML(n)); err != nil {
			return fmt.Errorf("highlight.Render: %w", err)
		}
	}
	return nil
}

func toHTML(n *Node) *html.Node {
	if n.Type == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Data}
	}
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Data,
		DataAtom: atom.Lookup([]byte(n.Data)),
	}
	for _, a := range n.Attr {
		el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		el.AppendChild(toHTML(c))
	}
	return el
}
