// internal/highlight/highlight.go
package highlight

import (
	"regexp"
	"strings"
)

// MarkerTag はハイライトした単語を包む要素名です。
const MarkerTag = "u"

type NodeType int

const (
	TextNode NodeType = iota
	ElementNode
)

type Attribute struct {
	Key string
	Val string
}

// Node はレンダリング済みコンテンツのツリーです。
// TextNode は Data に本文を、ElementNode は Data にタグ名を持ちます。
type Node struct {
	Type     NodeType
	Data     string
	Attr     []Attribute
	Children []*Node
}

func Text(s string) *Node {
	return &Node{Type: TextNode, Data: s}
}

func Element(tag string, children ...*Node) *Node {
	return &Node{Type: ElementNode, Data: tag, Children: children}
}

// Matcher は対象語の集合から作った単語境界・大小無視のパターンを保持します。
// 対象語が空のとき Transform は恒等変換です。
type Matcher struct {
	re *regexp.Regexp
}

// Compile は words を宣言順の選択肢として結合したパターンを作ります。
// 各語はエスケープされ、リテラルとして照合されます。空文字列は無視されます。
func Compile(words []string) *Matcher {
	alts := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		alts = append(alts, regexp.QuoteMeta(w))
	}
	if len(alts) == 0 {
		return &Matcher{}
	}
	return &Matcher{re: regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)}
}

// Transform は Compile(words).Transform(nodes) の省略形です。
func Transform(nodes []*Node, words []string) []*Node {
	return Compile(words).Transform(nodes)
}

func (m *Matcher) Empty() bool {
	return m == nil || m.re == nil
}

// Transform は nodes を深さ優先で走査し、テキスト中の一致箇所を MarkerTag で包んだ新しいツリーを返します。
// 変更のない部分木は元のポインタをそのまま共有し、入力ツリーは変更しません。
func (m *Matcher) Transform(nodes []*Node) []*Node {
	if m.Empty() {
		return nodes
	}
	out, _ := m.transformChildren(nodes)
	return out
}

func (m *Matcher) transformChildren(nodes []*Node) ([]*Node, bool) {
	var out []*Node
	changed := false
	for i, n := range nodes {
		replacement, ok := m.transformNode(n)
		if ok && !changed {
			changed = true
			out = make([]*Node, 0, len(nodes)+len(replacement))
			out = append(out, nodes[:i]...)
		}
		if changed {
			if ok {
				out = append(out, replacement...)
			} else {
				out = append(out, n)
			}
		}
	}
	if !changed {
		return nodes, false
	}
	return out, true
}

func (m *Matcher) transformNode(n *Node) ([]*Node, bool) {
	if n == nil {
		return nil, false
	}
	switch n.Type {
	case TextNode:
		parts := m.Split(n.Data)
		if parts == nil {
			return nil, false
		}
		return parts, true
	case ElementNode:
		if rawText[n.Data] {
			return nil, false
		}
		children, ok := m.transformChildren(n.Children)
		if !ok {
			return nil, false
		}
		cp := *n
		cp.Children = children
		return []*Node{&cp}, true
	}
	return nil, false
}

// Split は text を [前置テキスト, マーカー, 中間テキスト, マーカー, ..., 後置テキスト] に分割します。
// 空のテキスト片は含みません。一致がなければ nil を返します。
func (m *Matcher) Split(text string) []*Node {
	if m.Empty() || text == "" {
		return nil
	}
	locs := m.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(locs)*2+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			out = append(out, Text(text[last:loc[0]]))
		}
		out = append(out, Element(MarkerTag, Text(text[loc[0]:loc[1]])))
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Text(text[last:]))
	}
	return out
}

// rawText の要素の中身は文章ではないので走査しません。
var rawText = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
	"title":    true,
}
