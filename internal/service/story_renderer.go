// internal/service/story_renderer.go
package service

import (
	"bytes"
	"fmt"
	"strings"

	"go_4_sight_reader/internal/highlight"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// TextTransform はレンダリング済みツリーのテキストを書き換えます。*highlight.Matcher が実装します。
type TextTransform interface {
	Transform(nodes []*highlight.Node) []*highlight.Node
}

// StoryRenderer は Markdown 本文を HTML にし、TextTransform を通して出力します。
// 生の HTML は出力しません。
type StoryRenderer struct {
	md goldmark.Markdown
}

func NewStoryRenderer() *StoryRenderer {
	return &StoryRenderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (r *StoryRenderer) Render(markdown string, tt TextTransform) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("StoryRenderer.Render: convert markdown: %w", err)
	}
	if tt == nil {
		return buf.String(), nil
	}

	nodes, err := highlight.ParseFragment(&buf)
	if err != nil {
		return "", fmt.Errorf("StoryRenderer.Render: %w", err)
	}
	var out strings.Builder
	if err := highlight.Render(&out, tt.Transform(nodes)); err != nil {
		return "", fmt.Errorf("StoryRenderer.Render: %w", err)
	}
	return out.String(), nil
}

// ImageURL はフロントマターの img を配信パスにします。
// "/" や "http" で始まる値はそのまま使います。
func ImageURL(img string) string {
	if img == "" || strings.HasPrefix(img, "/") || strings.HasPrefix(img, "http") {
		return img
	}
	return "/story-images/" + img
}
