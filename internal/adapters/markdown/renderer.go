package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer は goldmark でコメント本文を HTML に変換します。
// 生の HTML は出力されず、goldmark の既定どおり省略されます。
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer は Renderer を生成します。
func NewRenderer() *Renderer {
	return &Renderer{md: goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))}
}

// Render は Markdown を HTML に変換します。
func (r *Renderer) Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	return buf.String(), nil
}
