package helper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// Heading is one entry of a generated document's outline. Level is the depth in the outline
// and ID matches the anchor in the HTML produced by RenderMarkdown.
type Heading struct {
	Level int       `json:"level"`
	Title string    `json:"title"`
	ID    string    `json:"id"`
	Items []Heading `json:"items,omitempty"`
}

// RenderMarkdown converts generated markdown (notes, summaries) to HTML.
func RenderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// Outline lists the headings of md down to level 3 as a tree.
func Outline(md string) ([]Heading, error) {
	source := []byte(md)
	doc := markdown.Parser().Parse(text.NewReader(source))

	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(3),
		toc.Compact(true),
	)
	if err != nil {
		return nil, fmt.Errorf("inspect outline: %w", err)
	}
	return headings(tree.Items, 1), nil
}

func headings(items toc.Items, level int) []Heading {
	if len(items) == 0 {
		return nil
	}
	out := make([]Heading, 0, len(items))
	for _, item := range items {
		out = append(out, Heading{
			Level: level,
			Title: string(item.Title),
			ID:    string(item.ID),
			Items: headings(item.Items, level+1),
		})
	}
	return out
}
