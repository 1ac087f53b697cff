// Package markdown imports directories of Markdown documents as module
// entries: frontmatter supplies the entry's field values, the rendered body
// lands in a designated field.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ParseOptions configure the Markdown to HTML conversion.
type ParseOptions struct {
	// HardWraps renders single newlines as <br>.
	HardWraps bool
	// SafeMode suppresses raw HTML passthrough.
	SafeMode bool
	// Extensions names goldmark extensions to enable; empty means the GFM
	// defaults.
	Extensions []string
}

// Parser renders Markdown into HTML using goldmark. The parser is stateless,
// so one instance serves concurrent imports without locking.
type Parser struct {
	defaults ParseOptions
}

// NewParser constructs a parser with the given defaults.
func NewParser(defaults ParseOptions) *Parser {
	return &Parser{defaults: defaults}
}

// Parse renders Markdown into HTML with the parser's default configuration.
func (p *Parser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaults)
}

// ParseWithOptions renders Markdown into HTML using the provided options.
func (p *Parser) ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error) {
	engine := newEngine(opts)
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return buf.Bytes(), nil
}

func newEngine(opts ParseOptions) goldmark.Markdown {
	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	for _, name := range names {
		if ext, ok := extensionRegistry[name]; ok {
			extenders = append(extenders, ext)
		}
	}
	return extenders
}
