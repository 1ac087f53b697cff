package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block of one importable document. Fields not
// recognised here flow through to the entry's data payload keyed by field
// name.
type FrontMatter struct {
	Slug      string         `yaml:"slug"`
	Type      string         `yaml:"type"`
	SortOrder int            `yaml:"sort_order"`
	Active    *bool          `yaml:"active"`
	Fields    map[string]any `yaml:",inline"`
}

// ParseFrontMatter extracts metadata and the Markdown body from the provided
// source bytes.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Fields == nil {
		meta.Fields = map[string]any{}
	}
	return meta, body, nil
}
