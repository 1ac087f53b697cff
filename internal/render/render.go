package render

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-cms-modular/internal/schema"
)

// Markers delimiting the single supported repeatable region. They are
// literal HTML comments so a template remains valid markup when unexpanded.
const (
	StartMarker = "<!-- START REPEATABLE ITEM -->"
	EndMarker   = "<!-- END REPEATABLE ITEM -->"
)

var itemTokenPattern = regexp.MustCompile(`\{item\.([a-zA-Z0-9_]+)\}`)

// Payload is a resolved section payload: scalar fields plus zero or more
// repeatable items.
type Payload struct {
	Data  map[string]any
	Items []map[string]any
}

// Render expands a section template deterministically.
//
// Scalar pass: every `{key}` present in Data is replaced with the value's
// string form. Placeholders without a matching key are left verbatim; absent
// keys are not assumed to resolve and silence here is the documented
// contract, not an error.
//
// Repeatable pass: the first region delimited by StartMarker/EndMarker is
// cloned once per item, `{item.key}` tokens resolving against the item
// (missing keys become empty strings), and the whole marked region, markers
// included, is replaced by the concatenated clones with no separator. With
// zero items the region and its markers stay untouched in the output.
func Render(template string, payload Payload) string {
	out := template
	for key, value := range payload.Data {
		out = strings.ReplaceAll(out, "{"+key+"}", schema.Stringify(value))
	}

	if len(payload.Items) == 0 {
		return out
	}

	start := strings.Index(out, StartMarker)
	if start < 0 {
		return out
	}
	rest := out[start+len(StartMarker):]
	end := strings.Index(rest, EndMarker)
	if end < 0 {
		return out
	}

	block := rest[:end]
	var expanded strings.Builder
	for _, item := range payload.Items {
		expanded.WriteString(expandItem(block, item))
	}

	return out[:start] + expanded.String() + rest[end+len(EndMarker):]
}

func expandItem(block string, item map[string]any) string {
	return itemTokenPattern.ReplaceAllStringFunc(block, func(token string) string {
		key := token[len("{item.") : len(token)-1]
		value, ok := item[key]
		if !ok {
			return ""
		}
		return schema.Stringify(value)
	})
}

// RenderSection renders a template and emits the section's stylesheet and
// script verbatim alongside the markup, in template declaration order.
func RenderSection(template, css, js string, payload Payload) string {
	var out strings.Builder
	if css != "" {
		out.WriteString("<style>")
		out.WriteString(css)
		out.WriteString("</style>")
	}
	out.WriteString(Render(template, payload))
	if js != "" {
		out.WriteString("<script>")
		out.WriteString(js)
		out.WriteString("</script>")
	}
	return out.String()
}
