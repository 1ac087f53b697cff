package schema_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-cms-modular/internal/schema"
)

func TestValidateFieldsRejectsBadNames(t *testing.T) {
	cases := []struct {
		name   string
		fields []schema.Field
	}{
		{"empty name", []schema.Field{{Name: "", Type: schema.FieldText}}},
		{"placeholder delimiters", []schema.Field{{Name: "ti{tle}", Type: schema.FieldText}}},
		{"dash", []schema.Field{{Name: "hero-title", Type: schema.FieldText}}},
		{"space", []schema.Field{{Name: "hero title", Type: schema.FieldText}}},
	}

	for _, tc := range cases {
		if err := schema.ValidateFields(tc.fields); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestValidateFieldsDuplicateName(t *testing.T) {
	fields := []schema.Field{
		{Name: "title", Type: schema.FieldText},
		{Name: "title", Type: schema.FieldTextarea},
	}
	if err := schema.ValidateFields(fields); !errors.Is(err, schema.ErrFieldNameDuplicate) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestValidateFieldsSingleSlugSource(t *testing.T) {
	fields := []schema.Field{
		{Name: "title", Type: schema.FieldText, IsSlug: true},
		{Name: "name", Type: schema.FieldText, IsSlug: true},
	}
	if err := schema.ValidateFields(fields); !errors.Is(err, schema.ErrMultipleSlugFields) {
		t.Fatalf("expected slug source error, got %v", err)
	}
}

func TestDefinitionAllowsCrossListNameCollision(t *testing.T) {
	def := schema.Definition{
		Fields:        []schema.Field{{Name: "title", Type: schema.FieldText}},
		MappingFields: []schema.Field{{Name: "title", Type: schema.FieldText}},
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("cross-list collision should be allowed: %v", err)
	}
}

func TestDefinitionRejectsUnknownType(t *testing.T) {
	def := schema.Definition{
		Fields: []schema.Field{{Name: "body", Type: schema.FieldType("richtext")}},
	}
	if err := def.Validate(); !errors.Is(err, schema.ErrFieldTypeUnknown) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestTraitsCoverEveryType(t *testing.T) {
	for _, ft := range schema.FieldTypes() {
		traits, ok := schema.TraitsFor(ft)
		if !ok {
			t.Fatalf("no traits for %q", ft)
		}
		if traits.Coerce == nil {
			t.Fatalf("no coercion for %q", ft)
		}
	}
	if !schema.IsFileType(schema.FieldImage) || !schema.IsFileType(schema.FieldFile) {
		t.Fatal("file and image must be file types")
	}
	if schema.IsFileType(schema.FieldText) {
		t.Fatal("text must not be a file type")
	}
}

func TestNumberCoercion(t *testing.T) {
	traits, _ := schema.TraitsFor(schema.FieldNumber)

	got, err := traits.Coerce("42.5")
	if err != nil {
		t.Fatalf("coerce numeric string: %v", err)
	}
	if got.(float64) != 42.5 {
		t.Fatalf("expected 42.5 got %v", got)
	}

	if _, err := traits.Coerce("not-a-number"); err == nil {
		t.Fatal("expected error for non-numeric string")
	}
}

func TestCheckboxCoercion(t *testing.T) {
	traits, _ := schema.TraitsFor(schema.FieldCheckbox)

	for raw, want := range map[string]bool{"1": true, "on": true, "true": true, "0": false, "": false, "off": false} {
		got, err := traits.Coerce(raw)
		if err != nil {
			t.Fatalf("coerce %q: %v", raw, err)
		}
		if got.(bool) != want {
			t.Fatalf("coerce %q: expected %v got %v", raw, want, got)
		}
	}
}

func TestEmailAndURLCoercion(t *testing.T) {
	email, _ := schema.TraitsFor(schema.FieldEmail)
	if _, err := email.Coerce("someone@example.com"); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
	if _, err := email.Coerce("not-an-email"); err == nil {
		t.Fatal("invalid email accepted")
	}

	url, _ := schema.TraitsFor(schema.FieldURL)
	if _, err := url.Coerce("https://example.com/a"); err != nil {
		t.Fatalf("valid url rejected: %v", err)
	}
	if _, err := url.Coerce("::not a url::"); err == nil {
		t.Fatal("invalid url accepted")
	}
}

func TestNormalizeMappingDataFoldsLegacyRows(t *testing.T) {
	mapping := []schema.Field{
		{Name: "year", Type: schema.FieldText},
		{Name: "event", Type: schema.FieldText},
	}
	data := map[string]any{
		"mapping_items": []any{
			map[string]any{"year": "1990", "event": "Founded"},
			map[string]any{"year": "2001"},
		},
	}

	normalized := schema.NormalizeMappingData(data, mapping)

	if _, present := normalized[schema.LegacyMappingKey]; present {
		t.Fatal("legacy key must be removed")
	}
	years := normalized["year"].([]any)
	if len(years) != 2 || years[0] != "1990" || years[1] != "2001" {
		t.Fatalf("unexpected year column: %#v", years)
	}
	events := normalized["event"].([]any)
	if events[1] != "" {
		t.Fatalf("missing row value must pad with empty string, got %#v", events[1])
	}
}

func TestNormalizeMappingDataKeepsColumns(t *testing.T) {
	mapping := []schema.Field{{Name: "year", Type: schema.FieldText}}
	data := map[string]any{"year": []any{"1990", "1991"}}

	normalized := schema.NormalizeMappingData(data, mapping)
	if got := normalized["year"].([]any); len(got) != 2 {
		t.Fatalf("column shape must survive, got %#v", got)
	}
}

func TestTransposePadsShortColumns(t *testing.T) {
	items := schema.Transpose(map[string][]any{
		"x": {"a", "b"},
		"y": {"c"},
	})

	if len(items) != 2 {
		t.Fatalf("expected 2 items got %d", len(items))
	}
	if items[0]["x"] != "a" || items[0]["y"] != "c" {
		t.Fatalf("unexpected first item: %#v", items[0])
	}
	if items[1]["x"] != "b" || items[1]["y"] != "" {
		t.Fatalf("short column must pad with empty string: %#v", items[1])
	}
}

func TestRepeatableItemsPrefersExplicitRows(t *testing.T) {
	payload := map[string]any{
		"data":          map[string]any{"title": "x"},
		"mapping_items": []any{map[string]any{"n": "A"}},
		"n":             []any{"ignored"},
	}

	items := schema.RepeatableItems(payload)
	if len(items) != 1 || items[0]["n"] != "A" {
		t.Fatalf("explicit rows must win: %#v", items)
	}
}

func TestRepeatableItemsTransposesColumns(t *testing.T) {
	payload := map[string]any{
		"data":       map[string]any{"title": "x"},
		"section_id": "abc",
		"year":       []any{"1990", "2001"},
		"event":      []any{"Founded"},
	}

	items := schema.RepeatableItems(payload)
	if len(items) != 2 {
		t.Fatalf("expected 2 items got %d", len(items))
	}
	if items[1]["event"] != "" {
		t.Fatalf("expected padding, got %#v", items[1])
	}
}

func TestParseFieldDocument(t *testing.T) {
	doc := []any{
		map[string]any{"name": "title", "type": "text", "required": true, "is_slug": true},
		map[string]any{"name": "body", "type": "textarea"},
	}

	fields, err := schema.ParseFieldDocument(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(fields) != 2 || fields[0].Name != "title" || !fields[0].IsSlug {
		t.Fatalf("unexpected fields: %#v", fields)
	}

	bad := []any{map[string]any{"name": "oops", "type": "hologram"}}
	if _, err := schema.ParseFieldDocument(bad); err == nil {
		t.Fatal("unknown type must fail the meta-schema")
	}
}

func TestStringify(t *testing.T) {
	if schema.Stringify(nil) != "" {
		t.Fatal("nil must stringify to empty")
	}
	if schema.Stringify("x") != "x" {
		t.Fatal("string passthrough")
	}
	if schema.Stringify(float64(2)) != "2" {
		t.Fatalf("integral float: %q", schema.Stringify(float64(2)))
	}
	if schema.Stringify(true) != "true" {
		t.Fatal("bool form")
	}
	if schema.Stringify(map[string]any{"a": 1}) != `{"a":1}` {
		t.Fatalf("composite must be JSON: %q", schema.Stringify(map[string]any{"a": 1}))
	}
}
