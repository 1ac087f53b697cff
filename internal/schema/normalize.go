package schema

import "sort"

// LegacyMappingKey is the row-oriented mapping payload key used by earlier
// schema revisions. It is accepted on read, normalised to the column-oriented
// shape, and never written back.
const LegacyMappingKey = "mapping_items"

// Reserved section payload keys that never hold repeatable columns.
const (
	sectionDataKey = "data"
	sectionIDKey   = "section_id"
)

// NormalizeMappingData converts an entry payload to the current
// column-oriented mapping shape: one array per mapping field name, parallel
// indices forming logical items. Legacy row-oriented payloads under
// LegacyMappingKey are folded into columns and the legacy key is removed.
// The normalisation is one-way; nothing downstream branches on the legacy
// shape again.
func NormalizeMappingData(data map[string]any, mappingFields []Field) map[string]any {
	if data == nil {
		return nil
	}

	rows := legacyRows(data[LegacyMappingKey])
	delete(data, LegacyMappingKey)

	for _, field := range mappingFields {
		if column, ok := data[field.Name].([]any); ok && column != nil {
			continue
		}
		if len(rows) > 0 {
			column := make([]any, len(rows))
			for i, row := range rows {
				if v, ok := row[field.Name]; ok {
					column[i] = v
				} else {
					column[i] = ""
				}
			}
			data[field.Name] = column
			continue
		}
		if _, present := data[field.Name]; present {
			data[field.Name] = []any{}
		}
	}

	return data
}

func legacyRows(value any) []map[string]any {
	raw, ok := value.([]any)
	if !ok {
		return nil
	}
	rows := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// Transpose reconciles column-oriented mapping data into an ordered item
// list. The item count is the longest column; shorter columns pad with empty
// strings so every item carries every field.
func Transpose(columns map[string][]any) []map[string]any {
	if len(columns) == 0 {
		return nil
	}

	maxLen := 0
	for _, column := range columns {
		if len(column) > maxLen {
			maxLen = len(column)
		}
	}
	if maxLen == 0 {
		return nil
	}

	items := make([]map[string]any, maxLen)
	for i := 0; i < maxLen; i++ {
		item := make(map[string]any, len(columns))
		for name, column := range columns {
			if i < len(column) {
				item[name] = column[i]
			} else {
				item[name] = ""
			}
		}
		items[i] = item
	}
	return items
}

// RepeatableItems resolves the repeatable item list from a section payload.
// Explicit row-oriented items win when present; otherwise every array-valued
// key outside the reserved set is treated as a column and transposed.
func RepeatableItems(sectionData map[string]any) []map[string]any {
	if len(sectionData) == 0 {
		return nil
	}

	if rows := legacyRows(sectionData[LegacyMappingKey]); len(rows) > 0 {
		return rows
	}

	columns := make(map[string][]any)
	for key, value := range sectionData {
		if key == sectionDataKey || key == sectionIDKey || key == LegacyMappingKey {
			continue
		}
		if column, ok := value.([]any); ok {
			columns[key] = column
		}
	}
	return Transpose(columns)
}

// SortedColumnNames returns column keys in lexical order; useful for
// deterministic diagnostics.
func SortedColumnNames(columns map[string][]any) []string {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
