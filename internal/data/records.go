// Package data loads form records from CSV, JSON or YAML files.
package data

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sheetform/internal/form"
)

// LoadRecords reads a data file and returns its records with field order
// preserved. The format is chosen by extension.
func LoadRecords(path string) ([]*form.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var records []*form.Record

	switch ext {
	case ".csv":
		records, err = parseCSV(data)
	case ".json":
		records, err = parseJSON(data)
	case ".yaml", ".yml":
		records, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported file format %q (use .csv, .json or .yaml)", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("data file %s is empty", path)
	}

	return records, nil
}

// parseCSV treats the first row as headers and each later row as a record.
func parseCSV(data []byte) ([]*form.Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV must have header row and at least one data row")
	}

	headers := rows[0]
	records := make([]*form.Record, 0, len(rows)-1)

	for _, row := range rows[1:] {
		r := form.NewRecord()
		for i, header := range headers {
			if i < len(row) {
				r.Set(header, row[i])
			} else {
				r.Set(header, "")
			}
		}
		records = append(records, r)
	}

	return records, nil
}

// parseJSON accepts a single object or an array of objects.
func parseJSON(data []byte) ([]*form.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var r form.Record
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, err
		}
		return []*form.Record{&r}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("JSON must be an object or an array of objects: %w", err)
	}

	records := make([]*form.Record, 0, len(items))
	for i, item := range items {
		var r form.Record
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		records = append(records, &r)
	}
	return records, nil
}

// parseYAML accepts a single mapping or a sequence of mappings.
func parseYAML(data []byte) ([]*form.Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		r, err := recordFromNode(root)
		if err != nil {
			return nil, err
		}
		return []*form.Record{r}, nil
	case yaml.SequenceNode:
		records := make([]*form.Record, 0, len(root.Content))
		for i, item := range root.Content {
			r, err := recordFromNode(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			records = append(records, r)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("line %d: YAML must be a mapping or a sequence of mappings", root.Line)
	}
}

func recordFromNode(node *yaml.Node) (*form.Record, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	r := form.NewRecord()
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("field %q: %w", node.Content[i].Value, err)
		}
		r.Set(node.Content[i].Value, value)
	}
	return r, nil
}
