package data

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sheetform/internal/form"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRecords_CSV(t *testing.T) {
	path := writeFile(t, "leads.csv", `name,email,age
alice,alice@example.com,25
bob,bob@example.com`)

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	want := []form.Field{
		{Key: "name", Value: "alice"},
		{Key: "email", Value: "alice@example.com"},
		{Key: "age", Value: "25"},
	}
	if diff := cmp.Diff(want, records[0].Fields()); diff != "" {
		t.Errorf("record 0 mismatch (-want +got):\n%s", diff)
	}

	// Missing trailing columns become empty strings
	if v, _ := records[1].Get("age"); v != "" {
		t.Errorf("expected empty age, got %v", v)
	}
}

func TestLoadRecords_CSVHeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.csv", "name,email\n")

	if _, err := LoadRecords(path); err == nil {
		t.Error("expected error for header-only CSV")
	}
}

func TestLoadRecords_JSONObject(t *testing.T) {
	path := writeFile(t, "lead.json", `{"name": "A", "age": 5, "email": "a@b.com"}`)

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if diff := cmp.Diff([]string{"name", "age", "email"}, records[0].Keys()); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRecords_JSONLargeInteger(t *testing.T) {
	path := writeFile(t, "lead.json", `{"name": "A", "phone": 12345678901234567}`)

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}

	u := form.Encode(&url.URL{Scheme: "https", Host: "script.example"}, records[0])
	if u.RawQuery != "name=A&phone=12345678901234567" {
		t.Errorf("unexpected query %q", u.RawQuery)
	}
}

func TestLoadRecords_JSONArray(t *testing.T) {
	path := writeFile(t, "leads.json", `[
		{"name": "A", "email": "a@example.com"},
		{"email": "b@example.com", "name": "B"}
	]`)

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if diff := cmp.Diff([]string{"email", "name"}, records[1].Keys()); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRecords_JSONInvalid(t *testing.T) {
	path := writeFile(t, "bad.json", `"just a string"`)

	_, err := LoadRecords(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "JSON must be") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadRecords_YAML(t *testing.T) {
	path := writeFile(t, "leads.yaml", `
- name: A
  email: a@example.com
  age: 5
- name: B
  email: b@example.com
`)

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	want := []form.Field{
		{Key: "name", Value: "A"},
		{Key: "email", Value: "a@example.com"},
		{Key: "age", Value: 5},
	}
	if diff := cmp.Diff(want, records[0].Fields()); diff != "" {
		t.Errorf("record 0 mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRecords_YAMLMapping(t *testing.T) {
	path := writeFile(t, "lead.yml", "name: A\nemail: a@b.com\n")

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(records) != 1 || records[0].Len() != 2 {
		t.Fatalf("unexpected records: %d", len(records))
	}
}

func TestLoadRecords_YAMLScalar(t *testing.T) {
	path := writeFile(t, "bad.yaml", "hello\n")

	if _, err := LoadRecords(path); err == nil {
		t.Error("expected error for scalar YAML")
	}
}

func TestLoadRecords_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "data.xml", "<data/>")

	_, err := LoadRecords(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unsupported file format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadRecords_Empty(t *testing.T) {
	for _, name := range []string{"empty.json", "empty.yaml"} {
		content := "[]"
		if strings.HasSuffix(name, ".yaml") {
			content = ""
		}
		path := writeFile(t, name, content)
		if _, err := LoadRecords(path); err == nil {
			t.Errorf("%s: expected error for empty file", name)
		}
	}
}

func TestLoadRecords_NotFound(t *testing.T) {
	if _, err := LoadRecords("/nonexistent/leads.csv"); err == nil {
		t.Error("expected error for missing file")
	}
}
