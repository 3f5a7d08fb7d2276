package form

import (
	"testing"
)

func TestEncode_KeepsRecordOrder(t *testing.T) {
	endpoint, err := ParseEndpoint("https://script.example.com/macros/s/abc/exec")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := NewRecord(
		Field{Key: "n", Value: "A"},
		Field{Key: "a", Value: "5"},
	)

	got := Encode(endpoint, r)
	if got.RawQuery != "n=A&a=5" {
		t.Errorf("expected query 'n=A&a=5', got %q", got.RawQuery)
	}
	if got.String() != "https://script.example.com/macros/s/abc/exec?n=A&a=5" {
		t.Errorf("unexpected URL %q", got.String())
	}
	if endpoint.RawQuery != "" {
		t.Errorf("endpoint was mutated: %q", endpoint.RawQuery)
	}
}

func TestEncode_StringifiesAndEscapes(t *testing.T) {
	endpoint, _ := ParseEndpoint("http://localhost:8080/exec")

	r := NewRecord(
		Field{Key: "name", Value: "Ada Lovelace"},
		Field{Key: "email", Value: "ada+1@example.com"},
		Field{Key: "age", Value: 36},
		Field{Key: "note", Value: nil},
	)

	got := Encode(endpoint, r)
	want := "name=Ada+Lovelace&email=ada%2B1%40example.com&age=36&note="
	if got.RawQuery != want {
		t.Errorf("expected %q, got %q", want, got.RawQuery)
	}

	q := got.Query()
	if q.Get("email") != "ada+1@example.com" {
		t.Errorf("email did not round-trip: %q", q.Get("email"))
	}
	if _, ok := q["note"]; !ok {
		t.Error("expected note parameter to be present")
	}
}

func TestEncode_AppendsToExistingQuery(t *testing.T) {
	endpoint, _ := ParseEndpoint("https://example.com/exec?sheet=Leads")

	got := Encode(endpoint, NewRecord(Field{Key: "name", Value: "A"}))
	if got.RawQuery != "sheet=Leads&name=A" {
		t.Errorf("expected 'sheet=Leads&name=A', got %q", got.RawQuery)
	}
}

func TestEncode_EmptyRecord(t *testing.T) {
	endpoint, _ := ParseEndpoint("https://example.com/exec")

	got := Encode(endpoint, NewRecord())
	if got.String() != "https://example.com/exec" {
		t.Errorf("unexpected URL %q", got.String())
	}
}

func TestParseEndpoint_Invalid(t *testing.T) {
	tests := []string{
		"not a url",
		"ftp://example.com/exec",
		"/relative/path",
		"http://",
		"://missing-scheme",
	}

	for _, raw := range tests {
		if _, err := ParseEndpoint(raw); err == nil {
			t.Errorf("ParseEndpoint(%q): expected error", raw)
		}
	}
}
