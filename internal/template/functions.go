package template

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// now is swapped in tests.
var now = time.Now

type sheetFunc func(args string) (string, error)

// builtins are the helpers a transform may call as ${name(args)}. Times are
// rendered in UTC to line up with the Timestamp column the script writes.
var builtins = map[string]sheetFunc{
	"timestamp": noArgs("timestamp", func() (string, error) {
		return now().UTC().Format(time.RFC3339), nil
	}),
	"uuid": noArgs("uuid", newID),
	"date": formatDate,
}

// evalFunction reports whether expr is a call to one of the builtins and,
// if so, its result.
func evalFunction(expr string) (string, bool, error) {
	name, rest, ok := strings.Cut(expr, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return "", false, nil
	}
	fn, ok := builtins[name]
	if !ok {
		return "", false, nil
	}

	out, err := fn(strings.TrimSuffix(rest, ")"))
	if err != nil {
		return "", true, fmt.Errorf("function %s: %w", name, err)
	}
	return out, true, nil
}

func noArgs(name string, fn func() (string, error)) sheetFunc {
	return func(args string) (string, error) {
		if strings.TrimSpace(args) != "" {
			return "", fmt.Errorf("%s() takes no arguments", name)
		}
		return fn()
	}
}

// newID returns a random v4 UUID, handy as a row key in the sheet.
func newID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// formatDate renders the current UTC time with a Go layout such as
// date(02/01/2006). An empty layout gives the bare date, 2006-01-02.
func formatDate(layout string) (string, error) {
	layout = strings.TrimSpace(layout)
	if layout == "" {
		layout = time.DateOnly
	}
	return now().UTC().Format(layout), nil
}
