// Package template provides ${...} placeholder substitution used to build
// outgoing fields from a submitted record.
package template

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"sheetform/internal/form"
)

// varPattern matches ${field}, ${env:VAR} and ${func(args)} placeholders.
var varPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Lookup resolves field names to values. *form.Record satisfies it.
type Lookup interface {
	Get(key string) (any, bool)
}

// Substitute replaces placeholders in text.
// Returns all errors joined if multiple placeholders cannot be resolved.
// If text contains no placeholders, it is returned unchanged (fast path).
func Substitute(text string, vars Lookup) (string, error) {
	if !strings.Contains(text, "${") {
		return text, nil
	}

	var errs []error
	result := varPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-1])

		if strings.HasPrefix(name, "env:") {
			envName := name[4:]
			if val, ok := os.LookupEnv(envName); ok {
				return val
			}
			errs = append(errs, fmt.Errorf("env var %q not set", envName))
			return match
		}

		if val, isFunc, err := evalFunction(name); isFunc {
			if err != nil {
				errs = append(errs, err)
				return match
			}
			return val
		}

		if vars != nil {
			if val, ok := vars.Get(name); ok {
				return form.Stringify(val)
			}
		}
		errs = append(errs, fmt.Errorf("field %q not found", name))
		return match
	})

	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return result, nil
}

// Fields is an ordered list of output parameter templates.
type Fields []form.Field

// Apply builds a new record by substituting each template against r.
// Non-string template values are copied through unchanged.
func (f Fields) Apply(r *form.Record) (*form.Record, error) {
	out := form.NewRecord()
	var errs []error

	for _, field := range f {
		text, ok := field.Value.(string)
		if !ok {
			out.Set(field.Key, field.Value)
			continue
		}
		substituted, err := Substitute(text, r)
		if err != nil {
			errs = append(errs, fmt.Errorf("param %q: %w", field.Key, err))
			continue
		}
		out.Set(field.Key, substituted)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
