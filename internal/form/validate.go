package form

import "fmt"

// ValidationError reports the first required field that was missing or blank.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Validate checks required fields in order and returns a *ValidationError for
// the first one that is absent or blank. Later fields are not inspected.
func Validate(r *Record, required []string) error {
	for _, field := range required {
		v, ok := r.Get(field)
		if !ok || IsBlank(v) {
			return &ValidationError{Field: field}
		}
	}
	return nil
}
