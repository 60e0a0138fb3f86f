package devapi

import (
	"sort"
	"strings"

	"crowdfund-client/internal/model"
)

// FieldErrors maps a request field to its validation messages, the way a
// Django REST framework serializer reports them.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field string, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(f[field], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match field errors with errors.Is(err, model.ErrInvalidInput).
func (f FieldErrors) Unwrap() error {
	return model.ErrInvalidInput
}

func (f FieldErrors) orNil() error {
	if f.Empty() {
		return nil
	}
	return f
}
