package pkg

import (
	"fmt"
	"strings"
)

// Render formats a value of type T as text.
type Render[T any] func(T) string

// Sprint renders v in its default format.
func Sprint[T any](v T) string { return fmt.Sprint(v) }

// Join renders each of v and concatenates the results, separated by sep.
func (r Render[T]) Join(sep string, v ...T) string {
	var b strings.Builder

	for i, x := range v {
		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(r(x))
	}

	return b.String()
}
