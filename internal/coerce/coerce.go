// Package coerce implements the textual coercion rules applied by the typed
// getters: every stored value is reduced to its text form before parsing, and
// each target type defines its own failure behaviour.
package coerce

import (
	"fmt"
	"strconv"
	"strings"
)

// Text returns the textual representation of value used for parsing.
func Text(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// Bool parses text with the lax boolean policy: only the literal "true"
// (case-insensitive) is true, every other text is false. The parse never
// fails, so callers cannot distinguish "false" from malformed input.
func Bool(text string) bool {
	return strings.EqualFold(text, "true")
}

// Int parses text as a base-10 integer. The second return reports whether the
// parse succeeded; callers fall back to their default when it did not.
func Int(text string) (int, bool) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float parses text as a floating-point number, mirroring Int's contract.
func Float(text string) (float64, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
