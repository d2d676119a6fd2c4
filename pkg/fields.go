package pkg

import (
	"strings"
	"unicode"
)

// CamelToSnake converts a camelCase field name to its snake_case form,
// e.g. "workoutProgramId" -> "workout_program_id". Input that is already
// snake_case contains no uppercase letters and comes back unchanged.
func CamelToSnake(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// SnakeCaseKeys walks a decoded JSON-like value (maps and slices) and
// converts every map key to snake_case. Leaf values and slice elements
// that are not maps themselves are left untouched.
func SnakeCaseKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		converted := make(map[string]any, len(val))
		for k, inner := range val {
			converted[CamelToSnake(k)] = SnakeCaseKeys(inner)
		}
		return converted
	case []any:
		converted := make([]any, len(val))
		for i, inner := range val {
			converted[i] = SnakeCaseKeys(inner)
		}
		return converted
	default:
		return v
	}
}
