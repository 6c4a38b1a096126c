package utils

import "strings"

// SplitCSV splits a comma-separated parameter into trimmed, non-empty
// values. Used for subject filters like "Calculus, Physics".
func SplitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
