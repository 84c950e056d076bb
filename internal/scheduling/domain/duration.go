package domain

import (
	"strconv"
	"strings"
)

// ParseDuration converts a free-form duration string ("2h", "30m", "1h30m")
// into a minute count. Parsing never fails: empty, non-numeric, or
// zero-length input falls back to the caller-supplied default. Each call
// site chooses its own fallback; there is no system-wide one.
func ParseDuration(text string, fallbackMinutes int) int {
	s := strings.ToLower(strings.TrimSpace(text))
	total := 0

	if idx := strings.Index(s, "h"); idx >= 0 {
		if hours, err := strconv.Atoi(strings.TrimSpace(s[:idx])); err == nil {
			total += hours * 60
		}
		s = s[idx+1:]
	}

	if strings.Contains(s, "m") {
		minutes := strings.TrimSpace(strings.ReplaceAll(s, "m", ""))
		if minutes != "" {
			if m, err := strconv.Atoi(minutes); err == nil {
				total += m
			}
		}
	}

	if total <= 0 {
		return fallbackMinutes
	}
	return total
}
