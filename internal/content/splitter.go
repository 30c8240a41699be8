// Package content turns the free-text and loosely structured AI fields of a
// job into ordered item lists.
package content

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// SplitLines splits text on newlines and returns the trimmed, non-blank lines
// in their original order.
func SplitLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

var markerRe = regexp.MustCompile(`^(?:[-*•▪‣]\s+|\d{1,3}[.)]\s+|[✓✔✗✘]\s*)`)

// Items is SplitLines for display lists: a JSON array of strings is accepted
// as-is, and leading bullets or numbers are dropped so lists are not
// numbered twice.
func Items(text string) []string {
	var lines []string
	if arr, ok := stringArray(text); ok {
		lines = arr
	} else {
		lines = SplitLines(text)
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(markerRe.ReplaceAllString(strings.TrimSpace(l), ""))
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// LooksLikeJSONArray reports whether text opens as a JSON array, as opposed to
// a text line that merely starts with a bracket such as "[Optional] primer".
func LooksLikeJSONArray(text string) bool {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "[") {
		return false
	}
	rest := strings.TrimSpace(s[1:])
	if rest == "" {
		return true
	}
	switch rest[0] {
	case '{', '[', '"', ']':
		return true
	}
	return json.Valid([]byte(s))
}

// IsStringArray reports whether text is a JSON array of strings.
func IsStringArray(text string) bool {
	_, ok := stringArray(text)
	return ok
}

func stringArray(text string) ([]string, bool) {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "[") {
		return nil, false
	}
	var arr []string
	if err := json.Unmarshal([]byte(s), &arr); err != nil {
		return nil, false
	}
	return arr, true
}

// Cap keeps at most max items and reports how many were left out.
// max <= 0 means no cap.
func Cap[T any](items []T, max int) ([]T, int) {
	if max <= 0 || len(items) <= max {
		return items, 0
	}
	return items[:max], len(items) - max
}

// OverflowLabel is the indicator shown in place of capped items.
func OverflowLabel(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d more", n)
}
