// Package sqlguard enforces the read-only contract for generated queries.
// It is a last-resort guard: the connecting database roles are expected to
// be read-only as well.
package sqlguard

import (
	"regexp"
	"strings"
)

// Result holds the validation verdict and the normalized query text. The
// normalized text is returned even for invalid input so callers can surface
// it as a diagnostic.
type Result struct {
	Valid  bool   `json:"valid"`
	Query  string `json:"query"`
	Reason string `json:"reason,omitempty"`
}

var (
	readPrefix = regexp.MustCompile(`(?i)^(SELECT|WITH)\b`)
	disallowed = regexp.MustCompile(`(?i)\b(INSERT|UPDATE|DELETE|DROP|ALTER|TRUNCATE|CREATE|GRANT|REVOKE|BEGIN|COMMIT|ROLLBACK)\b`)
)

// Validate normalizes raw generated text and checks it against the
// read-only query contract. Deterministic, no side effects.
func Validate(raw string) Result {
	normalized := normalize(raw)
	if normalized == "" {
		return Result{Valid: false, Query: normalized, Reason: "empty query"}
	}
	if !readPrefix.MatchString(normalized) {
		return Result{Valid: false, Query: normalized, Reason: "query must start with SELECT or WITH"}
	}
	// Trailing semicolons were already stripped; any remaining one marks a
	// second statement.
	if strings.Contains(normalized, ";") {
		return Result{Valid: false, Query: normalized, Reason: "multiple statements are not allowed"}
	}
	if m := disallowed.FindString(normalized); m != "" {
		return Result{Valid: false, Query: normalized, Reason: "disallowed keyword: " + strings.ToUpper(m)}
	}
	return Result{Valid: true, Query: normalized}
}

// normalize strips a single surrounding code fence, drops trailing
// statement separators, and collapses all interior whitespace runs.
func normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = stripFence(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, "; ")
	return s
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence line.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		first := strings.TrimSpace(s[:i])
		if first == "" || isLanguageTag(first) {
			s = s[i+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
