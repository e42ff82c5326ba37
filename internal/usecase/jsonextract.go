package usecase

// extractJSONObject returns the first balanced JSON object substring.
// Model output routinely wraps JSON in prose or markdown fences, so the
// decoder never sees the raw text directly.
func extractJSONObject(s string) (string, bool) {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray returns the first balanced JSON array substring.
func extractJSONArray(s string) (string, bool) {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, closing byte) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if start < 0 {
			if c == open {
				start = i
				depth = 1
			}
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closing:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
