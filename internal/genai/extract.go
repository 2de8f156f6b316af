package genai

import "strings"

// StripCodeFences removes a leading/trailing markdown code fence from a
// model response. Language tags after the opening fence are dropped.
func StripCodeFences(s string) string {
	out := strings.TrimSpace(s)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```")
	if idx := strings.IndexByte(out, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(out[:idx])
		// A bare language tag like "json" on the fence line is not content.
		if firstLine == "" || !strings.ContainsAny(firstLine, "[{") {
			out = out[idx+1:]
		}
	}
	if idx := strings.LastIndex(out, "```"); idx >= 0 {
		out = out[:idx]
	}
	return strings.TrimSpace(out)
}

// ExtractJSONArray returns the first balanced top-level JSON array in s,
// or "" when none exists. Brackets inside string literals are ignored.
func ExtractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

// ExtractJSONObject returns the first balanced top-level JSON object in s,
// or "" when none exists.
func ExtractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

func extractBalanced(s string, open, closing byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
