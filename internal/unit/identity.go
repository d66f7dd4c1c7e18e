package unit

// IsValidIdentity reports whether s is a well-formed dotted module
// identity: one or more dot-separated segments, each an identifier.
func IsValidIdentity(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '.' {
			if !isIdentSegment(s[start:i]) {
				return false
			}
			start = i + 1
		}
	}
	return true
}

func isIdentSegment(seg string) bool {
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
