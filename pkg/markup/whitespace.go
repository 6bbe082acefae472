package markup

import "unicode/utf8"

// IsSpace reports whether r is whitespace for the markup dialect.
//
// The set is:
//   - ASCII space, tab, line feed and carriage return;
//   - U+00A0 NO-BREAK SPACE;
//   - U+2000..U+200A, the en/em space family;
//   - U+2028 LINE SEPARATOR and U+2029 PARAGRAPH SEPARATOR;
//   - U+202F NARROW NO-BREAK SPACE;
//   - U+3000 IDEOGRAPHIC SPACE;
//   - U+200F RIGHT-TO-LEFT MARK, so right-to-left markup can pad tags with it.
//
// Vertical tab, form feed and U+0085 are not whitespace. The same classification is
// used for skipping and for trimming.
func IsSpace(r rune) bool {
	if r < utf8.RuneSelf {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}
	switch {
	case r == 0x00A0:
		return true
	case r >= 0x2000 && r <= 0x200A:
		return true
	case r == 0x200F, r == 0x2028, r == 0x2029, r == 0x202F, r == 0x3000:
		return true
	}
	return false
}

// TrimRightSpace returns s without its trailing whitespace as defined by IsSpace.
// The result is a substring of s.
func TrimRightSpace(s string) string {
	end := len(s)
	for end > 0 {
		c := s[end-1]
		if c < utf8.RuneSelf {
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				break
			}
			end--
			continue
		}
		r, size := utf8.DecodeLastRuneInString(s[:end])
		if !IsSpace(r) {
			break
		}
		end -= size
	}
	return s[:end]
}
