package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var errTrailingBackslash = errors.New("\\ at end of string")

// Unescape interprets backslash escapes in s as if s were a string literal:
// \\ \' \" \a \b \f \n \r \t \v, octal \ooo, \xHH, \uHHHH and \UHHHHHHHH.
// A backslash before a newline is a line continuation. Unknown escapes are
// kept verbatim. Truncated or out-of-range escapes are errors.
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '\\' {
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
			continue
		}

		if i+1 >= len(s) {
			return "", errTrailingBackslash
		}

		next := s[i+1]
		switch {
		case next == '\n':
			i += 2
		case next == '\'' || next == '"' || next == '\\':
			b.WriteByte(next)
			i += 2
		case strings.IndexByte("abfnrtv", next) >= 0:
			r, _, _, err := strconv.UnquoteChar(s[i:i+2], 0)
			if err != nil {
				return "", fmt.Errorf("escape at offset %d: %w", i, err)
			}
			b.WriteRune(r)
			i += 2
		case isOctal(next):
			end := i + 2
			for end < i+4 && end < len(s) && isOctal(s[end]) {
				end++
			}
			v, _ := strconv.ParseUint(s[i+1:end], 8, 32)
			b.WriteRune(rune(v))
			i = end
		case next == 'x' || next == 'u' || next == 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[next]
			end := i + 2 + width
			if end > len(s) {
				return "", fmt.Errorf("truncated \\%c escape at offset %d", next, i)
			}
			v, err := strconv.ParseUint(s[i+2:end], 16, 32)
			if err != nil {
				return "", fmt.Errorf("truncated \\%c escape at offset %d", next, i)
			}
			if v > utf8.MaxRune {
				return "", fmt.Errorf("illegal code point U+%X at offset %d", v, i)
			}
			b.WriteRune(rune(v))
			i = end
		default:
			b.WriteByte('\\')
			i++
		}
	}

	return b.String(), nil
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}
