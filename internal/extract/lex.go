package extract

import "strings"

// Byte classes produced by mask.
const (
	classCode byte = iota
	classComment
	classString
)

// source is a file's text with comments blanked out and a per-byte class.
// Blanking keeps newlines, so offsets and line numbers match the original.
type source struct {
	text       []byte
	class      []byte
	lineStarts []int
}

func newSource(content []byte) *source {
	text, class := mask(content)
	starts := []int{0}
	for i, c := range content {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &source{text: text, class: class, lineStarts: starts}
}

// line returns the 1-based line holding offset.
func (s *source) line(offset int) int {
	lo, hi := 0, len(s.lineStarts)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.lineStarts[mid] <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// inCode reports whether a keyword starting at offset begins in code and is
// not a property access or the tail of a longer identifier.
func (s *source) inCode(offset int) bool {
	if offset < 0 || offset >= len(s.class) || s.class[offset] != classCode {
		return false
	}
	if offset == 0 {
		return true
	}
	prev := s.text[offset-1]
	return !isIdentByte(prev) && prev != '.'
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// regexPrev lists the code bytes after which a '/' starts a regular
// expression literal rather than a division.
const regexPrev = "(,=:[!&|?{};+-*%<>~^"

// mask classifies every byte of src as code, comment or string, tracking
// block comments, string literals and nested template literals across
// lines. The returned text has comment bytes replaced by spaces.
func mask(src []byte) ([]byte, []byte) {
	text := make([]byte, len(src))
	copy(text, src)
	class := make([]byte, len(src))

	const (
		modeCode = iota
		modeTemplate
	)
	mode := modeCode
	// Brace depth inside each open ${ } substitution.
	var templates []int
	var prev byte

	blank := func(from, to int) {
		for k := from; k < to; k++ {
			class[k] = classComment
			if text[k] != '\n' {
				text[k] = ' '
			}
		}
	}
	str := func(from, to int) {
		for k := from; k < to; k++ {
			class[k] = classString
		}
	}

	i := 0
	for i < len(src) {
		c := src[i]

		if mode == modeTemplate {
			switch {
			case c == '\\':
				str(i, min(i+2, len(src)))
				i += 2
			case c == '`':
				str(i, i+1)
				i++
				mode = modeCode
				prev = '`'
			case c == '$' && i+1 < len(src) && src[i+1] == '{':
				str(i, i+2)
				i += 2
				templates = append(templates, 0)
				mode = modeCode
				prev = '{'
			default:
				str(i, i+1)
				i++
			}
			continue
		}

		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			end := i
			for end < len(src) && src[end] != '\n' {
				end++
			}
			blank(i, end)
			i = end

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := i + 2
			for end < len(src) && !(src[end] == '*' && end+1 < len(src) && src[end+1] == '/') {
				end++
			}
			end = min(end+2, len(src))
			blank(i, end)
			i = end

		case c == '\'' || c == '"':
			end := i + 1
			for end < len(src) && src[end] != c && src[end] != '\n' {
				if src[end] == '\\' {
					end++
				}
				end++
			}
			if end < len(src) && src[end] == c {
				end++
			}
			end = min(end, len(src))
			str(i, end)
			i = end
			prev = c

		case c == '`':
			str(i, i+1)
			i++
			mode = modeTemplate

		case c == '/' && (prev == 0 || strings.IndexByte(regexPrev, prev) >= 0):
			end := scanRegex(src, i)
			str(i, end)
			i = end
			prev = '/'

		default:
			switch c {
			case '{':
				if n := len(templates); n > 0 {
					templates[n-1]++
				}
			case '}':
				if n := len(templates); n > 0 {
					if templates[n-1] == 0 {
						templates = templates[:n-1]
						str(i, i+1)
						i++
						mode = modeTemplate
						continue
					}
					templates[n-1]--
				}
			}
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				prev = c
			}
			i++
		}
	}
	return text, class
}

// scanRegex returns the offset just past a regular expression literal
// starting at i. An unterminated literal ends at the newline.
func scanRegex(src []byte, i int) int {
	inClass := false
	j := i + 1
	for j < len(src) && src[j] != '\n' {
		switch src[j] {
		case '\\':
			j++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				return j + 1
			}
		}
		j++
	}
	return min(j, len(src))
}
