package jsonpath

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

// Format renders p in bracket notation: "$" for the root, otherwise
// "$[seg1][seg2]..." with indices unquoted and keys double-quoted.
// Format is total: every path has exactly one rendering.
func Format(p Path) string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p {
		b.WriteByte('[')
		b.WriteString(s.String())
		b.WriteByte(']')
	}
	return b.String()
}

// quote renders a key as a JSON string literal without HTML escaping, so
// ordinary keys render exactly as "key".
func quote(key string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return strconv.Quote(key)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Parse reads bracket notation produced by [Format].
// Whitespace is not permitted between brackets.
func Parse(s string) (Path, error) {
	if !strings.HasPrefix(s, "$") {
		return nil, errs.New(errs.ErrCodeInvalidPath, "path must start with $: %q", s)
	}
	rest := s[1:]
	p := Path{}
	for len(rest) > 0 {
		if rest[0] != '[' {
			return nil, errs.New(errs.ErrCodeInvalidPath, "expected [ at %q", rest)
		}
		rest = rest[1:]

		var seg Segment
		if strings.HasPrefix(rest, `"`) {
			end := closingQuote(rest)
			if end < 0 {
				return nil, errs.New(errs.ErrCodeInvalidPath, "unterminated key in %q", s)
			}
			var key string
			if err := json.Unmarshal([]byte(rest[:end+1]), &key); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "invalid key in %q", s)
			}
			seg = Key(key)
			rest = rest[end+1:]
		} else {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, errs.New(errs.ErrCodeInvalidPath, "unterminated index in %q", s)
			}
			n, err := strconv.Atoi(rest[:end])
			if err != nil || n < 0 || strings.HasPrefix(rest[:end], "+") {
				return nil, errs.New(errs.ErrCodeInvalidPath, "invalid index %q in %q", rest[:end], s)
			}
			seg = Index(n)
			rest = rest[end:]
		}

		if !strings.HasPrefix(rest, "]") {
			return nil, errs.New(errs.ErrCodeInvalidPath, "expected ] in %q", s)
		}
		rest = rest[1:]
		p = append(p, seg)
	}
	return p, nil
}

// closingQuote returns the index of the quote ending the JSON string that
// starts at s[0], or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// Pointer renders p as an RFC 6901 JSON pointer ("" for the root).
func Pointer(p Path) string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		if s.isIndex {
			b.WriteString(strconv.Itoa(s.index))
			continue
		}
		b.WriteString(pointerEscaper.Replace(s.key))
	}
	return b.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")
