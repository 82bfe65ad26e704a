package classification

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

var (
	errNoJSONObject         = errors.New("no json object in completion")
	errUnterminatedJSONBody = errors.New("unterminated json object in completion")
)

// ExtractJSONObject returns the first balanced top-level JSON object in raw,
// ignoring any prose before or after it. Braces inside string literals do
// not count towards nesting.
func ExtractJSONObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", errNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}
	return "", errUnterminatedJSONBody
}

// DecodeJSONObject extracts the first JSON object from raw and decodes it
// into out. Every failure is reported as domain.ErrMalformedCompletion.
func DecodeJSONObject(raw string, out any) error {
	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return domain.WrapError(domain.ErrMalformedCompletion, "extract json object", err)
	}
	if err := json.Unmarshal([]byte(obj), out); err != nil {
		return domain.WrapError(domain.ErrMalformedCompletion, "decode json object", err)
	}
	return nil
}
