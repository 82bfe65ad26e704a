package classification

import (
	"errors"
	"testing"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`},
		{"prose around", "Sure! {\"key_points\": [\"A\", \"B\"]} Hope that helps.", `{"key_points": ["A", "B"]}`},
		{"nested", `x {"a": {"b": {}}} y {"c": 2}`, `{"a": {"b": {}}}`},
		{"braces in strings", `{"text": "a } and { b", "q": "\"}"}`, `{"text": "a } and { b", "q": "\"}"}`},
	}
	for _, tc := range cases {
		got, err := ExtractJSONObject(tc.raw)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestExtractJSONObjectErrors(t *testing.T) {
	if _, err := ExtractJSONObject("no object here"); !errors.Is(err, errNoJSONObject) {
		t.Fatalf("expected errNoJSONObject, got %v", err)
	}
	if _, err := ExtractJSONObject(`{"a": [1, 2`); !errors.Is(err, errUnterminatedJSONBody) {
		t.Fatalf("expected errUnterminatedJSONBody, got %v", err)
	}
}

func TestDecodeJSONObjectReportsMalformed(t *testing.T) {
	var out map[string]any
	err := DecodeJSONObject(`{"a": nope}`, &out)
	if !domain.IsKind(err, domain.ErrMalformedCompletion) {
		t.Fatalf("expected ErrMalformedCompletion, got %v", err)
	}

	if err := DecodeJSONObject(`result: {"a": "b"}`, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["a"] != "b" {
		t.Fatalf("unexpected decode result: %#v", out)
	}
}
