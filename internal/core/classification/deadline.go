package classification

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	deadlineScanRunes    = 1000
	deadlineKeywordRunes = 100
)

// Tried in order; the first pattern with any match wins, not the earliest
// match in the text.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}`),
	regexp.MustCompile(`\d{2}-\d{2}-\d{4}`),
	regexp.MustCompile(`(?i)(?:january|february|march|april|may|june|july|august|september|october|november|december)[\s\p{Zs}]+\d{1,2},[\s\p{Zs}]+\d{4}`),
}

var deadlineKeywords = []string{"due by", "deadline", "submit by", "complete by", "by"}

// ExtractDeadline looks for a date in the opening of the text, then in the
// window after the first deadline keyword that has one. It is a pure
// function of its input.
func ExtractDeadline(text string) (string, bool) {
	if found, ok := firstDate(runePrefix(text, deadlineScanRunes)); ok {
		return found, true
	}

	// Per-rune lowering keeps rune offsets aligned with text.
	lowered := strings.Map(unicode.ToLower, text)
	for _, kw := range deadlineKeywords {
		idx := strings.Index(lowered, kw)
		if idx < 0 {
			continue
		}
		start := utf8.RuneCountInString(lowered[:idx])
		window := runePrefix(runeSuffix(text, start), deadlineKeywordRunes)
		if found, ok := firstDate(window); ok {
			return found, true
		}
	}
	return "", false
}

func firstDate(s string) (string, bool) {
	for _, pattern := range datePatterns {
		if match := pattern.FindString(s); match != "" {
			return match, true
		}
	}
	return "", false
}

// runeSuffix drops the first n runes of s.
func runeSuffix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[i:]
		}
		count++
	}
	return ""
}
