package classification

import (
	"strings"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

var (
	highPriorityKeywords   = []string{"urgent", "emergency", "critical", "immediate", "asap", "high priority"}
	mediumPriorityKeywords = []string{"important", "attention", "review", "consider", "medium priority"}
)

// DeterminePriority is a three-tier keyword classifier: any high keyword
// beats any medium keyword, and low is the default.
func DeterminePriority(text string) domain.Priority {
	lowered := strings.ToLower(text)
	switch {
	case containsAny(lowered, highPriorityKeywords):
		return domain.PriorityHigh
	case containsAny(lowered, mediumPriorityKeywords):
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
