package classification

import (
	"testing"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

func TestDeterminePriority(t *testing.T) {
	cases := map[string]domain.Priority{
		"URGENT: please review the attached":   domain.PriorityHigh,
		"Important notice for all staff":       domain.PriorityMedium,
		"Routine weekly status":                domain.PriorityLow,
		"For your attention, this is CRITICAL": domain.PriorityHigh,
		"":                                     domain.PriorityLow,
	}
	for text, want := range cases {
		if got := DeterminePriority(text); got != want {
			t.Fatalf("DeterminePriority(%q) = %s, want %s", text, got, want)
		}
		if again := DeterminePriority(text); again != want {
			t.Fatalf("DeterminePriority(%q) is not stable: %s then %s", text, want, again)
		}
	}
}
