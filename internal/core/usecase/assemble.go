package usecase

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

const (
	rawExcerptRunes     = 1000
	processedTimeLayout = "20060102_150405"
	suffixLength        = 8
)

// ResultAssembler packages an analysis into a ClassificationResult with a
// canonical archival filename and a flat metadata map.
type ResultAssembler struct {
	now    func() time.Time
	suffix func() string
}

// NewResultAssembler returns an assembler. Nil now and suffix fall back to
// the wall clock and the first eight hex characters of a random UUID.
func NewResultAssembler(now func() time.Time, suffix func() string) *ResultAssembler {
	if now == nil {
		now = time.Now
	}
	if suffix == nil {
		suffix = randomSuffix
	}
	return &ResultAssembler{now: now, suffix: suffix}
}

func (a *ResultAssembler) Assemble(file domain.SourceFile, text string, analysis domain.Analysis) domain.ClassificationResult {
	processedAt := a.now()
	original := originalName(file)

	keyPoints := cloneStrings(analysis.KeyPoints)
	actionItems := cloneStrings(analysis.ActionItems)
	var deadline *string
	if analysis.Deadline != nil {
		value := *analysis.Deadline
		deadline = &value
	}

	return domain.ClassificationResult{
		File:              file,
		ProcessedFilename: ProcessedFilename(analysis.Department, processedAt, a.suffix(), original),
		DocumentType:      analysis.DocumentType,
		Department:        analysis.Department,
		Summary:           analysis.Summary,
		KeyPoints:         keyPoints,
		ActionItems:       actionItems,
		Deadline:          deadline,
		Priority:          analysis.Priority,
		Metadata: map[string]any{
			"original_filename":  original,
			"processed_date":     processedAt.Format(time.RFC3339),
			"document_type":      string(analysis.DocumentType),
			"department":         string(analysis.Department),
			"text_length":        utf8.RuneCountInString(text),
			"priority":           string(analysis.Priority),
			"has_deadline":       deadline != nil,
			"key_points_count":   len(keyPoints),
			"action_items_count": len(actionItems),
		},
		RawExcerpt:  excerpt(text, rawExcerptRunes),
		ProcessedAt: processedAt,
	}
}

// ProcessedFilename builds "{department}_{YYYYMMDD_HHMMSS}_{suffix}_{original}".
func ProcessedFilename(dept domain.Department, at time.Time, suffix, original string) string {
	return fmt.Sprintf("%s_%s_%s_%s", dept, at.Format(processedTimeLayout), suffix, original)
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLength]
}

func originalName(file domain.SourceFile) string {
	if file.OriginalFilename != "" {
		return filepath.Base(file.OriginalFilename)
	}
	return filepath.Base(file.Key)
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func excerpt(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
