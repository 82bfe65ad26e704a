package classification

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

const typeKeywordWindow = 5000

type keywordRule struct {
	docType  domain.DocumentType
	keywords []string
}

// Checked in order; the first rule with any keyword present wins.
var typeKeywordRules = []keywordRule{
	{domain.TypeInvoice, []string{"invoice", "bill", "payment", "amount due", "total:", "$", "purchase order"}},
	{domain.TypeTechnicalDoc, []string{"technical", "specification", "engineering", "design", "requirement", "structural"}},
	{domain.TypeProjectTimeline, []string{"timeline", "schedule", "milestone", "deadline", "gantt"}},
	{domain.TypeSafetyReport, []string{"safety", "incident", "hazard", "risk assessment", "accident"}},
	{domain.TypeComplianceDoc, []string{"compliance", "regulation", "standard", "audit", "certification"}},
	{domain.TypeHRDocument, []string{"employee", "hr", "human resources", "contract", "policy", "training"}},
}

var labelQuotes = strings.NewReplacer(`"`, "", "'", "")

// ClassifyType asks the completion service for a document type label and
// falls back to keyword rules when the label is missing or unrecognised.
func (e *Engine) ClassifyType(ctx context.Context, text string) domain.DocumentType {
	raw, err := e.complete(ctx, StepDocumentType, ports.CompletionRequest{
		Prompt:    buildTypePrompt(text),
		MaxTokens: typeMaxTokens,
	})
	if err == nil {
		if docType, ok := matchDocumentType(raw); ok {
			e.record(StepDocumentType, nil)
			return docType
		}
		err = domain.WrapError(domain.ErrMalformedCompletion, StepDocumentType,
			fmt.Errorf("unrecognised label %q", runePrefix(raw, 80)))
	}
	e.record(StepDocumentType, err)
	return ClassifyTypeByKeywords(text)
}

func matchDocumentType(raw string) (domain.DocumentType, bool) {
	label := labelQuotes.Replace(strings.ToLower(strings.TrimSpace(raw)))
	if docType, ok := domain.ParseDocumentType(label); ok {
		return docType, true
	}
	for _, docType := range domain.AllDocumentTypes() {
		if strings.Contains(label, string(docType)) {
			return docType, true
		}
	}
	return "", false
}

// ClassifyTypeByKeywords scans the opening of the text for domain vocabulary.
func ClassifyTypeByKeywords(text string) domain.DocumentType {
	lowered := strings.ToLower(runePrefix(text, typeKeywordWindow))
	for _, rule := range typeKeywordRules {
		if containsAny(lowered, rule.keywords) {
			return rule.docType
		}
	}
	return domain.TypeUnknown
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
