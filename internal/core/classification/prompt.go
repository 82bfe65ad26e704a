package classification

import (
	"fmt"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

const (
	typeExcerptRunes       = 2000
	departmentExcerptRunes = 1500
	summaryExcerptRunes    = 3000
	listExcerptRunes       = 2000

	typeMaxTokens       = 50
	departmentMaxTokens = 100
	summaryMaxTokens    = 400
	listMaxTokens       = 300
)

const (
	routingSystemPrompt  = "You are a document routing assistant. Always respond with valid JSON."
	analysisSystemPrompt = "You are a document analysis assistant. Always respond with valid JSON."
)

func buildTypePrompt(text string) string {
	return fmt.Sprintf(`Analyze the following document text and classify it as exactly one of these types:
- invoice (bills, payments, financial transactions)
- technical_documentation (engineering specs, designs, technical reports)
- project_timeline (schedules, milestones, deadlines)
- safety_report (safety incidents, hazard reports, risk assessments)
- compliance_document (regulatory compliance, audits, certifications)
- hr_document (employee records, contracts, policies, training)
- engineering_report (structural analysis, maintenance reports, engineering studies)
- operations_manual (operating procedures, manuals, guidelines)
- procurement_order (purchase orders, procurement documents, vendor contracts)
- administrative (administrative memos, general correspondence, meeting minutes)

Return ONLY the type name from the list above.

Document text: %s

Document type:
`, runePrefix(text, typeExcerptRunes))
}

func buildDepartmentPrompt(docType domain.DocumentType, text string) string {
	return fmt.Sprintf(`DETERMINE DEPARTMENT FOR DOCUMENT:

Document type: %s
Document excerpt: %s

Which department should handle this document? Choose from:
engineering, operations, procurement, hr, safety, compliance, admin, finance, management

Return your response in this EXACT JSON format:
{"department": "engineering"}

Return ONLY the JSON, nothing else.
`, docType, runePrefix(text, departmentExcerptRunes))
}

func buildSummaryPrompt(docType domain.DocumentType, text string) string {
	return fmt.Sprintf(`Create a comprehensive summary of this %s document.
Focus on the most important information for department staff.
Keep the summary concise but informative (2-3 paragraphs).

Document: %s

Summary:
`, docType, runePrefix(text, summaryExcerptRunes))
}

func buildKeyPointsPrompt(text string) string {
	return fmt.Sprintf(`Extract 3-5 key points from this document.
Each point should be concise and actionable.

Document: %s

Return your response in this EXACT JSON format:
{"key_points": ["Point 1", "Point 2", "Point 3"]}

Return ONLY the JSON, nothing else.
`, runePrefix(text, listExcerptRunes))
}

func buildActionItemsPrompt(text string) string {
	return fmt.Sprintf(`Extract action items from this document.
Focus on tasks that need to be completed.

Document: %s

Return your response in this EXACT JSON format:
{"action_items": ["Action 1", "Action 2", "Action 3"]}

Return ONLY the JSON, nothing else.
`, runePrefix(text, listExcerptRunes))
}

// runePrefix returns at most n runes from the start of s.
func runePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
