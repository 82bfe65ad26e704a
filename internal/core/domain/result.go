package domain

import "time"

// Analysis holds the classification engine's decisions for one text.
type Analysis struct {
	DocumentType DocumentType
	Department   Department
	Summary      string
	KeyPoints    []string
	ActionItems  []string
	Deadline     *string
	Priority     Priority
}

// ClassificationResult is the output of one processing pass over a document.
// It is built once by the assembler and never mutated afterwards.
type ClassificationResult struct {
	File              SourceFile     `json:"file"`
	ProcessedFilename string         `json:"processed_filename"`
	DocumentType      DocumentType   `json:"document_type"`
	Department        Department     `json:"department"`
	Summary           string         `json:"summary"`
	KeyPoints         []string       `json:"key_points"`
	ActionItems       []string       `json:"action_items"`
	Deadline          *string        `json:"deadline,omitempty"`
	Priority          Priority       `json:"priority"`
	Metadata          map[string]any `json:"metadata"`
	RawExcerpt        string         `json:"raw_excerpt"`
	ProcessedAt       time.Time      `json:"processed_at"`
}

func (r ClassificationResult) HasDeadline() bool {
	return r.Deadline != nil
}

// BatchFailure records a file that could not be processed within a batch.
type BatchFailure struct {
	File   SourceFile `json:"file"`
	Reason string     `json:"reason"`
}

// BatchOutcome groups successful results by department. ByDepartment always
// holds a key for every department.
type BatchOutcome struct {
	ByDepartment map[Department][]ClassificationResult `json:"by_department"`
	Failures     []BatchFailure                        `json:"failures"`
}

func NewBatchOutcome() *BatchOutcome {
	byDept := make(map[Department][]ClassificationResult, len(departments))
	for _, d := range departments {
		byDept[d] = []ClassificationResult{}
	}
	return &BatchOutcome{
		ByDepartment: byDept,
		Failures:     []BatchFailure{},
	}
}

func (o *BatchOutcome) Add(result ClassificationResult) {
	o.ByDepartment[result.Department] = append(o.ByDepartment[result.Department], result)
}

func (o *BatchOutcome) Fail(file SourceFile, reason string) {
	o.Failures = append(o.Failures, BatchFailure{File: file, Reason: reason})
}

// Processed counts successful results across all departments.
func (o *BatchOutcome) Processed() int {
	total := 0
	for _, results := range o.ByDepartment {
		total += len(results)
	}
	return total
}
