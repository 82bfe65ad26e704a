package classification

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

// RouteDepartment asks the completion service for the owning department and
// falls back to the static routing table for docType.
func (e *Engine) RouteDepartment(ctx context.Context, docType domain.DocumentType, text string) domain.Department {
	raw, err := e.complete(ctx, StepDepartment, ports.CompletionRequest{
		Prompt:    buildDepartmentPrompt(docType, text),
		System:    routingSystemPrompt,
		MaxTokens: departmentMaxTokens,
	})
	if err == nil {
		var dept domain.Department
		if dept, err = e.parseDepartment(raw); err == nil {
			e.record(StepDepartment, nil)
			return dept
		}
	}
	e.record(StepDepartment, err)
	return domain.DefaultDepartment(docType)
}

func (e *Engine) parseDepartment(raw string) (domain.Department, error) {
	var payload struct {
		Department string `json:"department"`
	}
	if err := decodeValidated(raw, e.schemas.department, &payload); err != nil {
		return "", err
	}
	dept, ok := domain.ParseDepartment(strings.ToLower(payload.Department))
	if !ok {
		return "", domain.WrapError(domain.ErrMalformedCompletion, "parse department",
			fmt.Errorf("unknown department %q", payload.Department))
	}
	return dept, nil
}
