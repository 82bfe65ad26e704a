package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type DocumentQueryUseCase struct {
	repo ports.DocumentRepository
}

func NewDocumentQueryUseCase(repo ports.DocumentRepository) *DocumentQueryUseCase {
	return &DocumentQueryUseCase{repo: repo}
}

func (uc *DocumentQueryUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get document", errors.New("document id is required"))
	}
	return uc.repo.GetByID(ctx, id)
}

// ListByDepartment returns processed documents routed to dept, newest first.
func (uc *DocumentQueryUseCase) ListByDepartment(ctx context.Context, dept string, limit int) ([]domain.Document, error) {
	department, ok := domain.ParseDepartment(strings.ToLower(strings.TrimSpace(dept)))
	if !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list documents", fmt.Errorf("unknown department %q", dept))
	}
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	docs, err := uc.repo.ListByDepartment(ctx, department, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents by department: %w", err)
	}
	return docs, nil
}

// DepartmentCounts reports processed documents per department, with a zero
// entry for every department that has none.
func (uc *DocumentQueryUseCase) DepartmentCounts(ctx context.Context) (map[domain.Department]int, error) {
	counts, err := uc.repo.CountByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents by department: %w", err)
	}
	out := make(map[domain.Department]int, len(domain.AllDepartments()))
	for _, dept := range domain.AllDepartments() {
		out[dept] = counts[dept]
	}
	return out, nil
}
