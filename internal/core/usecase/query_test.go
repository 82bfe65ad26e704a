package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

type queryRepoFake struct {
	processRepoFake
	listDept  domain.Department
	listLimit int
	docs      []domain.Document
	counts    map[domain.Department]int
	err       error
}

func (f *queryRepoFake) ListByDepartment(_ context.Context, dept domain.Department, limit int) ([]domain.Document, error) {
	f.listDept = dept
	f.listLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func (f *queryRepoFake) CountByDepartment(context.Context) (map[domain.Department]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

func TestListByDepartmentNormalizesLimit(t *testing.T) {
	cases := []struct {
		limit int
		want  int
	}{
		{0, defaultListLimit},
		{-3, defaultListLimit},
		{25, 25},
		{1000, maxListLimit},
	}
	for _, tc := range cases {
		repo := &queryRepoFake{docs: []domain.Document{{ID: "doc-1"}}}
		uc := NewDocumentQueryUseCase(repo)

		docs, err := uc.ListByDepartment(context.Background(), " Safety ", tc.limit)
		if err != nil {
			t.Fatalf("ListByDepartment() error = %v", err)
		}
		if len(docs) != 1 || repo.listDept != domain.DeptSafety {
			t.Fatalf("unexpected list call dept=%s docs=%+v", repo.listDept, docs)
		}
		if repo.listLimit != tc.want {
			t.Fatalf("limit %d: expected repo limit %d, got %d", tc.limit, tc.want, repo.listLimit)
		}
	}
}

func TestListByDepartmentRejectsUnknownDepartment(t *testing.T) {
	uc := NewDocumentQueryUseCase(&queryRepoFake{})

	_, err := uc.ListByDepartment(context.Background(), "legal", 10)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDepartmentCountsFillsEveryDepartment(t *testing.T) {
	repo := &queryRepoFake{counts: map[domain.Department]int{domain.DeptFinance: 3}}
	uc := NewDocumentQueryUseCase(repo)

	counts, err := uc.DepartmentCounts(context.Background())
	if err != nil {
		t.Fatalf("DepartmentCounts() error = %v", err)
	}
	if len(counts) != len(domain.AllDepartments()) {
		t.Fatalf("expected every department, got %+v", counts)
	}
	if counts[domain.DeptFinance] != 3 || counts[domain.DeptHR] != 0 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestDepartmentCountsWrapsRepositoryError(t *testing.T) {
	uc := NewDocumentQueryUseCase(&queryRepoFake{err: domain.WrapError(domain.ErrTemporary, "count", errors.New("timeout"))})

	if _, err := uc.DepartmentCounts(context.Background()); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
}

func TestGetByIDRequiresID(t *testing.T) {
	uc := NewDocumentQueryUseCase(&queryRepoFake{})

	if _, err := uc.GetByID(context.Background(), "  "); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
