package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBatchRunSkipsFailedItem(t *testing.T) {
	files := []domain.SourceFile{
		{Key: "a.txt", OriginalFilename: "a.txt"},
		{Key: "b.pdf", OriginalFilename: "b.pdf"},
		{Key: "c.txt", OriginalFilename: "c.txt"},
	}
	extractor := &extractorFake{
		texts: map[string]string{"a.txt": "invoice text", "c.txt": "hazard text"},
		fail:  map[string]error{"b.pdf": errors.New("permission denied")},
	}
	analyzer := &analyzerFake{byText: map[string]domain.Analysis{
		"invoice text": {DocumentType: domain.TypeInvoice, Department: domain.DeptFinance, Priority: domain.PriorityLow},
		"hazard text":  safetyAnalysis(),
	}}
	observer := &observerFake{}
	coordinator := NewBatchCoordinator(extractor, analyzer, fixedAssembler(), BatchOptions{Logger: quietLogger(), Observer: observer})

	outcome, err := coordinator.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome.Processed() != 2 {
		t.Fatalf("expected 2 results, got %d", outcome.Processed())
	}
	if len(outcome.Failures) != 1 || outcome.Failures[0].File.Key != "b.pdf" {
		t.Fatalf("expected one failure for b.pdf, got %+v", outcome.Failures)
	}
	if !strings.Contains(outcome.Failures[0].Reason, "permission denied") {
		t.Fatalf("expected failure reason, got %q", outcome.Failures[0].Reason)
	}
	if len(outcome.ByDepartment[domain.DeptFinance]) != 1 || len(outcome.ByDepartment[domain.DeptSafety]) != 1 {
		t.Fatalf("unexpected grouping %+v", outcome.ByDepartment)
	}
	if len(outcome.ByDepartment) != len(domain.AllDepartments()) {
		t.Fatalf("expected a key for every department, got %d", len(outcome.ByDepartment))
	}
	if len(observer.results) != 2 {
		t.Fatalf("expected 2 observed results, got %d", len(observer.results))
	}
}

func TestBatchRunRecoversPanics(t *testing.T) {
	files := []domain.SourceFile{{Key: "ok.txt"}, {Key: "bad.docx"}}
	extractor := &extractorFake{text: "text", panic: map[string]bool{"bad.docx": true}}
	coordinator := NewBatchCoordinator(extractor, &analyzerFake{analysis: safetyAnalysis()}, fixedAssembler(), BatchOptions{Logger: quietLogger()})

	outcome, err := coordinator.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome.Processed() != 1 || len(outcome.Failures) != 1 {
		t.Fatalf("expected one result and one failure, got %d/%d", outcome.Processed(), len(outcome.Failures))
	}
	if !strings.Contains(outcome.Failures[0].Reason, "panic: corrupt container") {
		t.Fatalf("unexpected failure reason %q", outcome.Failures[0].Reason)
	}
}

func TestBatchRunKeepsInputOrderWithWorkers(t *testing.T) {
	var files []domain.SourceFile
	for i := 0; i < 40; i++ {
		files = append(files, domain.SourceFile{Key: fmt.Sprintf("f%02d.txt", i)})
	}
	coordinator := NewBatchCoordinator(
		&extractorFake{text: "text"},
		&analyzerFake{analysis: safetyAnalysis()},
		fixedAssembler(),
		BatchOptions{Workers: 8, Logger: quietLogger()},
	)

	outcome, err := coordinator.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	results := outcome.ByDepartment[domain.DeptSafety]
	if len(results) != len(files) {
		t.Fatalf("expected %d results, got %d", len(files), len(results))
	}
	for i, result := range results {
		if result.File.Key != files[i].Key {
			t.Fatalf("position %d holds %s, want %s", i, result.File.Key, files[i].Key)
		}
	}
}

func TestBatchRunEmptyInput(t *testing.T) {
	coordinator := NewBatchCoordinator(&extractorFake{}, &analyzerFake{}, fixedAssembler(), BatchOptions{Logger: quietLogger()})

	outcome, err := coordinator.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome.Processed() != 0 || len(outcome.Failures) != 0 {
		t.Fatalf("expected empty outcome, got %+v", outcome)
	}
}

func TestBatchRunAbortsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	coordinator := NewBatchCoordinator(&extractorFake{text: "text"}, &analyzerFake{}, fixedAssembler(), BatchOptions{Logger: quietLogger()})

	outcome, err := coordinator.Run(ctx, []domain.SourceFile{{Key: "a.txt"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if outcome != nil {
		t.Fatalf("expected no partial outcome")
	}
}
