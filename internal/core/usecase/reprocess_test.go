package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

type reprocessQueueFake struct {
	published []string
	fail      map[string]error
}

func (f *reprocessQueueFake) PublishDocumentUploaded(_ context.Context, documentID string) error {
	if err := f.fail[documentID]; err != nil {
		return err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *reprocessQueueFake) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

func TestReprocessRequeuesAndPublishes(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1", Status: domain.StatusUploaded}}
	queue := &reprocessQueueFake{}
	uc := NewReprocessDocumentUseCase(repo, queue, nil)

	doc, err := uc.Reprocess(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Reprocess() error = %v", err)
	}
	if doc.ID != "doc-1" || doc.Status != domain.StatusUploaded {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if len(repo.requeued) != 1 || repo.requeued[0] != "doc-1" {
		t.Fatalf("expected repo requeue for doc-1, got %v", repo.requeued)
	}
	if len(queue.published) != 1 || queue.published[0] != "doc-1" {
		t.Fatalf("expected publish for doc-1, got %v", queue.published)
	}
}

func TestReprocessRejectsProcessedDocument(t *testing.T) {
	conflict := domain.WrapError(domain.ErrConflict, "requeue document", errors.New("document doc-1 is processed"))
	repo := &processRepoFake{requeueErr: map[string]error{"doc-1": conflict}}
	queue := &reprocessQueueFake{}
	uc := NewReprocessDocumentUseCase(repo, queue, nil)

	_, err := uc.Reprocess(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(queue.published) != 0 {
		t.Fatalf("conflicting document must not be published, got %v", queue.published)
	}
}

func TestReprocessRequiresID(t *testing.T) {
	uc := NewReprocessDocumentUseCase(&processRepoFake{}, &reprocessQueueFake{}, nil)
	if _, err := uc.Reprocess(context.Background(), "  "); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestReprocessReportsPublishFailure(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1"}}
	queue := &reprocessQueueFake{fail: map[string]error{"doc-1": domain.ErrTemporary}}
	uc := NewReprocessDocumentUseCase(repo, queue, nil)

	if _, err := uc.Reprocess(context.Background(), "doc-1"); !errors.Is(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}

func TestRequeueFailedSkipsConflictsAndJoinsErrors(t *testing.T) {
	repo := &processRepoFake{
		byStatus: []domain.Document{
			{ID: "a", Status: domain.StatusFailed},
			{ID: "b", Status: domain.StatusFailed},
			{ID: "c", Status: domain.StatusFailed},
			{ID: "d", Status: domain.StatusFailed},
			{ID: "e", Status: domain.StatusProcessed},
		},
		requeueErr: map[string]error{
			"b": domain.WrapError(domain.ErrConflict, "requeue document", fmt.Errorf("document b is %s", domain.StatusPendingProcessing)),
		},
	}
	queue := &reprocessQueueFake{fail: map[string]error{"d": errors.New("nats down")}}
	uc := NewReprocessDocumentUseCase(repo, queue, nil)

	n, err := uc.RequeueFailed(context.Background(), 10)
	if n != 2 {
		t.Fatalf("expected 2 requeued, got %d", n)
	}
	if err == nil || domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("expected joined publish error without conflict, got %v", err)
	}
	if got := fmt.Sprint(queue.published); got != "[a c]" {
		t.Fatalf("unexpected published ids: %s", got)
	}
}

func TestRequeueFailedClampsLimit(t *testing.T) {
	var docs []domain.Document
	for i := 0; i < maxListLimit+5; i++ {
		docs = append(docs, domain.Document{ID: fmt.Sprintf("doc-%d", i), Status: domain.StatusFailed})
	}
	repo := &processRepoFake{byStatus: docs}
	queue := &reprocessQueueFake{}
	uc := NewReprocessDocumentUseCase(repo, queue, nil)

	n, err := uc.RequeueFailed(context.Background(), 0)
	if err != nil {
		t.Fatalf("RequeueFailed() error = %v", err)
	}
	if n != defaultListLimit {
		t.Fatalf("expected default limit %d, got %d", defaultListLimit, n)
	}

	n, err = uc.RequeueFailed(context.Background(), 10_000)
	if err != nil {
		t.Fatalf("RequeueFailed() error = %v", err)
	}
	if n != maxListLimit {
		t.Fatalf("expected max limit %d, got %d", maxListLimit, n)
	}
}

func TestRequeueFailedListError(t *testing.T) {
	repo := &processRepoFake{listErr: domain.ErrTemporary}
	uc := NewReprocessDocumentUseCase(repo, &reprocessQueueFake{}, nil)
	if _, err := uc.RequeueFailed(context.Background(), 5); !errors.Is(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}
