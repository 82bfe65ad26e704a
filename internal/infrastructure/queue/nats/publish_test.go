package nats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

func TestClassifyPublishError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
		record    bool
	}{
		{"canceled", context.Canceled, false, false},
		{"no servers", fmt.Errorf("connect: %w", nats.ErrNoServers), true, true},
		{"reconnecting", nats.ErrConnectionReconnecting, true, true},
		{"reconnect buffer", nats.ErrReconnectBufExceeded, true, true},
		{"breaker open", gobreaker.ErrOpenState, false, true},
		{"bad subject", nats.ErrBadSubject, false, false},
		{"payload too large", nats.ErrMaxPayload, false, false},
		{"draining", nats.ErrConnectionDraining, false, false},
		{"authorization", nats.ErrAuthorization, false, true},
	}
	for _, tc := range cases {
		got := classifyPublishError(tc.err)
		if got.Retryable != tc.retryable || got.RecordFailure != tc.record {
			t.Fatalf("%s: classifyPublishError() = %+v", tc.name, got)
		}
	}
}

func TestPublishErrorKinds(t *testing.T) {
	err := publishError("doc-1", nats.ErrConnectionClosed)
	if !domain.IsKind(err, domain.ErrTemporary) || !strings.Contains(err.Error(), "doc-1") {
		t.Fatalf("expected ErrTemporary naming the document, got %v", err)
	}
	if err := publishError("doc-1", gobreaker.ErrOpenState); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary for open breaker, got %v", err)
	}
	if err := publishError("doc-1", nats.ErrMaxPayload); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized event, got %v", err)
	}

	permanent := errors.New("authorization violation")
	err = publishError("doc-1", permanent)
	if domain.IsKind(err, domain.ErrTemporary) || !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error kept, got %v", err)
	}
	if publishError("doc-1", nil) != nil {
		t.Fatalf("expected nil for successful publish")
	}
}

func TestPublishRejectsEmptyDocumentID(t *testing.T) {
	q := &Queue{subject: "documents.uploaded"}
	if err := q.PublishDocumentUploaded(context.Background(), " "); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
