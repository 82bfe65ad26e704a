package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

// Extractor reads source files from object storage. It fails only when the
// file cannot be read at all.
type Extractor struct {
	storage ports.ObjectStorage
	logger  *slog.Logger
}

func NewExtractor(storage ports.ObjectStorage, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{storage: storage, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, file domain.SourceFile) (string, error) {
	reader, err := e.storage.Open(ctx, file.Key)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}

	text, degraded := Extract(file.Extension(), raw)
	if degraded != nil {
		e.logger.Warn("extraction_degraded",
			"key", file.Key,
			"extension", file.Extension(),
			"error", domain.WrapError(domain.ErrExtractionDegraded, "extract text", degraded),
		)
	}
	return text, nil
}
