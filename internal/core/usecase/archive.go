package usecase

import (
	"context"
	"fmt"
	"path"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

// ArchiveKey is the storage key of a result's archived copy.
func ArchiveKey(result domain.ClassificationResult) string {
	return path.Join(string(result.Department), result.ProcessedFilename)
}

// ArchiveResult copies the source file of result into its department folder.
func ArchiveResult(ctx context.Context, storage ports.ObjectStorage, result domain.ClassificationResult) (string, error) {
	key := ArchiveKey(result)
	if err := storage.Copy(ctx, result.File.Key, key); err != nil {
		return "", fmt.Errorf("archive %s to %s: %w", result.File.Key, key, err)
	}
	return key, nil
}
