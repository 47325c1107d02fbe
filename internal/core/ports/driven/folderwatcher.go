package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// FolderWatcher reports uploadable files in a local directory.
type FolderWatcher interface {
	// Scan returns the uploadable files currently in the directory.
	Scan() ([]string, error)

	// Watch emits the path of each uploadable file once it stops changing.
	// The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan string, error)

	// Read loads uploadable paths into memory. Paths that are not
	// uploadable are returned as skipped.
	Read(paths []string) (files []domain.UploadFile, skipped []string, err error)

	// Close releases the underlying watcher. Safe to call more than once.
	Close() error
}
