package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// SyncReport describes one upload attempted by a FolderSync.
type SyncReport struct {
	// Paths are the files that were read and sent.
	Paths []string

	// Skipped are paths that were not uploadable.
	Skipped []string

	Result *domain.UploadResult
	Err    error
}

// FolderSync uploads files that appear in a watched folder.
type FolderSync struct {
	dashboard driving.Dashboard
	watcher   driven.FolderWatcher
	strategy  domain.Strategy
}

// NewFolderSync creates a folder sync. An empty strategy uses the
// dashboard's default upload strategy.
func NewFolderSync(dashboard driving.Dashboard, watcher driven.FolderWatcher, strategy domain.Strategy) *FolderSync {
	return &FolderSync{
		dashboard: dashboard,
		watcher:   watcher,
		strategy:  strategy,
	}
}

// Run uploads each file the watcher reports until ctx is cancelled.
// With includeExisting, files already in the folder are uploaded first
// as a single batch. report is called after every attempt.
func (s *FolderSync) Run(ctx context.Context, includeExisting bool, report func(SyncReport)) error {
	if report == nil {
		report = func(SyncReport) {}
	}

	if includeExisting {
		paths, err := s.watcher.Scan()
		if err != nil {
			return fmt.Errorf("scan folder: %w", err)
		}
		if len(paths) > 0 {
			report(s.upload(ctx, paths))
		}
	}

	changes, err := s.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch folder: %w", err)
	}
	for path := range changes {
		report(s.upload(ctx, []string{path}))
	}
	return nil
}

func (s *FolderSync) upload(ctx context.Context, paths []string) SyncReport {
	files, skipped, err := s.watcher.Read(paths)
	if err != nil {
		logger.Warn("folder sync: %v", err)
		return SyncReport{Skipped: skipped, Err: err}
	}

	sent := make([]string, 0, len(files))
	for _, p := range paths {
		if !contains(skipped, p) {
			sent = append(sent, p)
		}
	}
	if len(files) == 0 {
		return SyncReport{Skipped: skipped}
	}

	logger.Debug("folder sync: uploading %d files", len(files))
	result, err := s.dashboard.Upload(ctx, files, s.strategy)
	if err != nil {
		logger.Warn("folder sync: upload %s: %v", filepath.Base(sent[0]), err)
	}
	return SyncReport{Paths: sent, Skipped: skipped, Result: result, Err: err}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
