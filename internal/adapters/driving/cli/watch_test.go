package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// fakeWatcher reports a fixed set of existing files and changes.
type fakeWatcher struct {
	existing []string
	changes  []string
	watchErr error
	closed   bool
}

func (w *fakeWatcher) Scan() ([]string, error) {
	return w.existing, nil
}

func (w *fakeWatcher) Watch(_ context.Context) (<-chan string, error) {
	if w.watchErr != nil {
		return nil, w.watchErr
	}
	ch := make(chan string, len(w.changes))
	for _, p := range w.changes {
		ch <- p
	}
	close(ch)
	return ch, nil
}

func (w *fakeWatcher) Read(paths []string) ([]domain.UploadFile, []string, error) {
	return filesystem.ReadUploadFiles(paths)
}

func (w *fakeWatcher) Close() error {
	w.closed = true
	return nil
}

func useWatcher(t *testing.T, w *fakeWatcher) {
	t.Helper()
	original := newFolderWatcher
	newFolderWatcher = func(string) driven.FolderWatcher { return w }
	t.Cleanup(func() { newFolderWatcher = original })
}

func TestWatchCmd_RequiresDirectory(t *testing.T) {
	_, err := execute(t, "", "watch")

	assert.Error(t, err)
}

func TestWatchCmd_UploadsChanges(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	pdf := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0o600))
	w := &fakeWatcher{changes: []string{pdf}}
	useWatcher(t, w)

	out, err := execute(t, "", "watch", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "Watching "+dir)
	assert.Contains(t, out, "doc-1  report.pdf")
	assert.Equal(t, 1, env.docs.Calls(memory.OpUpload))
	assert.True(t, w.closed)
}

func TestWatchCmd_Existing(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.pdf")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o600))
	useWatcher(t, &fakeWatcher{existing: []string{a, b}})

	out, err := execute(t, "", "watch", "--existing", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded 2 files")
	assert.Equal(t, 1, env.docs.Calls(memory.OpUpload), "existing files go in one batch")
}

func TestWatchCmd_ReportsSkippedAndFailures(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	png := filepath.Join(dir, "photo.png")
	pdf := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(png, []byte("png"), 0o600))
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0o600))
	useWatcher(t, &fakeWatcher{changes: []string{png, pdf}})
	env.docs.FailNext(memory.OpUpload, &domain.TransportError{Op: "upload documents", Err: errors.New("reset")})

	out, err := execute(t, "", "watch", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "Skipped photo.png")
	assert.Contains(t, out, "Upload failed: "+domain.MsgUploadFailed)
}

func TestWatchCmd_WatchError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	useWatcher(t, &fakeWatcher{watchErr: errors.New("too many open files")})

	_, err := execute(t, "", "watch", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many open files")
}
