package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func newTestConfig(url string) domain.ClientConfig {
	cfg := domain.DefaultClientConfig()
	cfg.BaseURL = url
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestDocumentClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/documents/list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"documents": [
			{"document_id": "doc-1", "filename": "a.pdf", "file_path": "/u/a.pdf", "num_pages": 3, "status": "processed", "indexing_strategy": "vector_store"},
			{"document_id": "doc-2", "filename": "b.txt", "num_pages": 1, "status": "processing", "indexing_strategy": "sentence_window"}
		], "total": 2}`)
	}))
	defer server.Close()

	client := NewDocumentClient(newTestConfig(server.URL + "/api/"))
	docs, err := client.List(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-1", docs[0].ID)
	assert.Equal(t, 3, docs[0].NumPages)
	assert.Equal(t, domain.StatusProcessed, docs[0].Status)
	assert.Equal(t, domain.StrategySentenceWindow, docs[1].IndexingStrategy)
}

func TestDocumentClient_List_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail": "database offline"}`)
	}))
	defer server.Close()

	client := NewDocumentClient(newTestConfig(server.URL))
	_, err := client.List(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrService)

	var serr *domain.ServiceError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 500, serr.StatusCode)
	assert.Equal(t, "database offline", serr.Detail)
}

func TestDocumentClient_List_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewDocumentClient(newTestConfig(url))
	_, err := client.List(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrService)
}

func TestDocumentClient_List_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"documents": "nope"}`)
	}))
	defer server.Close()

	client := NewDocumentClient(newTestConfig(server.URL))
	_, err := client.List(context.Background())

	assert.ErrorIs(t, err, domain.ErrService)
}

func TestDocumentClient_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/documents/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "vector_store", r.FormValue("indexing_strategy"))
		files := r.MultipartForm.File["files"]
		require.Len(t, files, 2)
		assert.Equal(t, "a.pdf", files[0].Filename)
		assert.Equal(t, "b.txt", files[1].Filename)

		f, err := files[1].Open()
		require.NoError(t, err)
		content, _ := io.ReadAll(f)
		assert.Equal(t, "hello", string(content))

		_, _ = io.WriteString(w, `{"message": "ok", "documents": [
			{"document_id": "doc-1", "filename": "a.pdf", "status": "uploaded", "num_chunks": 4},
			{"document_id": "doc-2", "filename": "b.txt", "status": "uploaded"}
		]}`)
	}))
	defer server.Close()

	client := NewDocumentClient(newTestConfig(server.URL))
	result, err := client.Upload(context.Background(), []domain.UploadFile{
		{Name: "a.pdf", Content: []byte("%PDF")},
		{Name: "b.txt", Content: []byte("hello")},
	}, domain.StrategyVectorStore)

	require.NoError(t, err)
	assert.Equal(t, "ok", result.Message)
	assert.Equal(t, []string{"doc-1", "doc-2"}, result.DocumentIDs())
	assert.Equal(t, 4, result.Documents[0].NumChunks)
}

func TestDocumentClient_Upload_NoFiles(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewDocumentClient(newTestConfig(server.URL))
	_, err := client.Upload(context.Background(), nil, domain.StrategyVectorStore)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, called)
}

func TestDocumentClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		switch r.URL.Path {
		case "/documents/doc-1":
			_, _ = io.WriteString(w, `{"message": "Document deleted"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail": "Document not found"}`)
		}
	}))
	defer server.Close()

	client := NewDocumentClient(newTestConfig(server.URL))

	require.NoError(t, client.Delete(context.Background(), "doc-1"))

	err := client.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "Document not found")
}

func TestDocumentClient_Strategies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/strategies", r.URL.Path)
		_, _ = io.WriteString(w, `{"strategies": ["vector_store", "sentence_window", "vector_store"]}`)
	}))
	defer server.Close()

	client := NewDocumentClient(newTestConfig(server.URL))
	info, err := client.Strategies(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.StrategySet{"vector_store", "sentence_window"}, info.Available)
	assert.Empty(t, info.Current)
}

func TestClient_RateLimit_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"documents": []}`)
	}))
	defer server.Close()

	cfg := newTestConfig(server.URL)
	cfg.RequestsPerSecond = 0.001
	client := NewDocumentClient(cfg)

	// The first request uses the burst token.
	_, err := client.List(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.List(ctx)

	assert.ErrorIs(t, err, domain.ErrTransport)
}
