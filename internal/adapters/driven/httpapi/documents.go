package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure DocumentClient implements the interface.
var _ driven.DocumentAPI = (*DocumentClient)(nil)

// DocumentClient uploads, lists and deletes documents.
type DocumentClient struct {
	c *client
}

// NewDocumentClient creates a document client from explicit configuration.
func NewDocumentClient(cfg domain.ClientConfig) *DocumentClient {
	return &DocumentClient{c: newClient(cfg)}
}

// Upload sends all files in one multipart request.
func (d *DocumentClient) Upload(
	ctx context.Context,
	files []domain.UploadFile,
	strategy domain.Strategy,
) (*domain.UploadResult, error) {
	if len(files) == 0 {
		return nil, domain.NewValidationError("files", "Please select at least one file.")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("upload documents: create form file: %w", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("upload documents: write %s: %w", f.Name, err)
		}
	}
	if err := w.WriteField("indexing_strategy", string(strategy)); err != nil {
		return nil, fmt.Errorf("upload documents: write strategy: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("upload documents: close form: %w", err)
	}

	var resp uploadResponse
	if err := d.c.do(ctx, "upload documents", http.MethodPost, "/documents/upload",
		&body, w.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return toUploadResult(resp), nil
}

// List returns every document the service knows about.
func (d *DocumentClient) List(ctx context.Context) ([]domain.Document, error) {
	var resp listResponse
	if err := d.c.getJSON(ctx, "list documents", "/documents/list", &resp); err != nil {
		return nil, err
	}
	return toDocuments(resp), nil
}

// Delete removes one document.
func (d *DocumentClient) Delete(ctx context.Context, documentID string) error {
	path := "/documents/" + url.PathEscape(documentID)
	return d.c.do(ctx, "delete document", http.MethodDelete, path, nil, "", nil)
}

// Strategies returns the indexing strategies accepted for uploads.
func (d *DocumentClient) Strategies(ctx context.Context) (*domain.StrategyInfo, error) {
	var resp strategiesResponse
	if err := d.c.getJSON(ctx, "list indexing strategies", "/documents/strategies", &resp); err != nil {
		return nil, err
	}
	return toStrategyInfo(resp), nil
}
