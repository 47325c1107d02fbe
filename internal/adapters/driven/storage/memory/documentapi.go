package memory

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure DocumentAPI implements the interface.
var _ driven.DocumentAPI = (*DocumentAPI)(nil)

// Operation names accepted by FailNext and Calls.
const (
	OpUpload     = "upload"
	OpList       = "list"
	OpDelete     = "delete"
	OpStrategies = "strategies"
	OpQuery      = "query"
	OpCompare    = "compare"
)

// recorder counts calls and hands out one-shot failures.
type recorder struct {
	calls    map[string]int
	failures map[string][]error
}

func newRecorder() recorder {
	return recorder{calls: make(map[string]int), failures: make(map[string][]error)}
}

func (r *recorder) record(op string) error {
	r.calls[op]++
	queued := r.failures[op]
	if len(queued) == 0 {
		return nil
	}
	r.failures[op] = queued[1:]
	return queued[0]
}

// DocumentAPI is an in-memory implementation of driven.DocumentAPI.
type DocumentAPI struct {
	mu          sync.Mutex
	rec         recorder
	documents   []domain.Document
	age         map[string]int
	strategies  domain.StrategySet
	settleAfter int
	nextID      int
}

// NewDocumentAPI creates an empty service offering the fallback strategies.
// Uploaded documents settle on the first list call.
func NewDocumentAPI() *DocumentAPI {
	return &DocumentAPI{
		rec:         newRecorder(),
		age:         make(map[string]int),
		strategies:  domain.FallbackStrategies.Clone(),
		settleAfter: 1,
	}
}

// SetSettleAfter sets how many list calls an upload stays "processing".
// Zero makes uploads processed immediately.
func (a *DocumentAPI) SetSettleAfter(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settleAfter = n
}

// SetStrategies replaces the offered indexing strategies.
func (a *DocumentAPI) SetStrategies(s domain.StrategySet) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.strategies = s.Clone()
}

// Seed adds documents as they are.
func (a *DocumentAPI) Seed(docs ...domain.Document) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.documents = append(a.documents, docs...)
}

// FailNext makes the next call of op return err. Calls queue up.
func (a *DocumentAPI) FailNext(op string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rec.failures[op] = append(a.rec.failures[op], err)
}

// Calls returns how many times op was invoked.
func (a *DocumentAPI) Calls(op string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rec.calls[op]
}

// Upload stores each file as a new document.
func (a *DocumentAPI) Upload(
	_ context.Context,
	files []domain.UploadFile,
	strategy domain.Strategy,
) (*domain.UploadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.rec.record(OpUpload); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewValidationError("files", "Please select at least one file.")
	}
	if !a.strategies.Contains(strategy) {
		return nil, &domain.ServiceError{
			Op:         "upload documents",
			StatusCode: http.StatusBadRequest,
			Detail:     fmt.Sprintf("Invalid indexing strategy: %s", strategy),
		}
	}

	result := &domain.UploadResult{Message: fmt.Sprintf("Uploaded %d files", len(files))}
	for _, f := range files {
		a.nextID++
		id := fmt.Sprintf("doc-%d", a.nextID)
		status := domain.StatusProcessing
		if a.settleAfter <= 0 {
			status = domain.StatusProcessed
		}
		a.documents = append(a.documents, domain.Document{
			ID:               id,
			Filename:         f.Name,
			FilePath:         "uploads/" + f.Name,
			NumPages:         1 + len(f.Content)/4096,
			Status:           status,
			IndexingStrategy: strategy,
		})
		a.age[id] = 0
		result.Documents = append(result.Documents, domain.UploadedDocument{
			DocumentID: id,
			Filename:   f.Name,
			Status:     string(domain.StatusUploaded),
			NumChunks:  1 + len(f.Content)/512,
		})
	}
	return result, nil
}

// List returns a snapshot and advances indexing by one step.
func (a *DocumentAPI) List(_ context.Context) ([]domain.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.rec.record(OpList); err != nil {
		return nil, err
	}
	for i := range a.documents {
		d := &a.documents[i]
		if d.Status != domain.StatusProcessing {
			continue
		}
		a.age[d.ID]++
		if a.age[d.ID] >= a.settleAfter {
			d.Status = domain.StatusProcessed
		}
	}
	return append([]domain.Document(nil), a.documents...), nil
}

// Delete removes a document. Unknown ids answer 404.
func (a *DocumentAPI) Delete(_ context.Context, documentID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.rec.record(OpDelete); err != nil {
		return err
	}
	for i, d := range a.documents {
		if d.ID == documentID {
			a.documents = append(a.documents[:i], a.documents[i+1:]...)
			delete(a.age, documentID)
			return nil
		}
	}
	return &domain.ServiceError{
		Op:         "delete document",
		StatusCode: http.StatusNotFound,
		Detail:     "Document not found",
	}
}

// Strategies returns the offered indexing strategies.
func (a *DocumentAPI) Strategies(_ context.Context) (*domain.StrategyInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.rec.record(OpStrategies); err != nil {
		return nil, err
	}
	return &domain.StrategyInfo{Available: a.strategies.Clone()}, nil
}

// processed returns the documents that can answer questions.
func (a *DocumentAPI) processed() []domain.Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []domain.Document
	for _, d := range a.documents {
		if d.Status == domain.StatusProcessed {
			out = append(out, d)
		}
	}
	return out
}
