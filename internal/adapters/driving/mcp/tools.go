package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the uploaded documents"`
	Strategy string `json:"strategy,omitempty" jsonschema:"retrieval strategy, see list_strategies (default: service default)"`
	Evaluate bool   `json:"evaluate,omitempty" jsonschema:"also return evaluation metrics for the answer"`
}

// SourceOutput is one passage backing an answer.
type SourceOutput struct {
	Filename   string  `json:"filename"`
	DocumentID string  `json:"document_id,omitempty"`
	Score      float64 `json:"score"`
	Snippet    string  `json:"snippet,omitempty"`
}

// MetricOutput is one evaluation result.
type MetricOutput struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Reason string `json:"reason,omitempty"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string         `json:"answer"`
	Strategy string         `json:"strategy"`
	Sources  []SourceOutput `json:"sources"`
	Metrics  []MetricOutput `json:"metrics,omitempty"`
}

// CompareInput is the input schema for the compare_strategies tool.
type CompareInput struct {
	Question   string   `json:"question" jsonschema:"the question to answer with each strategy"`
	Strategies []string `json:"strategies,omitempty" jsonschema:"strategies to compare (default: all)"`
}

// CompareOutput is the output schema for the compare_strategies tool.
type CompareOutput struct {
	Results []AskOutput `json:"results"`
	Skipped []string    `json:"skipped,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// DocumentOutput is one uploaded document.
type DocumentOutput struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Strategy string `json:"strategy,omitempty"`
	Pages    int    `json:"pages"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// ListStrategiesInput is the input schema for the list_strategies tool.
type ListStrategiesInput struct{}

// StrategyOutput describes one strategy.
type StrategyOutput struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default"`
}

// ListStrategiesOutput is the output schema for the list_strategies tool.
type ListStrategiesOutput struct {
	Retrieval []StrategyOutput `json:"retrieval"`
	Indexing  []StrategyOutput `json:"indexing"`
}

// DeleteDocumentInput is the input schema for the delete_document tool.
type DeleteDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of the document to delete"`
	Confirm    bool   `json:"confirm" jsonschema:"must be true; the user has confirmed the deletion"`
}

// DeleteDocumentOutput is the output schema for the delete_document tool.
type DeleteDocumentOutput struct {
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the uploaded documents, with sources",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_strategies",
		Description: "Answer one question with several retrieval strategies",
	}, s.handleCompare)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded documents and their indexing status",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_strategies",
		Description: "List the retrieval and indexing strategies the service offers",
	}, s.handleListStrategies)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete an uploaded document. Ask the user first and pass confirm=true",
	}, s.handleDeleteDocument)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	ex, err := s.ports.Dashboard.SubmitQuestion(ctx, input.Question, domain.Strategy(input.Strategy), input.Evaluate)
	if err != nil {
		return nil, AskOutput{}, domain.UserError(err, domain.MsgQueryFailed)
	}
	return nil, toAskOutput(ex), nil
}

func (s *Server) handleCompare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	result, err := s.ports.Dashboard.Compare(ctx, input.Question, domain.NewStrategySet(input.Strategies))
	if err != nil {
		return nil, CompareOutput{}, domain.UserError(err, domain.MsgQueryFailed)
	}

	output := CompareOutput{
		Results: make([]AskOutput, 0, len(result.Results)),
		Skipped: result.Skipped().Strings(),
	}
	for _, strategy := range result.Strategies {
		if ex, ok := result.Results[strategy]; ok {
			output.Results = append(output.Results, toAskOutput(ex))
		}
	}
	return nil, output, nil
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	err := s.ports.Dashboard.Refresh(ctx, driving.RefreshRequest{Reason: driving.RefreshManual})
	if err != nil {
		return nil, ListDocumentsOutput{}, domain.UserError(err, domain.MsgLoadFailed)
	}

	docs := s.ports.Dashboard.View().Documents
	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i, d := range docs {
		output.Documents[i] = toDocumentOutput(d)
	}
	return nil, output, nil
}

func (s *Server) handleListStrategies(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListStrategiesInput,
) (*mcp.CallToolResult, ListStrategiesOutput, error) {
	s.ports.Dashboard.DiscoverStrategies(ctx)
	view := s.ports.Dashboard.View()
	return nil, ListStrategiesOutput{
		Retrieval: toStrategyOutputs(view.QAStrategies, view.DefaultQAStrategy),
		Indexing:  toStrategyOutputs(view.UploadStrategies, view.DefaultUploadStrategy),
	}, nil
}

func (s *Server) handleDeleteDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteDocumentInput,
) (*mcp.CallToolResult, DeleteDocumentOutput, error) {
	deleted, err := s.ports.Dashboard.Delete(ctx, input.DocumentID, func(string) bool {
		return input.Confirm
	})
	if err != nil {
		return nil, DeleteDocumentOutput{}, domain.UserError(err, domain.MsgDeleteFailed)
	}
	if !deleted {
		return nil, DeleteDocumentOutput{Message: driving.DeleteConfirmPrompt + " Call again with confirm=true."}, nil
	}
	return nil, DeleteDocumentOutput{Deleted: true, Message: "Deleted " + input.DocumentID}, nil
}

func toAskOutput(ex *domain.QueryExchange) AskOutput {
	out := AskOutput{
		Answer:   ex.Answer,
		Strategy: ex.Strategy.String(),
		Sources:  make([]SourceOutput, len(ex.Sources)),
	}
	for i, src := range ex.Sources {
		out.Sources[i] = SourceOutput{
			Filename:   src.Filename,
			DocumentID: src.DocumentID,
			Score:      src.Score,
			Snippet:    src.Snippet,
		}
	}
	if ex.ShowMetrics() {
		for _, m := range ex.Metrics.Sorted() {
			out.Metrics = append(out.Metrics, MetricOutput{Name: m.Name, Value: m.Display(), Reason: m.Reason})
		}
	}
	return out
}

func toDocumentOutput(d domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:       d.ID,
		Filename: d.Filename,
		Status:   d.Status.String(),
		Strategy: d.IndexingStrategy.String(),
		Pages:    d.NumPages,
	}
}

func toStrategyOutputs(set domain.StrategySet, def domain.Strategy) []StrategyOutput {
	out := make([]StrategyOutput, len(set))
	for i, st := range set {
		out[i] = StrategyOutput{
			Name:        st.String(),
			DisplayName: st.DisplayName(),
			Description: st.Description(),
			Default:     st == def,
		}
	}
	return out
}
