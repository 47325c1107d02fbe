package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var (
	askStrategy string
	askEval     bool
	askNoSource bool
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Ask a question answered from the processed documents.

The answer is printed with the passages it was drawn from. Use --eval to
request evaluation metrics for the answer.`,
	Example: `  docqa ask "What is the refund policy?"
  docqa ask --strategy sentence_window --eval "Who signed the contract?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askStrategy, "strategy", "s", "", "retrieval strategy (default: service default)")
	askCmd.Flags().BoolVarP(&askEval, "eval", "e", false, "request evaluation metrics")
	askCmd.Flags().BoolVar(&askNoSource, "no-sources", false, "hide the source passages")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	d.DiscoverStrategies(cmd.Context())
	question := strings.Join(args, " ")
	exchange, err := d.SubmitQuestion(cmd.Context(), question, domain.Strategy(askStrategy), askEval)
	if err != nil {
		return domain.UserError(err, domain.MsgQueryFailed)
	}

	if askJSON {
		return outputJSON(cmd, toExchangeOutput(exchange))
	}
	printExchange(cmd, exchange, !askNoSource)
	return nil
}

func printExchange(cmd *cobra.Command, ex *domain.QueryExchange, showSources bool) {
	cmd.Printf("Strategy: %s\n\n", ex.Strategy.DisplayName())
	for _, p := range ex.Paragraphs() {
		cmd.Println(p)
	}

	if showSources && len(ex.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range ex.Sources {
			cmd.Printf("  [%d] %s (%s)\n", i+1, src.Filename, src.ScorePercent())
			if src.Snippet != "" {
				cmd.Printf("      %s\n", src.Snippet)
			}
		}
	}

	if ex.ShowMetrics() {
		cmd.Println()
		cmd.Println("Metrics:")
		for _, m := range ex.Metrics.Sorted() {
			cmd.Printf("  %-20s %s\n", m.Name, m.Display())
			if m.Reason != "" {
				cmd.Printf("      %s\n", m.Reason)
			}
		}
	}
}

type sourceOutput struct {
	Filename   string  `json:"filename"`
	DocumentID string  `json:"document_id,omitempty"`
	Score      float64 `json:"score"`
	Snippet    string  `json:"snippet,omitempty"`
}

type metricOutput struct {
	Value  string `json:"value"`
	Reason string `json:"reason,omitempty"`
}

// exchangeOutput is the JSON form of an answered question.
type exchangeOutput struct {
	Question string                  `json:"question"`
	Strategy string                  `json:"strategy"`
	Answer   string                  `json:"answer"`
	Sources  []sourceOutput          `json:"sources"`
	Metrics  map[string]metricOutput `json:"metrics,omitempty"`
}

func toExchangeOutput(ex *domain.QueryExchange) exchangeOutput {
	out := exchangeOutput{
		Question: ex.Question,
		Strategy: ex.Strategy.String(),
		Answer:   ex.Answer,
		Sources:  make([]sourceOutput, 0, len(ex.Sources)),
	}
	for _, s := range ex.Sources {
		out.Sources = append(out.Sources, sourceOutput{
			Filename:   s.Filename,
			DocumentID: s.DocumentID,
			Score:      s.Score,
			Snippet:    s.Snippet,
		})
	}
	if ex.ShowMetrics() {
		out.Metrics = make(map[string]metricOutput, len(ex.Metrics))
		for _, m := range ex.Metrics.Sorted() {
			out.Metrics[m.Name] = metricOutput{Value: m.Display(), Reason: m.Reason}
		}
	}
	return out
}
