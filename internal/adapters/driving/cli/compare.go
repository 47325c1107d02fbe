package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var compareStrategies []string

var compareCmd = &cobra.Command{
	Use:   "compare [question]",
	Short: "Compare retrieval strategies on one question",
	Long: `Ask the same question once per retrieval strategy and print the
answers side by side. Without --strategy every available strategy is used.`,
	Example: `  docqa compare "What is the refund policy?"
  docqa compare -s vector_store -s sentence_window "Who signed the contract?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List retrieval strategies",
	Args:  cobra.NoArgs,
	RunE:  runStrategies,
}

func init() {
	compareCmd.Flags().StringSliceVarP(&compareStrategies, "strategy", "s", nil, "strategy to compare (repeatable)")
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(strategiesCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	d.DiscoverStrategies(cmd.Context())
	question := strings.Join(args, " ")
	result, err := d.Compare(cmd.Context(), question, domain.NewStrategySet(compareStrategies))
	if err != nil {
		return domain.UserError(err, domain.MsgQueryFailed)
	}

	for _, s := range result.Strategies {
		ex, ok := result.Results[s]
		if !ok {
			continue
		}
		cmd.Printf("=== %s ===\n", s.DisplayName())
		for _, p := range ex.Paragraphs() {
			cmd.Println(p)
		}
		if len(ex.Sources) > 0 {
			names := make([]string, 0, len(ex.Sources))
			for _, src := range ex.Sources {
				names = append(names, fmt.Sprintf("%s (%s)", src.Filename, src.ScorePercent()))
			}
			cmd.Printf("Sources: %s\n", strings.Join(names, ", "))
		}
		cmd.Println()
	}

	if skipped := result.Skipped(); len(skipped) > 0 {
		cmd.Printf("No answer from: %s\n", strings.Join(skipped.Strings(), ", "))
	}
	return nil
}

func runStrategies(cmd *cobra.Command, _ []string) error {
	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	d.DiscoverStrategies(cmd.Context())
	view := d.View()
	printStrategies(cmd, "Retrieval strategies", view.QAStrategies, view.DefaultQAStrategy)
	cmd.Println()
	printStrategies(cmd, "Indexing strategies", view.UploadStrategies, view.DefaultUploadStrategy)
	return nil
}
