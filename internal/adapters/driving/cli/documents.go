package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

var (
	documentsJSON  bool
	uploadStrategy string
	uploadWait     bool
	deleteYes      bool
)

// stdinIsTerminal reports whether a confirmation can be asked interactively.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage uploaded documents",
	Long:    `List, upload and delete the documents the service answers questions from.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsUploadCmd = &cobra.Command{
	Use:   "upload [file...]",
	Short: "Upload PDF or text files",
	Long: `Upload one or more PDF or text files to be indexed.

Files with other extensions are skipped. Use --wait to poll until every
uploaded document has finished indexing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocumentsUpload,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document",
	Long: `Delete a document from the service.

You are asked to confirm unless --yes is given. When standard input is
not a terminal, --yes is required.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentsDelete,
}

var documentsStrategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List indexing strategies",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsStrategies,
}

func init() {
	documentsListCmd.Flags().BoolVar(&documentsJSON, "json", false, "output documents as JSON")
	documentsUploadCmd.Flags().StringVarP(&uploadStrategy, "strategy", "s", "", "indexing strategy (default: service default)")
	documentsUploadCmd.Flags().BoolVarP(&uploadWait, "wait", "w", false, "wait until indexing finishes")
	documentsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without asking")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsUploadCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsCmd.AddCommand(documentsStrategiesCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	if err := d.Refresh(cmd.Context(), driving.RefreshRequest{Reason: driving.RefreshManual}); err != nil {
		return domain.UserError(err, domain.MsgLoadFailed)
	}

	docs := d.View().Documents
	if documentsJSON {
		return outputJSON(cmd, toDocumentOutputs(docs))
	}
	if len(docs) == 0 {
		cmd.Println("No documents uploaded yet.")
		return nil
	}

	cmd.Printf("%-24s  %-12s  %-16s  %5s  %s\n", "ID", "STATUS", "STRATEGY", "PAGES", "FILENAME")
	for _, doc := range docs {
		cmd.Printf("%-24s  %-12s  %-16s  %5d  %s\n",
			doc.ID, doc.Status, doc.IndexingStrategy, doc.NumPages, doc.Filename)
	}
	return nil
}

// documentOutput is the JSON form of a listed document.
type documentOutput struct {
	ID               string `json:"id"`
	Filename         string `json:"filename"`
	FilePath         string `json:"file_path,omitempty"`
	NumPages         int    `json:"num_pages"`
	Status           string `json:"status"`
	IndexingStrategy string `json:"indexing_strategy,omitempty"`
}

func toDocumentOutputs(docs []domain.Document) []documentOutput {
	out := make([]documentOutput, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentOutput{
			ID:               d.ID,
			Filename:         d.Filename,
			FilePath:         d.FilePath,
			NumPages:         d.NumPages,
			Status:           d.Status.String(),
			IndexingStrategy: d.IndexingStrategy.String(),
		})
	}
	return out
}

func runDocumentsUpload(cmd *cobra.Command, args []string) error {
	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	files, skipped, err := filesystem.ReadUploadFiles(args)
	if err != nil {
		return err
	}
	for _, p := range skipped {
		cmd.Printf("Skipping %s (only PDF and text files are uploaded)\n", p)
	}
	if len(files) == 0 {
		return errors.New("no PDF or text files to upload")
	}

	d.DiscoverStrategies(cmd.Context())
	result, err := d.Upload(cmd.Context(), files, domain.Strategy(uploadStrategy))
	if err != nil {
		return domain.UserError(err, domain.MsgUploadFailed)
	}

	printUploadResult(cmd, result)

	ids := result.DocumentIDs()
	if !uploadWait || len(ids) == 0 {
		return nil
	}

	cmd.Println("Waiting for indexing to finish...")
	docs, err := d.AwaitSettled(cmd.Context(), ids, clientConfig.PollInterval)
	if err != nil {
		return fmt.Errorf("waiting for indexing: %w", err)
	}
	for _, doc := range docs {
		cmd.Printf("  %s  %s  %s\n", doc.ID, doc.Status, doc.Filename)
	}
	return nil
}

func printUploadResult(cmd *cobra.Command, result *domain.UploadResult) {
	if result.Message != "" {
		cmd.Println(result.Message)
	}
	for _, doc := range result.Documents {
		cmd.Printf("  %s  %s  (%s)\n", doc.DocumentID, doc.Filename, doc.Status)
	}
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	confirm, err := deleteConfirm(cmd)
	if err != nil {
		return err
	}

	deleted, err := d.Delete(cmd.Context(), args[0], confirm)
	if err != nil {
		return domain.UserError(err, domain.MsgDeleteFailed)
	}
	if !deleted {
		cmd.Println("Cancelled.")
		return nil
	}
	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

// deleteConfirm returns the confirmation used for delete. Without --yes
// the user is asked on the terminal.
func deleteConfirm(cmd *cobra.Command) (driving.ConfirmFunc, error) {
	if deleteYes {
		return func(string) bool { return true }, nil
	}
	if !stdinIsTerminal() {
		return nil, errors.New("refusing to delete without confirmation: use --yes when not running in a terminal")
	}
	return func(prompt string) bool {
		return askYesNo(cmd.InOrStdin(), cmd.OutOrStdout(), prompt)
	}, nil
}

func askYesNo(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func runDocumentsStrategies(cmd *cobra.Command, _ []string) error {
	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	d.DiscoverStrategies(cmd.Context())
	view := d.View()
	printStrategies(cmd, "Indexing strategies", view.UploadStrategies, view.DefaultUploadStrategy)
	return nil
}

func printStrategies(cmd *cobra.Command, title string, set domain.StrategySet, def domain.Strategy) {
	cmd.Printf("%s:\n", title)
	for _, s := range set {
		marker := " "
		if s == def {
			marker = "*"
		}
		cmd.Printf("  %s %-18s %s\n", marker, s, s.DisplayName())
		if desc := s.Description(); desc != "" {
			cmd.Printf("      %s\n", desc)
		}
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
