package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
)

var (
	watchStrategy string
	watchExisting bool
)

// newFolderWatcher creates the watcher for a drop folder.
var newFolderWatcher = func(dir string) driven.FolderWatcher {
	return filesystem.New(dir)
}

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Upload files dropped into a folder",
	Long: `Watch a folder and upload every PDF or text file created or changed in
it. Use --existing to upload the files already there first.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchStrategy, "strategy", "s", "", "indexing strategy (default: service default)")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "upload files already in the folder")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	watcher := newFolderWatcher(args[0])
	defer watcher.Close()

	d.DiscoverStrategies(cmd.Context())
	cmd.Printf("Watching %s for PDF and text files\n", args[0])

	folderSync := services.NewFolderSync(d, watcher, domain.Strategy(watchStrategy))
	return folderSync.Run(cmd.Context(), watchExisting, func(r services.SyncReport) {
		for _, p := range r.Skipped {
			cmd.Printf("Skipped %s\n", filepath.Base(p))
		}
		if r.Err != nil {
			cmd.Printf("Upload failed: %s\n", domain.UserMessage(r.Err, domain.MsgUploadFailed))
			return
		}
		if r.Result != nil {
			printUploadResult(cmd, r.Result)
		}
	})
}
