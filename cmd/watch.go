package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"silmaril/internal"
)

var inboxFlag string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox folder and import new media automatically",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := internal.LoadConfig()
		if err != nil {
			return err
		}
		if archiveFlag != "" {
			conf.Archive = archiveFlag
		}
		inbox := conf.Inbox
		if inboxFlag != "" {
			inbox = inboxFlag
		}

		if err := os.MkdirAll(inbox, 0755); err != nil {
			return fmt.Errorf("failed to create inbox: %w", err)
		}

		watcher, err := internal.NewWatcher(inbox, conf.Classifier())
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer watcher.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Printf("Watching %s, importing into %s\n", inbox, conf.Archive)

		for {
			select {
			case path := <-watcher.Events():
				result, err := runImport(ctx, conf, []string{path}, false)
				if err != nil {
					fmt.Printf("Import failed for %s: %v\n", path, err)
					continue
				}
				printSummary(result)
			case err := <-watcher.Errors():
				fmt.Printf("Watcher error: %v\n", err)
			case <-ctx.Done():
				return nil
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&inboxFlag, "inbox", "", "Folder to watch for new media")
	watchCmd.Flags().StringVar(&archiveFlag, "archive", "", "Archive root folder")

	rootCmd.AddCommand(watchCmd)
}
