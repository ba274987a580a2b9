package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"silmaril/internal"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the archive catalog by name, date or metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := internal.LoadConfig()
		if err != nil {
			return err
		}
		if archiveFlag != "" {
			conf.Archive = archiveFlag
		}

		catalog := internal.NewCatalog(conf.Archive)
		matched, err := catalog.Search(args[0])
		if err != nil {
			return err
		}

		if len(matched) == 0 {
			fmt.Println("No matches")
			return nil
		}
		for _, a := range matched {
			fmt.Printf("%s  %-5s  %s  %s\n",
				a.CapturedAt.Format("2006-01-02"), a.Kind, a.OriginalName, a.StoredPath)
		}
		fmt.Printf("\n%d matches\n", len(matched))
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&archiveFlag, "archive", "", "Archive root folder")

	rootCmd.AddCommand(searchCmd)
}
