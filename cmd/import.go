package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"silmaril/internal"
)

var (
	archiveFlag string
	workersFlag int
	dryRunFlag  bool
	useExifTool bool
)

var importCmd = &cobra.Command{
	Use:   "import [paths...]",
	Short: "Import media files or folders into the archive",
	Long: `Import the given image/video files (or folders, scanned recursively)
into the date-bucketed archive. Originals are placed under YYYY/MM/DD by
capture date, thumbnails under the day's thumbnails/ folder, and the run
is recorded in an import session manifest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := internal.LoadConfig()
		if err != nil {
			return err
		}
		if archiveFlag != "" {
			conf.Archive = archiveFlag
		}
		if workersFlag > 0 {
			conf.Workers = workersFlag
		}
		if useExifTool {
			conf.UseExifTool = true
		}

		files, err := internal.ExpandPaths(args, conf.Classifier())
		if err != nil {
			return err
		}
		fmt.Printf("Found %d media files\n", len(files))
		if dryRunFlag {
			fmt.Println("Dry run mode: no files will be copied")
		}

		// Ctrl-C stops scheduling new files; in-flight imports finish.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := runImport(ctx, conf, files, dryRunFlag)
		if err != nil {
			return err
		}

		printSummary(result)
		return nil
	},
}

// runImport wires the pipeline, session and catalog and runs the batch.
func runImport(ctx context.Context, conf *internal.Config, files []string, dryRun bool) (*internal.BatchResult, error) {
	logger, err := internal.NewLogger("silmaril.log")
	if err != nil {
		return nil, err
	}
	defer logger.Close()

	pipeline := &internal.Pipeline{
		Layout:        &internal.Layout{Root: conf.Archive},
		Classifier:    conf.Classifier(),
		Workers:       conf.Workers,
		ThumbnailSize: conf.ThumbnailSize,
		DryRun:        dryRun,
		Prober: &internal.FFprobeProber{
			BinPath: conf.FFprobePath,
			Timeout: time.Duration(conf.ProbeTimeoutSec) * time.Second,
		},
		Frames: &internal.FFmpegFrameExtractor{
			BinPath: conf.FFmpegPath,
			Timeout: time.Duration(conf.ProbeTimeoutSec) * time.Second,
		},
		Logger: logger,
	}

	if conf.UseExifTool {
		et, err := internal.NewExifToolExtractor()
		if err != nil {
			return nil, err
		}
		defer et.Close()
		pipeline.ExifTool = et
	}

	if !dryRun {
		if err := pipeline.Layout.EnsureRoot(); err != nil {
			return nil, err
		}
		session, err := internal.NewSession(conf.Archive)
		if err != nil {
			return nil, err
		}
		defer session.Close()
		session.LogStart(len(files))
		defer session.LogEnd()
		pipeline.Session = session
	}

	result, err := pipeline.Run(ctx, files)
	if err != nil {
		return nil, err
	}

	if !dryRun {
		catalog := internal.NewCatalog(conf.Archive)
		if err := catalog.Append(result.Assets); err != nil {
			return nil, fmt.Errorf("imported files but failed to update catalog: %w", err)
		}
	}

	return result, nil
}

func printSummary(result *internal.BatchResult) {
	var totalSize int64
	for _, a := range result.Assets {
		if fi, err := os.Stat(a.StoredPath); err == nil {
			totalSize += fi.Size()
		}
	}

	color.Green("Imported %d files (%s)", len(result.Assets), humanize.Bytes(uint64(totalSize)))
	if len(result.Skipped) > 0 {
		color.Yellow("Skipped %d unsupported files", len(result.Skipped))
	}
	if len(result.Failures) > 0 {
		color.Red("Failed %d files", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Printf("  %s: %v\n", f.Path, f.Err.OriginalErr)
			if f.Err.Suggestion != "" {
				fmt.Printf("    %s\n", f.Err.Suggestion)
			}
		}
		fmt.Print(result.Stats.GenerateReport())
	}
}

func init() {
	importCmd.Flags().StringVar(&archiveFlag, "archive", "", "Archive root folder")
	importCmd.Flags().IntVar(&workersFlag, "workers", 0, "Number of parallel imports")
	importCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show destinations without copying")
	importCmd.Flags().BoolVar(&useExifTool, "exiftool", false, "Force to use exiftool binary for metadata")

	rootCmd.AddCommand(importCmd)
}
