package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/ppiankov/numinfo/internal/export"
	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/phone"
	"github.com/ppiankov/numinfo/internal/pipeline"
	"github.com/ppiankov/numinfo/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchSize    int
	batchDelay   time.Duration
	batchTimeout time.Duration
	exportFormat string
	exportScope  string
	outputDir    string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file|->",
	Short: "Look up every number in a text file",
	Long: `Batch looks up many numbers with throttling:
- Read numbers from a .txt file (one per line) or stdin with "-"
- Look up each group concurrently, pausing between groups
- Print the results and a per-operator summary
- Optionally export the results or the summary

Example:
  numinfo batch numbers.txt
  numinfo batch numbers.txt --export csv --output-dir ./out
  numinfo batch numbers.txt --export json --export-scope summary --output-dir -
  cat numbers.txt | numinfo batch - --batch-size 5 --delay 1s`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchSize, "batch-size", worker.DefaultBatchSize, "numbers looked up concurrently per group")
	batchCmd.Flags().DurationVar(&batchDelay, "delay", worker.DefaultDelay, "pause between groups")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "total timeout for the batch (0 means none)")
	batchCmd.Flags().StringVar(&exportFormat, "export", "", "export format (csv, json, text)")
	batchCmd.Flags().StringVar(&exportScope, "export-scope", "all", "what to export (all, summary)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "export directory, - for stdout (default from config)")
	batchCmd.Flags().BoolVar(&offline, "offline", false, "resolve from bundled numbering-plan metadata instead of the remote api")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh lookups)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	source := args[0]
	stderr := cmd.ErrOrStderr()

	var format export.Format
	if exportFormat != "" {
		f, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		format = f
	}

	sess, err := newSession(cmd, func(cfg *model.Config) {
		if cmd.Flags().Changed("batch-size") {
			cfg.Batch.Size = batchSize
		}
		if cmd.Flags().Changed("delay") {
			cfg.Batch.Delay = batchDelay
		}
		if cmd.Flags().Changed("output-dir") {
			cfg.Output.Dir = outputDir
		}
	})
	if err != nil {
		return err
	}
	defer sess.close()

	progress := func(done, total int) {
		fmt.Fprintf(stderr, "  ⚙️  %d/%d looked up\n", done, total)
	}
	if err := sess.start(newTermNotifier(stderr), worker.WithProgress(progress)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, batchTimeout)
		defer cancel()
	}

	cfg := sess.cfg
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  numinfo Batch Lookup\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Input:        %s\n", source)
	fmt.Fprintf(stderr, "  Group size:   %d\n", cfg.Batch.Size)
	fmt.Fprintf(stderr, "  Delay:        %v\n", cfg.Batch.Delay)
	if cfg.Offline.Enabled {
		fmt.Fprintf(stderr, "  Source:       offline metadata (%s)\n", cfg.Offline.DefaultRegion)
	} else {
		fmt.Fprintf(stderr, "  Source:       %s\n", cfg.API.BaseURL)
	}
	fmt.Fprintf(stderr, "\n")

	name, content, err := readInput(source, cmd.InOrStdin())
	if err != nil {
		return err
	}

	outcome, err := sess.service.SubmitFile(ctx, name, content)
	if err != nil {
		return fmt.Errorf("process %s: %w", source, err)
	}

	toStdout := format != "" && cfg.Output.Dir == "-"
	if !toStdout && len(outcome.Records) > 0 {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		printRecords(out, outcome.Records)
		fmt.Fprintln(out)
		printSummary(out, outcome.Records)
	}

	if verbose {
		for _, f := range outcome.Failures {
			fmt.Fprintf(stderr, "✗ #%d %s: %v\n", f.Index+1, f.Input, f.Err)
		}
	}

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Batch Complete\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Total:     %d numbers\n", outcome.Total())
	fmt.Fprintf(stderr, "  Resolved:  %d\n", len(outcome.Records))
	fmt.Fprintf(stderr, "  Failures:  %d\n", outcome.FailureCount())
	fmt.Fprintf(stderr, "\n")

	if format != "" {
		if err := exportOutcome(cmd.OutOrStdout(), stderr, outcome.Records, cfg.Output.Dir, format); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	return nil
}

// readInput loads the numbers file, or stdin for "-", within the size limit
func readInput(source string, stdin io.Reader) (string, []byte, error) {
	if source == "-" {
		content, err := io.ReadAll(io.LimitReader(stdin, phone.MaxFileSize+1))
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return "stdin", content, nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return "", nil, fmt.Errorf("open input: %w", err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%s: %w", source, phone.ErrNotText)
	}

	name := filepath.Base(source)
	if err := phone.CheckFile(name, info.Size(), nil); err != nil {
		return "", nil, err
	}

	content, err := os.ReadFile(source)
	if err != nil {
		return "", nil, fmt.Errorf("read input: %w", err)
	}
	return name, content, nil
}

func exportOutcome(stdout, stderr io.Writer, records []model.LookupRecord, dir string, format export.Format) error {
	rows, subject, err := pipeline.Rows(records, exportScope)
	if err != nil {
		return err
	}

	var sink export.Sink = export.DirSink{Dir: dir}
	if dir == "-" {
		sink = export.WriterSink{W: stdout}
	}

	filename, err := export.Deliver(sink, subject, rows, format)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if dir != "-" {
		fmt.Fprintf(stderr, "✓ Exported %s\n", filepath.Join(dir, filename))
	}
	return nil
}
