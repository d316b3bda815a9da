package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/phone"
	"github.com/ppiankov/numinfo/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	offline    bool
	noCache    bool
	jsonOutput bool
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <number>",
	Short: "Look up a single phone number",
	Long: `Look up the operator and region of one phone number.

The number needs at least 10 digits; separators are ignored, so
the rest of the arguments are joined into one number.

Example:
  numinfo lookup +7 912 345-67-89
  numinfo lookup 89123456789 --json
  numinfo lookup 79123456789 --offline`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().BoolVar(&offline, "offline", false, "resolve from bundled numbering-plan metadata instead of the remote api")
	lookupCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh lookup)")
	lookupCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the record as json")
}

func runLookup(cmd *cobra.Command, args []string) error {
	number := strings.Join(args, " ")
	if !phone.IsValid(number) {
		return fmt.Errorf("%q: %w", number, pipeline.ErrInvalidNumber)
	}

	sess, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	if err := sess.start(newTermNotifier(cmd.ErrOrStderr())); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	record, err := sess.service.SubmitOne(ctx, number)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", number, err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	}
	printCard(out, record)
	return nil
}

// printCard renders one record as a labelled block
func printCard(w io.Writer, r model.LookupRecord) {
	fmt.Fprintf(w, "  Number:    %s\n", phone.Format(r.FullNum))
	fmt.Fprintf(w, "  Operator:  %s\n", r.Operator)
	if r.OldOperator != "" {
		fmt.Fprintf(w, "  Ported:    from %s\n", r.OldOperator)
	}
	fmt.Fprintf(w, "  Region:    %s\n", r.Region)
	if r.Code != "" {
		fmt.Fprintf(w, "  Code:      %s\n", r.Code)
	}
}
