package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/ppiankov/numinfo/internal/phone"
	"github.com/ppiankov/numinfo/internal/pipeline"
	"github.com/spf13/cobra"
)

var translit bool

// fieldFetcher is implemented by clients that can return a single field
type fieldFetcher interface {
	FetchField(ctx context.Context, raw, field string, translit bool) (string, error)
}

// fieldCmd represents the field command
var fieldCmd = &cobra.Command{
	Use:   "field <number> <field>",
	Short: "Print one field of a lookup as plain text",
	Long: `Ask the lookup service for a single field of a number, such as
operator or region, as plain text.

Example:
  numinfo field 79123456789 operator
  numinfo field 79123456789 region --translit`,
	Args: cobra.ExactArgs(2),
	RunE: runField,
}

func init() {
	rootCmd.AddCommand(fieldCmd)

	fieldCmd.Flags().BoolVar(&translit, "translit", false, "transliterate the value to Latin script")
	fieldCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh lookup)")
}

func runField(cmd *cobra.Command, args []string) error {
	number, field := args[0], strings.TrimSpace(args[1])
	if !phone.IsValid(number) {
		return fmt.Errorf("%q: %w", number, pipeline.ErrInvalidNumber)
	}
	if field == "" {
		return errors.New("field name is required")
	}

	sess, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	if sess.cfg.Offline.Enabled {
		return errors.New("field lookups need the remote api, disable offline mode")
	}
	if err := sess.start(newTermNotifier(cmd.ErrOrStderr())); err != nil {
		return err
	}

	fetcher, ok := sess.client.(fieldFetcher)
	if !ok {
		return fmt.Errorf("client %T does not support field lookups", sess.client)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	value, err := fetcher.FetchField(ctx, number, field, translit)
	if err != nil {
		return fmt.Errorf("field %s of %s: %w", field, number, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}
