package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"gitsuggest/internal/logger"
	"gitsuggest/internal/ui/views"
)

// ErrTextTooShort is returned when the query is below the trigger length
var ErrTextTooShort = errors.New("text too short")

// ErrSearchFailed is the generic failure reported by the query command
var ErrSearchFailed = errors.New(views.ErrorMessage)

type queryOptions struct {
	plain bool
}

func newQueryCmd(a *app) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Print the merged suggestions for text and exit",
		Long: `Run one search for text against both sources and print the ranked list,
one suggestion per line: value, origin label and id.

Examples:
  gitsuggest query ala
  gitsuggest query "torvalds" --plain | cut -f1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, a, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Tab separated output even on a terminal")

	return cmd
}

func runQuery(cmd *cobra.Command, a *app, text string, opts queryOptions) error {
	ctx := cmd.Context()
	minLength := a.cfg.Search.MinLength
	if utf8.RuneCountInString(text) < minLength {
		return fmt.Errorf("%w: need at least %d characters", ErrTextTooShort, minLength)
	}

	items, err := newOrchestrator(a.cfg, newMetrics(a.cfg)).FetchAndRank(ctx, text)
	if err != nil {
		a.log.Warn(ctx, "query failed", logger.String("text", text), logger.Error(err))
		return ErrSearchFailed
	}
	a.log.Info(ctx, "query completed", logger.String("text", text), logger.Int("count", len(items)))

	out := cmd.OutOrStdout()
	styled := !opts.plain && isTerminal(out)
	renderer := views.NewSuggestionRenderer(views.NewStyles())
	for _, item := range items {
		line := views.PlainItem(item)
		if styled {
			line = renderer.RenderSuggestion(item, false, text, 80)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
