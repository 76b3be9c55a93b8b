package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/reoring/docskema/i18n"
	"github.com/reoring/docskema/internal/demo"
	"github.com/reoring/docskema/registry"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "yaml"
	Lang    string // issue message language, a BCP 47 tag
	DB      string // snapshot database URL

	// Registry resolves component types. Nil means the demo registry.
	Registry *registry.Registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"json", "yaml"}

// NewRootCommand creates the root command for the docskema CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cfg, envErr := ParseEnv()
	cmd := &cobra.Command{
		Use:   "docskema",
		Short: "Inspect and normalize serialized component worlds",
		Long: `docskema validates, converts and describes serialized worlds of the form
{entityId: {componentType: <encoded state>}} against a component registry.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return &ExitError{Code: ExitCommandError, Message: "configuration", Err: envErr}
			}
			i18n.SetLanguage(opts.Lang)
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|yaml) [$DOCSKEMA_FORMAT]")
	cmd.PersistentFlags().StringVar(&opts.Lang, "lang", cfg.Lang, "issue message language [$DOCSKEMA_LANG]")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", cfg.DB, "snapshot database URL (sqlite://path) [$DOCSKEMA_DB]")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewDefaultsCommand(opts))
	cmd.AddCommand(NewJSONSchemaCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))

	return cmd
}

func (o *RootOptions) registry() *registry.Registry {
	if o.Registry == nil {
		o.Registry = demo.Registry()
	}
	return o.Registry
}

// logger writes to w: debug records with --verbose, warnings otherwise.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
