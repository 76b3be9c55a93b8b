package cli

import (
	"github.com/spf13/cobra"

	"github.com/reoring/docskema/document"
	"github.com/reoring/docskema/store"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <world-file>",
		Short: "Normalize a world and print it in the requested format",
		Long: `Load a serialized world into a document-backed store and print it back.

Missing fields are filled with their defaults, unknown fields are dropped
and numbers are normalized, so the output is the canonical encoding.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runConvert(opts *RootOptions, path string, cmd *cobra.Command) error {
	log := opts.logger(cmd.ErrOrStderr())
	raw, err := readWorld(path)
	if err != nil {
		return err
	}
	reg := opts.registry()
	s := store.NewProjected(document.New(), reg, nil, store.ProjectedOptions{Logger: log, Origin: "cli"})
	defer s.Close()
	if err := reg.Load(s, raw); err != nil {
		return &ExitError{Code: ExitFailure, Message: "load " + path, Err: err}
	}
	log.Debug("loaded world", "file", path, "entities", len(s.Entities()))
	return write(cmd.OutOrStdout(), opts.Format, reg.Encode(s))
}
