package cli

import (
	"github.com/spf13/cobra"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/store"
)

// NewDefaultsCommand creates the defaults command.
func NewDefaultsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "defaults [type...]",
		Short:         "Print the default encoded state of component types",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := lookupTypes(rootOpts, args)
			if err != nil {
				return err
			}
			out := make(map[string]any, len(types))
			for _, t := range types {
				out[t.Name] = docskema.Encode(t.Schema, docskema.SynthesizeDefault(t.Schema))
			}
			return write(cmd.OutOrStdout(), rootOpts.Format, out)
		},
	}
	return cmd
}

// NewJSONSchemaCommand creates the jsonschema command.
func NewJSONSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "jsonschema [type...]",
		Short:         "Export JSON Schema documents for component types",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := lookupTypes(rootOpts, args)
			if err != nil {
				return err
			}
			out := make(map[string]any, len(types))
			for _, t := range types {
				js, err := docskema.JSONSchema(t.Schema)
				if err != nil {
					return &ExitError{Code: ExitCommandError, Message: "export " + t.Name, Err: err}
				}
				out[t.Name] = js
			}
			return write(cmd.OutOrStdout(), rootOpts.Format, out)
		},
	}
	return cmd
}

// lookupTypes resolves names, or every registered type when names is empty.
func lookupTypes(opts *RootOptions, names []string) ([]*store.Type, error) {
	reg := opts.registry()
	if len(names) == 0 {
		names = reg.Names()
	}
	out := make([]*store.Type, 0, len(names))
	for _, n := range names {
		t, ok := reg.Lookup(n)
		if !ok {
			return nil, &ExitError{Code: ExitCommandError, Message: "unknown component type " + n}
		}
		out = append(out, t)
	}
	return out, nil
}
