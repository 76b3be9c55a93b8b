package cli

import (
	"errors"

	"github.com/spf13/cobra"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/registry"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Entities int               `json:"entities"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError is one problem found in a world file.
type ValidationError struct {
	Entity  string `json:"entity,omitempty"`
	Type    string `json:"type,omitempty"`
	Path    string `json:"path,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <world-file>",
		Short: "Check that every component of a world decodes",
		Long: `Decode every component of a serialized world against the registry.

Loading is all-or-nothing, so the report names the first offending
component type; a component with several bad fields lists each of them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	log := opts.logger(cmd.ErrOrStderr())
	raw, err := readWorld(path)
	var w registry.World
	switch {
	case err == nil:
		w, err = opts.registry().Decode(raw)
	case !isIssues(err):
		return err
	}
	res := ValidationResult{Valid: err == nil, Entities: len(w)}
	if err != nil {
		res.Errors = validationErrors(err)
	}
	log.Debug("validated world", "file", path, "valid", res.Valid, "entities", res.Entities)
	if werr := write(cmd.OutOrStdout(), opts.Format, res); werr != nil {
		return werr
	}
	if !res.Valid {
		return &ExitError{Code: ExitFailure, Message: "validation failed", Err: err}
	}
	return nil
}

func isIssues(err error) bool {
	_, ok := docskema.AsIssues(err)
	return ok
}

func validationErrors(err error) []ValidationError {
	var lookup *registry.LookupError
	if errors.As(err, &lookup) {
		return []ValidationError{{
			Entity:  string(lookup.EntityID),
			Type:    lookup.TypeName,
			Code:    docskema.CodeUnknownComponentType,
			Message: lookup.Error(),
		}}
	}
	var decode *registry.ComponentDecodeError
	if errors.As(err, &decode) {
		var out []ValidationError
		iss, _ := docskema.AsIssues(decode.Err)
		for _, it := range iss {
			out = append(out, ValidationError{
				Entity:  string(decode.EntityID),
				Type:    decode.TypeName,
				Path:    it.Path,
				Code:    it.Code,
				Message: it.Message,
			})
		}
		if len(out) > 0 {
			return out
		}
	}
	if iss, ok := docskema.AsIssues(err); ok {
		out := make([]ValidationError, 0, len(iss))
		for _, it := range iss {
			out = append(out, ValidationError{Path: it.Path, Code: it.Code, Message: it.Message})
		}
		return out
	}
	return []ValidationError{{Code: docskema.CodeParseError, Message: err.Error()}}
}
