package cli

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/docskema/snapshot"
	"github.com/reoring/docskema/store"
)

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Store and retrieve normalized worlds in a snapshot database",
	}
	cmd.AddCommand(newSnapshotSaveCommand(rootOpts))
	cmd.AddCommand(newSnapshotLoadCommand(rootOpts))
	cmd.AddCommand(newSnapshotListCommand(rootOpts))
	cmd.AddCommand(newSnapshotDeleteCommand(rootOpts))
	return cmd
}

func newSnapshotSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save <world-file>",
		Short: "Validate a world and save its canonical encoding",
		Long: `Load a world into an in-memory store and save the normalized encoding.

The snapshot name defaults to the file name without its extension.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			raw, err := readWorld(path)
			if err != nil {
				return err
			}
			reg := rootOpts.registry()
			s := store.NewMemory(nil)
			if err := reg.Load(s, raw); err != nil {
				return &ExitError{Code: ExitFailure, Message: "load " + path, Err: err}
			}
			db, err := rootOpts.openSnapshots()
			if err != nil {
				return err
			}
			defer db.Close()
			info, err := db.Save(cmd.Context(), name, reg.Encode(s))
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "save " + name, Err: err}
			}
			rootOpts.logger(cmd.ErrOrStderr()).Debug("saved snapshot", "name", info.Name, "id", info.ID, "entities", info.Entities)
			return write(cmd.OutOrStdout(), rootOpts.Format, info)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "snapshot name")
	return cmd
}

func newSnapshotLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "load <name>",
		Short:         "Print the latest snapshot saved under a name",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.openSnapshots()
			if err != nil {
				return err
			}
			defer db.Close()
			_, world, err := db.Load(cmd.Context(), args[0])
			if err != nil {
				code := ExitCommandError
				if errors.Is(err, snapshot.ErrNotFound) {
					code = ExitFailure
				}
				return &ExitError{Code: code, Message: "load " + args[0], Err: err}
			}
			// Refuse snapshots the current registry no longer decodes.
			if _, err := rootOpts.registry().Decode(world); err != nil {
				return &ExitError{Code: ExitFailure, Message: "decode " + args[0], Err: err}
			}
			return write(cmd.OutOrStdout(), rootOpts.Format, world)
		},
	}
}

func newSnapshotListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored snapshots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.openSnapshots()
			if err != nil {
				return err
			}
			defer db.Close()
			list, err := db.List(cmd.Context())
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "list snapshots", Err: err}
			}
			if list == nil {
				list = []snapshot.Info{}
			}
			return write(cmd.OutOrStdout(), rootOpts.Format, list)
		},
	}
}

func newSnapshotDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete every snapshot saved under a name",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.openSnapshots()
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := db.Delete(cmd.Context(), args[0])
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "delete " + args[0], Err: err}
			}
			return write(cmd.OutOrStdout(), rootOpts.Format, map[string]any{"name": args[0], "deleted": n})
		},
	}
}

func (o *RootOptions) openSnapshots() (*snapshot.Store, error) {
	db, err := snapshot.Open(o.DB)
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, Message: "open snapshot database", Err: err}
	}
	return db, nil
}
