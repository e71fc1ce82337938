package main

import (
	"fmt"
	"io"

	"github.com/jsnml/gogit/internal/errutil"
	"github.com/spf13/cobra"
)

func newReadTreeCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read-tree TREE",
		Short: "Restore the worktree to match a tree object, discarding untracked files",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return readTreeCmd(cmd.OutOrStdout(), cfg, args[0])
	}

	return cmd
}

func readTreeCmd(_ io.Writer, cfg *globalFlags, treeName string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveOID(treeName)
	if err != nil {
		return fmt.Errorf("not a valid object name %s: %w", treeName, err)
	}

	return r.ReadTree(oid)
}
