package main

import (
	"fmt"
	"io"

	"github.com/jsnml/gogit/internal/errutil"
	"github.com/spf13/cobra"
)

func newCheckoutCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout OID",
		Short: "Restore the worktree to match a commit and detach HEAD at it",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return checkoutCmd(cmd.OutOrStdout(), cfg, args[0])
	}

	return cmd
}

func checkoutCmd(out io.Writer, cfg *globalFlags, commitName string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveOID(commitName)
	if err != nil {
		return fmt.Errorf("not a valid object name %s: %w", commitName, err)
	}

	if err := r.Checkout(oid); err != nil {
		return err
	}

	fmt.Fprintf(out, "HEAD is now at %s\n", oid.String())
	return nil
}
