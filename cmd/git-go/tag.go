package main

import (
	"fmt"
	"io"

	"github.com/jsnml/gogit/internal/errutil"
	"github.com/spf13/cobra"
)

func newTagCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag NAME [OID]",
		Short: "Create a lightweight tag pointing at OID (defaults to HEAD)",
		Args:  cobra.RangeArgs(1, 2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := "@"
		if len(args) == 2 {
			target = args[1]
		}
		return tagCmd(cmd.OutOrStdout(), cfg, args[0], target)
	}

	return cmd
}

func tagCmd(_ io.Writer, cfg *globalFlags, name, target string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveOID(target)
	if err != nil {
		return fmt.Errorf("not a valid object name %s: %w", target, err)
	}

	return r.CreateTag(name, oid)
}
