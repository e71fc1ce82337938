package main

import (
	"fmt"
	"io"

	"github.com/jsnml/gogit/ginternals"
	"github.com/jsnml/gogit/internal/errutil"
	"github.com/spf13/cobra"
)

func newLogCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log [OID]",
		Short: "Show the commit history starting at OID (defaults to HEAD)",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		start := "@"
		if len(args) > 0 {
			start = args[0]
		}
		return logCmd(cmd.OutOrStdout(), cfg, start)
	}

	return cmd
}

func logCmd(out io.Writer, cfg *globalFlags, startName string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveOID(startName)
	if err != nil {
		return fmt.Errorf("not a valid object name %s: %w", startName, err)
	}

	entries, err := r.Log(oid)
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Fprintf(out, "commit %s", e.OID.String())
		if e.IsHead {
			fmt.Fprintf(out, " (%s)", ginternals.Head)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "    %s\n\n", e.Message)
	}

	return nil
}
