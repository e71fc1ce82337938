package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsnml/gogit/internal/errutil"
	"github.com/spf13/cobra"
)

func newKCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "k",
		Short: "Display the commit graph reachable from every ref",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return kCmd(cmd.OutOrStdout(), cfg)
	}

	return cmd
}

func kCmd(out io.Writer, cfg *globalFlags) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	g, err := r.K()
	if err != nil {
		return err
	}

	for _, n := range g.Nodes {
		fmt.Fprintf(out, "* %s", n.OID.String())
		if len(n.Refs) > 0 {
			fmt.Fprintf(out, " (%s)", strings.Join(n.Refs, ", "))
		}
		fmt.Fprintln(out)
		for _, p := range n.Parents {
			fmt.Fprintf(out, "|\\ parent %s\n", p.String())
		}
	}

	return nil
}
