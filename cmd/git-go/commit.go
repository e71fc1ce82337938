package main

import (
	"errors"
	"io"

	"github.com/jsnml/gogit/internal/errutil"
	"github.com/spf13/cobra"
)

func newCommitCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record a new commit from the current worktree",
		Args:  cobra.NoArgs,
	}

	message := cmd.Flags().StringP("message", "m", "", "Use the given message as the commit message.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return commitCmd(cmd.OutOrStdout(), cfg, *message)
	}

	return cmd
}

func commitCmd(out io.Writer, cfg *globalFlags, message string) (err error) {
	if message == "" {
		return errors.New("missing commit message, use -m")
	}

	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.Commit(message)
	if err != nil {
		return err
	}

	_, err = io.WriteString(out, oid.String()+"\n")
	return err
}
