package main

import (
	"fmt"
	"io"
	"os"

	git "github.com/jsnml/gogit"
	"github.com/jsnml/gogit/ginternals/githash"
	"github.com/jsnml/gogit/ginternals/object"
	"github.com/jsnml/gogit/internal/errutil"
	"github.com/spf13/cobra"
)

func newHashObjectCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-object FILE",
		Short: "Compute object ID and optionally creates a blob from a file",
		Args:  cobra.ExactArgs(1),
	}

	typ := cmd.Flags().StringP("type", "t", "blob", "Specify the type")
	write := cmd.Flags().BoolP("w", "w", false, "Actually write the object into the object database.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return hashObjectCmd(cmd.OutOrStdout(), cfg, args[0], *typ, *write)
	}

	return cmd
}

func hashObjectCmd(out io.Writer, cfg *globalFlags, filePath, typ string, write bool) (err error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	objType, err := object.NewTypeFromString(typ)
	if err != nil {
		return fmt.Errorf("unsupported object type %s: %w", typ, err)
	}

	// The OID of an object only depends on the hash algorithm, not on
	// whether it gets persisted, so hash-object without -w doesn't need
	// a repository at all
	hash := githash.NewSHA1()
	var r *git.Repository
	if write {
		r, err = loadRepository(cfg)
		if err != nil {
			return err
		}
		defer errutil.Close(r, &err)
		hash = r.Hash()
	}

	o := object.New(hash, objType, content)
	switch objType {
	case object.TypeCommit:
		if _, err = o.AsCommit(); err != nil {
			return fmt.Errorf("invalid commit file: %w", err)
		}
	case object.TypeTree:
		if _, err = o.AsTree(); err != nil {
			return fmt.Errorf("invalid tree file: %w", err)
		}
	case object.TypeTag:
		if _, err = o.AsTag(); err != nil {
			return fmt.Errorf("invalid tag file: %w", err)
		}
	}

	if write {
		if _, err = r.WriteObject(o); err != nil {
			return fmt.Errorf("could not write object: %w", err)
		}
	}

	fmt.Fprintln(out, o.ID().String())
	return nil
}
