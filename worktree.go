package git

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/jsnml/gogit/ginternals/githash"
	"github.com/jsnml/gogit/ginternals/object"
	"github.com/spf13/afero"
)

// ErrMalformedTree is returned when a tree record's name is unsafe to
// materialize onto the worktree (contains a path separator, or is "."
// or "..")
var ErrMalformedTree = errors.New("malformed tree")

// ignoredName reports whether a path component should be excluded
// from a worktree scan. The gitdir itself is always ignored.
func (r *Repository) ignoredName(name string) bool {
	return name == filepath.Base(r.Config.GitDirPath)
}

// WriteTree scans dir (non-recursively at each level, recursing into
// subdirectories) and builds a tree object representing its content.
// Regular files become blobs, subdirectories become nested trees,
// anything else (symlinks, devices, ...) is skipped. The directory
// itself isn't required to be the worktree root, but a typical caller
// passes r.Config.WorkTreePath.
//
// The traversal is iterative (a stack of pending directories) rather
// than recursive, so arbitrarily deep worktrees don't risk blowing the
// call stack.
func (r *Repository) WriteTree(dir string) (githash.Oid, error) {
	type frame struct {
		path    string // absolute path on disk
		entries []object.TreeEntry
	}

	root := &frame{path: dir}
	stack := []*frame{root}

	// order tracks the sequence in which directories were discovered,
	// so we process leaves before their parents (post-order)
	var order []*frame
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, f)

		infos, err := afero.ReadDir(r.fs, f.path)
		if err != nil {
			return r.hash.NullOid(), fmt.Errorf("could not read directory %s: %w", f.path, err)
		}
		sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

		for _, info := range infos {
			if r.ignoredName(info.Name()) {
				continue
			}
			childPath := filepath.Join(f.path, info.Name())

			switch {
			case info.IsDir():
				child := &frame{path: childPath}
				stack = append(stack, child)
				// reserve a slot; filled in once the child is processed
				f.entries = append(f.entries, object.TreeEntry{
					Path: info.Name(),
					Mode: object.ModeDirectory,
				})
			case info.Mode().IsRegular():
				data, err := afero.ReadFile(r.fs, childPath)
				if err != nil {
					return r.hash.NullOid(), fmt.Errorf("could not read file %s: %w", childPath, err)
				}
				o := object.New(r.hash, object.TypeBlob, data)
				oid, err := r.WriteObject(o)
				if err != nil {
					return r.hash.NullOid(), fmt.Errorf("could not write blob for %s: %w", childPath, err)
				}
				f.entries = append(f.entries, object.TreeEntry{
					Path: info.Name(),
					Mode: object.ModeFile,
					ID:   oid,
				})
			default:
				// symlinks and other special files are skipped
			}
		}
	}

	// Process in reverse discovery order so every child directory is
	// turned into a tree object before its parent needs its OID.
	childOID := make(map[string]githash.Oid, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		f := order[i]
		for j := range f.entries {
			e := &f.entries[j]
			if e.Mode != object.ModeDirectory {
				continue
			}
			oid, ok := childOID[filepath.Join(f.path, e.Path)]
			if !ok {
				return r.hash.NullOid(), fmt.Errorf("internal error: missing tree oid for %s", e.Path)
			}
			e.ID = oid
		}

		tree := object.NewTree(r.hash, f.entries)
		oid, err := r.WriteObject(tree.ToObject())
		if err != nil {
			return r.hash.NullOid(), fmt.Errorf("could not write tree for %s: %w", f.path, err)
		}
		childOID[f.path] = oid
	}

	return childOID[dir], nil
}

// treeFile is a single blob destined for the worktree, keyed by its
// absolute path
type treeFile struct {
	path string
	oid  githash.Oid
}

// flattenTree walks a tree object recursively, collecting every blob
// entry into an absolute-path -> oid mapping. Directory and file
// names are validated: anything containing a path separator or equal
// to "." or ".." is a MalformedTree fault rather than a
// path-traversal vector.
func (r *Repository) flattenTree(root string, oid githash.Oid) ([]treeFile, error) {
	var out []treeFile

	type pending struct {
		path string
		oid  githash.Oid
	}
	queue := []pending{{path: root, oid: oid}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		o, err := r.GetObject(cur.oid)
		if err != nil {
			return nil, fmt.Errorf("could not read tree %s: %w", cur.oid.String(), err)
		}
		tree, err := o.AsTree()
		if err != nil {
			return nil, fmt.Errorf("could not parse tree %s: %w", cur.oid.String(), err)
		}

		for _, e := range tree.Entries() {
			if e.Path == "" || e.Path == "." || e.Path == ".." || filepath.Base(e.Path) != e.Path {
				return nil, fmt.Errorf("invalid entry name %q: %w", e.Path, ErrMalformedTree)
			}
			entryPath := filepath.Join(cur.path, e.Path)
			if e.Mode == object.ModeDirectory {
				queue = append(queue, pending{path: entryPath, oid: e.ID})
				continue
			}
			out = append(out, treeFile{path: entryPath, oid: e.ID})
		}
	}

	return out, nil
}

// ReadTree materializes the tree at oid onto the worktree rooted at
// r.Config.WorkTreePath. The current non-ignored content of the
// worktree is erased first (bottom-up, leaving non-ignored
// directories that still contain ignored content untouched), then
// every blob in the tree is written to its target path.
func (r *Repository) ReadTree(oid githash.Oid) error {
	root := r.Config.WorkTreePath

	if err := r.clearWorktree(root); err != nil {
		return fmt.Errorf("could not clear worktree: %w", err)
	}

	files, err := r.flattenTree(root, oid)
	if err != nil {
		return err
	}

	for _, f := range files {
		o, err := r.GetObject(f.oid)
		if err != nil {
			return fmt.Errorf("could not read blob %s: %w", f.oid.String(), err)
		}
		blob := o.AsBlob()

		if err := r.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return fmt.Errorf("could not create directory for %s: %w", f.path, err)
		}
		if err := afero.WriteFile(r.fs, f.path, blob.Bytes(), 0o644); err != nil {
			return fmt.Errorf("could not write %s: %w", f.path, err)
		}
	}

	return nil
}

// clearWorktree removes every non-ignored file under root, then
// removes every non-ignored directory left empty, processed
// bottom-up so a directory is only considered for removal once its
// content has already been handled.
func (r *Repository) clearWorktree(root string) error {
	var dirs []string

	err := afero.Walk(r.fs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("could not walk %s: %w", path, err)
		}
		if path == root {
			return nil
		}
		if r.ignoredName(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		return r.fs.Remove(path)
	})
	if err != nil {
		return err
	}

	// remove directories deepest-first so a parent only gets removed
	// once it's empty
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, d := range dirs {
		// best-effort: a directory that still has ignored content
		// inside it is left alone
		_ = r.fs.Remove(d)
	}

	return nil
}
