// Package path implements BWFS path resolution (spec.md §4.7): mapping
// "/a/b/c" to an inode, and splitting a path into its parent directory and
// basename.
package path

import (
	"strings"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/directory"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/inode"
)

// Resolve maps path to the inode at that location, starting from root.
// "/" yields root directly. Each intermediate component must resolve
// through a directory; a dangling component surfaces as ErrNotFound.
func Resolve(store block.Store, root inode.Inode, p string) (inode.Inode, error) {
	if p == "/" || p == "" {
		return root, nil
	}

	components := splitComponents(p)
	current := root

	for _, name := range components {
		if !current.IsDir() {
			return inode.Inode{}, errors.ErrNotADirectory.WithMessage(
				"cannot descend into " + name + ": parent is not a directory",
			)
		}

		childIno, ok := directory.Lookup(store, &current, name)
		if !ok {
			return inode.Inode{}, errors.ErrNotFound.WithMessage(p)
		}

		child, err := inode.Read(store, block.ID(childIno))
		if err != nil {
			return inode.Inode{}, err
		}
		current = child
	}

	return current, nil
}

// splitComponents splits p on '/', discarding empty components (the
// leading slash, and any run of repeated slashes).
func splitComponents(p string) []string {
	raw := strings.Split(p, "/")
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Split returns the substring up to the last '/' (or "/" if there is none)
// and the substring after it. The basename must be non-empty and at most
// directory.NameMax bytes; otherwise Split returns ErrInval.
func Split(p string) (parent, base string, err error) {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		parent = "/"
		base = p
	} else {
		parent = p[:idx]
		if parent == "" {
			parent = "/"
		}
		base = p[idx+1:]
	}

	if base == "" || len(base) > directory.NameMax {
		return "", "", errors.ErrInval.WithMessage("invalid path basename")
	}
	return parent, base, nil
}
