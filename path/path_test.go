package path_test

import (
	"testing"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/bitmap"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/directory"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/inode"
	bwfspath "github.com/ajrojasfuentes/Black-and-White-Filesystem/path"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	parent, base, err := bwfspath.Split("/a/b/c")
	require.NoError(t, err)
	require.Equal(t, "/a/b", parent)
	require.Equal(t, "c", base)

	parent, base, err = bwfspath.Split("/hello")
	require.NoError(t, err)
	require.Equal(t, "/", parent)
	require.Equal(t, "hello", base)
}

func TestSplitRejectsEmptyBasename(t *testing.T) {
	_, _, err := bwfspath.Split("/a/")
	require.ErrorIs(t, err, errors.ErrInval)
}

func TestResolveNested(t *testing.T) {
	store := block.NewMemStore()
	bm := bitmap.New(16)
	bm.Set(0, true)
	bm.Set(1, true)
	for i := block.ID(0); i < 16; i++ {
		require.NoError(t, store.CreateEmpty(i))
	}

	root, err := inode.Create(store, bm, true)
	require.NoError(t, err)

	child, err := inode.Create(store, bm, true)
	require.NoError(t, err)
	require.NoError(t, directory.Add(store, bm, &root, "sub", child.Ino))

	leaf, err := inode.Create(store, bm, false)
	require.NoError(t, err)
	require.NoError(t, directory.Add(store, bm, &child, "file.txt", leaf.Ino))

	resolved, err := bwfspath.Resolve(store, root, "/sub/file.txt")
	require.NoError(t, err)
	require.Equal(t, leaf.Ino, resolved.Ino)
}

func TestResolveMissingComponent(t *testing.T) {
	store := block.NewMemStore()
	bm := bitmap.New(16)
	bm.Set(0, true)
	bm.Set(1, true)
	for i := block.ID(0); i < 16; i++ {
		require.NoError(t, store.CreateEmpty(i))
	}

	root, err := inode.Create(store, bm, true)
	require.NoError(t, err)

	_, err = bwfspath.Resolve(store, root, "/nope")
	require.ErrorIs(t, err, errors.ErrNotFound)
}
