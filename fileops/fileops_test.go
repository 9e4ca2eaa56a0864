package fileops_test

import (
	"fmt"
	"testing"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/directory"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/fileops"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/mkfs"
	"github.com/stretchr/testify/require"
)

func mustMount(t *testing.T, totalBlocks uint32) *fileops.Context {
	store := block.NewMemStore()
	require.NoError(t, mkfs.Format(store, totalBlocks))
	ctx, err := fileops.Mount(store)
	require.NoError(t, err)
	return ctx
}

// TestCreateWriteRead is scenario S2 from spec.md §8.
func TestCreateWriteRead(t *testing.T) {
	ctx := mustMount(t, 64)

	require.NoError(t, ctx.Create("/hello"))

	n, err := ctx.Write("/hello", 0, []byte("abc"))
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	data, err := ctx.Read("/hello", 0, 3)
	require.NoError(t, err)
	require.Equal(t, "abc", string(data))

	attr, err := ctx.GetAttr("/hello")
	require.NoError(t, err)
	require.EqualValues(t, 3, attr.Size)
	require.EqualValues(t, 1, attr.Blocks)
}

// TestDirectoryFull is scenario S3 from spec.md §8.
func TestDirectoryFull(t *testing.T) {
	ctx := mustMount(t, uint32(directory.Capacity)+8)

	for i := 0; i < directory.Capacity; i++ {
		require.NoError(t, ctx.Create(fmt.Sprintf("/f%d", i)))
	}

	err := ctx.Create("/overflow")
	require.Error(t, err)

	names, err := ctx.ReadDir("/")
	require.NoError(t, err)
	require.Len(t, names, directory.Capacity+2) // plus "." and ".."
}

// TestUnlinkFreesBlocks is scenario S4 from spec.md §8.
func TestUnlinkFreesBlocks(t *testing.T) {
	ctx := mustMount(t, 64)
	require.NoError(t, ctx.Create("/hello"))
	_, err := ctx.Write("/hello", 0, []byte("abc"))
	require.NoError(t, err)

	before := ctx.Statfs()
	require.NoError(t, ctx.Unlink("/hello"))
	after := ctx.Statfs()

	require.EqualValues(t, before.Bfree+2, after.Bfree)

	_, err = ctx.Read("/hello", 0, 3)
	require.ErrorIs(t, err, errors.ErrNotFound)
}

// TestRenameSameDirectory is scenario S6 from spec.md §8.
func TestRenameSameDirectory(t *testing.T) {
	ctx := mustMount(t, 64)
	require.NoError(t, ctx.Create("/a"))
	aAttrBefore, err := ctx.GetAttr("/a")
	require.NoError(t, err)

	require.NoError(t, ctx.Rename("/a", "/b", 0))

	_, err = ctx.GetAttr("/a")
	require.ErrorIs(t, err, errors.ErrNotFound)

	bAttr, err := ctx.GetAttr("/b")
	require.NoError(t, err)
	require.Equal(t, aAttrBefore, bAttr)

	require.NoError(t, ctx.Mkdir("/sub"))
	err = ctx.Rename("/b", "/sub/b", 0)
	require.ErrorIs(t, err, errors.ErrCrossDirectoryRename)
}

func TestMkdirRmdirRequiresEmpty(t *testing.T) {
	ctx := mustMount(t, 32)
	require.NoError(t, ctx.Mkdir("/d"))
	require.NoError(t, ctx.Create("/d/file"))

	err := ctx.Rmdir("/d")
	require.ErrorIs(t, err, errors.ErrDirectoryNotEmpty)

	require.NoError(t, ctx.Unlink("/d/file"))
	require.NoError(t, ctx.Rmdir("/d"))

	_, err = ctx.GetAttr("/d")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestWriteBeyondDirectLimitFails(t *testing.T) {
	ctx := mustMount(t, 32)
	require.NoError(t, ctx.Create("/big"))

	data := make([]byte, fileops.MaxFileSize+1)
	_, err := ctx.Write("/big", 0, data)
	require.Error(t, err)
}

func TestLseek(t *testing.T) {
	ctx := mustMount(t, 32)
	require.NoError(t, ctx.Create("/f"))
	_, err := ctx.Write("/f", 0, []byte("hello"))
	require.NoError(t, err)

	off, err := ctx.Lseek("/f", 3, fileops.SeekSet)
	require.NoError(t, err)
	require.EqualValues(t, 3, off)

	off, err = ctx.Lseek("/f", 0, fileops.SeekEnd)
	require.NoError(t, err)
	require.EqualValues(t, 5, off)

	_, err = ctx.Lseek("/f", 0, 99)
	require.ErrorIs(t, err, errors.ErrNotSupported)
}
