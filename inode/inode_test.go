package inode_test

import (
	"testing"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/bitmap"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/inode"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T, totalBlocks uint32) (*block.MemStore, *bitmap.Bitmap) {
	store := block.NewMemStore()
	bm := bitmap.New(totalBlocks)
	bm.Set(0, true)
	bm.Set(1, true)
	for i := block.ID(0); i < block.ID(totalBlocks); i++ {
		require.NoError(t, store.CreateEmpty(i))
	}
	return store, bm
}

func TestCreateAndRoundTrip(t *testing.T) {
	store, bm := newFixture(t, 16)

	in, err := inode.Create(store, bm, true)
	require.NoError(t, err)
	require.EqualValues(t, 2, in.Ino)
	require.True(t, in.IsDir())
	require.True(t, bm.Test(2))

	loaded, err := inode.Read(store, block.ID(in.Ino))
	require.NoError(t, err)
	require.Equal(t, in, loaded)
}

func TestResizeExpandsAndShrinks(t *testing.T) {
	store, bm := newFixture(t, 32)
	in, err := inode.Create(store, bm, false)
	require.NoError(t, err)

	require.NoError(t, inode.Resize(store, bm, &in, block.BytesPerBlock*2))
	require.EqualValues(t, 2, in.BlockCount)
	require.True(t, bm.Test(in.Blocks[0]))
	require.True(t, bm.Test(in.Blocks[1]))

	freedBlock := in.Blocks[1]
	require.NoError(t, inode.Resize(store, bm, &in, 10))
	require.EqualValues(t, 1, in.BlockCount)
	require.EqualValues(t, 10, in.Size)
	require.False(t, bm.Test(freedBlock))
	require.EqualValues(t, 0, in.Blocks[1])
}

func TestResizeBeyondDirectFails(t *testing.T) {
	store, bm := newFixture(t, 32)
	in, err := inode.Create(store, bm, false)
	require.NoError(t, err)

	err = inode.Resize(store, bm, &in, (inode.Direct+1)*block.BytesPerBlock)
	require.ErrorIs(t, err, errors.ErrFull)
}

func TestResizeRollsBackPartialAllocation(t *testing.T) {
	// Only 3 free blocks available beyond what's already used, but the
	// resize asks for 5 -- the allocation must fail cleanly and not leave
	// any of the 3 blocks it grabbed along the way marked as used.
	store, bm := newFixture(t, 8)
	in, err := inode.Create(store, bm, false)
	require.NoError(t, err)

	bm.Set(3, true)
	bm.Set(4, true) // leaves exactly 3 free blocks (5, 6, 7)
	before := append([]byte(nil), bm.Bytes()...)

	err = inode.Resize(store, bm, &in, 5*block.BytesPerBlock)
	require.ErrorIs(t, err, errors.ErrFull)
	require.Equal(t, before, bm.Bytes())
}
