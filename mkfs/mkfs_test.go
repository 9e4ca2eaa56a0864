package mkfs_test

import (
	"testing"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/bitmap"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/mkfs"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/superblock"
	"github.com/stretchr/testify/require"
)

// TestFormatThenInspect is scenario S1 from spec.md §8.
func TestFormatThenInspect(t *testing.T) {
	store := block.NewMemStore()
	require.NoError(t, mkfs.Format(store, 16))

	sb, err := superblock.Read(store)
	require.NoError(t, err)
	require.EqualValues(t, superblock.Magic, sb.Magic)
	require.EqualValues(t, 16, sb.TotalBlocks)
	require.EqualValues(t, 2, sb.RootInode)

	bm, err := bitmap.Read(store, sb.TotalBlocks)
	require.NoError(t, err)
	for i := uint32(0); i < 16; i++ {
		want := i == 0 || i == 1 || i == 2
		require.Equal(t, want, bm.Test(i), "bit %d", i)
	}
}
