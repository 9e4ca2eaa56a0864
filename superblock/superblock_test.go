package superblock_test

import (
	"testing"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/superblock"
	"github.com/stretchr/testify/require"
)

func TestInitAndRoundTrip(t *testing.T) {
	store := block.NewMemStore()
	require.NoError(t, store.CreateEmpty(0))

	sb := superblock.Init(16)
	sb.SetRootInode(2)
	require.NoError(t, sb.Write(store))

	loaded, err := superblock.Read(store)
	require.NoError(t, err)
	require.EqualValues(t, superblock.Magic, loaded.Magic)
	require.EqualValues(t, 16, loaded.TotalBlocks)
	require.EqualValues(t, 2, loaded.RootInode)
}

func TestReadRejectsBadMagic(t *testing.T) {
	store := block.NewMemStore()
	require.NoError(t, store.CreateEmpty(0))

	sb := superblock.Init(16)
	sb.SetRootInode(2)
	require.NoError(t, sb.Write(store))

	corrupt := make([]byte, block.BytesPerBlock)
	require.NoError(t, store.Read(0, corrupt, block.BytesPerBlock))
	corrupt[0] = 0xFF
	require.NoError(t, store.Write(0, corrupt, block.BytesPerBlock))

	_, err := superblock.Read(store)
	require.ErrorIs(t, err, errors.ErrBadSuperblock)
}

func TestValidateRejectsBadRootInode(t *testing.T) {
	sb := superblock.Init(16)
	sb.SetRootInode(1)
	require.ErrorIs(t, sb.Validate(), errors.ErrBadSuperblock)

	sb.SetRootInode(16)
	require.ErrorIs(t, sb.Validate(), errors.ErrBadSuperblock)
}
