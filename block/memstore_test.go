package block_test

import (
	"testing"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/stretchr/testify/require"
)

func TestMemStoreReadAfterWrite(t *testing.T) {
	store := block.NewMemStore()
	require.NoError(t, store.CreateEmpty(5))

	buf := make([]byte, block.BytesPerBlock)
	copy(buf, []byte("abc"))
	require.NoError(t, store.Write(5, buf, len(buf)))

	out := make([]byte, 3)
	require.NoError(t, store.Read(5, out, 3))
	require.Equal(t, "abc", string(out))
}

func TestMemStoreWritePadsWithZeroes(t *testing.T) {
	store := block.NewMemStore()
	require.NoError(t, store.CreateEmpty(0))
	require.NoError(t, store.Write(0, []byte("hi"), 2))

	out := make([]byte, block.BytesPerBlock)
	require.NoError(t, store.Read(0, out, block.BytesPerBlock))

	require.Equal(t, byte('h'), out[0])
	require.Equal(t, byte('i'), out[1])
	for _, b := range out[2:] {
		require.Zero(t, b)
	}
}

func TestMemStoreReadMissingBlockFails(t *testing.T) {
	store := block.NewMemStore()
	out := make([]byte, 4)
	require.Error(t, store.Read(99, out, 4))
}
