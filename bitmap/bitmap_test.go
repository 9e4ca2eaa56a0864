package bitmap_test

import (
	"testing"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/bitmap"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/stretchr/testify/require"
)

func TestSetAndTest(t *testing.T) {
	bm := bitmap.New(16)
	require.False(t, bm.Test(5))
	bm.Set(5, true)
	require.True(t, bm.Test(5))
	bm.Set(5, false)
	require.False(t, bm.Test(5))
}

func TestPopcount(t *testing.T) {
	bm := bitmap.New(16)
	bm.Set(0, true)
	bm.Set(1, true)
	bm.Set(15, true)
	require.EqualValues(t, 3, bm.Popcount())
}

func TestRoundTrip(t *testing.T) {
	store := block.NewMemStore()
	require.NoError(t, store.CreateEmpty(1))

	bm := bitmap.New(24)
	bm.Set(0, true)
	bm.Set(1, true)
	bm.Set(23, true)
	require.NoError(t, bm.Write(store))

	loaded, err := bitmap.Read(store, 24)
	require.NoError(t, err)
	require.True(t, loaded.Test(0))
	require.True(t, loaded.Test(1))
	require.True(t, loaded.Test(23))
	require.False(t, loaded.Test(10))
}
