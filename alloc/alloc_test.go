package alloc_test

import (
	"testing"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/alloc"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/bitmap"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/stretchr/testify/require"
)

// buildRuns lays out free runs of the given lengths separated by single
// allocated blocks, e.g. [3, 7, 5] -> ...free(3)...used...free(7)...used...free(5)
func buildRuns(lengths ...uint32) *bitmap.Bitmap {
	total := uint32(0)
	for _, l := range lengths {
		total += l + 1
	}
	bm := bitmap.New(total)
	pos := uint32(0)
	for _, l := range lengths {
		pos += l
		bm.Set(pos, true) // the separator
		pos++
	}
	return bm
}

func TestWorstFitPicksLargestRun(t *testing.T) {
	bm := buildRuns(3, 7, 5)
	start, ok := alloc.Alloc(bm, 2)
	require.True(t, ok)
	require.EqualValues(t, 4, start) // run of 7 begins right after the first separator at index 3
}

func TestAllocFailsWhenNoRunBigEnough(t *testing.T) {
	bm := buildRuns(1, 1)
	_, ok := alloc.Alloc(bm, 5)
	require.False(t, ok)
}

func TestFreeUndoesAlloc(t *testing.T) {
	bm := bitmap.New(32)
	before := append([]byte(nil), bm.Bytes()...)

	start, ok := alloc.Alloc(bm, 4)
	require.True(t, ok)
	alloc.Free(bm, start, 4)

	require.Equal(t, before, bm.Bytes())
}

func TestAllocSetsExactlyRequestedBits(t *testing.T) {
	bm := bitmap.New(16)
	start, ok := alloc.Alloc(bm, 3)
	require.True(t, ok)
	for i := block.ID(0); i < 3; i++ {
		require.True(t, bm.Test(uint32(start)+uint32(i)))
	}
	require.False(t, bm.Test(uint32(start)+3))
}
