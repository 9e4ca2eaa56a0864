// Package alloc implements the worst-fit contiguous block allocator
// (spec.md §4.4). It's a pure function of a *bitmap.Bitmap: it owns no
// state of its own, exactly as spec.md §9 calls for.
package alloc

import (
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/bitmap"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
)

// run tracks a contiguous stretch of free bits while scanning the bitmap.
type run struct {
	start block.ID
	len   uint32
}

// Alloc scans the bitmap for the largest free run of at least `count`
// contiguous blocks (worst-fit), sets those bits, and returns its start. The
// second return value is false if no run of sufficient length exists; in
// that case the bitmap is left unmodified. Ties are broken by lowest start
// index, since the scan is linear and the first run seen at a given length
// wins.
//
// Worst-fit tends to leave the largest contiguous regions intact for
// growing files, at the cost of fragmenting smaller ones -- an acceptable
// trade given BWFS's small block counts and DIRECT=10.
func Alloc(bm *bitmap.Bitmap, count uint32) (block.ID, bool) {
	if count == 0 {
		return 0, false
	}

	var cur run
	var best run
	haveCur := false

	closeCur := func() {
		if haveCur && cur.len >= count && cur.len > best.len {
			best = cur
		}
		haveCur = false
		cur = run{}
	}

	total := bm.TotalBlocks()
	for i := uint32(0); i < total; i++ {
		if bm.Test(i) {
			closeCur()
			continue
		}
		if !haveCur {
			cur = run{start: block.ID(i), len: 0}
			haveCur = true
		}
		cur.len++
	}
	closeCur()

	if best.len < count {
		return 0, false
	}

	for i := uint32(0); i < count; i++ {
		bm.Set(uint32(best.start)+i, true)
	}
	return best.start, true
}

// Free clears bits [start, start+count) in the bitmap. It does not check
// aliasing; the caller must free exactly what it allocated.
func Free(bm *bitmap.Bitmap, start block.ID, count uint32) {
	for i := uint32(0); i < count; i++ {
		bm.Set(uint32(start)+i, false)
	}
}
