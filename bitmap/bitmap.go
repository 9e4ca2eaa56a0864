// Package bitmap tracks block occupancy across the whole filesystem
// (spec.md §4.3). It owns a byte buffer of ceil(totalBlocks/8) bytes, bit i
// (LSB-first within byte i/8) set iff block i is allocated, and knows how to
// persist that buffer to block 1.
package bitmap

import (
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	gobitmap "github.com/boljen/go-bitmap"
)

// Bitmap is the in-memory block-occupancy vector. The allocator operates on
// it as a pure data dependency -- it owns no state of its own -- and fsck
// reads and rewrites its bits directly during repair.
type Bitmap struct {
	bits        gobitmap.Bitmap
	totalBlocks uint32
}

// New creates a zeroed Bitmap sized for totalBlocks blocks.
func New(totalBlocks uint32) *Bitmap {
	return &Bitmap{
		bits:        gobitmap.New(int(totalBlocks)),
		totalBlocks: totalBlocks,
	}
}

// FromBytes wraps an already-loaded byte buffer (as read back from block 1)
// as a Bitmap for totalBlocks blocks. The caller retains ownership of buf's
// backing array only in the sense that Bitmap will mutate it in place.
func FromBytes(buf []byte, totalBlocks uint32) *Bitmap {
	return &Bitmap{
		bits:        gobitmap.NewSlice(buf),
		totalBlocks: totalBlocks,
	}
}

// ByteLen is the number of bytes needed to hold totalBlocks bits.
func ByteLen(totalBlocks uint32) int {
	return int((totalBlocks + 7) / 8)
}

// TotalBlocks returns the number of blocks this bitmap tracks.
func (b *Bitmap) TotalBlocks() uint32 {
	return b.totalBlocks
}

// Test reports whether block i is allocated.
func (b *Bitmap) Test(i uint32) bool {
	return b.bits.Get(int(i))
}

// Set marks block i allocated (v = true) or free (v = false).
func (b *Bitmap) Set(i uint32, v bool) {
	b.bits.Set(int(i), v)
}

// Bytes returns the raw backing buffer, left-zero-padded to
// block.BytesPerBlock by Write when persisted. The slice aliases the
// Bitmap's storage, so mutating it changes the Bitmap.
func (b *Bitmap) Bytes() []byte {
	return []byte(b.bits)
}

// Popcount returns the number of set bits, used by statfs to compute blocks
// used/free (spec.md §4.8) and by the invariant checker in §8.
func (b *Bitmap) Popcount() uint32 {
	var count uint32
	for i := uint32(0); i < b.totalBlocks; i++ {
		if b.Test(i) {
			count++
		}
	}
	return count
}

// Write persists the bitmap to block 1, left-zero-padded to
// block.BytesPerBlock.
func (b *Bitmap) Write(store block.Store) error {
	raw := b.Bytes()
	if len(raw) > block.BytesPerBlock {
		return errors.ErrIO.WithMessage("bitmap buffer exceeds block size")
	}
	return store.Write(1, raw, len(raw))
}

// Read loads the bitmap for totalBlocks blocks from block 1, allocating a
// fresh buffer that Go's GC reclaims once the Bitmap is no longer referenced.
func Read(store block.Store, totalBlocks uint32) (*Bitmap, error) {
	n := ByteLen(totalBlocks)
	raw := make([]byte, n)
	if err := store.Read(1, raw, n); err != nil {
		return nil, err
	}
	return FromBytes(raw, totalBlocks), nil
}
