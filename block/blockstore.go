// Package block defines the BlockStore abstraction (spec.md §4.1): the
// fixed-size, integer-keyed read/write/create-empty primitive that every
// other BWFS component is built on. The pixel-level codec that turns a
// block's bytes into a 1000x1000 monochrome image is an external concern;
// anything satisfying the Store interface below -- a directory of raw
// files, an in-memory buffer, or a real image codec -- is interchangeable.
package block

import "github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"

// BlockPixels is the side length, in pixels, of the monochrome image backing
// one logical block (1000x1000 per spec.md §3).
const BlockPixels = 1000

// BytesPerBlock is the fixed payload size of every block: 1,000,000 bits
// packed into bytes.
const BytesPerBlock = (BlockPixels * BlockPixels) / 8

// ID identifies a logical block. Block 0 is always the superblock and block
// 1 is always the bitmap; every other id holds either inode metadata or
// file/directory data.
type ID uint32

// Store is the read/write/create-empty primitive every BWFS component uses
// for persistence. Implementations need not be atomic: a failure mid-write
// may leave the store in an indeterminate state, which fsck is responsible
// for detecting and repairing.
type Store interface {
	// CreateEmpty produces a block of id `id`, initialized to all-zero
	// bytes, exactly BytesPerBlock bytes long. It fails with ErrIO on any
	// partial write or size mismatch.
	CreateEmpty(id ID) error

	// Write writes the first `length` bytes of buf to block `id`, followed
	// by (BytesPerBlock - length) zero bytes. length must be <=
	// BytesPerBlock.
	Write(id ID, buf []byte, length int) error

	// Read copies the first `length` bytes of block `id` into out. It fails
	// with ErrIO if the block is missing or has the wrong size.
	Read(id ID, out []byte, length int) error
}

func checkLength(length int) error {
	if length < 0 || length > BytesPerBlock {
		return errors.ErrInval.WithMessage("length out of range for a block")
	}
	return nil
}
