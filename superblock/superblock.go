// Package superblock implements the BWFS disk header (spec.md §4.2):
// initialize/validate/persist the fixed-size record stored in block 0.
package superblock

import (
	"bytes"
	"encoding/binary"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/noxer/bytewriter"
)

// Magic is the constant identifier stored in every valid superblock
// (spec.md §3). Read most-significant byte first it spells ASCII "BFWS".
const Magic = 0x42465753

// BlockSizeBits is the compile-time block size, in bits, that every
// superblock must carry. It's a fixed property of the format, not a
// per-filesystem parameter.
const BlockSizeBits = block.BlockPixels * block.BlockPixels

// Flag bits for Superblock.Flags. Neither is ever set by this module:
// FlagEncrypted documents the (out of scope) passphrase-encrypted metadata
// prototype, and FlagResizable documents the (out of scope) dynamic-resize
// feature. They exist so fsck and on-disk inspection tools have names for
// bits that a future, encryption- or resize-aware build might set.
const (
	FlagEncrypted = uint32(1) << 0
	FlagResizable = uint32(1) << 1
)

// Superblock is the file system header, one per filesystem, stored at
// block 0.
type Superblock struct {
	Magic       uint32
	TotalBlocks uint32
	BlockSize   uint32
	RootInode   uint32
	Flags       uint32
}

// Init populates a fresh Superblock for a filesystem of totalBlocks logical
// blocks. The root inode's location is assigned by the caller (mkfs, after
// it allocates the root directory's inode) via SetRootInode.
func Init(totalBlocks uint32) Superblock {
	return Superblock{
		Magic:       Magic,
		TotalBlocks: totalBlocks,
		BlockSize:   BlockSizeBits,
		RootInode:   0,
		Flags:       0,
	}
}

// SetRootInode records the block id of the root directory's inode.
func (sb *Superblock) SetRootInode(ino uint32) {
	sb.RootInode = ino
}

// Validate checks the invariants from spec.md §3: magic matches, block_size
// equals the compile-time constant, and root_inode is in [2, total_blocks).
func (sb *Superblock) Validate() error {
	if sb.Magic != Magic {
		return errors.ErrBadSuperblock.WithMessage("bad magic")
	}
	if sb.BlockSize != BlockSizeBits {
		return errors.ErrBadSuperblock.WithMessage("bad block_size")
	}
	if sb.TotalBlocks < 3 {
		return errors.ErrBadSuperblock.WithMessage("total_blocks must be >= 3")
	}
	if sb.RootInode < 2 || sb.RootInode >= sb.TotalBlocks {
		return errors.ErrBadSuperblock.WithMessage("root_inode out of range")
	}
	return nil
}

// encode serializes sb into a fixed BYTES_PER_BLOCK-sized record. Using
// bytewriter keeps the encoder honest about never writing past the block's
// capacity, mirroring the teacher's fixed-size record encoders.
func (sb *Superblock) encode() ([]byte, error) {
	buf := make([]byte, block.BytesPerBlock)
	w := bytewriter.New(buf)

	fields := []uint32{sb.Magic, sb.TotalBlocks, sb.BlockSize, sb.RootInode, sb.Flags}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return nil, errors.ErrIO.Wrap(err)
		}
	}
	return buf, nil
}

func decode(buf []byte) (Superblock, error) {
	r := bytes.NewReader(buf)
	var sb Superblock
	fields := []*uint32{&sb.Magic, &sb.TotalBlocks, &sb.BlockSize, &sb.RootInode, &sb.Flags}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return Superblock{}, errors.ErrIO.Wrap(err)
		}
	}
	return sb, nil
}

// Write persists sb to block 0.
func (sb *Superblock) Write(store block.Store) error {
	buf, err := sb.encode()
	if err != nil {
		return err
	}
	return store.Write(0, buf, len(buf))
}

// Read loads and validates the superblock from block 0. A bad magic or bad
// block_size surfaces as ErrBadSuperblock, distinct from ErrIO.
func Read(store block.Store) (Superblock, error) {
	buf := make([]byte, block.BytesPerBlock)
	if err := store.Read(0, buf, len(buf)); err != nil {
		return Superblock{}, err
	}

	sb, err := decode(buf)
	if err != nil {
		return Superblock{}, err
	}
	if err := sb.Validate(); err != nil {
		return Superblock{}, err
	}
	return sb, nil
}
