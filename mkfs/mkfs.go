// Package mkfs formats a fresh BWFS filesystem (spec.md §6 Format CLI):
// it writes a superblock, an empty bitmap with bits 0 and 1 set, allocates
// the root directory's inode, and creates totalBlocks empty block files.
package mkfs

import (
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/bitmap"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/inode"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/superblock"
)

// DefaultTotalBlocks is the block count mkfs uses when the caller doesn't
// specify one (spec.md §6).
const DefaultTotalBlocks = 1024

// Format creates totalBlocks empty blocks on store, then writes a fresh
// superblock, bitmap, and root directory inode.
func Format(store block.Store, totalBlocks uint32) error {
	if totalBlocks < 3 {
		return errors.ErrInval.WithMessage("total_blocks must be >= 3")
	}

	for i := block.ID(0); i < block.ID(totalBlocks); i++ {
		if err := store.CreateEmpty(i); err != nil {
			return err
		}
	}

	bm := bitmap.New(totalBlocks)
	bm.Set(0, true)
	bm.Set(1, true)

	root, err := inode.Create(store, bm, true)
	if err != nil {
		return err
	}

	sb := superblock.Init(totalBlocks)
	sb.SetRootInode(root.Ino)
	return sb.Write(store)
}
