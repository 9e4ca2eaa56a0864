// Package inode implements BWFS inode lifecycle: create, read, write, and
// resize (spec.md §4.5). Each inode occupies exactly one block, keyed by
// its own location (Ino).
package inode

import (
	"bytes"
	"encoding/binary"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/alloc"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/bitmap"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/noxer/bytewriter"
)

// Direct is the number of direct data-block slots an inode carries.
// Indirect blocks are out of scope (spec.md §1 Non-goals).
const Direct = 10

// FlagDir is set in Inode.Flags when the inode describes a directory.
const FlagDir = uint8(1)

// Inode is the fixed-size, one-per-block metadata record (spec.md §3).
type Inode struct {
	Ino        uint32
	Size       uint32
	BlockCount uint32
	Flags      uint8
	Blocks     [Direct]uint32
}

// IsDir reports whether this inode describes a directory.
func (in *Inode) IsDir() bool {
	return in.Flags&FlagDir != 0
}

func (in *Inode) encode() ([]byte, error) {
	buf := make([]byte, block.BytesPerBlock)
	w := bytewriter.New(buf)

	if err := binary.Write(w, binary.LittleEndian, in.Ino); err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	if err := binary.Write(w, binary.LittleEndian, in.Size); err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	if err := binary.Write(w, binary.LittleEndian, in.BlockCount); err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	if err := binary.Write(w, binary.LittleEndian, in.Flags); err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	if err := binary.Write(w, binary.LittleEndian, in.Blocks); err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	return buf, nil
}

func decode(buf []byte) (Inode, error) {
	r := bytes.NewReader(buf)
	var in Inode

	if err := binary.Read(r, binary.LittleEndian, &in.Ino); err != nil {
		return Inode{}, errors.ErrIO.Wrap(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &in.Size); err != nil {
		return Inode{}, errors.ErrIO.Wrap(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &in.BlockCount); err != nil {
		return Inode{}, errors.ErrIO.Wrap(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &in.Flags); err != nil {
		return Inode{}, errors.ErrIO.Wrap(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &in.Blocks); err != nil {
		return Inode{}, errors.ErrIO.Wrap(err)
	}
	return in, nil
}

// Write persists an already-initialized inode to its own block (in.Ino).
func Write(store block.Store, in *Inode) error {
	buf, err := in.encode()
	if err != nil {
		return err
	}
	return store.Write(block.ID(in.Ino), buf, len(buf))
}

// Read loads the inode stored at block id ino.
func Read(store block.Store, ino block.ID) (Inode, error) {
	buf := make([]byte, block.BytesPerBlock)
	if err := store.Read(ino, buf, len(buf)); err != nil {
		return Inode{}, err
	}
	return decode(buf)
}

// Create allocates a block for a new inode, initializes it, and persists
// both the inode and the bitmap. On any persistence failure the allocated
// block is freed and the bitmap re-persisted on a best-effort basis, and
// ErrIO is returned -- this is the rollback spec.md §4.5 requires.
func Create(store block.Store, bm *bitmap.Bitmap, isDir bool) (Inode, error) {
	id, ok := alloc.Alloc(bm, 1)
	if !ok {
		return Inode{}, errors.ErrFull.WithMessage("no free blocks for new inode")
	}

	var flags uint8
	if isDir {
		flags = FlagDir
	}

	in := Inode{
		Ino:        uint32(id),
		Size:       0,
		BlockCount: 0,
		Flags:      flags,
	}

	if err := Write(store, &in); err != nil {
		alloc.Free(bm, id, 1)
		_ = bm.Write(store) // best-effort rollback
		return Inode{}, err
	}
	if err := bm.Write(store); err != nil {
		alloc.Free(bm, id, 1)
		_ = bm.Write(store)
		return Inode{}, err
	}

	return in, nil
}

// Resize adjusts a file's block allocation and size to match newSize,
// allocating or freeing direct blocks as needed (spec.md §4.5). Expansion
// does not zero-initialize newly assigned data blocks; callers writing
// partial blocks must do read-modify-write themselves.
func Resize(store block.Store, bm *bitmap.Bitmap, in *Inode, newSize uint32) error {
	req := (newSize + block.BytesPerBlock - 1) / block.BytesPerBlock
	if req > Direct {
		return errors.ErrFull.WithMessage("requested size exceeds direct block limit")
	}

	switch {
	case req > in.BlockCount:
		allocated := make([]block.ID, 0, req-in.BlockCount)
		for i := in.BlockCount; i < req; i++ {
			id, ok := alloc.Alloc(bm, 1)
			if !ok {
				// Partial-allocation rollback: free only what this call
				// allocated, never blocks the inode already owned.
				for _, a := range allocated {
					alloc.Free(bm, a, 1)
				}
				_ = bm.Write(store)
				return errors.ErrFull.WithMessage("no free blocks to grow file")
			}
			allocated = append(allocated, id)
			in.Blocks[i] = uint32(id)
		}

	case req < in.BlockCount:
		for i := req; i < in.BlockCount; i++ {
			alloc.Free(bm, block.ID(in.Blocks[i]), 1)
			in.Blocks[i] = 0
		}
	}

	in.BlockCount = req
	in.Size = newSize

	if err := bm.Write(store); err != nil {
		return errors.ErrIO.Wrap(err)
	}
	if err := Write(store, in); err != nil {
		return errors.ErrIO.Wrap(err)
	}
	return nil
}
