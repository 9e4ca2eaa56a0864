// Package directory implements the single fixed-capacity directory block
// (spec.md §4.6): a packed array of {ino, name} slots, one block per
// directory, allocated lazily on first insertion.
package directory

import (
	"encoding/binary"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/alloc"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/bitmap"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/inode"
)

// NameMax is the longest name a directory entry can hold, not counting the
// terminating NUL (spec.md §3).
const NameMax = 255

// entrySize is sizeof(DirEntry): a uint32 ino plus a NameMax+1-byte,
// NUL-terminated name field.
const entrySize = 4 + NameMax + 1

// Capacity is M, the number of slots a single directory block holds.
const Capacity = block.BytesPerBlock / entrySize

// Entry is one slot of a directory's data block. A slot is live iff Ino != 0.
type Entry struct {
	Ino  uint32
	Name string
}

func decodeBlock(buf []byte) [Capacity]Entry {
	var entries [Capacity]Entry
	for i := 0; i < Capacity; i++ {
		off := i * entrySize
		ino := binary.LittleEndian.Uint32(buf[off : off+4])

		nameBytes := buf[off+4 : off+entrySize]
		nul := indexByte(nameBytes, 0)
		if nul < 0 {
			nul = len(nameBytes)
		}
		entries[i] = Entry{Ino: ino, Name: string(nameBytes[:nul])}
	}
	return entries
}

func encodeBlock(entries [Capacity]Entry) []byte {
	buf := make([]byte, block.BytesPerBlock)
	for i, e := range entries {
		off := i * entrySize
		binary.LittleEndian.PutUint32(buf[off:off+4], e.Ino)
		if e.Ino != 0 {
			copy(buf[off+4:off+entrySize], []byte(e.Name))
		}
	}
	return buf
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// ensureDataBlock lazily allocates the directory's sole data block on first
// insertion, zeroing it and recording it in the inode.
func ensureDataBlock(store block.Store, bm *bitmap.Bitmap, dir *inode.Inode) error {
	if dir.BlockCount > 0 {
		return nil
	}

	id, ok := alloc.Alloc(bm, 1)
	if !ok {
		return errors.ErrFull.WithMessage("no free blocks for directory data")
	}
	if err := store.CreateEmpty(id); err != nil {
		alloc.Free(bm, id, 1)
		_ = bm.Write(store)
		return err
	}
	if err := bm.Write(store); err != nil {
		alloc.Free(bm, id, 1)
		_ = bm.Write(store)
		return err
	}

	dir.Blocks[0] = uint32(id)
	dir.BlockCount = 1
	return nil
}

func loadEntries(store block.Store, dir *inode.Inode) ([Capacity]Entry, error) {
	var entries [Capacity]Entry
	if dir.BlockCount == 0 {
		return entries, nil
	}
	buf := make([]byte, block.BytesPerBlock)
	if err := store.Read(block.ID(dir.Blocks[0]), buf, block.BytesPerBlock); err != nil {
		return entries, err
	}
	return decodeBlock(buf), nil
}

func saveEntries(store block.Store, dir *inode.Inode, entries [Capacity]Entry) error {
	buf := encodeBlock(entries)
	return store.Write(block.ID(dir.Blocks[0]), buf, len(buf))
}

// validateName checks the name invariants from spec.md §3: no '/', not
// empty, at most NameMax bytes.
func validateName(name string) error {
	if name == "" || len(name) > NameMax {
		return errors.ErrInval.WithMessage("invalid directory entry name")
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '/' {
			return errors.ErrInval.WithMessage("directory entry name contains '/'")
		}
	}
	return nil
}

// Add inserts a new entry for name -> childIno into dir, allocating the
// directory's data block on first use. It fails with ErrExists if the name
// is already present, and ErrFull if the block has no free slot.
func Add(store block.Store, bm *bitmap.Bitmap, dir *inode.Inode, name string, childIno uint32) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ensureDataBlock(store, bm, dir); err != nil {
		return err
	}

	entries, err := loadEntries(store, dir)
	if err != nil {
		return err
	}

	freeIdx := -1
	for i, e := range entries {
		if e.Ino != 0 {
			if e.Name == name {
				return errors.ErrExists.WithMessage("directory entry already exists")
			}
			continue
		}
		if freeIdx < 0 {
			freeIdx = i
		}
	}
	if freeIdx < 0 {
		return errors.ErrFull.WithMessage("directory is full")
	}

	entries[freeIdx] = Entry{Ino: childIno, Name: name}
	if err := saveEntries(store, dir, entries); err != nil {
		return err
	}

	dir.Size += entrySize
	return inode.Write(store, dir)
}

// Remove deletes the unique live entry named name. It returns ErrNotFound,
// distinguishable from ErrIO and from success, if no such entry exists.
func Remove(store block.Store, dir *inode.Inode, name string) error {
	entries, err := loadEntries(store, dir)
	if err != nil {
		return err
	}

	found := -1
	for i, e := range entries {
		if e.Ino != 0 && e.Name == name {
			found = i
			break
		}
	}
	if found < 0 {
		return errors.ErrNotFound.WithMessage("directory entry not found")
	}

	entries[found] = Entry{}
	if err := saveEntries(store, dir, entries); err != nil {
		return err
	}

	dir.Size -= entrySize
	return inode.Write(store, dir)
}

// Lookup returns the inode number of the entry named name, or (0, false) if
// no such entry exists.
func Lookup(store block.Store, dir *inode.Inode, name string) (uint32, bool) {
	entries, err := loadEntries(store, dir)
	if err != nil {
		return 0, false
	}
	for _, e := range entries {
		if e.Ino != 0 && e.Name == name {
			return e.Ino, true
		}
	}
	return 0, false
}

// List returns the names of every live entry in dir, in slot order.
func List(store block.Store, dir *inode.Inode) ([]string, error) {
	entries, err := loadEntries(store, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, Capacity)
	for _, e := range entries {
		if e.Ino != 0 {
			names = append(names, e.Name)
		}
	}
	return names, nil
}
