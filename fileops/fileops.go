// Package fileops implements the operation suite the mount daemon invokes
// (spec.md §4.8): getattr, readdir, mkdir, rmdir, create, open, read,
// write, unlink, rename, statfs, lseek.
//
// Per spec.md §9, the in-memory superblock and bitmap are not process-wide
// statics; they're owned by a *Context, created at Mount and threaded into
// every call. Nothing here is safe for concurrent mutating calls against
// the same Context -- spec.md §5 makes that the mount adapter's job.
package fileops

import (
	"os"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/alloc"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/bitmap"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/directory"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/inode"
	bwfspath "github.com/ajrojasfuentes/Black-and-White-Filesystem/path"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/superblock"
)

// Attr is a POSIX-flavored getattr result (spec.md §4.8).
type Attr struct {
	Mode   os.FileMode
	Nlink  uint32
	Size   uint32
	Blocks uint32
}

// FSStat is the statfs result (spec.md §4.8).
type FSStat struct {
	Bsize   uint32
	Blocks  uint32
	Bfree   uint32
	Bavail  uint32
	NameMax uint32
}

// Whence values accepted by Lseek. SeekCur is intentionally absent: no
// handle-side position is tracked anywhere in BWFS, so "seek relative to
// current position" has nothing to be relative to.
const (
	SeekSet = iota
	SeekEnd
)

// Context owns the in-memory superblock and bitmap for one mounted BWFS
// instance. It is not safe for concurrent mutating calls.
type Context struct {
	Store      block.Store
	Superblock superblock.Superblock
	Bitmap     *bitmap.Bitmap
}

// Mount loads the superblock and bitmap from store and returns a ready
// Context. It's the one place global mutable state is initialized --
// spec.md §5 calls this out explicitly as per-mount, not process-wide.
func Mount(store block.Store) (*Context, error) {
	sb, err := superblock.Read(store)
	if err != nil {
		return nil, err
	}
	bm, err := bitmap.Read(store, sb.TotalBlocks)
	if err != nil {
		return nil, err
	}
	return &Context{Store: store, Superblock: sb, Bitmap: bm}, nil
}

func (c *Context) root() (inode.Inode, error) {
	return inode.Read(c.Store, block.ID(c.Superblock.RootInode))
}

func (c *Context) resolve(path string) (inode.Inode, error) {
	root, err := c.root()
	if err != nil {
		return inode.Inode{}, err
	}
	return bwfspath.Resolve(c.Store, root, path)
}

func attrFromInode(in inode.Inode) Attr {
	if in.IsDir() {
		return Attr{Mode: os.ModeDir | 0o755, Nlink: 1, Size: in.Size, Blocks: in.BlockCount}
	}
	return Attr{Mode: 0o644, Nlink: 1, Size: in.Size, Blocks: in.BlockCount}
}

// GetAttr resolves path and returns its attributes.
func (c *Context) GetAttr(path string) (Attr, error) {
	in, err := c.resolve(path)
	if err != nil {
		return Attr{}, err
	}
	return attrFromInode(in), nil
}

// ReadDir resolves path, requires it to be a directory, and returns "." and
// ".." followed by every live entry name in slot order. mkdir never stores
// "." or ".." on disk (spec.md §9 Open Question (a)); they're synthesized
// here.
func (c *Context) ReadDir(path string) ([]string, error) {
	in, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	if !in.IsDir() {
		return nil, errors.ErrNotADirectory.WithMessage(path)
	}

	names, err := directory.List(c.Store, &in)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(names)+2)
	out = append(out, ".", "..")
	out = append(out, names...)
	return out, nil
}

func (c *Context) resolveParent(path string) (parent inode.Inode, base string, err error) {
	parentPath, base, err := bwfspath.Split(path)
	if err != nil {
		return inode.Inode{}, "", err
	}
	parent, err = c.resolve(parentPath)
	if err != nil {
		return inode.Inode{}, "", err
	}
	if !parent.IsDir() {
		return inode.Inode{}, "", errors.ErrNotADirectory.WithMessage(parentPath)
	}
	return parent, base, nil
}

// createObject is shared by Mkdir and Create: resolve the parent, allocate
// a new inode, and link it under base. On allocator exhaustion it returns
// ErrFull (the caller-visible class spans ENOSPC/EEXIST per spec.md §7);
// duplicate names surface as ErrExists.
func (c *Context) createObject(path string, isDir bool) error {
	parent, base, err := c.resolveParent(path)
	if err != nil {
		return err
	}

	child, err := inode.Create(c.Store, c.Bitmap, isDir)
	if err != nil {
		return err
	}

	if err := directory.Add(c.Store, c.Bitmap, &parent, base, child.Ino); err != nil {
		// Roll back the inode we just created; it's unreachable now.
		freeInode(c.Store, c.Bitmap, child)
		return err
	}
	return nil
}

// Mkdir creates a new, empty directory at path.
func (c *Context) Mkdir(path string) error {
	return c.createObject(path, true)
}

// Create creates a new, empty regular file at path.
func (c *Context) Create(path string) error {
	return c.createObject(path, false)
}

// Open resolves path and succeeds if the object exists. BWFS retains no
// file-handle state; every later call re-resolves by path.
func (c *Context) Open(path string) error {
	_, err := c.resolve(path)
	return err
}

// freeInode frees every data block an inode owns plus its own metadata
// block, and persists the bitmap. Used by Unlink, Rmdir, and createObject's
// rollback path.
func freeInode(store block.Store, bm *bitmap.Bitmap, in inode.Inode) error {
	for i := uint32(0); i < in.BlockCount; i++ {
		alloc.Free(bm, block.ID(in.Blocks[i]), 1)
	}
	alloc.Free(bm, block.ID(in.Ino), 1)
	return bm.Write(store)
}

// Rmdir removes the empty directory at path.
func (c *Context) Rmdir(path string) error {
	parent, base, err := c.resolveParent(path)
	if err != nil {
		return err
	}

	childIno, ok := directory.Lookup(c.Store, &parent, base)
	if !ok {
		return errors.ErrNotFound.WithMessage(path)
	}
	child, err := inode.Read(c.Store, block.ID(childIno))
	if err != nil {
		return err
	}
	if !child.IsDir() {
		return errors.ErrNotADirectory.WithMessage(path)
	}
	if child.Size != 0 {
		return errors.ErrDirectoryNotEmpty.WithMessage(path)
	}

	if err := freeInode(c.Store, c.Bitmap, child); err != nil {
		return err
	}
	return directory.Remove(c.Store, &parent, base)
}

// Unlink removes the regular file at path and frees its blocks.
func (c *Context) Unlink(path string) error {
	parent, base, err := c.resolveParent(path)
	if err != nil {
		return err
	}

	childIno, ok := directory.Lookup(c.Store, &parent, base)
	if !ok {
		return errors.ErrNotFound.WithMessage(path)
	}
	child, err := inode.Read(c.Store, block.ID(childIno))
	if err != nil {
		return err
	}
	if child.IsDir() {
		return errors.ErrIsADirectory.WithMessage(path)
	}

	if err := freeInode(c.Store, c.Bitmap, child); err != nil {
		return err
	}
	return directory.Remove(c.Store, &parent, base)
}

// Read reads up to n bytes from path starting at offset off.
func (c *Context) Read(path string, off, n uint32) ([]byte, error) {
	in, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	if in.IsDir() {
		return nil, errors.ErrIsADirectory.WithMessage(path)
	}
	if off >= in.Size {
		return []byte{}, nil
	}

	want := n
	if remaining := in.Size - off; want > remaining {
		want = remaining
	}

	out := make([]byte, 0, want)
	pos := off
	for uint32(len(out)) < want {
		blockIdx := pos / block.BytesPerBlock
		if blockIdx >= in.BlockCount {
			break
		}
		within := pos % block.BytesPerBlock
		chunk := block.BytesPerBlock - within
		if remain := want - uint32(len(out)); chunk > remain {
			chunk = remain
		}

		buf := make([]byte, block.BytesPerBlock)
		if err := c.Store.Read(block.ID(in.Blocks[blockIdx]), buf, block.BytesPerBlock); err != nil {
			return nil, err
		}
		out = append(out, buf[within:within+chunk]...)
		pos += chunk
	}
	return out, nil
}

// Write writes data at offset off to path, growing the file (via resize)
// if necessary. Partial-block writes are read-modify-write, since
// inode.Resize does not zero-initialize new blocks.
func (c *Context) Write(path string, off uint32, data []byte) (uint32, error) {
	in, err := c.resolve(path)
	if err != nil {
		return 0, err
	}
	if in.IsDir() {
		return 0, errors.ErrIsADirectory.WithMessage(path)
	}

	end := off + uint32(len(data))
	if end > in.Size {
		if end > MaxFileSize {
			return 0, errors.ErrFileTooLarge.WithMessage(path)
		}
		if err := inode.Resize(c.Store, c.Bitmap, &in, end); err != nil {
			return 0, errors.ErrFull.WithMessage("write would grow file past capacity")
		}
	}

	pos := off
	written := uint32(0)
	for written < uint32(len(data)) {
		blockIdx := pos / block.BytesPerBlock
		if blockIdx >= inode.Direct {
			return written, errors.ErrFileTooLarge.WithMessage(path)
		}
		within := pos % block.BytesPerBlock
		chunk := block.BytesPerBlock - within
		if remain := uint32(len(data)) - written; chunk > remain {
			chunk = remain
		}

		buf := make([]byte, block.BytesPerBlock)
		full := within == 0 && chunk == block.BytesPerBlock
		if !full {
			if err := c.Store.Read(block.ID(in.Blocks[blockIdx]), buf, block.BytesPerBlock); err != nil {
				return written, err
			}
		}
		copy(buf[within:within+chunk], data[written:written+chunk])
		if err := c.Store.Write(block.ID(in.Blocks[blockIdx]), buf, block.BytesPerBlock); err != nil {
			return written, err
		}

		written += chunk
		pos += chunk
	}

	return written, nil
}

// Rename moves the entry at from to to. Both must share the same parent
// directory (spec.md Non-goals: cross-directory rename is unsupported, and
// surfaces as ErrCrossDirectoryRename). flags must be 0; BWFS has no
// atomic-exchange rename.
//
// Per spec.md §9 Open Question (c), the new name's absence is checked
// *before* the old entry is removed, so a failed rename never leaves the
// tree without the original entry.
func (c *Context) Rename(from, to string, flags uint32) error {
	if flags != 0 {
		return errors.ErrInval.WithMessage("rename flags must be 0")
	}

	fromParentPath, fromBase, err := bwfspath.Split(from)
	if err != nil {
		return err
	}
	toParentPath, toBase, err := bwfspath.Split(to)
	if err != nil {
		return err
	}
	if fromParentPath != toParentPath {
		return errors.ErrCrossDirectoryRename.WithMessage(
			"rename requires the same parent directory",
		)
	}

	parent, err := c.resolve(fromParentPath)
	if err != nil {
		return err
	}
	if !parent.IsDir() {
		return errors.ErrNotADirectory.WithMessage(fromParentPath)
	}

	childIno, ok := directory.Lookup(c.Store, &parent, fromBase)
	if !ok {
		return errors.ErrNotFound.WithMessage(from)
	}

	if _, exists := directory.Lookup(c.Store, &parent, toBase); exists {
		return errors.ErrExists.WithMessage(to)
	}

	if err := directory.Remove(c.Store, &parent, fromBase); err != nil {
		return err
	}
	return directory.Add(c.Store, c.Bitmap, &parent, toBase, childIno)
}

// Statfs reports aggregate filesystem statistics.
func (c *Context) Statfs() FSStat {
	used := c.Bitmap.Popcount()
	free := c.Superblock.TotalBlocks - used
	return FSStat{
		Bsize:   block.BytesPerBlock,
		Blocks:  c.Superblock.TotalBlocks,
		Bfree:   free,
		Bavail:  free,
		NameMax: directory.NameMax,
	}
}

// Lseek computes a new file position for path. SEEK_SET returns off;
// SEEK_END returns size+off. SEEK_CUR is unsupported (ErrNotSupported)
// since no handle-side position is tracked. A negative result is ErrInval.
func (c *Context) Lseek(path string, off int64, whence int) (int64, error) {
	switch whence {
	case SeekSet:
		if off < 0 {
			return 0, errors.ErrInval.WithMessage("negative offset")
		}
		return off, nil
	case SeekEnd:
		in, err := c.resolve(path)
		if err != nil {
			return 0, err
		}
		result := int64(in.Size) + off
		if result < 0 {
			return 0, errors.ErrInval.WithMessage("negative offset")
		}
		return result, nil
	default:
		return 0, errors.ErrNotSupported.WithMessage("SEEK_CUR is not supported")
	}
}

// MaxFileSize is the largest size a regular file can reach with only direct
// blocks.
const MaxFileSize = inode.Direct * block.BytesPerBlock
