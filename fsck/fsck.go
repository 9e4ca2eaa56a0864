// Package fsck implements the offline consistency checker (spec.md §4.9):
// it cross-validates the bitmap against reachable block references and
// detects orphan inodes, with optional repair.
package fsck

import (
	"fmt"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/bitmap"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/inode"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/superblock"
	"github.com/hashicorp/go-multierror"
)

// maxDescentDepth caps the directory-tree walk so a corrupt cycle can't
// send fsck into an infinite descent (spec.md §4.9 phase 3).
const maxDescentDepth = 100

// Severity classifies a Finding.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Finding is one fsck observation: what was wrong, and whether (and
// whether it was) repaired.
type Finding struct {
	Severity Severity
	Message  string
	Repaired bool
}

// Report summarizes one fsck run.
type Report struct {
	Findings     []Finding
	ErrorsFound  uint32
	ErrorsFixed  uint32
	Warnings     uint32
}

// ExitCode maps the report onto the spec.md §4.9 exit-code contract for a
// completed run (0, 1, or 4 -- 8 is reserved for operational failures that
// never produce a Report at all).
func (r *Report) ExitCode() int {
	switch {
	case r.ErrorsFound == 0:
		return 0
	case r.ErrorsFixed == r.ErrorsFound:
		return 1
	default:
		return 4
	}
}

func (r *Report) record(f Finding) {
	r.Findings = append(r.Findings, f)
	switch f.Severity {
	case SeverityWarning:
		r.Warnings++
	default:
		r.ErrorsFound++
		if f.Repaired {
			r.ErrorsFixed++
		}
	}
}

// Checker runs the fsck phases against a single BlockStore. AutoRepair, if
// true, accepts every repair automatically (the "-y" CLI flag); otherwise
// Ask is consulted once per finding to decide (spec.md §4.9's
// detected -> (auto? accept : ask) -> {repaired | left} state machine).
type Checker struct {
	Store      block.Store
	AutoRepair bool
	// Ask decides whether to repair a given finding when AutoRepair is
	// false. If nil, no finding is ever repaired outside of AutoRepair mode.
	Ask func(message string) bool

	report     Report
	sb         superblock.Superblock
	bm         *bitmap.Bitmap
	reallyUsed *bitmap.Bitmap
	reachable  *bitmap.Bitmap

	// writeErrs collects failures from the repair writes issued during the
	// walk (inode.Write calls whose return value would otherwise be
	// discarded); a non-empty set is surfaced as an operational failure.
	writeErrs *multierror.Error
}

func (c *Checker) recordWrite(err error) {
	if err != nil {
		c.writeErrs = multierror.Append(c.writeErrs, err)
	}
}

func (c *Checker) shouldRepair() bool {
	if c.AutoRepair {
		return true
	}
	if c.Ask != nil {
		return c.Ask("repair?")
	}
	return false
}

func (c *Checker) reportError(repaired bool, format string, args ...any) {
	c.report.record(Finding{Severity: SeverityError, Message: fmt.Sprintf(format, args...), Repaired: repaired})
}

func (c *Checker) reportWarning(format string, args ...any) {
	c.report.record(Finding{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// Run executes all five phases and returns the accumulated Report. An error
// return means an operational failure (spec.md exit code 8): the
// superblock couldn't be validated, a required load failed with I/O, or a
// repair write failed.
func Run(c *Checker) (*Report, error) {
	if err := c.checkSuperblock(); err != nil {
		return nil, err
	}
	if err := c.loadBitmapAndCriticalBits(); err != nil {
		return nil, err
	}

	c.reallyUsed = bitmap.New(c.sb.TotalBlocks)
	c.reachable = bitmap.New(c.sb.TotalBlocks)
	c.reallyUsed.Set(0, true)
	c.reallyUsed.Set(1, true)

	c.walkDirectoryTree(c.sb.RootInode, 0)

	if err := c.checkBitmapConsistency(); err != nil {
		return nil, err
	}
	c.findOrphanInodes()

	if err := c.writeErrs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &c.report, nil
}

// checkSuperblock is phase 1. Any failure here is fatal for fsck (exit 8).
func (c *Checker) checkSuperblock() error {
	sb, err := superblock.Read(c.Store)
	if err != nil {
		return err
	}
	c.sb = sb
	return nil
}

// loadBitmapAndCriticalBits is phase 2.
func (c *Checker) loadBitmapAndCriticalBits() error {
	bm, err := bitmap.Read(c.Store, c.sb.TotalBlocks)
	if err != nil {
		return err
	}
	c.bm = bm

	critical := []uint32{0, 1, c.sb.RootInode}
	changed := false
	for _, i := range critical {
		if !c.bm.Test(i) {
			repaired := c.shouldRepair()
			c.reportError(repaired, "critical bit %d is not set", i)
			if repaired {
				c.bm.Set(i, true)
				changed = true
			}
		}
	}
	if changed {
		if err := c.bm.Write(c.Store); err != nil {
			return err
		}
	}
	return nil
}

// walkDirectoryTree is phase 3: recursively descend from dirIno, marking
// reachable inodes and really-used blocks, and validating each inode's
// self-reference, block_count, and (for files) size. An unreadable inode
// or directory block is reported as a finding, not an operational
// failure -- that's exactly the kind of corruption fsck exists to find.
func (c *Checker) walkDirectoryTree(dirIno uint32, depth int) {
	if depth > maxDescentDepth {
		c.reportWarning("directory descent exceeded max depth %d at inode %d", maxDescentDepth, dirIno)
		return
	}

	in, err := inode.Read(c.Store, block.ID(dirIno))
	if err != nil {
		c.reportError(false, "inode %d is unreadable: %v", dirIno, err)
		return
	}

	c.reachable.Set(dirIno, true)
	c.reallyUsed.Set(dirIno, true)
	c.validateInode(&in, dirIno)

	if !in.IsDir() {
		return
	}

	names, err := listDirectoryUnchecked(c.Store, &in)
	if err != nil {
		c.reportError(false, "directory block for inode %d is unreadable: %v", dirIno, err)
		return
	}

	for _, childIno := range names {
		childInode, err := inode.Read(c.Store, block.ID(childIno))
		if err != nil {
			c.reportError(false, "directory entry points at unreadable inode %d", childIno)
			continue
		}
		if childInode.IsDir() {
			c.walkDirectoryTree(childIno, depth+1)
		} else {
			c.reachable.Set(childIno, true)
			c.reallyUsed.Set(childIno, true)
			c.validateInode(&childInode, childIno)
		}
	}
}

// validateInode checks the per-inode invariants from phase 3: ino matches
// the block it was read from, every non-zero block entry is in range and
// gets marked really-used, block_count matches the actual referenced
// count, and (for files) size doesn't exceed capacity.
func (c *Checker) validateInode(in *inode.Inode, location uint32) {
	if in.Ino != location {
		repaired := c.shouldRepair()
		c.reportError(repaired, "inode at block %d has stale ino %d", location, in.Ino)
		if repaired {
			in.Ino = location
			c.recordWrite(inode.Write(c.Store, in))
		}
	}

	referenced := uint32(0)
	for i := uint32(0); i < in.BlockCount && i < inode.Direct; i++ {
		id := in.Blocks[i]
		if id == 0 {
			continue
		}
		if id >= c.sb.TotalBlocks {
			c.reportError(false, "inode %d references out-of-range block %d", in.Ino, id)
			continue
		}
		c.reallyUsed.Set(id, true)
		referenced++
	}

	if referenced != in.BlockCount {
		repaired := c.shouldRepair()
		c.reportError(repaired, "inode %d block_count=%d but only %d blocks are referenced", in.Ino, in.BlockCount, referenced)
		if repaired {
			in.BlockCount = referenced
			c.recordWrite(inode.Write(c.Store, in))
		}
	}

	if !in.IsDir() && in.Size > in.BlockCount*block.BytesPerBlock {
		repaired := c.shouldRepair()
		c.reportError(repaired, "inode %d size=%d exceeds block_count*BYTES_PER_BLOCK", in.Ino, in.Size)
		if repaired {
			in.Size = in.BlockCount * block.BytesPerBlock
			c.recordWrite(inode.Write(c.Store, in))
		}
	}
}

// checkBitmapConsistency is phase 4.
func (c *Checker) checkBitmapConsistency() error {
	changed := false
	for i := uint32(0); i < c.sb.TotalBlocks; i++ {
		used := c.bm.Test(i)
		reallyUsed := c.reallyUsed.Test(i)

		switch {
		case used && !reallyUsed:
			repaired := c.shouldRepair()
			c.reportWarning("block %d is marked used but has no live reference (leaked)", i)
			if repaired {
				c.bm.Set(i, false)
				changed = true
			}
		case !used && reallyUsed:
			repaired := c.shouldRepair()
			c.reportError(repaired, "block %d is referenced but not marked used in the bitmap (false-free)", i)
			if repaired {
				c.bm.Set(i, true)
				changed = true
			}
		}
	}

	if changed {
		if err := c.bm.Write(c.Store); err != nil {
			return err
		}
	}
	return nil
}

// findOrphanInodes is phase 5: bitmap=1, not reachable, but reads back as a
// self-consistent inode. Warning only; no repair in the MVP.
func (c *Checker) findOrphanInodes() {
	for i := uint32(2); i < c.sb.TotalBlocks; i++ {
		if !c.bm.Test(i) || c.reachable.Test(i) {
			continue
		}
		in, err := inode.Read(c.Store, block.ID(i))
		if err != nil || in.Ino != i {
			continue
		}
		c.reportWarning("inode %d is allocated but unreachable from the root (orphan)", i)
	}
}

// listDirectoryUnchecked returns the raw inode numbers of a directory's
// live entries, without the name-uniqueness or path-resolution machinery
// FileOps uses -- fsck needs the numbers, not the names.
func listDirectoryUnchecked(store block.Store, dir *inode.Inode) ([]uint32, error) {
	if dir.BlockCount == 0 {
		return nil, nil
	}
	buf := make([]byte, block.BytesPerBlock)
	if err := store.Read(block.ID(dir.Blocks[0]), buf, block.BytesPerBlock); err != nil {
		return nil, err
	}

	const entrySize = 4 + 256
	capacity := block.BytesPerBlock / entrySize
	inos := make([]uint32, 0, capacity)
	for i := 0; i < capacity; i++ {
		off := i * entrySize
		ino := uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
		if ino != 0 {
			inos = append(inos, ino)
		}
	}
	return inos, nil
}
