package block

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
)

// DirStore is a Store backed by a directory containing one file per block
// (spec.md §6: "block0", "block1", "block2", ..."). It implements the
// byte-level contract directly; swapping in a pixel codec that serializes
// the same bytes to a monochrome image is a drop-in replacement so long as
// it satisfies Store.
type DirStore struct {
	dir string
}

// NewDirStore returns a DirStore rooted at dir. The directory must already
// exist; mkfs is responsible for creating it.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

func (s *DirStore) path(id ID) string {
	return filepath.Join(s.dir, fmt.Sprintf("block%d", id))
}

func (s *DirStore) CreateEmpty(id ID) error {
	buf := make([]byte, BytesPerBlock)
	f, err := os.OpenFile(s.path(id), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.ErrIO.Wrap(err)
	}
	defer f.Close()

	n, err := f.Write(buf)
	if err != nil {
		return errors.ErrIO.Wrap(err)
	}
	if n != BytesPerBlock {
		return errors.ErrIO.WithMessage(
			fmt.Sprintf("short write creating block %d: wrote %d of %d bytes", id, n, BytesPerBlock),
		)
	}
	return nil
}

func (s *DirStore) Write(id ID, buf []byte, length int) error {
	if err := checkLength(length); err != nil {
		return err
	}

	payload := make([]byte, BytesPerBlock)
	copy(payload, buf[:length])

	f, err := os.OpenFile(s.path(id), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.ErrIO.Wrap(err)
	}
	defer f.Close()

	n, err := f.Write(payload)
	if err != nil {
		return errors.ErrIO.Wrap(err)
	}
	if n != BytesPerBlock {
		return errors.ErrIO.WithMessage(
			fmt.Sprintf("short write to block %d: wrote %d of %d bytes", id, n, BytesPerBlock),
		)
	}
	return nil
}

func (s *DirStore) Read(id ID, out []byte, length int) error {
	if err := checkLength(length); err != nil {
		return err
	}

	info, err := os.Stat(s.path(id))
	if err != nil {
		return errors.ErrIO.Wrap(err)
	}
	if info.Size() != BytesPerBlock {
		return errors.ErrIO.WithMessage(
			fmt.Sprintf("block %d has wrong size: got %d, want %d", id, info.Size(), BytesPerBlock),
		)
	}

	f, err := os.Open(s.path(id))
	if err != nil {
		return errors.ErrIO.Wrap(err)
	}
	defer f.Close()

	n, err := f.Read(out[:length])
	if err != nil {
		return errors.ErrIO.Wrap(err)
	}
	if n != length {
		return errors.ErrIO.WithMessage(
			fmt.Sprintf("short read from block %d: read %d of %d bytes", id, n, length),
		)
	}
	return nil
}
