package block

import (
	"io"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/xaionaro-go/bytesextra"
)

// MemStore is an in-memory Store, one bytesextra.ReadWriteSeeker per block,
// used by component tests so the allocator/inode/directory/fsck suites never
// touch the filesystem. Grounded on the teacher's testing/images.go, which
// wraps a byte slice the same way for disk-image fixtures.
type MemStore struct {
	blocks map[ID]io.ReadWriteSeeker
}

// NewMemStore returns an empty MemStore. A block must be created with
// CreateEmpty or Write before it can be read; Write creates a missing block.
func NewMemStore() *MemStore {
	return &MemStore{blocks: make(map[ID]io.ReadWriteSeeker)}
}

func (s *MemStore) CreateEmpty(id ID) error {
	s.blocks[id] = bytesextra.NewReadWriteSeeker(make([]byte, BytesPerBlock))
	return nil
}

func (s *MemStore) Write(id ID, buf []byte, length int) error {
	if err := checkLength(length); err != nil {
		return err
	}

	stream, ok := s.blocks[id]
	if !ok {
		s.blocks[id] = bytesextra.NewReadWriteSeeker(make([]byte, BytesPerBlock))
		stream = s.blocks[id]
	}

	payload := make([]byte, BytesPerBlock)
	copy(payload, buf[:length])

	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return errors.ErrIO.Wrap(err)
	}
	n, err := stream.Write(payload)
	if err != nil {
		return errors.ErrIO.Wrap(err)
	}
	if n != BytesPerBlock {
		return errors.ErrIO.WithMessage("short write to in-memory block")
	}
	return nil
}

func (s *MemStore) Read(id ID, out []byte, length int) error {
	if err := checkLength(length); err != nil {
		return err
	}

	stream, ok := s.blocks[id]
	if !ok {
		return errors.ErrIO.WithMessage("block does not exist")
	}

	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return errors.ErrIO.Wrap(err)
	}
	n, err := stream.Read(out[:length])
	if err != nil && err != io.EOF {
		return errors.ErrIO.Wrap(err)
	}
	if n != length {
		return errors.ErrIO.WithMessage("short read from in-memory block")
	}
	return nil
}
