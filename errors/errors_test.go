package errors_test

import (
	stderrors "errors"
	"syscall"
	"testing"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/errors"
	"github.com/stretchr/testify/assert"
)

func TestWithMessage(t *testing.T) {
	newErr := errors.ErrFull.WithMessage("directory full")
	assert.Equal(t, "no space left on device: directory full", newErr.Error())
	assert.ErrorIs(t, newErr, errors.ErrFull)
}

func TestWrap(t *testing.T) {
	originalErr := stderrors.New("short write")
	newErr := errors.ErrIO.Wrap(originalErr)

	assert.Equal(t, "input/output error: short write", newErr.Error())
	assert.ErrorIs(t, newErr, originalErr)
	assert.ErrorIs(t, newErr, errors.ErrIO)
}

func TestToErrno(t *testing.T) {
	cases := map[error]syscall.Errno{
		nil:                            0,
		errors.ErrNotFound:             syscall.ENOENT,
		errors.ErrExists:                syscall.EEXIST,
		errors.ErrFull:                 syscall.ENOSPC,
		errors.ErrIO:                   syscall.EIO,
		errors.ErrIsADirectory:         syscall.EISDIR,
		errors.ErrDirectoryNotEmpty:    syscall.ENOTEMPTY,
		errors.ErrCrossDirectoryRename: syscall.EXDEV,
		errors.ErrFileTooLarge:         syscall.EFBIG,
		errors.ErrInval:                syscall.EINVAL,
	}

	for in, want := range cases {
		assert.Equal(t, want, errors.ToErrno(in), "mapping %v", in)
	}
}
