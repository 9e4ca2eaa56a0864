package errors

import (
	"fmt"
	"syscall"
)

// BWFSError is a sentinel error from the internal taxonomy in spec.md §7.
// Internal code returns one of the constants below directly; callers that
// need a POSIX-flavored result call ToErrno on it.
type BWFSError string

func (e BWFSError) Error() string {
	return string(e)
}

func (e BWFSError) WithMessage(message string) DriverError {
	return wrappedError{
		message:       e.Error() + ": " + message,
		originalError: e,
	}
}

func (e BWFSError) Wrap(err error) DriverError {
	return wrappedError{
		message:       e.Error() + ": " + err.Error(),
		originalError: fmt.Errorf("%w: %w", e, err),
	}
}

const (
	// ErrIO covers any BlockStore failure: missing block file, short read,
	// short write, size mismatch.
	ErrIO = BWFSError("input/output error")
	// ErrNoMem is returned when a buffer allocation is refused.
	ErrNoMem = BWFSError("cannot allocate memory")
	// ErrFull covers both "no free blocks" and "directory slot exhausted";
	// callers discriminate by context. A duplicate name is reported with
	// ErrExists instead.
	ErrFull = BWFSError("no space left on device")
	// ErrExists is the FULL-family variant used specifically for a
	// duplicate directory entry, so FileOps can map it to EEXIST instead of
	// ENOSPC.
	ErrExists = BWFSError("file exists")
	// ErrNotFound is a sentinel distinct from ErrFull, used by directory
	// lookup/remove and path resolution.
	ErrNotFound = BWFSError("no such file or directory")
	// ErrInval covers malformed paths and directory-entry names.
	ErrInval = BWFSError("invalid argument")
	// ErrIsADirectory is returned when an operation expected a regular file.
	ErrIsADirectory = BWFSError("is a directory")
	// ErrNotADirectory is returned when path resolution needs a directory
	// but finds a regular file.
	ErrNotADirectory = BWFSError("not a directory")
	// ErrDirectoryNotEmpty guards rmdir.
	ErrDirectoryNotEmpty = BWFSError("directory not empty")
	// ErrCrossDirectoryRename is returned for a rename whose source and
	// destination parents differ; BWFS only supports same-directory rename.
	ErrCrossDirectoryRename = BWFSError("invalid cross-device link")
	// ErrFileTooLarge is returned when an operation would need more than
	// DIRECT data blocks.
	ErrFileTooLarge = BWFSError("file too large")
	// ErrBadSuperblock is a dedicated sentinel for a bad magic or bad
	// block_size, distinct from ErrIO.
	ErrBadSuperblock = BWFSError("bad BWFS superblock")
	// ErrNotSupported is returned for operations the MVP never implements,
	// such as SEEK_CUR with no tracked file position.
	ErrNotSupported = BWFSError("operation not supported")
)

// ToErrno maps the internal taxonomy onto the POSIX-style codes the mount
// adapter and CLI tools expose, per spec.md §7's error-mapping table.
func ToErrno(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case Is(err, ErrNotFound):
		return syscall.ENOENT
	case Is(err, ErrExists):
		return syscall.EEXIST
	case Is(err, ErrFull):
		return syscall.ENOSPC
	case Is(err, ErrIO):
		return syscall.EIO
	case Is(err, ErrIsADirectory):
		return syscall.EISDIR
	case Is(err, ErrNotADirectory):
		return syscall.ENOTDIR
	case Is(err, ErrDirectoryNotEmpty):
		return syscall.ENOTEMPTY
	case Is(err, ErrCrossDirectoryRename):
		return syscall.EXDEV
	case Is(err, ErrFileTooLarge):
		return syscall.EFBIG
	case Is(err, ErrInval):
		return syscall.EINVAL
	case Is(err, ErrNotSupported):
		return syscall.ENOTSUP
	case Is(err, ErrNoMem):
		return syscall.ENOMEM
	default:
		return syscall.EIO
	}
}
