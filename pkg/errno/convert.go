package errno

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// FromError extracts a unix.Errno from err, best effort.
//
// A nil error maps to 0. Errors that carry no errno and match none of the
// portable os sentinels are reported as EIO, with a debug log line.
func FromError(err error) unix.Errno {
	if err == nil {
		return 0
	}

	var e unix.Errno
	if errors.As(err, &e) {
		return e
	}

	for _, pair := range []struct {
		error
		unix.Errno
	}{
		{os.ErrNotExist, unix.ENOENT},
		{os.ErrExist, unix.EEXIST},
		{os.ErrPermission, unix.EACCES},
		{os.ErrInvalid, unix.EINVAL},
		{os.ErrDeadlineExceeded, unix.ETIMEDOUT},
	} {
		if errors.Is(err, pair.error) {
			return pair.Errno
		}
	}

	logrus.WithError(err).Debug("errno: no native error number, reporting EIO")
	return unix.EIO
}
