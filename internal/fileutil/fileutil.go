package fileutil

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// OwnerReadWrite is the file permission mode for reports, which carry
// student identifiers and API messages (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// WriteFile creates or truncates path with OwnerReadWrite and passes it to
// write. The file is closed before WriteFile returns.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, OwnerReadWrite)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "could not close %s", path)
		}
	}()
	return write(f)
}
