package artifact

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const (
	// FilePerm is the permission of copied download files.
	FilePerm fs.FileMode = 0o644

	// DirPerm is the permission of download directories.
	DirPerm fs.FileMode = 0o755
)

// CopyInto copies src into dir under its base name and returns the new path
// and the number of bytes written. An existing file is overwritten.
func CopyInto(src, dir string) (string, int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening artifact")
	}
	defer in.Close()

	dst := filepath.Join(dir, filepath.Base(src))

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePerm)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating download file")
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return "", n, errors.Wrapf(err, "copying to %s", dst)
	}

	return dst, n, nil
}
