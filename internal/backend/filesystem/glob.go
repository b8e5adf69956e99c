package filesystem

import (
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hyperfind/internal/materialize"
)

// ErrNoMatch is returned when a pattern matches no files.
var ErrNoMatch = errors.New("pattern matched no files")

// Glob returns the identifiers below the root matching a doublestar pattern,
// in lexical order.
func (b *Backend) Glob(pattern string) ([]materialize.ObjectID, error) {
	matches, err := doublestar.Glob(b.fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "matching %q", pattern)
	}

	if len(matches) == 0 {
		return nil, errors.Wrapf(ErrNoMatch, "%q under %s", pattern, b.root)
	}

	ids := make([]materialize.ObjectID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, materialize.ObjectID(m))
	}

	return ids, nil
}

// ReadInputs reads every file matching a doublestar filesystem pattern as a
// by-bytes input named after its path.
func ReadInputs(pattern string) ([]materialize.Input, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "matching %q", pattern)
	}

	if len(matches) == 0 {
		return nil, errors.Wrapf(ErrNoMatch, "%q", pattern)
	}

	return ReadFiles(matches)
}

// ReadFiles reads each path as a by-bytes input.
func ReadFiles(paths []string) ([]materialize.Input, error) {
	inputs := make([]materialize.Input, 0, len(paths))

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", p)
		}

		inputs = append(inputs, materialize.FromBytes(p, data))
	}

	return inputs, nil
}
