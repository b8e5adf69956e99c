package crashdump

import (
	"cmp"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hyperfind/internal/xdg"
)

const (
	// FilePerm is the file permission for crash dump files.
	FilePerm fs.FileMode = 0o600

	// FileExtension is the extension for crash dump files.
	FileExtension = ".json"

	tempSuffix = ".tmp"

	maxSummaryPanicLen = 80
)

var (
	// ErrWriteFailed is returned when writing a crash dump fails.
	ErrWriteFailed = errors.New("failed to write crash dump")

	// ErrInvalidDumpDir is returned when the dump directory is invalid.
	ErrInvalidDumpDir = errors.New("invalid dump directory")

	// ErrDumpNotFound is returned when a crash dump is not found.
	ErrDumpNotFound = errors.New("crash dump not found")
)

// Store reads and writes crash dumps as JSON files in one directory.
type Store struct {
	dir string
}

// NewStore creates a Store over dir. "~" is expanded.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.Wrap(ErrInvalidDumpDir, "dump directory cannot be empty")
	}

	expanded, err := xdg.ExpandPath(dir)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidDumpDir, err.Error())
	}

	return &Store{dir: expanded}, nil
}

// Dir returns the dump directory.
func (s *Store) Dir() string {
	return s.dir
}

// Write stores info atomically and returns its path.
func (s *Store) Write(info *CrashInfo) (string, error) {
	if info == nil {
		return "", errors.Wrap(ErrWriteFailed, "crash info is nil")
	}

	if err := xdg.EnsureDir(s.dir); err != nil {
		return "", errors.Wrap(ErrInvalidDumpDir, err.Error())
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", errors.Wrap(ErrWriteFailed, "failed to marshal crash info")
	}

	path := s.path(info.ID)
	tmp := path + tempSuffix

	if err := os.WriteFile(tmp, data, FilePerm); err != nil {
		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)

		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	return path, nil
}

// List returns every readable dump, newest first. Corrupt files are skipped.
func (s *Store) List() ([]DumpSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DumpSummary{}, nil
		}

		return nil, errors.Wrap(err, "failed to read dump directory")
	}

	summaries := make([]DumpSummary, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExtension) {
			continue
		}

		summary, err := s.summary(entry)
		if err != nil {
			continue
		}

		summaries = append(summaries, summary)
	}

	slices.SortFunc(summaries, func(a, b DumpSummary) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})

	return summaries, nil
}

func (s *Store) summary(entry fs.DirEntry) (DumpSummary, error) {
	path := filepath.Join(s.dir, entry.Name())

	info, err := load(path)
	if err != nil {
		return DumpSummary{}, err
	}

	fi, err := entry.Info()
	if err != nil {
		return DumpSummary{}, errors.Wrap(err, "failed to stat file")
	}

	panicValue := info.PanicValue
	if len(panicValue) > maxSummaryPanicLen {
		panicValue = panicValue[:maxSummaryPanicLen] + "..."
	}

	return DumpSummary{
		ID:         info.ID,
		Timestamp:  info.Timestamp,
		PanicValue: panicValue,
		FilePath:   path,
		Size:       fi.Size(),
	}, nil
}

// Get loads the dump with the given ID.
func (s *Store) Get(id string) (*CrashInfo, error) {
	if !validID(id) {
		return nil, errors.Wrapf(ErrDumpNotFound, "ID: %s", id)
	}

	return load(s.path(id))
}

// Delete removes the dump with the given ID.
func (s *Store) Delete(id string) error {
	if !validID(id) {
		return errors.Wrapf(ErrDumpNotFound, "ID: %s", id)
	}

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrDumpNotFound, "ID: %s", id)
		}

		return errors.Wrap(err, "failed to delete dump file")
	}

	return nil
}

// Prune removes dumps older than maxAge, then the oldest dumps beyond
// maxDumps. A non-positive limit disables that rule. With dryRun set nothing
// is deleted. It returns the dumps selected for removal.
func (s *Store) Prune(maxDumps int, maxAge time.Duration, dryRun bool) ([]DumpSummary, error) {
	summaries, err := s.List()
	if err != nil {
		return nil, err
	}

	now := time.Now()

	var removed, kept []DumpSummary

	for _, summary := range summaries {
		expired := maxAge > 0 && now.Sub(summary.Timestamp) > maxAge
		overflow := maxDumps > 0 && len(kept) >= maxDumps

		if !expired && !overflow {
			kept = append(kept, summary)

			continue
		}

		if !dryRun {
			if err := s.Delete(summary.ID); err != nil {
				continue
			}
		}

		removed = append(removed, summary)
	}

	return removed, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+FileExtension)
}

func validID(id string) bool {
	return id != "" && filepath.Base(id) == id && !strings.HasPrefix(id, ".")
}

func load(path string) (*CrashInfo, error) {
	// #nosec G304 - path is built from the dump directory and a validated ID
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrDumpNotFound, "file: %s", path)
		}

		return nil, errors.Wrap(err, "failed to read dump file")
	}

	var info CrashInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal dump file")
	}

	return &info, nil
}
