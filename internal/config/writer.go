package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/smykla-skalski/hyperfind/pkg/config"
)

const (
	// ConfigFileMode is the file mode for configuration files (user read/write only).
	ConfigFileMode = 0o600

	// ConfigDirMode is the file mode for configuration directories (user rwx only).
	ConfigDirMode = 0o700

	diffContextLines = 3
)

// ErrConfigExists is returned when refusing to overwrite an existing config file.
var ErrConfigExists = errors.New("configuration file already exists")

// Writer handles writing configuration to TOML files.
type Writer struct {
	workDir string
}

// NewWriter creates a Writer that writes project config under workDir.
func NewWriter(workDir string) *Writer {
	return &Writer{workDir: workDir}
}

// ProjectConfigPath returns the path to the primary project configuration file.
func (w *Writer) ProjectConfigPath() string {
	return filepath.Join(w.workDir, ProjectConfigDir, ProjectConfigFile)
}

// WriteFile writes the configuration to the given path.
// Existing files are left alone unless force is set.
func (*Writer) WriteFile(path string, cfg *config.Config, force bool) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	if !force && fileExists(path) {
		return errors.Wrapf(ErrConfigExists, "%s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	data, err := Render(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	return nil
}

// Render encodes cfg as TOML the way WriteFile writes it.
func Render(cfg *config.Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	var buf bytes.Buffer

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to encode config to TOML")
	}

	return buf.Bytes(), nil
}

// Diff returns a unified diff from the file at path to cfg rendered as TOML.
// A missing file diffs as empty. The result is empty when nothing changes.
func Diff(path string, cfg *config.Config) (string, error) {
	want, err := Render(cfg)
	if err != nil {
		return "", err
	}

	// #nosec G304 - path is the user's own config file
	have, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "failed to read config file %s", path)
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(have)),
		B:        difflib.SplitLines(string(want)),
		FromFile: path,
		ToFile:   path + " (defaults)",
		Context:  diffContextLines,
	})
}
