// Package xdg resolves where hyperfind keeps files outside a project:
// the global config under $XDG_CONFIG_HOME, logs and crash dumps under
// $XDG_STATE_HOME. Project-local config discovery lives in internal/config.
package xdg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	appName = "hyperfind"

	configFileName = "config.toml"
	logFileName    = "hyperfind.log"
	crashDirName   = "crashes"

	// PrivateDirPerm is applied to every directory hyperfind creates for itself.
	PrivateDirPerm = 0o700
)

// ErrInvalidTilde is returned for "~user" style paths.
var ErrInvalidTilde = errors.New("unsupported ~ form")

func homeOrTilde() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "~"
	}

	return home
}

func fromEnv(envVar string, fallback ...string) string {
	if v := os.Getenv(envVar); v != "" && filepath.IsAbs(v) {
		return v
	}

	return filepath.Join(append([]string{homeOrTilde()}, fallback...)...)
}

// ConfigHome returns $XDG_CONFIG_HOME or ~/.config. Relative values are ignored.
func ConfigHome() string {
	return fromEnv("XDG_CONFIG_HOME", ".config")
}

// StateHome returns $XDG_STATE_HOME or ~/.local/state. Relative values are ignored.
func StateHome() string {
	return fromEnv("XDG_STATE_HOME", ".local", "state")
}

// ConfigDir returns ConfigHome()/hyperfind.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), appName)
}

// StateDir returns StateHome()/hyperfind.
func StateDir() string {
	return filepath.Join(StateHome(), appName)
}

// GlobalConfigFile returns ConfigDir()/config.toml.
func GlobalConfigFile() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// LogFile returns StateDir()/hyperfind.log.
func LogFile() string {
	return filepath.Join(StateDir(), logFileName)
}

// CrashDumpDir returns StateDir()/crashes.
func CrashDumpDir() string {
	return filepath.Join(StateDir(), crashDirName)
}

// ExpandPath resolves a leading "~" or "~/" and any $VAR references.
func ExpandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving home directory")
	}

	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	default:
		return "", errors.Wrapf(ErrInvalidTilde, "%q (want ~ or ~/subdir)", path)
	}
}

// EnsureDir creates path with PrivateDirPerm and tightens an existing
// directory that is more open than that.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, PrivateDirPerm); err != nil {
		return errors.Wrapf(err, "creating directory %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "stat %s", path)
	}

	if info.Mode().Perm()&^PrivateDirPerm != 0 {
		if err := os.Chmod(path, PrivateDirPerm); err != nil {
			return errors.Wrapf(err, "restricting permissions on %s", path)
		}
	}

	return nil
}
