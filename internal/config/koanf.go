// Package config provides internal configuration loading and processing.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/hyperfind/internal/xdg"
	"github.com/smykla-skalski/hyperfind/pkg/config"
)

var (
	// ErrConfigNotFound is returned when an explicitly requested configuration file is missing.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidPermissions is returned when config file has insecure permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// ProjectConfigDir is the directory name for project configuration.
	ProjectConfigDir = ".hyperfind"

	// ProjectConfigFile is the primary project configuration file name.
	ProjectConfigFile = "config.toml"

	// ProjectConfigFileAlt is the alternative project configuration file name.
	ProjectConfigFileAlt = "hyperfind.toml"

	envPrefix = "HYPERFIND_"
)

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (HYPERFIND_*)
// 3. Project Config (.hyperfind/config.toml or hyperfind.toml)
// 4. Global Config ($XDG_CONFIG_HOME/hyperfind/config.toml)
// 5. Defaults
type KoanfLoader struct {
	k        *koanf.Koanf
	resolver xdg.PathResolver
	workDir  string

	// globalPath and projectPath override discovery when set.
	globalPath  string
	projectPath string
}

// NewKoanfLoader creates a new KoanfLoader with default directories.
func NewKoanfLoader() (*KoanfLoader, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return &KoanfLoader{
		k:        koanf.New("."),
		resolver: xdg.DefaultResolver(),
		workDir:  workDir,
	}, nil
}

// NewKoanfLoaderWithDirs creates a new KoanfLoader with custom directories (for testing).
func NewKoanfLoaderWithDirs(homeDir, workDir string) *KoanfLoader {
	return &KoanfLoader{
		k:        koanf.New("."),
		resolver: xdg.ResolverFor(homeDir),
		workDir:  workDir,
	}
}

// SetGlobalConfigPath overrides the global config location (--global-config).
func (l *KoanfLoader) SetGlobalConfigPath(path string) {
	l.globalPath = path
}

// SetProjectConfigPath overrides project config discovery (--config).
func (l *KoanfLoader) SetProjectConfigPath(path string) {
	l.projectPath = path
}

// Load loads configuration from all sources with precedence and validates it.
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
// Defaults → Global TOML → Project TOML → Env Vars → CLI Flags
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	globalPath := l.GlobalConfigPath()
	if err := l.loadTOMLFile(globalPath); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "failed to load global config")
		}

		if l.globalPath != "" {
			return nil, errors.Wrapf(ErrConfigNotFound, "%s", globalPath)
		}
	}

	if projectPath := l.FindProjectConfigPath(); projectPath != "" {
		if err := l.loadTOMLFile(projectPath); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(ErrConfigNotFound, "%s", projectPath)
			}

			return nil, errors.Wrap(err, "failed to load project config")
		}
	}

	envOpt := env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if flagConfig := flagsToConfig(flags); len(flagConfig) > 0 {
		if err := l.k.Load(confmap.Provider(flagConfig, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg config.Config
	if err := unmarshal(l.k, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform maps HYPERFIND_<SECTION>_<KEY> to <section>.<key>.
// HYPERFIND_MATERIALIZER_IDLE_TIMEOUT → materializer.idle_timeout
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	// HYPERFIND_CRASH_DUMP_MAX_AGE → crash_dump.max_age
	if rest, ok := strings.CutPrefix(key, "crash_dump_"); ok {
		return "crash_dump." + rest, value
	}

	section, rest, found := strings.Cut(key, "_")
	if !found {
		return section, value
	}

	if section == "materializer" && rest == "attributes" {
		return section + "." + rest, strings.Split(value, ",")
	}

	return section + "." + rest, value
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	if l.globalPath != "" {
		return l.globalPath
	}

	return l.resolver.GlobalConfigFile()
}

// ProjectConfigPaths returns the paths to check for project configuration.
func (l *KoanfLoader) ProjectConfigPaths() []string {
	return []string{
		filepath.Join(l.workDir, ProjectConfigDir, ProjectConfigFile),
		filepath.Join(l.workDir, ProjectConfigFileAlt),
	}
}

// FindProjectConfigPath returns the project config file in use, or "" when there is none.
func (l *KoanfLoader) FindProjectConfigPath() string {
	if l.projectPath != "" {
		return l.projectPath
	}

	for _, path := range l.ProjectConfigPaths() {
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// HasGlobalConfig checks if a global configuration file exists.
func (l *KoanfLoader) HasGlobalConfig() bool {
	return fileExists(l.GlobalConfigPath())
}

// flagsToConfig converts CLI flags to a configuration map.
func flagsToConfig(flags map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range flags {
		switch key {
		case "runner":
			if s, ok := value.(string); ok && s != "" {
				ensureMapKey(result, "runner")["path"] = s
			}

		case "workers":
			if n, ok := value.(int); ok && n > 0 {
				ensureMapKey(result, "materializer")["workers"] = n
			}

		case "root":
			if s, ok := value.(string); ok && s != "" {
				ensureMapKey(result, "backend")["root"] = s
			}

		case "temp-dir":
			if s, ok := value.(string); ok && s != "" {
				ensureMapKey(result, "export")["temp_dir"] = s
			}
		}
	}

	return result
}

// ensureMapKey ensures a key exists as a map and returns it.
func ensureMapKey(cfg map[string]any, key string) map[string]any {
	if _, ok := cfg[key]; !ok {
		cfg[key] = make(map[string]any)
	}

	result, _ := cfg[key].(map[string]any)

	return result
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
