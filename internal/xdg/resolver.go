package xdg

import "path/filepath"

// PathResolver locates hyperfind's per-user files. Tests use ResolverFor
// to pin them under a temporary home.
type PathResolver interface {
	GlobalConfigFile() string
	LogFile() string
	CrashDumpDir() string
}

// DefaultResolver honors the XDG environment.
func DefaultResolver() PathResolver {
	return envResolver{}
}

type envResolver struct{}

func (envResolver) GlobalConfigFile() string { return GlobalConfigFile() }
func (envResolver) LogFile() string          { return LogFile() }
func (envResolver) CrashDumpDir() string     { return CrashDumpDir() }

// ResolverFor returns a PathResolver rooted at homeDir that ignores XDG variables.
func ResolverFor(homeDir string) PathResolver {
	return homeResolver(homeDir)
}

type homeResolver string

func (h homeResolver) state() string {
	return filepath.Join(string(h), ".local", "state", appName)
}

func (h homeResolver) GlobalConfigFile() string {
	return filepath.Join(string(h), ".config", appName, configFileName)
}

func (h homeResolver) LogFile() string {
	return filepath.Join(h.state(), logFileName)
}

func (h homeResolver) CrashDumpDir() string {
	return filepath.Join(h.state(), crashDirName)
}
