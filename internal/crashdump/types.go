// Package crashdump records diagnostic snapshots when hyperfind panics.
package crashdump

import "time"

// CrashInfo is a single crash dump.
type CrashInfo struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	PanicValue string         `json:"panic_value"`
	StackTrace string         `json:"stack_trace"`
	Command    *CommandInfo   `json:"command,omitempty"`
	Runtime    RuntimeInfo    `json:"runtime"`
	Pools      []PoolState    `json:"pools,omitempty"`
	Config     map[string]any `json:"config,omitempty"`
	Metadata   DumpMetadata   `json:"metadata"`
}

// CommandInfo describes the invocation that panicked.
type CommandInfo struct {
	// Path is the cobra command path, e.g. "hyperfind export".
	Path string   `json:"path"`
	Args []string `json:"args,omitempty"`
}

// RuntimeInfo captures the Go runtime at crash time.
type RuntimeInfo struct {
	GOOS         string `json:"goos"`
	GOARCH       string `json:"goarch"`
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
}

// PoolState is a materializer worker pool at crash time.
type PoolState struct {
	Workers     int    `json:"workers"`
	Running     int    `json:"running"`
	Queued      int    `json:"queued"`
	PeakRunning int    `json:"peak_running"`
	Completed   uint64 `json:"completed"`
}

// DumpMetadata identifies the build and host.
type DumpMetadata struct {
	Version    string `json:"version"`
	User       string `json:"user,omitempty"`
	Hostname   string `json:"hostname,omitempty"`
	WorkingDir string `json:"working_dir,omitempty"`
}

// DumpSummary is the listing view of a crash dump.
type DumpSummary struct {
	ID         string
	Timestamp  time.Time
	PanicValue string
	FilePath   string
	Size       int64
}
