package crashdump

import (
	"fmt"
	"os"
	"os/user"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/smykla-skalski/hyperfind/internal/workpool"
	"github.com/smykla-skalski/hyperfind/pkg/config"
)

const (
	// shortIDLength is the number of uuid characters in a crash ID.
	shortIDLength = 8

	panicNilStr = "panic(nil)"
)

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithPoolStats records the materializer pools alive at crash time.
func WithPoolStats(stats func() []workpool.Stats) CollectorOption {
	return func(c *Collector) {
		c.poolStats = stats
	}
}

// Collector gathers crash diagnostics from a recovered panic.
type Collector struct {
	version   string
	sanitizer *Sanitizer
	now       func() time.Time
	poolStats func() []workpool.Stats
}

// NewCollector creates a Collector stamping dumps with version.
func NewCollector(version string, opts ...CollectorOption) *Collector {
	c := &Collector{
		version:   version,
		sanitizer: NewSanitizer(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Collect builds a CrashInfo. cmd and cfg are optional. Paths under the
// home directory are rewritten to "~" in the stack, the arguments and the config.
func (c *Collector) Collect(recovered any, cmd *CommandInfo, cfg *config.Config) *CrashInfo {
	now := c.now()

	info := &CrashInfo{
		ID:         NewCrashID(now),
		Timestamp:  now,
		PanicValue: formatPanicValue(recovered),
		StackTrace: c.sanitizer.SanitizeText(string(debug.Stack())),
		Command:    c.sanitizeCommand(cmd),
		Runtime:    collectRuntime(),
		Pools:      c.collectPools(),
		Metadata:   c.collectMetadata(),
	}

	if cfg != nil {
		info.Config = c.sanitizer.SanitizeConfig(cfg)
	}

	return info
}

func formatPanicValue(v any) string {
	if v == nil {
		return panicNilStr
	}

	if err, ok := v.(error); ok {
		var pnil *runtime.PanicNilError
		if errors.As(err, &pnil) {
			return panicNilStr
		}

		return err.Error()
	}

	return fmt.Sprint(v)
}

func (c *Collector) sanitizeCommand(cmd *CommandInfo) *CommandInfo {
	if cmd == nil {
		return nil
	}

	out := &CommandInfo{Path: cmd.Path}
	for _, arg := range cmd.Args {
		out.Args = append(out.Args, c.sanitizer.SanitizePath(arg))
	}

	return out
}

func (c *Collector) collectPools() []PoolState {
	if c.poolStats == nil {
		return nil
	}

	stats := c.poolStats()
	if len(stats) == 0 {
		return nil
	}

	pools := make([]PoolState, 0, len(stats))
	for _, s := range stats {
		pools = append(pools, PoolState{
			Workers:     s.Workers,
			Running:     s.Running,
			Queued:      s.Queued,
			PeakRunning: s.PeakRunning,
			Completed:   s.Completed,
		})
	}

	return pools
}

func collectRuntime() RuntimeInfo {
	return RuntimeInfo{
		GOOS:         runtime.GOOS,
		GOARCH:       runtime.GOARCH,
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
	}
}

func (c *Collector) collectMetadata() DumpMetadata {
	meta := DumpMetadata{Version: c.version}

	if u, err := user.Current(); err == nil {
		meta.User = u.Username
	}

	if hostname, err := os.Hostname(); err == nil {
		meta.Hostname = hostname
	}

	if wd, err := os.Getwd(); err == nil {
		meta.WorkingDir = c.sanitizer.SanitizePath(wd)
	}

	return meta
}

// NewCrashID returns "crash-<UTC timestamp>-<8 random hex chars>".
func NewCrashID(t time.Time) string {
	return fmt.Sprintf("crash-%s-%s",
		t.UTC().Format("20060102T150405"),
		uuid.NewString()[:shortIDLength],
	)
}
