// Package config defines the hyperfind configuration file schema.
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

const day = 24 * time.Hour

// ErrNegativeDuration is returned when a negative duration is provided.
var ErrNegativeDuration = errors.New("duration must be non-negative")

// Duration is a time.Duration written as a Go duration string ("500ms",
// "720h") or as whole days ("30d").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := parseDuration(string(text))
	if err != nil {
		return err
	}

	if dur < 0 {
		return errors.Wrapf(ErrNegativeDuration, "got %s", dur)
	}

	*d = Duration(dur)

	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid duration %q", s)
		}

		return time.Duration(n) * day, nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrap(err, "invalid duration")
	}

	return dur, nil
}

// MarshalText writes the time.Duration form, so "30d" becomes "720h0m0s".
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// ToDuration converts Duration to time.Duration.
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}

// JSONSchema describes Duration as a pattern-checked string.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     `^([0-9]+d|([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+)$`,
		Description: "Go duration string or whole days",
		Examples:    []any{"500ms", "30s", "720h", "30d"},
	}
}
