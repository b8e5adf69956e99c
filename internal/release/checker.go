package release

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
)

const (
	// Owner is the GitHub owner of the hyperfind repository.
	Owner = "smykla-skalski"
	// Repo is the GitHub repository name.
	Repo = "hyperfind"

	devVersion = "dev"
)

// Status describes the running build relative to the latest release.
type Status struct {
	Current         string
	Latest          string
	URL             string
	UpdateAvailable bool
}

// Checker compares the running version with the latest release.
type Checker struct {
	current string
	client  Client
}

// NewChecker creates a Checker for the given build version.
func NewChecker(current string, client Client) *Checker {
	return &Checker{current: current, client: client}
}

// Check fetches the latest release. Dev builds always report an update.
func (c *Checker) Check(ctx context.Context) (*Status, error) {
	rel, err := c.client.LatestRelease(ctx, Owner, Repo)
	if err != nil {
		return nil, errors.Wrap(err, "checking latest release")
	}

	status := &Status{
		Current: c.current,
		Latest:  rel.TagName,
		URL:     rel.HTMLURL,
	}

	if c.current == devVersion {
		status.UpdateAvailable = true

		return status, nil
	}

	latest, err := parseVersion(rel.TagName)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing latest version %q", rel.TagName)
	}

	current, err := parseVersion(c.current)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing current version %q", c.current)
	}

	status.UpdateAvailable = current.LessThan(latest)

	return status, nil
}

func parseVersion(v string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(v, "v"))
}
