package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/smykla-skalski/hyperfind/internal/artifact"
	"github.com/smykla-skalski/hyperfind/internal/materialize"
)

// Group is a set of inputs downloaded under one label.
type Group struct {
	Label  string
	Inputs []materialize.Input
}

// GroupResult is the outcome of one group. Err is a *GroupedDownloadFailure
// when the group stopped early; Copied counts files written before that.
type GroupResult struct {
	Label  string
	Dir    string
	Copied int
	Bytes  int64
	Files  []string
	Err    error
}

// GroupedReport summarizes a grouped download.
type GroupedReport struct {
	Destination string
	Groups      []GroupResult
	Total       int
	Bytes       int64
	Elapsed     time.Duration
}

// Failed returns the groups that stopped early.
func (r *GroupedReport) Failed() []GroupResult {
	var failed []GroupResult

	for _, g := range r.Groups {
		if g.Err != nil {
			failed = append(failed, g)
		}
	}

	return failed
}

// Err joins every group failure, or returns nil.
func (r *GroupedReport) Err() error {
	var errs []error

	for _, g := range r.Failed() {
		errs = append(errs, g.Err)
	}

	return errors.Join(errs...)
}

// ExportGrouped downloads each group into <destination>/<subpath>/<label>/.
// Groups run concurrently and fail independently; results keep input order.
func (a *Aggregator) ExportGrouped(ctx context.Context, destination string, groups []Group) *GroupedReport {
	start := time.Now()
	root := filepath.Join(destination, a.subpath)
	results := make([]GroupResult, len(groups))

	var g errgroup.Group

	for i, grp := range groups {
		g.Go(func() error {
			results[i] = a.exportGroup(ctx, root, grp)

			return nil
		})
	}

	_ = g.Wait()

	report := &GroupedReport{
		Destination: root,
		Groups:      results,
		Elapsed:     time.Since(start),
	}

	for _, r := range results {
		report.Total += r.Copied
		report.Bytes += r.Bytes
	}

	a.log.Info("grouped download finished",
		"destination", root,
		"groups", len(groups),
		"files", report.Total,
		"failed", len(report.Failed()),
		"elapsed", report.Elapsed,
	)

	return report
}

func (a *Aggregator) exportGroup(ctx context.Context, root string, grp Group) GroupResult {
	res := GroupResult{Label: grp.Label}

	fail := func(err error) GroupResult {
		res.Err = &GroupedDownloadFailure{Label: grp.Label, Err: err}
		a.log.Error("group download failed", "label", grp.Label, "copied", res.Copied, "error", err)

		return res
	}

	if err := ValidateLabel(grp.Label); err != nil {
		return fail(err)
	}

	handles := make([]*materialize.Handle, 0, len(grp.Inputs))
	for _, in := range grp.Inputs {
		handles = append(handles, a.m.SubmitInput(in))
	}

	res.Dir = filepath.Join(root, grp.Label)

	if err := os.MkdirAll(res.Dir, artifact.DirPerm); err != nil {
		return fail(errors.Wrap(err, "creating group directory"))
	}

	for _, h := range handles {
		img, err := a.m.Join(ctx, h)
		if err != nil {
			return fail(err)
		}

		tmp, err := a.reg.WritePNG(img)
		if err != nil {
			return fail(err)
		}

		dst, n, err := artifact.CopyInto(tmp, res.Dir)
		if err != nil {
			return fail(err)
		}

		res.Copied++
		res.Bytes += n
		res.Files = append(res.Files, dst)
	}

	a.log.Debug("group downloaded", "label", grp.Label, "dir", res.Dir, "files", res.Copied)

	return res
}

// ValidateLabel rejects labels that cannot be used as a single directory name.
func ValidateLabel(label string) error {
	switch {
	case strings.TrimSpace(label) == "":
		return errors.Wrap(ErrInvalidLabel, "label is empty")
	case strings.ContainsAny(label, `/\`) || strings.ContainsRune(label, filepath.Separator):
		return errors.Wrapf(ErrInvalidLabel, "%q contains a path separator", label)
	case label == "." || strings.Contains(label, ".."):
		return errors.Wrapf(ErrInvalidLabel, "%q refers outside the download directory", label)
	default:
		return nil
	}
}
