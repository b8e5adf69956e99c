// Package storagechecker provides checkers for the result backend and the
// artifact directory.
package storagechecker

import (
	"context"
	"fmt"
	"image"

	"github.com/smykla-skalski/hyperfind/internal/artifact"
	"github.com/smykla-skalski/hyperfind/internal/backend/filesystem"
	"github.com/smykla-skalski/hyperfind/internal/doctor"
)

const probePrefix = "hyperfind-doctor-"

// TempDirChecker writes and removes a probe artifact in the export directory
type TempDirChecker struct {
	dir string
}

// NewTempDirChecker creates a new artifact directory checker. An empty dir
// checks the platform temp directory.
func NewTempDirChecker(dir string) *TempDirChecker {
	return &TempDirChecker{dir: dir}
}

// Name returns the name of the check
func (*TempDirChecker) Name() string {
	return "Artifact directory writable"
}

// Category returns the category of the check
func (*TempDirChecker) Category() doctor.Category {
	return doctor.CategoryStorage
}

// Check performs the artifact directory check
func (c *TempDirChecker) Check(_ context.Context) doctor.CheckResult {
	reg := artifact.NewRegistry(c.dir, probePrefix, "")

	path, err := reg.WritePNG(image.NewGray(image.Rect(0, 0, 1, 1)))
	if err != nil {
		return doctor.FailError(c.Name(), "Cannot write to "+reg.Dir()).
			WithDetails(
				err.Error(),
				"Set export.temp_dir in the config file or pass --temp-dir",
			)
	}

	if err := reg.Cleanup(); err != nil {
		return doctor.FailWarning(c.Name(), "Probe artifact was not removed").
			WithDetails(path, err.Error())
	}

	return doctor.Pass(c.Name(), reg.Dir())
}

// BackendRootChecker checks that the backend root resolves and holds results
type BackendRootChecker struct {
	root string
}

// NewBackendRootChecker creates a new backend root checker
func NewBackendRootChecker(root string) *BackendRootChecker {
	return &BackendRootChecker{root: root}
}

// Name returns the name of the check
func (*BackendRootChecker) Name() string {
	return "Backend root readable"
}

// Category returns the category of the check
func (*BackendRootChecker) Category() doctor.Category {
	return doctor.CategoryStorage
}

// Check performs the backend root check
func (c *BackendRootChecker) Check(_ context.Context) doctor.CheckResult {
	backend, err := filesystem.New(c.root)
	if err != nil {
		return doctor.FailError(c.Name(), "Backend root is not a directory").
			WithDetails(
				err.Error(),
				"Set backend.root in the config file or pass --root",
			)
	}

	ids, err := backend.Glob("**")
	if err != nil {
		return doctor.FailWarning(c.Name(), "No result objects under "+backend.Root()).
			WithDetails(err.Error())
	}

	return doctor.Pass(c.Name(), fmt.Sprintf("%d object(s) under %s", len(ids), backend.Root()))
}
