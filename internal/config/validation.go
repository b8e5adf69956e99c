package config

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hyperfind/pkg/config"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidLength is returned when a length or count value is invalid.
	ErrInvalidLength = errors.New("invalid length value")

	// ErrInvalidOption is returned when an option value is invalid.
	ErrInvalidOption = errors.New("invalid option value")
)

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	if cfg.Version > config.CurrentConfigVersion {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrInvalidOption,
			"version %d is newer than supported version %d",
			cfg.Version,
			config.CurrentConfigVersion,
		))
	}

	if cfg.Runner != nil {
		if err := v.validateRunnerConfig(cfg.Runner); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "runner"))
		}
	}

	if cfg.Materializer != nil {
		if err := v.validateMaterializerConfig(cfg.Materializer); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "materializer"))
		}
	}

	if cfg.Export != nil {
		if err := v.validateExportConfig(cfg.Export); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "export"))
		}
	}

	if cfg.CrashDump != nil && cfg.CrashDump.MaxDumps < 0 {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrInvalidLength,
			"crash_dump: max_dumps must be non-negative, got %d",
			cfg.CrashDump.MaxDumps,
		))
	}

	if len(validationErrors) > 0 {
		return errors.WithSecondaryError(
			errors.Wrapf(
				ErrInvalidConfig,
				"validation failed with %d error(s)",
				len(validationErrors),
			),
			combineErrors(validationErrors),
		)
	}

	return nil
}

func (*Validator) validateRunnerConfig(cfg *config.RunnerConfig) error {
	if cfg.MaxFieldLength < 0 {
		return errors.Wrapf(
			ErrInvalidLength,
			"max_field_length must be non-negative, got %d",
			cfg.MaxFieldLength,
		)
	}

	return nil
}

func (*Validator) validateMaterializerConfig(cfg *config.MaterializerConfig) error {
	var validationErrors []error

	if cfg.Workers < 0 {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrInvalidLength,
			"workers must be positive, got %d",
			cfg.Workers,
		))
	}

	if cfg.MinWorkers < 0 {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrInvalidLength,
			"min_workers must be non-negative, got %d",
			cfg.MinWorkers,
		))
	}

	if cfg.Workers > 0 && cfg.MinWorkers > cfg.Workers {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrInvalidOption,
			"min_workers (%d) exceeds workers (%d)",
			cfg.MinWorkers,
			cfg.Workers,
		))
	}

	return combineErrors(validationErrors)
}

func (*Validator) validateExportConfig(cfg *config.ExportConfig) error {
	var validationErrors []error

	if strings.ContainsRune(cfg.TempPrefix, filepath.Separator) ||
		strings.ContainsRune(cfg.TempSuffix, filepath.Separator) {
		validationErrors = append(validationErrors, errors.WithMessage(
			ErrInvalidOption,
			"temp_prefix and temp_suffix must not contain path separators",
		))
	}

	if sub := cfg.DownloadSubpath; sub != "" {
		if filepath.IsAbs(sub) || strings.Contains(sub, "..") {
			validationErrors = append(validationErrors, errors.Wrapf(
				ErrInvalidOption,
				"download_subpath must be a relative path without '..', got %q",
				sub,
			))
		}
	}

	return combineErrors(validationErrors)
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
