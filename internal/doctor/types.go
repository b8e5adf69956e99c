// Package doctor runs health checks against a hyperfind installation:
// its config files, the plugin-runner and the directories exports touch.
package doctor

//go:generate mockgen -source=types.go -destination=types_mock.go -package=doctor

import (
	"context"
	"fmt"
	"time"
)

// Severity says how much a failed check matters. Only errors fail a run.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Status is the outcome of one check.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusSkipped Status = "skipped"
)

// Category groups checks for --category filtering.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryRunner  Category = "runner"
	CategoryStorage Category = "storage"
)

// Categories returns every category in report order.
func Categories() []Category {
	return []Category{CategoryConfig, CategoryRunner, CategoryStorage}
}

// CheckResult is what a HealthChecker reports. Category and Elapsed are
// filled in by the Registry.
type CheckResult struct {
	Name     string
	Category Category
	Severity Severity
	Status   Status
	Message  string
	Details  []string
	Elapsed  time.Duration
}

// HealthChecker performs one check.
type HealthChecker interface {
	Name() string
	Category() Category
	Check(ctx context.Context) CheckResult
}

// Reporter presents results to the user.
type Reporter interface {
	Report(results []CheckResult, verbose bool)
}

// NewCheckResult creates a CheckResult.
func NewCheckResult(name string, severity Severity, status Status, message string) CheckResult {
	return CheckResult{
		Name:     name,
		Severity: severity,
		Status:   status,
		Message:  message,
	}
}

// WithDetails returns r with details appended.
func (r CheckResult) WithDetails(details ...string) CheckResult {
	r.Details = append(r.Details, details...)

	return r
}

func Pass(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusPass, message)
}

func FailError(name, message string) CheckResult {
	return NewCheckResult(name, SeverityError, StatusFail, message)
}

func FailWarning(name, message string) CheckResult {
	return NewCheckResult(name, SeverityWarning, StatusFail, message)
}

func Skip(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusSkipped, message)
}

func (r CheckResult) IsError() bool {
	return r.Status == StatusFail && r.Severity == SeverityError
}

func (r CheckResult) IsWarning() bool {
	return r.Status == StatusFail && r.Severity != SeverityError
}

func (r CheckResult) IsPassed() bool {
	return r.Status == StatusPass
}

func (r CheckResult) IsSkipped() bool {
	return r.Status == StatusSkipped
}

// Summary counts results by outcome.
type Summary struct {
	Passed   int
	Errors   int
	Warnings int
	Skipped  int
}

// Summarize counts results.
func Summarize(results []CheckResult) Summary {
	var s Summary

	for _, r := range results {
		switch {
		case r.IsPassed():
			s.Passed++
		case r.IsError():
			s.Errors++
		case r.IsWarning():
			s.Warnings++
		default:
			s.Skipped++
		}
	}

	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d passed, %d error(s), %d warning(s), %d skipped",
		s.Passed, s.Errors, s.Warnings, s.Skipped)
}
