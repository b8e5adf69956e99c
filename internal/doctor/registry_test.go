package doctor_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hyperfind/internal/doctor"
)

// stubChecker is a minimal HealthChecker for testing.
type stubChecker struct {
	name     string
	category doctor.Category
	result   func(name string) doctor.CheckResult
}

func (s *stubChecker) Name() string              { return s.name }
func (s *stubChecker) Category() doctor.Category { return s.category }

func (s *stubChecker) Check(_ context.Context) doctor.CheckResult {
	if s.result != nil {
		return s.result(s.name)
	}

	return doctor.Pass(s.name, "ok")
}

var _ = Describe("Registry", func() {
	var registry *doctor.Registry

	BeforeEach(func() {
		registry = doctor.NewRegistry()
		registry.RegisterChecker(&stubChecker{name: "runner-exists", category: doctor.CategoryRunner})
		registry.RegisterChecker(&stubChecker{name: "config-valid", category: doctor.CategoryConfig})
		registry.RegisterChecker(&stubChecker{name: "runner-catalog", category: doctor.CategoryRunner})
		registry.RegisterChecker(&stubChecker{name: "temp-dir", category: doctor.CategoryStorage})
	})

	Describe("Checkers", func() {
		It("returns all registered checkers in order", func() {
			all := registry.Checkers()
			Expect(all).To(HaveLen(4))
			Expect(all[0].Name()).To(Equal("runner-exists"))
			Expect(all[3].Name()).To(Equal("temp-dir"))
			Expect(registry.CheckerCount()).To(Equal(4))
		})
	})

	Describe("CheckersForCategories", func() {
		It("returns checkers for specified categories", func() {
			checkers := registry.CheckersForCategories([]doctor.Category{doctor.CategoryRunner})
			Expect(checkers).To(HaveLen(2))

			for _, c := range checkers {
				Expect(c.Category()).To(Equal(doctor.CategoryRunner))
			}
		})

		It("returns checkers for multiple categories", func() {
			checkers := registry.CheckersForCategories([]doctor.Category{
				doctor.CategoryConfig,
				doctor.CategoryStorage,
			})
			Expect(checkers).To(HaveLen(2))
		})

		It("returns all checkers for no categories", func() {
			Expect(registry.CheckersForCategories(nil)).To(HaveLen(4))
		})
	})

	Describe("Run", func() {
		It("keeps registration order and stamps the category", func() {
			results := registry.Run(context.Background(), nil)

			names := make([]string, 0, len(results))
			for _, r := range results {
				names = append(names, r.Name)
			}

			Expect(names).To(Equal([]string{"runner-exists", "config-valid", "runner-catalog", "temp-dir"}))
			Expect(results[1].Category).To(Equal(doctor.CategoryConfig))
		})

		It("turns a panicking checker into an error result", func() {
			registry.RegisterChecker(&stubChecker{
				name:     "broken",
				category: doctor.CategoryRunner,
				result: func(string) doctor.CheckResult {
					panic("runner vanished")
				},
			})

			results := registry.Run(context.Background(), []doctor.Category{doctor.CategoryRunner})
			Expect(results).To(HaveLen(3))

			last := results[2]
			Expect(last.Name).To(Equal("broken"))
			Expect(last.IsError()).To(BeTrue())
			Expect(last.Message).To(Equal("check panicked: runner vanished"))
			Expect(last.Category).To(Equal(doctor.CategoryRunner))
		})
	})
})

var _ = Describe("CheckResult", func() {
	DescribeTable("status helpers",
		func(r doctor.CheckResult, isErr, isWarn, passed, skipped bool) {
			Expect(r.IsError()).To(Equal(isErr))
			Expect(r.IsWarning()).To(Equal(isWarn))
			Expect(r.IsPassed()).To(Equal(passed))
			Expect(r.IsSkipped()).To(Equal(skipped))
		},
		Entry("pass", doctor.Pass("a", "ok"), false, false, true, false),
		Entry("error", doctor.FailError("a", "bad"), true, false, false, false),
		Entry("warning", doctor.FailWarning("a", "meh"), false, true, false, false),
		Entry("skip", doctor.Skip("a", "n/a"), false, false, false, true),
	)

	It("summarizes results by outcome", func() {
		summary := doctor.Summarize([]doctor.CheckResult{
			doctor.Pass("a", "ok"),
			doctor.Pass("b", "ok"),
			doctor.FailError("c", "bad"),
			doctor.FailWarning("d", "meh"),
			doctor.Skip("e", "n/a"),
		})

		Expect(summary).To(Equal(doctor.Summary{Passed: 2, Errors: 1, Warnings: 1, Skipped: 1}))
		Expect(summary.String()).To(Equal("2 passed, 1 error(s), 1 warning(s), 1 skipped"))
	})

	It("appends details without sharing the slice", func() {
		base := doctor.Pass("a", "ok")
		withOne := base.WithDetails("one")

		Expect(base.Details).To(BeEmpty())
		Expect(withOne.Details).To(Equal([]string{"one"}))
	})
})
