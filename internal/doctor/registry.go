package doctor

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Registry holds health checkers in registration order
type Registry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
}

// NewRegistry creates a new Registry
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterChecker registers a health checker
func (r *Registry) RegisterChecker(checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkers = append(r.checkers, checker)
}

// Checkers returns all registered checkers
func (r *Registry) Checkers() []HealthChecker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.checkers)
}

// CheckersForCategories returns the checkers in any of categories, or all
// checkers when categories is empty.
func (r *Registry) CheckersForCategories(categories []Category) []HealthChecker {
	all := r.Checkers()
	if len(categories) == 0 {
		return all
	}

	selected := []HealthChecker{}

	for _, c := range all {
		if slices.Contains(categories, c.Category()) {
			selected = append(selected, c)
		}
	}

	return selected
}

// Run executes the selected checkers concurrently. Results keep registration
// order; a panicking checker becomes an error result.
func (r *Registry) Run(ctx context.Context, categories []Category) []CheckResult {
	checkers := r.CheckersForCategories(categories)
	results := make([]CheckResult, len(checkers))

	var g errgroup.Group

	for i, checker := range checkers {
		g.Go(func() error {
			start := time.Now()
			result := runCheck(ctx, checker)
			result.Category = checker.Category()
			result.Elapsed = time.Since(start)
			results[i] = result

			return nil
		})
	}

	_ = g.Wait()

	return results
}

func runCheck(ctx context.Context, checker HealthChecker) (result CheckResult) {
	defer func() {
		if p := recover(); p != nil {
			result = FailError(checker.Name(), fmt.Sprintf("check panicked: %v", p))
		}
	}()

	return checker.Check(ctx)
}

// CheckerCount returns the total number of registered checkers
func (r *Registry) CheckerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.checkers)
}
