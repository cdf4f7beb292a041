// Package health runs one-shot dependency checks and reports their results.
//
// Every registered check runs once, concurrently with the others, bounded by
// its own timeout. A check never cancels its siblings.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"
)

// CheckFunc is a health check function. It should return nil if the checked
// component is healthy, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// ErrUnhealthy is returned by Report.Err when at least one check failed.
var ErrUnhealthy = errors.New("unhealthy")

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Result is the outcome of a single check.
type Result struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Healthy reports whether the check passed.
func (r Result) Healthy() bool {
	return r.Err == nil
}

// Report is the outcome of a Run, in registration order.
type Report []Result

// Healthy reports whether every check passed.
func (r Report) Healthy() bool {
	for _, res := range r {
		if !res.Healthy() {
			return false
		}
	}
	return true
}

// Err returns nil when every check passed, otherwise an error naming the
// first failing check and wrapping ErrUnhealthy.
func (r Report) Err() error {
	for _, res := range r {
		if !res.Healthy() {
			return errors.Wrapf(ErrUnhealthy, "%s: %v", res.Name, res.Err)
		}
	}
	return nil
}

// Checker holds the registered checks.
type Checker struct {
	mu     sync.Mutex
	checks []check
	now    func() time.Time
}

// New creates an empty Checker.
func New() *Checker {
	return &Checker{now: time.Now}
}

// Add registers a check. A timeout <= 0 leaves the check bounded only by the
// context passed to Run.
func (c *Checker) Add(name string, timeout time.Duration, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check{name: name, timeout: timeout, fn: fn})
}

// Run executes every check once and waits for all of them.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.Lock()
	checks := make([]check, len(c.checks))
	copy(checks, c.checks)
	c.mu.Unlock()

	report := make(Report, len(checks))
	var g errgroup.Group
	for i, ch := range checks {
		g.Go(func() error {
			report[i] = c.run(ctx, ch)
			return nil
		})
	}
	_ = g.Wait()
	return report
}

func (c *Checker) run(ctx context.Context, ch check) Result {
	if ch.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ch.timeout)
		defer cancel()
	}

	start := c.now()
	err := ch.fn(ctx)
	return Result{
		Name:     ch.name,
		Duration: c.now().Sub(start),
		Err:      err,
	}
}
