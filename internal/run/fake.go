package run

import (
	"context"
	"sync"
)

// Fake is a scripted Runner for tests. Each invocation is recorded; the
// result comes from Handler when set, otherwise from Results consumed in
// order, otherwise a zero (successful) Result.
type Fake struct {
	mu      sync.Mutex
	Handler func(spec Spec) Result
	Results []Result
	Calls   []Spec
}

// Run implements Runner.
func (f *Fake) Run(_ context.Context, spec Spec) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, spec)
	if f.Handler != nil {
		return f.Handler(spec)
	}
	if len(f.Results) > 0 {
		res := f.Results[0]
		f.Results = f.Results[1:]
		return res
	}
	return Result{}
}

// CallCount returns how many commands have been run.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
