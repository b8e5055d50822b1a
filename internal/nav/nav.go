// Package nav defines the navigation primitive boundaries use for their
// terminal escape hatches. The hosting application supplies the real
// implementation; Recorder exists for tests and simulations.
package nav

import "sync"

// Navigator leaves the current view: either by navigating to a path or by
// reloading it. Both are outside the boundary's own recovery loop.
type Navigator interface {
	// Redirect navigates to the given path.
	Redirect(path string) error

	// Reload re-enters the current view from scratch.
	Reload() error
}

// Recorder is a Navigator that records the actions it receives.
type Recorder struct {
	mu        sync.Mutex
	redirects []string
	reloads   int
}

// NewRecorder creates an empty recording navigator.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Redirect records the requested path.
func (r *Recorder) Redirect(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects = append(r.redirects, path)
	return nil
}

// Reload records a reload request.
func (r *Recorder) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloads++
	return nil
}

// Redirects returns the recorded redirect paths in order.
func (r *Recorder) Redirects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.redirects))
	copy(out, r.redirects)
	return out
}

// Reloads returns how many reloads were requested.
func (r *Recorder) Reloads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reloads
}
