package viewer

import "sync"

// tessellation holds the settings a draw list is built from.
type tessellation struct {
	subdivisions int
	localize     bool
}

// rebuilder runs one background build at a time. A request made while a
// build runs is kept, the latest one winning, and built as soon as the
// current build finishes.
type rebuilder struct {
	build func(tessellation)

	mu      sync.Mutex
	running bool
	pending *tessellation
	wg      sync.WaitGroup
}

func newRebuilder(build func(tessellation)) *rebuilder {
	return &rebuilder{build: build}
}

func (r *rebuilder) request(t tessellation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.pending = &t
		return
	}
	r.running = true
	r.wg.Add(1)
	go r.run(t)
}

func (r *rebuilder) run(t tessellation) {
	defer r.wg.Done()
	for {
		r.build(t)

		r.mu.Lock()
		if r.pending == nil {
			r.running = false
			r.mu.Unlock()
			return
		}
		t = *r.pending
		r.pending = nil
		r.mu.Unlock()
	}
}

// wait blocks until no build is running or pending.
func (r *rebuilder) wait() {
	r.wg.Wait()
}
