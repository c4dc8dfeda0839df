package rsg

import "sync"

// Pool is a fixed set of worker goroutines reused across update cycles.
// Work is submitted through Scoped, which blocks until everything it
// submitted has finished.
type Pool struct {
	tasks   chan func()
	workers int
	wg      sync.WaitGroup
	closed  bool
}

// NewPool starts a pool of n workers (at least one).
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{tasks: make(chan func()), workers: n}
	p.wg.Add(n)
	for range n {
		go p.worker()
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Close stops the workers after queued work drains. The pool must not be
// used afterwards.
func (p *Pool) Close() {
	if p.closed {
		return
	}
	p.closed = true
	close(p.tasks)
	p.wg.Wait()
}

// Scope collects the closures of one Scoped call.
type Scope struct {
	pool *Pool
	wg   sync.WaitGroup

	mu        sync.Mutex
	recovered any
}

// Execute runs fn on a pool worker. It may block until a worker is free.
func (s *Scope) Execute(fn func()) {
	s.wg.Add(1)
	s.pool.tasks <- func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.mu.Lock()
				if s.recovered == nil {
					s.recovered = r
				}
				s.mu.Unlock()
			}
		}()
		fn()
	}
}

// Scoped calls fn with a fresh Scope and returns once fn and every closure
// it submitted have completed. A panic in a submitted closure is re-raised
// here, on the caller's goroutine, after the join.
func (p *Pool) Scoped(fn func(*Scope)) {
	if p.closed {
		panic("rsg: Scoped on a closed pool")
	}
	s := &Scope{pool: p}
	func() {
		defer s.wg.Wait()
		fn(s)
	}()
	if s.recovered != nil {
		panic(s.recovered)
	}
}
