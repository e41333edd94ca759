package buffer

import "sync"

// Scratch is a mutable work slice handed out by a Pool.
type Scratch struct {
	data []float64
}

// Samples returns the scratch slice.
func (s *Scratch) Samples() []float64 {
	return s.data
}

func (s *Scratch) resize(n int) {
	if n < 0 {
		n = 0
	}
	if n <= cap(s.data) {
		s.data = s.data[:n]
	} else {
		s.data = make([]float64, n)
	}
}

// Pool provides sync.Pool-based scratch reuse to reduce GC pressure in
// per-grain loops.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Scratch{}
			},
		},
	}
}

// Get returns a Scratch with the requested length. The slice is zeroed.
// Callers must return it via Put when done.
func (p *Pool) Get(length int) *Scratch {
	s := p.pool.Get().(*Scratch)
	s.resize(length)
	clear(s.data)
	return s
}

// Put returns a Scratch to the pool for reuse.
// The caller must not use the scratch after calling Put.
func (p *Pool) Put(s *Scratch) {
	if s == nil {
		return
	}
	p.pool.Put(s)
}
