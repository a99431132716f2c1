package grid

import "sync"

// Line is a reusable complex scratch line.
type Line struct {
	Data []complex128
}

// Pool provides sync.Pool-based reuse of complex scratch lines, so that
// row and column passes of a 2D transform do not allocate per line.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Line{}
			},
		},
	}
}

// Get returns a zeroed Line of the requested length.
// Callers must return it via Put when done.
func (p *Pool) Get(length int) *Line {
	l := p.pool.Get().(*Line)
	if length < 0 {
		length = 0
	}
	if cap(l.Data) < length {
		l.Data = make([]complex128, length)
	} else {
		l.Data = l.Data[:length]
		clear(l.Data)
	}
	return l
}

// Put returns a Line to the pool for reuse.
// The caller must not use the line after calling Put.
func (p *Pool) Put(l *Line) {
	if l == nil {
		return
	}
	p.pool.Put(l)
}
