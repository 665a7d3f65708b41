// Package bufpool provides a small reusable byte-buffer pool for the
// writer's frame accumulator, avoiding one allocation per record during a
// write pass.
package bufpool

import "github.com/grailbio/base/syncqueue"

// Pool hands out []byte scratch buffers sized for one frame's worth of
// record bytes. Get blocks when all buffers are checked out, bounding
// how many flushed-but-unwritten frames can be in flight at once.
type Pool struct {
	capacity int
	free     *syncqueue.LIFO
}

// New returns a Pool pre-populated with capacity empty buffers.
func New(capacity int) *Pool {
	p := &Pool{capacity: capacity, free: syncqueue.NewLIFO()}
	for i := 0; i < capacity; i++ {
		p.free.Put(&buf{})
	}
	return p
}

type buf struct {
	b []byte
}

// Get removes a buffer from the pool, blocking until one is available, and
// returns it truncated to zero length.
func (p *Pool) Get() []byte {
	v, ok := p.free.Get()
	if !ok {
		return nil
	}
	bb := v.(*buf)
	return bb.b[:0]
}

// Put returns b to the pool for reuse.
func (p *Pool) Put(b []byte) {
	p.free.Put(&buf{b: b})
}

// Finish drains the pool, blocking until every buffer handed out by Get
// has been returned via Put. It must be called exactly once.
func (p *Pool) Finish() {
	for i := 0; i < p.capacity; i++ {
		if _, ok := p.free.Get(); !ok {
			panic("bufpool: buffer leaked past Finish")
		}
	}
}
