package midgard

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

// future is assigned exactly once, then done is closed.
type future struct {
	done      chan struct{}
	body      []byte
	err       error
	fetchedAt time.Time
}

// memo shares one fetch per key between concurrent and later callers.
type memo struct {
	entries *xsync.Map[string, *future]
	ttl     time.Duration
	now     func() time.Time
}

func newMemo(ttl time.Duration) *memo {
	return &memo{
		entries: xsync.NewMap[string, *future](),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Do returns the result for key, running fetch only if no live entry exists.
// The second return value reports whether the result came from another caller's fetch.
// The fetch runs detached from every caller, so a caller that gives up does not fail
// the others waiting on the same key. Failed fetches are evicted so the next call retries.
func (m *memo) Do(ctx context.Context, key string, fetch func() ([]byte, error)) ([]byte, bool, error) {
	for {
		f := &future{done: make(chan struct{})}
		actual, loaded := m.entries.LoadOrStore(key, f)
		if !loaded {
			go m.run(key, f, fetch)
		}

		select {
		case <-actual.done:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}

		if loaded && actual.err == nil && m.expired(actual) {
			m.evict(key, actual)
			continue
		}
		return actual.body, loaded, actual.err
	}
}

func (m *memo) run(key string, f *future, fetch func() ([]byte, error)) {
	defer close(f.done)
	f.body, f.err = fetch()
	f.fetchedAt = m.now()
	if f.err != nil {
		m.evict(key, f)
		return
	}
	m.sweep(key)
}

// sweep drops completed entries whose TTL has passed, except skip.
func (m *memo) sweep(skip string) {
	if m.ttl <= 0 {
		return
	}
	m.entries.Range(func(key string, f *future) bool {
		if key == skip {
			return true
		}
		select {
		case <-f.done:
		default:
			return true
		}
		if f.err == nil && m.expired(f) {
			m.evict(key, f)
		}
		return true
	})
}

func (m *memo) expired(f *future) bool {
	if m.ttl <= 0 {
		return false
	}
	return m.now().Sub(f.fetchedAt) >= m.ttl
}

// evict removes key only while it still points at f.
func (m *memo) evict(key string, f *future) {
	m.entries.Compute(key, func(old *future, loaded bool) (*future, xsync.ComputeOp) {
		if loaded && old == f {
			return nil, xsync.DeleteOp
		}
		return old, xsync.CancelOp
	})
}

// Len reports the number of cached or in-flight keys.
func (m *memo) Len() int {
	return m.entries.Size()
}
