package reactive

// Memo caches the result of compute until one of its sources is bumped.
// Reads are pulled: Get recomputes on demand, so a read right after a write
// in the same batch sees the new state. Subscribers are pushed the new
// value after a flush, and only when eq reports a change.
type Memo[T any] struct {
	rt      *Runtime
	compute func() T
	eq      func(a, b T) bool
	deps    []*Source
	seen    []uint64
	value   T
	valid   bool

	obs       *observer
	subs      []*memoSub[T]
	published T
	disposed  bool
}

type memoSub[T any] struct {
	fn   func(T)
	dead bool
}

// NewMemo returns a memo over deps. A nil eq treats every recomputation
// as a change.
func NewMemo[T any](rt *Runtime, compute func() T, eq func(a, b T) bool, deps ...*Source) *Memo[T] {
	m := &Memo[T]{rt: rt, compute: compute, eq: eq, deps: deps, seen: make([]uint64, len(deps))}
	m.obs = rt.newObserver(m.onChange)
	for _, d := range deps {
		d.attach(m.obs)
	}
	return m
}

// Get returns the cached value, recomputing it when a source moved.
func (m *Memo[T]) Get() T {
	if m.valid && !m.stale() {
		return m.value
	}
	for i, d := range m.deps {
		m.seen[i] = d.Version()
	}
	m.value = m.compute()
	m.valid = true
	return m.value
}

func (m *Memo[T]) stale() bool {
	for i, d := range m.deps {
		if m.seen[i] != d.Version() {
			return true
		}
	}
	return false
}

// Subscribe calls fn with the new value after each flush that changed it.
func (m *Memo[T]) Subscribe(fn func(T)) (cancel func()) {
	if len(m.subs) == 0 {
		m.published = m.Get()
	}
	s := &memoSub[T]{fn: fn}
	m.subs = append(m.subs, s)
	return func() {
		s.dead = true
		for i, x := range m.subs {
			if x == s {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Memo[T]) onChange() {
	if m.disposed || len(m.subs) == 0 {
		return
	}
	cur := m.Get()
	if m.eq != nil && m.eq(m.published, cur) {
		return
	}
	m.published = cur
	for _, s := range append([]*memoSub[T](nil), m.subs...) {
		if !s.dead {
			s.fn(cur)
		}
	}
}

// Dispose detaches the memo from its sources.
func (m *Memo[T]) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	m.obs.dead = true
	for _, d := range m.deps {
		d.detach(m.obs)
	}
	m.subs = nil
}
