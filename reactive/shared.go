package reactive

// Shared hands out reference-counted queries keyed by string. Consumers of
// the same key share one memo; the memo is disposed when the last query
// for its key is closed.
type Shared[T any] struct {
	entries map[string]*sharedEntry[T]
}

type sharedEntry[T any] struct {
	memo *Memo[T]
	refs int
}

// NewShared returns an empty query cache.
func NewShared[T any]() *Shared[T] {
	return &Shared[T]{entries: map[string]*sharedEntry[T]{}}
}

// Acquire returns a query for key, calling build only when no consumer
// holds one yet.
func (s *Shared[T]) Acquire(key string, build func() *Memo[T]) *Query[T] {
	e, ok := s.entries[key]
	if !ok {
		e = &sharedEntry[T]{memo: build()}
		s.entries[key] = e
	}
	e.refs++
	return &Query[T]{memo: e.memo, release: func() {
		e.refs--
		if e.refs > 0 {
			return
		}
		e.memo.Dispose()
		if s.entries[key] == e {
			delete(s.entries, key)
		}
	}}
}

// Refs returns the number of open queries for key.
func (s *Shared[T]) Refs(key string) int {
	if e, ok := s.entries[key]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of live keys.
func (s *Shared[T]) Len() int { return len(s.entries) }

// Query is one consumer's handle on a shared memo.
type Query[T any] struct {
	memo    *Memo[T]
	release func()
	cancels []func()
	closed  bool
}

// Get returns the current value.
func (q *Query[T]) Get() T { return q.memo.Get() }

// Subscribe calls fn after each flush that changed the value. Subscriptions
// end with the query.
func (q *Query[T]) Subscribe(fn func(T)) (cancel func()) {
	if q.closed {
		return func() {}
	}
	c := q.memo.Subscribe(fn)
	q.cancels = append(q.cancels, c)
	return c
}

// Close ends the query's subscriptions and releases its reference.
// Closing twice is a no-op.
func (q *Query[T]) Close() {
	if q.closed {
		return
	}
	q.closed = true
	for _, c := range q.cancels {
		c()
	}
	q.cancels = nil
	q.release()
}
