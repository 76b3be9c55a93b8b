package reactive

// Source is a versioned signal. It carries no value of its own; readers
// consult whatever state the source guards and use the version to tell
// whether that state moved.
type Source struct {
	rt        *Runtime
	version   uint64
	observers []*observer
}

// NewSource returns a source bound to rt.
func (rt *Runtime) NewSource() *Source { return &Source{rt: rt} }

// Version returns the number of times the source was bumped.
func (s *Source) Version() uint64 { return s.version }

// Bump marks the guarded state as changed and schedules observers.
func (s *Source) Bump() {
	s.version++
	s.rt.schedule(s.observers)
}

// Subscribe calls fn after each flush in which the source was bumped.
func (s *Source) Subscribe(fn func()) (cancel func()) {
	o := s.rt.newObserver(fn)
	s.attach(o)
	return func() { s.detach(o); o.dead = true }
}

func (s *Source) attach(o *observer) { s.observers = append(s.observers, o) }

func (s *Source) detach(o *observer) {
	for i, x := range s.observers {
		if x == o {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}
