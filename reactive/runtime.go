// Package reactive is a small push/pull dependency runtime: sources carry a
// version, memos recompute lazily when a source they read has moved, and
// observers are notified once per flush at the outermost Batch boundary.
//
// The runtime is single-threaded. Callers serialize access themselves.
package reactive

import (
	"cmp"
	"slices"
)

// Runtime owns the batching state shared by its sources.
type Runtime struct {
	depth   int
	nextSeq uint64
	pending map[*observer]struct{}
	flushes uint64
}

type observer struct {
	seq  uint64
	fn   func()
	dead bool
}

// NewRuntime returns an idle runtime.
func NewRuntime() *Runtime {
	return &Runtime{pending: map[*observer]struct{}{}}
}

// Batch runs fn and defers notifications until the outermost Batch returns.
// Writes inside fn are visible to reads inside fn immediately.
func (rt *Runtime) Batch(fn func()) {
	rt.depth++
	defer func() {
		rt.depth--
		if rt.depth == 0 {
			rt.flush()
		}
	}()
	fn()
}

// Batching reports whether a Batch is in progress.
func (rt *Runtime) Batching() bool { return rt.depth > 0 }

// Flushes counts the flushes that notified at least one observer.
func (rt *Runtime) Flushes() uint64 { return rt.flushes }

func (rt *Runtime) newObserver(fn func()) *observer {
	rt.nextSeq++
	return &observer{seq: rt.nextSeq, fn: fn}
}

func (rt *Runtime) schedule(obs []*observer) {
	for _, o := range obs {
		if !o.dead {
			rt.pending[o] = struct{}{}
		}
	}
	if rt.depth == 0 {
		rt.flush()
	}
}

// flush notifies pending observers in subscription order. Writes made by an
// observer are collected into the next round, so every observer runs at most
// once per round.
func (rt *Runtime) flush() {
	if len(rt.pending) == 0 {
		return
	}
	rt.flushes++
	for len(rt.pending) > 0 {
		round := make([]*observer, 0, len(rt.pending))
		for o := range rt.pending {
			round = append(round, o)
		}
		clear(rt.pending)
		slices.SortFunc(round, func(a, b *observer) int { return cmp.Compare(a.seq, b.seq) })

		rt.depth++
		for _, o := range round {
			if !o.dead {
				o.fn()
			}
		}
		rt.depth--
	}
}
