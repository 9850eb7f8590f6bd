package console

import (
	"sort"
	"sync"

	"github.com/Wrsford/ThreadedConsole/ansi"
)

// batch is one emitter's slice of a drain, in enqueue order.
type batch struct {
	id      int
	entries []Entry
}

// queueRegistry holds the per-emitter FIFO queues. A single mutex over a
// plain map is the one synchronization strategy used here: enqueue and drain
// are both short critical sections that never touch the sink, so there is no
// lock holder to wait on. Emptied queues are kept in the map; retaining them
// is cheap and sidesteps any remove/insert race on re-use of an id.
type queueRegistry struct {
	mu      sync.Mutex
	queues  map[int][]Entry
	pending int
}

func newQueueRegistry() *queueRegistry {
	return &queueRegistry{queues: make(map[int][]Entry)}
}

// enqueue appends e to the emitter's queue, creating the queue on first use.
// It returns the total number of entries pending across all queues.
func (q *queueRegistry) enqueue(id int, e Entry) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queues[id] = append(q.queues[id], e)
	q.pending++
	return q.pending
}

// drainAll removes up to max entries across all queues, grouped by emitter id
// in descending id order. Entries within a batch keep their enqueue order;
// anything beyond the bound stays queued for the next flush. The second
// return value is the number of entries still pending after the drain.
func (q *queueRegistry) drainAll(max int) ([]batch, int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == 0 || max <= 0 {
		return nil, q.pending
	}

	ids := make([]int, 0, len(q.queues))
	for id, entries := range q.queues {
		if len(entries) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	batches := make([]batch, 0, len(ids))
	budget := max
	for _, id := range ids {
		if budget == 0 {
			break
		}
		entries := q.queues[id]
		take := len(entries)
		if take > budget {
			take = budget
		}
		taken := make([]Entry, take)
		copy(taken, entries[:take])
		rest := entries[take:]
		if len(rest) == 0 {
			q.queues[id] = nil
		} else {
			remainder := make([]Entry, len(rest))
			copy(remainder, rest)
			q.queues[id] = remainder
		}
		q.pending -= take
		budget -= take
		batches = append(batches, batch{id: id, entries: taken})
	}
	return batches, q.pending
}

// len returns the total number of pending entries.
func (q *queueRegistry) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

// stateRegistry maps emitter ids to their current color pair. First access
// for an id materializes the default pair, so an emitter is never observed
// without a state.
type stateRegistry struct {
	mu     sync.Mutex
	states map[int]State
}

func newStateRegistry() *stateRegistry {
	return &stateRegistry{states: make(map[int]State)}
}

func (s *stateRegistry) get(id int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		st = DefaultState()
		s.states[id] = st
	}
	return st
}

func (s *stateRegistry) set(id int, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = st
}

// setForeground and setBackground update one half of the pair in a single
// critical section so a concurrent read never observes a torn pair.

func (s *stateRegistry) setForeground(id int, c ansi.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		st = DefaultState()
	}
	st.Foreground = c
	s.states[id] = st
}

func (s *stateRegistry) setBackground(id int, c ansi.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		st = DefaultState()
	}
	st.Background = c
	s.states[id] = st
}
