package session

import "time"

// timerSet schedules deferred tasks keyed by id, with at most one pending
// schedule per key. Expiry re-enters the coordinator loop through post, so
// a fire and a concurrent cancel can never race: whichever closure runs
// first in the loop wins, and a cancelled timer never executes its task.
type timerSet struct {
	post    func(func())
	nextID  uint64
	pending map[string]*scheduledTask
}

type scheduledTask struct {
	id    uint64
	timer *time.Timer
}

func newTimerSet(post func(func())) *timerSet {
	return &timerSet{post: post, pending: make(map[string]*scheduledTask)}
}

// schedule arms the task for the key, replacing any pending schedule.
func (s *timerSet) schedule(key string, d time.Duration, fn func()) {
	s.cancel(key)
	s.nextID++
	id := s.nextID
	task := &scheduledTask{id: id}
	task.timer = time.AfterFunc(d, func() {
		s.post(func() {
			cur, ok := s.pending[key]
			if !ok || cur.id != id {
				return // cancelled or replaced after firing
			}
			delete(s.pending, key)
			fn()
		})
	})
	s.pending[key] = task
}

// cancel drops the pending task for the key. Cancelling an already-fired
// or already-cancelled key is a no-op.
func (s *timerSet) cancel(key string) {
	if task, ok := s.pending[key]; ok {
		task.timer.Stop()
		delete(s.pending, key)
	}
}

func (s *timerSet) armed(key string) bool {
	_, ok := s.pending[key]
	return ok
}
