package paymentservice

import (
	"sync"
	"time"
)

// reminderSet holds one cancellable timer per payment id. Scheduling again
// for the same id replaces the previous timer; cancelling on a terminal
// transition prevents stale reminders.
type reminderSet struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newReminderSet() *reminderSet {
	return &reminderSet{
		timers: make(map[string]*time.Timer),
	}
}

func (r *reminderSet) Schedule(paymentID string, after time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[paymentID]; ok {
		t.Stop()
	}
	r.timers[paymentID] = time.AfterFunc(after, func() {
		r.mu.Lock()
		delete(r.timers, paymentID)
		r.mu.Unlock()
		fn()
	})
}

func (r *reminderSet) Cancel(paymentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[paymentID]; ok {
		t.Stop()
		delete(r.timers, paymentID)
	}
}

func (r *reminderSet) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}
