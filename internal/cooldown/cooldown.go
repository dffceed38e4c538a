// Package cooldown limits how often a member may run a command.
package cooldown

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Policy allows Rate uses per Per. The zero Policy means no cooldown.
type Policy struct {
	Rate int
	Per  time.Duration
}

func (p Policy) Enabled() bool {
	return p.Rate > 0 && p.Per > 0
}

func (p Policy) String() string {
	if !p.Enabled() {
		return "none"
	}
	return fmt.Sprintf("%d per %s", p.Rate, p.Per)
}

type key struct {
	command string
	member  string
}

// window counts the uses left until end. Its limiter has a zero refill rate,
// so it only ever drains.
type window struct {
	end  time.Time
	uses *rate.Limiter
}

// Table holds one fixed window per command and member. A window opens on the
// first use and allows Rate uses until Per has passed.
type Table struct {
	mu      sync.Mutex
	windows map[key]*window
	now     func() time.Time
}

func NewTable() *Table {
	return &Table{
		windows: make(map[key]*window),
		now:     time.Now,
	}
}

// Take spends one use of command for memberID. When the window is used up
// it returns false and how long until the window closes; nothing is spent
// in that case.
func (t *Table) Take(command, memberID string, p Policy) (time.Duration, bool) {
	if !p.Enabled() {
		return 0, true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	k := key{command: command, member: memberID}
	w, ok := t.windows[k]
	if !ok || !now.Before(w.end) {
		w = &window{end: now.Add(p.Per), uses: rate.NewLimiter(0, p.Rate)}
		t.windows[k] = w
	}

	if !w.uses.AllowN(now, 1) {
		return w.end.Sub(now), false
	}
	return 0, true
}

// Sweep forgets windows that have closed. It returns how many were dropped.
func (t *Table) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	dropped := 0
	for k, w := range t.windows {
		if !now.Before(w.end) {
			delete(t.windows, k)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of open windows.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.windows)
}
