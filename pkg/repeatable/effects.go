package repeatable

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/net/html"
)

// Appearance timing for freshly added instances.
const (
	AppearDelay      = 10 * time.Millisecond
	AppearTransition = "all 0.3s ease"
)

// Scheduler defers cosmetic work. Implementations may run fn on another
// goroutine; the manager applies its edits through dom.Document.Update, so
// they never overlap a Render.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// Scroller brings a node into view. It runs while the manager holds its lock
// and must not call back into the Manager.
type Scroller interface {
	ScrollIntoView(n *html.Node)
}

// ScrollerFunc adapts a function to Scroller.
type ScrollerFunc func(n *html.Node)

// ScrollIntoView calls f.
func (f ScrollerFunc) ScrollIntoView(n *html.Node) {
	if f != nil {
		f(n)
	}
}

type noopScroller struct{}

func (noopScroller) ScrollIntoView(*html.Node) {}

// InlineScheduler runs each task as soon as it is scheduled, ignoring the
// delay. It is the Manager default: the appearance transition completes
// before Add returns and no goroutine outlives the call.
type InlineScheduler struct{}

// AfterFunc runs fn immediately.
func (InlineScheduler) AfterFunc(_ time.Duration, fn func()) {
	if fn != nil {
		fn()
	}
}

// TimerScheduler runs tasks on wall-clock timers.
type TimerScheduler struct{}

// AfterFunc schedules fn with time.AfterFunc.
func (TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// ManualScheduler queues tasks until the caller advances its virtual clock.
// It suits tests and batch tools that want the final cosmetic state without
// waiting.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []manualTask
}

type manualTask struct {
	due time.Duration
	seq int
	fn  func()
}

// NewManualScheduler returns an empty scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc queues fn to run once the clock has advanced by d.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.tasks = append(s.tasks, manualTask{due: s.now + d, seq: s.seq, fn: fn})
}

// Advance moves the clock forward by d, running due tasks in due order.
// It returns the number of tasks run.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()
	return s.runUntil(target, false)
}

// Drain runs every queued task, including tasks queued while draining.
func (s *ManualScheduler) Drain() int {
	return s.runUntil(0, true)
}

// Pending reports how many tasks are queued.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *ManualScheduler) runUntil(target time.Duration, all bool) int {
	ran := 0
	for {
		s.mu.Lock()
		if len(s.tasks) == 0 {
			if !all && target > s.now {
				s.now = target
			}
			s.mu.Unlock()
			return ran
		}
		sort.SliceStable(s.tasks, func(i, j int) bool {
			if s.tasks[i].due == s.tasks[j].due {
				return s.tasks[i].seq < s.tasks[j].seq
			}
			return s.tasks[i].due < s.tasks[j].due
		})
		next := s.tasks[0]
		if !all && next.due > target {
			s.now = target
			s.mu.Unlock()
			return ran
		}
		s.tasks = s.tasks[1:]
		if next.due > s.now {
			s.now = next.due
		}
		s.mu.Unlock()

		next.fn()
		ran++
	}
}
