// Package scheduler runs the tool's housekeeping jobs: audit-log rotation
// and the database liveness probe.
package scheduler

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskFn is the function signature for scheduled tasks.
type TaskFn func()

// Scheduler manages periodic and daily tasks.
type Scheduler struct {
	mu      sync.Mutex
	tickers map[string]*tickerEntry
	dailies map[string]*time.Timer
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped bool
	now     func() time.Time
}

type tickerEntry struct {
	ticker *time.Ticker
	stopCh chan struct{}
}

// New creates a new Scheduler.
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tickers: make(map[string]*tickerEntry),
		dailies: make(map[string]*time.Timer),
		stopCh:  make(chan struct{}),
		logger:  logger,
		now:     time.Now,
	}
}

// AddTicker registers a task to run on a fixed interval.
// If a task with the same name exists, it is replaced.
func (s *Scheduler) AddTicker(name string, interval time.Duration, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.removeLocked(name)

	entry := &tickerEntry{
		ticker: time.NewTicker(interval),
		stopCh: make(chan struct{}),
	}
	s.tickers[name] = entry

	go func() {
		defer entry.ticker.Stop()
		for {
			select {
			case <-entry.ticker.C:
				s.run(name, fn)
			case <-entry.stopCh:
				return
			case <-s.stopCh:
				return
			}
		}
	}()
	s.logger.Info("scheduler task registered", zap.String("name", name), zap.Duration("interval", interval))
}

// AddDaily runs fn every day at hour:minute local time.
// If a task with the same name exists, it is replaced.
func (s *Scheduler) AddDaily(name string, hour, minute int, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.removeLocked(name)
	s.armDailyLocked(name, hour, minute, fn)
	s.logger.Info("scheduler daily task registered",
		zap.String("name", name), zap.Int("hour", hour), zap.Int("minute", minute))
}

func (s *Scheduler) armDailyLocked(name string, hour, minute int, fn TaskFn) {
	now := s.now()
	var t *time.Timer
	t = time.AfterFunc(nextDaily(now, hour, minute).Sub(now), func() {
		s.run(name, fn)
		s.mu.Lock()
		defer s.mu.Unlock()
		// Re-arm only if this timer is still the registered one.
		if !s.stopped && s.dailies[name] == t {
			s.armDailyLocked(name, hour, minute, fn)
		}
	})
	s.dailies[name] = t
}

// nextDaily returns the first hour:minute strictly after now.
func nextDaily(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Scheduler) run(name string, fn TaskFn) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler task panicked",
				zap.String("task", name),
				zap.Any("recover", r))
		}
	}()
	fn()
}

// Remove stops and removes a task by name.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(name)
}

func (s *Scheduler) removeLocked(name string) {
	if entry, ok := s.tickers[name]; ok {
		close(entry.stopCh)
		delete(s.tickers, name)
	}
	if t, ok := s.dailies[name]; ok {
		t.Stop()
		delete(s.dailies, name)
	}
}

// Stop stops all tasks.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.stopCh)
	for name, t := range s.dailies {
		t.Stop()
		delete(s.dailies, name)
	}
}

// ListTickers returns the sorted names of all registered tasks.
func (s *Scheduler) ListTickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tickers)+len(s.dailies))
	for name := range s.tickers {
		names = append(names, name)
	}
	for name := range s.dailies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
