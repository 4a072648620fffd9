package web

import (
	"fmt"

	"github.com/robfig/cron/v3"

	appLog "ethiopicker/internal/log"
)

// lookup returns the widget and marks it as used. Callers hold s.mu.
func (s *Server) lookup(id string) (*widget, bool) {
	wg, ok := s.widgets[id]
	if ok {
		wg.lastUsed = s.now()
	}
	return wg, ok
}

// SweepIdle unmounts widgets idle for longer than the configured timeout
// and returns how many were removed.
func (s *Server) SweepIdle() int {
	cutoff := s.now().Add(-s.cfg.Widgets.IdleTimeout)

	s.mu.Lock()
	removed := 0
	for id, wg := range s.widgets {
		if wg.lastUsed.Before(cutoff) {
			delete(s.widgets, id)
			removed++
		}
	}
	n := len(s.widgets)
	s.mu.Unlock()

	s.metrics.Widgets.Set(float64(n))
	if removed > 0 {
		appLog.Info("idle widgets unmounted", "removed", removed, "remaining", n)
	}
	return removed
}

// startSweeper runs SweepIdle on the configured cron schedule.
func (s *Server) startSweeper() (*cron.Cron, error) {
	c := cron.New()
	spec := s.cfg.Widgets.SweepSchedule
	if _, err := c.AddFunc(spec, func() { s.SweepIdle() }); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	c.Start()
	appLog.Debug("idle sweep scheduled", "schedule", spec, "idle_timeout", s.cfg.Widgets.IdleTimeout)
	return c, nil
}
