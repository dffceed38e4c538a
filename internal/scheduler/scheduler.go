package scheduler

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Scheduler runs named recurring jobs on a cron schedule
type Scheduler struct {
	cron   *cron.Cron
	logger *log.Logger
	jobs   map[string]cron.EntryID
}

// NewScheduler creates a scheduler that logs through logger. A panicking job
// is recovered and logged; it does not stop the others.
func NewScheduler(logger *log.Logger) *Scheduler {
	cl := cronLogger{l: logger}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// RegisterFunc schedules fn under spec ("@hourly", "@every 10m", or a
// standard five field expression). Errors returned by fn are logged.
func (s *Scheduler) RegisterFunc(spec, name string, fn func() error) error {
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	id, err := s.cron.AddFunc(spec, func() {
		if err := fn(); err != nil {
			s.logger.Errorf("Scheduled job %s failed: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}

	s.jobs[name] = id
	s.logger.Infof("Registered scheduled job %s (%s)", name, spec)
	return nil
}

// Jobs returns the number of registered jobs
func (s *Scheduler) Jobs() int {
	return len(s.jobs)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started!")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// cronLogger adapts charmbracelet/log to cron.Logger
type cronLogger struct {
	l *log.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append([]interface{}{"err", err}, keysAndValues...)...)
}
