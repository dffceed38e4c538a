package scheduler

import (
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFunc(t *testing.T) {
	s := NewScheduler(log.New(io.Discard))

	require.NoError(t, s.RegisterFunc("@hourly", "log-prune", func() error { return nil }))
	require.NoError(t, s.RegisterFunc("@every 10m", "cooldown-sweep", func() error { return nil }))
	assert.Equal(t, 2, s.Jobs())

	err := s.RegisterFunc("@hourly", "log-prune", func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	err = s.RegisterFunc("not a schedule", "broken", func() error { return nil })
	require.Error(t, err)
	assert.Equal(t, 2, s.Jobs())
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := NewScheduler(log.New(io.Discard))

	var runs atomic.Int32
	require.NoError(t, s.RegisterFunc("@every 1s", "tick", func() error {
		runs.Add(1)
		return errors.New("logged, not fatal")
	}))
	require.NoError(t, s.RegisterFunc("@every 1s", "boom", func() error {
		panic("recovered")
	}))

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	s.Stop()
}
