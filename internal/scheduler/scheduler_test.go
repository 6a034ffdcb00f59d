package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk-backend/internal/config"
	"lawdesk-backend/internal/jobs"
	"lawdesk-backend/internal/repository"
)

func TestNewScheduler_RegistersDigest(t *testing.T) {
	runner := jobs.NewJobRunner(&repository.Registry{}, nil, time.Hour)

	s, err := NewScheduler(runner, config.SchedulerConfig{Enabled: true, PendingRequestDigest: "0 0 9 * * *"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	s.Start()
	defer s.Stop()
	next := s.NextRun()
	require.Eventually(t, func() bool {
		next = s.NextRun()
		return !next.IsZero()
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 9, next.UTC().Hour())
	assert.Equal(t, 0, next.Minute())
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	runner := jobs.NewJobRunner(&repository.Registry{}, nil, time.Hour)

	_, err := NewScheduler(runner, config.SchedulerConfig{PendingRequestDigest: "every morning"})
	assert.Error(t, err)
}
