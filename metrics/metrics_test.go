package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.GenerationStarted()
	c.GenerationStarted()
	c.GenerationFinished("succeeded", 2*time.Second)
	c.GenerationFinished("failed", time.Second)
	c.OrphanedAudio()
	c.PlaybackStarted()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.generationStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.generationOutcome.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.generationOutcome.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orphanedAudio))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.playbackStarted))
	assert.Equal(t, 1, testutil.CollectAndCount(c.generationDuration))
}

func TestNewCollector_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	assert.Panics(t, func() { NewCollector(reg) })
}
