// Package metrics exposes Prometheus counters for podcast generation and playback.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what the services report to.
type Recorder interface {
	GenerationStarted()
	GenerationFinished(outcome string, duration time.Duration)
	OrphanedAudio()
	PlaybackStarted()
}

type Collector struct {
	generationStarted  prometheus.Counter
	generationOutcome  *prometheus.CounterVec
	generationDuration prometheus.Histogram
	orphanedAudio      prometheus.Counter
	playbackStarted    prometheus.Counter
}

// NewCollector registers the collectors on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generationStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wepodcaster_generation_started_total",
			Help: "Podcast audio generations started",
		}),
		generationOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wepodcaster_generation_finished_total",
			Help: "Podcast audio generations finished, by outcome",
		}, []string{"outcome"}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wepodcaster_generation_duration_seconds",
			Help:    "Wall time of the generate, upload and resolve sequence",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
		orphanedAudio: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wepodcaster_orphaned_audio_total",
			Help: "Audio objects uploaded by a generation that later failed",
		}),
		playbackStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wepodcaster_playback_started_total",
			Help: "Playback sessions started",
		}),
	}

	reg.MustRegister(
		c.generationStarted,
		c.generationOutcome,
		c.generationDuration,
		c.orphanedAudio,
		c.playbackStarted,
	)
	return c
}

func (c *Collector) GenerationStarted() {
	c.generationStarted.Inc()
}

func (c *Collector) GenerationFinished(outcome string, duration time.Duration) {
	c.generationOutcome.WithLabelValues(outcome).Inc()
	c.generationDuration.Observe(duration.Seconds())
}

func (c *Collector) OrphanedAudio() {
	c.orphanedAudio.Inc()
}

func (c *Collector) PlaybackStarted() {
	c.playbackStarted.Inc()
}

// Noop discards everything.
type Noop struct{}

func (Noop) GenerationStarted()                       {}
func (Noop) GenerationFinished(string, time.Duration) {}
func (Noop) OrphanedAudio()                           {}
func (Noop) PlaybackStarted()                         {}
