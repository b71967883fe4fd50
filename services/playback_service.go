package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vnkhanh/wepodcaster-backend/metrics"
	"github.com/vnkhanh/wepodcaster-backend/playback"
)

// PlaybackService nối Playback Provider của từng user với kho podcast
type PlaybackService struct {
	podcasts PodcastRepository
	sessions *playback.Registry
	metrics  metrics.Recorder
	log      *zap.Logger
}

func NewPlaybackService(podcasts PodcastRepository, sessions *playback.Registry, rec metrics.Recorder, log *zap.Logger) *PlaybackService {
	return &PlaybackService{podcasts: podcasts, sessions: sessions, metrics: rec, log: log}
}

// Start thay session hiện tại bằng podcast được chọn và tăng lượt nghe
func (s *PlaybackService) Start(ctx context.Context, identityID string, podcastID uuid.UUID) (playback.Session, error) {
	p, err := s.podcasts.FindByID(ctx, podcastID)
	if err != nil {
		return playback.Session{}, storeErr(err, "Podcast not found")
	}

	session := playback.Session{
		PodcastID: p.ID,
		Title:     p.Title,
		Author:    p.AuthorName,
		AudioURL:  p.AudioURL,
		ImageURL:  p.ImageURL,
		Duration:  p.AudioDuration,
		StartedAt: time.Now().UTC(),
	}
	s.sessions.For(identityID).SetAudio(session)
	s.metrics.PlaybackStarted()

	if err := s.podcasts.IncrementViews(ctx, p.ID); err != nil {
		s.log.Warn("increment views failed", zap.String("podcast_id", p.ID.String()), zap.Error(err))
	}
	return session, nil
}

func (s *PlaybackService) Current(identityID string) (playback.Session, bool) {
	return s.sessions.For(identityID).Audio()
}

func (s *PlaybackService) UpdatePosition(identityID string, position float64) (playback.Session, error) {
	session, err := s.sessions.For(identityID).SetPosition(position)
	if err != nil {
		return playback.Session{}, fmtNotFound(err)
	}
	return session, nil
}

func (s *PlaybackService) Stop(identityID string) {
	s.sessions.For(identityID).Clear()
}
