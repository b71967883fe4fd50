package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vnkhanh/wepodcaster-backend/models"
	"github.com/vnkhanh/wepodcaster-backend/repositories"
)

var errBoom = errors.New("boom")

// failingPodcastRepo wraps the memory repo and can fail the author image fan-out.
type failingPodcastRepo struct {
	*repositories.MemoryPodcastRepository
	failFanOut bool
}

func (r *failingPodcastRepo) UpdateAuthorImage(ctx context.Context, authorID, imageURL string) (int64, error) {
	if r.failFanOut {
		return 0, errBoom
	}
	return r.MemoryPodcastRepository.UpdateAuthorImage(ctx, authorID, imageURL)
}

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	removed   []string
	uploadErr error
	urlErr    error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.objects[path] = data
	return path, nil
}

func (s *fakeStorage) URL(_ context.Context, storageID string) (string, error) {
	if s.urlErr != nil {
		return "", s.urlErr
	}
	return "https://cdn.test/" + storageID, nil
}

func (s *fakeStorage) SignedUploadURL(_ context.Context, path string) (string, error) {
	return "https://cdn.test/upload/" + path + "?token=t", nil
}

func (s *fakeStorage) Remove(_ context.Context, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, ids...)
	return nil
}

type fakeSynthesizer struct {
	mu    sync.Mutex
	calls int
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, voice models.VoiceType, text string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.audio != nil {
		return f.audio, nil
	}
	return []byte(fmt.Sprintf("%s:%s", voice, text)), nil
}

func (f *fakeSynthesizer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingNotifier struct {
	mu     sync.Mutex
	toasts []Toast
	states []GenerationState
}

func (n *recordingNotifier) Toast(_ string, t Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, t)
}

func (n *recordingNotifier) DraftChanged(_ string, s DraftSnapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.states = append(n.states, s.State)
}

func (n *recordingNotifier) lastToast(t *testing.T) Toast {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.toasts)
	return n.toasts[len(n.toasts)-1]
}

type countingRecorder struct {
	mu       sync.Mutex
	started  int
	outcomes []string
	orphaned int
	playback int
}

func (r *countingRecorder) GenerationStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *countingRecorder) GenerationFinished(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *countingRecorder) OrphanedAudio() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orphaned++
}

func (r *countingRecorder) PlaybackStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playback++
}

func seedUser(t *testing.T, repo UserRepository, identityID string) models.User {
	t.Helper()
	u := models.User{IdentityID: identityID, Email: identityID + "@example.com", Name: identityID}
	require.NoError(t, repo.Create(context.Background(), &u))
	return u
}

func seedPodcast(t *testing.T, repo PodcastRepository, authorID, title string, views int) models.Podcast {
	t.Helper()
	p := models.Podcast{Title: title, AuthorID: authorID, AuthorName: authorID, VoiceType: models.VoiceAlloy, Views: views}
	require.NoError(t, repo.Create(context.Background(), &p))
	return p
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
