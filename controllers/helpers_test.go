package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vnkhanh/wepodcaster-backend/metrics"
	"github.com/vnkhanh/wepodcaster-backend/middleware"
	"github.com/vnkhanh/wepodcaster-backend/models"
	"github.com/vnkhanh/wepodcaster-backend/playback"
	"github.com/vnkhanh/wepodcaster-backend/repositories"
	"github.com/vnkhanh/wepodcaster-backend/services"
	"github.com/vnkhanh/wepodcaster-backend/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

func (s *memStorage) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return path, nil
}

func (s *memStorage) URL(_ context.Context, storageID string) (string, error) {
	return "https://cdn.test/" + storageID, nil
}

func (s *memStorage) SignedUploadURL(_ context.Context, path string) (string, error) {
	return "https://cdn.test/upload/" + path, nil
}

func (s *memStorage) Remove(_ context.Context, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, ids...)
	return nil
}

type echoSynthesizer struct{ err error }

func (e echoSynthesizer) Synthesize(_ context.Context, voice models.VoiceType, text string) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []byte(string(voice) + ":" + text), nil
}

// testEnv dựng đủ service trên repo memory
type testEnv struct {
	users    *repositories.MemoryUserRepository
	podcasts *repositories.MemoryPodcastRepository
	storage  *memStorage
	tokens   *utils.TokenManager

	userSvc    *services.UserService
	podcastSvc *services.PodcastService
	drafts     *services.DraftRegistry
	generator  *services.AudioGenerator
	playback   *services.PlaybackService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	env := &testEnv{
		users:    repositories.NewMemoryUserRepository(),
		podcasts: repositories.NewMemoryPodcastRepository(),
		storage:  &memStorage{objects: map[string][]byte{}},
		tokens:   utils.NewTokenManager("test-secret", time.Hour),
		drafts:   services.NewDraftRegistry(),
	}
	env.userSvc = services.NewUserService(env.users, env.podcasts, log)
	env.podcastSvc = services.NewPodcastService(env.podcasts, env.users, env.storage, log)
	env.generator = services.NewAudioGenerator(echoSynthesizer{}, env.storage, services.NopNotifier{}, metrics.Noop{}, log)
	env.playback = services.NewPlaybackService(env.podcasts, playback.NewRegistry(nil), metrics.Noop{}, log)
	return env
}

func (e *testEnv) seedUser(t *testing.T, identityID string) models.User {
	t.Helper()
	u := models.User{IdentityID: identityID, Email: identityID + "@example.com", Name: identityID}
	require.NoError(t, e.users.Create(context.Background(), &u))
	return u
}

func (e *testEnv) seedPodcast(t *testing.T, authorID, title string) models.Podcast {
	t.Helper()
	p := models.Podcast{
		Title:          title,
		Description:    title + " description",
		AuthorID:       authorID,
		AuthorName:     authorID,
		VoiceType:      models.VoiceAlloy,
		AudioURL:       "https://cdn.test/audio/" + title + ".mp3",
		AudioStorageID: "audio/" + title + ".mp3",
		AudioDuration:  42,
	}
	require.NoError(t, e.podcasts.Create(context.Background(), &p))
	return p
}

func (e *testEnv) authHeader(t *testing.T, identityID string) string {
	t.Helper()
	token, err := e.tokens.GenerateToken(identityID, identityID+"@example.com")
	require.NoError(t, err)
	return "Bearer " + token
}

func (e *testEnv) auth() gin.HandlerFunc {
	return middleware.AuthMiddleware(e.tokens)
}

func doJSON(r http.Handler, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
