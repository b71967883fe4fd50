package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/wepodcaster-backend/middleware"
	"github.com/vnkhanh/wepodcaster-backend/models"
	"github.com/vnkhanh/wepodcaster-backend/services"
)

func podcastRouter(env *testEnv) *gin.Engine {
	pc := NewPodcastController(env.podcastSvc, env.drafts)
	dc := NewDraftController(env.drafts, env.generator, nil)
	r := gin.New()
	r.GET("/podcasts", pc.GetAllPodcasts)
	r.GET("/podcasts/trending", pc.GetTrendingPodcasts)
	r.GET("/podcasts/search", pc.SearchPodcasts)
	r.GET("/podcasts/author/:authorId", pc.GetPodcastsByAuthor)
	r.GET("/podcasts/:id", pc.GetPodcast)
	r.GET("/podcasts/:id/similar", pc.GetSimilarPodcasts)
	r.GET("/podcasts/:id/details", middleware.OptionalAuthMiddleware(env.tokens), pc.GetPodcastDetails)
	r.POST("/podcasts/:id/views", pc.IncrementViews)

	auth := r.Group("/", env.auth())
	auth.POST("/podcasts", pc.CreatePodcast)
	auth.DELETE("/podcasts/:id", pc.DeletePodcast)
	auth.GET("/drafts/current", dc.GetDraft)
	auth.PUT("/drafts/current", dc.UpdateDraft)
	auth.DELETE("/drafts/current", dc.ResetDraft)
	auth.POST("/drafts/current/generate", dc.Generate)
	return r
}

func TestPodcastController_CreateFromDraft(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user_1")
	r := podcastRouter(env)
	authz := env.authHeader(t, "user_1")

	w := doJSON(r, http.MethodPut, "/drafts/current", gin.H{"voice_type": "nova", "voice_prompt": "Hello listeners"}, authz)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/drafts/current/generate", nil, authz)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var snap services.DraftSnapshot
	decode(t, w, &snap)
	assert.Equal(t, services.StateIdle, snap.State)
	assert.Equal(t, services.StateSucceeded, snap.LastOutcome)
	require.NotEmpty(t, snap.AudioStorageID)
	assert.Equal(t, "https://cdn.test/"+snap.AudioStorageID, snap.AudioURL)

	w = doJSON(r, http.MethodPost, "/podcasts", gin.H{
		"podcast_title":       "Episode 1",
		"podcast_description": "First episode",
		"image_url":           "https://cdn.test/images/cover.png",
	}, authz)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Podcast
	decode(t, w, &created)
	assert.Equal(t, "user_1", created.AuthorID)
	assert.Equal(t, models.VoiceNova, created.VoiceType)
	assert.Equal(t, "Hello listeners", created.VoicePrompt)
	assert.Equal(t, snap.AudioURL, created.AudioURL)

	// draft được reset sau khi lưu
	w = doJSON(r, http.MethodGet, "/drafts/current", nil, authz)
	decode(t, w, &snap)
	assert.Empty(t, snap.AudioURL)
	assert.Empty(t, snap.VoicePrompt)
}

func TestPodcastController_CreateWithoutAudio(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user_1")
	r := podcastRouter(env)

	w := doJSON(r, http.MethodPost, "/podcasts", gin.H{
		"podcast_title":       "Episode 1",
		"podcast_description": "First episode",
		"voice_type":          "alloy",
		"voice_prompt":        "hi",
	}, env.authHeader(t, "user_1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"please generate audio first"}`, w.Body.String())
}

func TestDraftController_GenerateEmptyPrompt(t *testing.T) {
	env := newTestEnv(t)
	r := podcastRouter(env)

	w := doJSON(r, http.MethodPost, "/drafts/current/generate", nil, env.authHeader(t, "user_1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please provide a voice prompt to generate podcast")
}

func TestDraftController_UpdateInvalidVoice(t *testing.T) {
	env := newTestEnv(t)
	r := podcastRouter(env)

	w := doJSON(r, http.MethodPut, "/drafts/current", gin.H{"voice_type": "robot", "voice_prompt": "x"}, env.authHeader(t, "user_1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPodcastController_Reads(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedPodcast(t, "user_1", "golang")
	b := env.seedPodcast(t, "user_2", "rust")
	r := podcastRouter(env)

	w := doJSON(r, http.MethodGet, "/podcasts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Podcast
	decode(t, w, &list)
	assert.Len(t, list, 2)

	w = doJSON(r, http.MethodGet, "/podcasts/search?q=rust", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	w = doJSON(r, http.MethodGet, "/podcasts/"+a.ID.String()+"/similar", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	w = doJSON(r, http.MethodPost, "/podcasts/"+a.ID.String()+"/views", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(r, http.MethodGet, "/podcasts/trending?limit=1", nil, "")
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	w = doJSON(r, http.MethodGet, "/podcasts/author/user_1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var byAuthor models.PodcastsByAuthor
	decode(t, w, &byAuthor)
	assert.Len(t, byAuthor.Podcasts, 1)
	assert.Equal(t, 1, byAuthor.Listeners)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/podcasts/not-a-uuid", nil, "").Code)
}

func TestPodcastController_Details(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedPodcast(t, "user_1", "solo")
	r := podcastRouter(env)

	var details services.PodcastDetails
	w := doJSON(r, http.MethodGet, "/podcasts/"+p.ID.String()+"/details", nil, env.authHeader(t, "user_1"))
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &details)
	assert.True(t, details.IsOwner)
	require.NotNil(t, details.EmptyState)
	assert.Equal(t, services.NoSimilarPodcasts, *details.EmptyState)

	w = doJSON(r, http.MethodGet, "/podcasts/"+p.ID.String()+"/details", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	details = services.PodcastDetails{}
	decode(t, w, &details)
	assert.False(t, details.IsOwner)
}

func TestPodcastController_Delete(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedPodcast(t, "user_1", "mine")
	r := podcastRouter(env)
	path := "/podcasts/" + p.ID.String()

	w := doJSON(r, http.MethodDelete, path, nil, env.authHeader(t, "user_2"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodDelete, path, nil, env.authHeader(t, "user_1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{p.AudioStorageID}, env.storage.removed)

	w = doJSON(r, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Podcast not found"}`, w.Body.String())
}

func TestUserController(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user_1")
	env.seedUser(t, "user_2")
	env.seedPodcast(t, "user_2", "a")
	env.seedPodcast(t, "user_2", "b")
	env.seedPodcast(t, "user_1", "c")

	uc := NewUserController(env.userSvc)
	r := gin.New()
	r.GET("/users/top", uc.GetTopUsers)
	r.GET("/users/:identityId", uc.GetUser)

	w := doJSON(r, http.MethodGet, "/users/top", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var top []models.UserWithPodcasts
	decode(t, w, &top)
	require.Len(t, top, 2)
	assert.Equal(t, "user_2", top[0].IdentityID)
	assert.Equal(t, 2, top[0].TotalPodcasts)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/users/user_1", nil, "").Code)
	w = doJSON(r, http.MethodGet, "/users/ghost", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())
}

