package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wepodcaster-backend/middleware"
	"github.com/vnkhanh/wepodcaster-backend/services"
)

type PodcastController struct {
	podcasts *services.PodcastService
	drafts   *services.DraftRegistry
}

func NewPodcastController(podcasts *services.PodcastService, drafts *services.DraftRegistry) *PodcastController {
	return &PodcastController{podcasts: podcasts, drafts: drafts}
}

// GET /api/podcasts
func (pc *PodcastController) GetAllPodcasts(c *gin.Context) {
	podcasts, err := pc.podcasts.GetAllPodcasts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, podcasts)
}

// GET /api/podcasts/trending?limit=8
func (pc *PodcastController) GetTrendingPodcasts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	podcasts, err := pc.podcasts.GetTrendingPodcasts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, podcasts)
}

// GET /api/podcasts/search?q=
func (pc *PodcastController) SearchPodcasts(c *gin.Context) {
	podcasts, err := pc.podcasts.GetPodcastBySearch(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, podcasts)
}

// GET /api/podcasts/author/:authorId
func (pc *PodcastController) GetPodcastsByAuthor(c *gin.Context) {
	result, err := pc.podcasts.GetPodcastByAuthorID(c.Request.Context(), c.Param("authorId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (pc *PodcastController) GetPodcast(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	podcast, err := pc.podcasts.GetPodcastByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, podcast)
}

// GET /api/podcasts/:id/similar
func (pc *PodcastController) GetSimilarPodcasts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	podcasts, err := pc.podcasts.GetPodcastByVoiceType(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, podcasts)
}

// GET /api/podcasts/:id/details, token tuỳ chọn để tính is_owner
func (pc *PodcastController) GetPodcastDetails(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	details, err := pc.podcasts.GetPodcastDetails(c.Request.Context(), id, middleware.IdentityID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// POST /api/podcasts
// Trường audio bỏ trống thì lấy từ draft hiện tại của user. Tạo xong thì reset draft.
func (pc *PodcastController) CreatePodcast(c *gin.Context) {
	var input services.CreatePodcastInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identityID := middleware.IdentityID(c)
	draft := pc.drafts.Get(identityID)
	snap := draft.Snapshot()
	if snap.IsGenerating {
		c.JSON(http.StatusConflict, gin.H{"error": "Podcast đang được tạo audio"})
		return
	}
	if input.AudioURL == "" {
		input.AudioURL = snap.AudioURL
		input.AudioStorageID = snap.AudioStorageID
		input.AudioDuration = snap.AudioDuration
	}
	if input.VoiceType == "" {
		input.VoiceType = snap.VoiceType
	}
	if input.VoicePrompt == "" {
		input.VoicePrompt = snap.VoicePrompt
	}

	podcast, err := pc.podcasts.CreatePodcast(c.Request.Context(), identityID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	// draft có thể đã có audio mới sau khi lấy snapshot, khi đó giữ draft
	draft.ResetIfAudio(snap.AudioStorageID, snap.AudioURL)

	c.JSON(http.StatusCreated, podcast)
}

func (pc *PodcastController) DeletePodcast(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := pc.podcasts.DeletePodcast(c.Request.Context(), middleware.IdentityID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xoá podcast"})
}

// POST /api/podcasts/:id/views
func (pc *PodcastController) IncrementViews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := pc.podcasts.UpdatePodcastViews(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
