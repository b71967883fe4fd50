package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/wepodcaster-backend/middleware"
	"github.com/vnkhanh/wepodcaster-backend/services"
)

type PlaybackController struct {
	playback *services.PlaybackService
}

func NewPlaybackController(playback *services.PlaybackService) *PlaybackController {
	return &PlaybackController{playback: playback}
}

// GET /api/playback
func (pc *PlaybackController) GetPlayback(c *gin.Context) {
	session, ok := pc.playback.Current(middleware.IdentityID(c))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"playing": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"playing": true, "session": session})
}

type startPlaybackInput struct {
	PodcastID uuid.UUID `json:"podcast_id" binding:"required"`
}

// PUT /api/playback
func (pc *PlaybackController) StartPlayback(c *gin.Context) {
	var input startPlaybackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := pc.playback.Start(c.Request.Context(), middleware.IdentityID(c), input.PodcastID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playing": true, "session": session})
}

type positionInput struct {
	Position *float64 `json:"position" binding:"required"`
}

// PATCH /api/playback/position
func (pc *PlaybackController) UpdatePosition(c *gin.Context) {
	var input positionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := pc.playback.UpdatePosition(middleware.IdentityID(c), *input.Position)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playing": true, "session": session})
}

// DELETE /api/playback
func (pc *PlaybackController) StopPlayback(c *gin.Context) {
	pc.playback.Stop(middleware.IdentityID(c))
	c.Status(http.StatusNoContent)
}
