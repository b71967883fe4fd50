package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wepodcaster-backend/middleware"
	"github.com/vnkhanh/wepodcaster-backend/models"
	"github.com/vnkhanh/wepodcaster-backend/services"
)

// DraftController quản lý draft "Create Podcast" của từng user
type DraftController struct {
	drafts    *services.DraftRegistry
	generator *services.AudioGenerator
	notifier  services.Notifier
}

func NewDraftController(drafts *services.DraftRegistry, generator *services.AudioGenerator, notifier services.Notifier) *DraftController {
	if notifier == nil {
		notifier = services.NopNotifier{}
	}
	return &DraftController{drafts: drafts, generator: generator, notifier: notifier}
}

// GET /api/drafts/current
func (dc *DraftController) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, dc.drafts.Get(middleware.IdentityID(c)).Snapshot())
}

type updateDraftInput struct {
	VoiceType   models.VoiceType `json:"voice_type" binding:"required"`
	VoicePrompt string           `json:"voice_prompt"`
}

// PUT /api/drafts/current
func (dc *DraftController) UpdateDraft(c *gin.Context) {
	var input updateDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identityID := middleware.IdentityID(c)
	snap, err := dc.drafts.Get(identityID).SetInput(input.VoiceType, input.VoicePrompt)
	if err != nil {
		respondError(c, err)
		return
	}
	dc.notifier.DraftChanged(identityID, snap)
	c.JSON(http.StatusOK, snap)
}

// DELETE /api/drafts/current
func (dc *DraftController) ResetDraft(c *gin.Context) {
	identityID := middleware.IdentityID(c)
	snap, err := dc.drafts.Get(identityID).Reset()
	if err != nil {
		respondError(c, err)
		return
	}
	dc.notifier.DraftChanged(identityID, snap)
	c.JSON(http.StatusOK, snap)
}

// POST /api/drafts/current/generate
// Chạy đồng bộ; lỗi dịch vụ ngoài vẫn trả 200 với last_outcome=failed.
func (dc *DraftController) Generate(c *gin.Context) {
	identityID := middleware.IdentityID(c)
	snap, err := dc.generator.GeneratePodcast(c.Request.Context(), identityID, dc.drafts.Get(identityID))
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a voice prompt to generate podcast", "draft": snap})
		return
	case err != nil:
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
