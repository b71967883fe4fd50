package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wepodcaster-backend/models"
	"github.com/vnkhanh/wepodcaster-backend/services"
)

const maxDocumentBytes = 10 << 20

type AIController struct {
	generator *services.AudioGenerator
	assistant *services.PromptAssistant
}

func NewAIController(generator *services.AudioGenerator, assistant *services.PromptAssistant) *AIController {
	return &AIController{generator: generator, assistant: assistant}
}

type generateAudioInput struct {
	Voice models.VoiceType `json:"voice" binding:"required"`
	Input string           `json:"input" binding:"required"`
}

// POST /api/ai/audio trả về bytes audio/mpeg
func (ac *AIController) GenerateAudio(c *gin.Context) {
	var input generateAudioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	audio, err := ac.generator.GenerateAudio(c.Request.Context(), input.Voice, input.Input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

type imagePromptInput struct {
	Title      string `json:"title"`
	Transcript string `json:"transcript"`
}

// POST /api/ai/image-prompt
func (ac *AIController) SuggestImagePrompt(c *gin.Context) {
	var input imagePromptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prompt, err := ac.assistant.SuggestImagePrompt(c.Request.Context(), input.Title, input.Transcript)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_prompt": prompt})
}

// POST /api/ai/prompt-from-document (multipart: file, rewrite)
func (ac *AIController) PromptFromDocument(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu file tài liệu"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file"})
		return
	}
	if len(data) > maxDocumentBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Tài liệu vượt quá 10MB"})
		return
	}

	rewrite, _ := strconv.ParseBool(c.PostForm("rewrite"))
	prompt, err := ac.assistant.PromptFromDocument(c.Request.Context(), header.Filename, data, rewrite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"voice_prompt": prompt})
}
