package models

import (
	"time"

	"github.com/google/uuid"
)

type Podcast struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"podcast_title"`
	Description string    `gorm:"type:text" json:"podcast_description"`

	// Tác giả: AuthorName/AuthorImageURL là bản sao, không join với users
	AuthorID       string `gorm:"size:191;not null;index" json:"author_id"`
	AuthorName     string `gorm:"size:150" json:"author"`
	AuthorImageURL string `gorm:"type:text" json:"author_image_url"`

	AudioStorageID string  `gorm:"type:text" json:"audio_storage_id"`
	AudioURL       string  `gorm:"type:text" json:"audio_url"`
	AudioDuration  float64 `json:"audio_duration"`
	ImageStorageID string  `gorm:"type:text" json:"image_storage_id"`
	ImageURL       string  `gorm:"type:text" json:"image_url"`

	VoiceType   VoiceType `gorm:"type:varchar(20);not null;index" json:"voice_type"`
	VoicePrompt string    `gorm:"type:text;not null" json:"voice_prompt"`
	ImagePrompt string    `gorm:"type:text" json:"image_prompt"`

	Views     int       `gorm:"default:0;not null" json:"views"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PodcastsByAuthor là kết quả trang hồ sơ tác giả
type PodcastsByAuthor struct {
	Podcasts  []Podcast `json:"podcasts"`
	Listeners int       `json:"listeners"`
}
