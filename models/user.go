package models

import (
	"time"

	"github.com/google/uuid"
)

// User là bản ghi người dùng, khoá nghiệp vụ là IdentityID do identity provider cấp
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	IdentityID string    `gorm:"size:191;uniqueIndex;not null" json:"identity_id"`
	Email      string    `gorm:"size:191;not null" json:"email"`
	Name       string    `gorm:"size:150" json:"name"`
	ImageURL   string    `gorm:"type:text" json:"image_url"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PodcastRef là tóm tắt podcast gắn vào kết quả xếp hạng người dùng
type PodcastRef struct {
	PodcastTitle string    `json:"podcast_title"`
	PodcastID    uuid.UUID `json:"podcast_id"`
}

// UserWithPodcasts là một phần tử của bảng xếp hạng podcaster
type UserWithPodcasts struct {
	User
	TotalPodcasts int          `json:"total_podcasts"`
	Podcasts      []PodcastRef `json:"podcasts"`
}
