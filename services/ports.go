package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/vnkhanh/wepodcaster-backend/models"
	"github.com/vnkhanh/wepodcaster-backend/repositories"
)

// UserRepository is satisfied by repositories.UserRepository and its in-memory twin.
type UserRepository interface {
	FindByIdentityID(ctx context.Context, identityID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, identityID, email, imageURL string) error
	Delete(ctx context.Context, identityID string) error
	List(ctx context.Context) ([]models.User, error)
}

type PodcastRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Podcast, error)
	FindByAuthor(ctx context.Context, authorID string) ([]models.Podcast, error)
	FindByVoiceType(ctx context.Context, voiceType models.VoiceType, excludeID uuid.UUID) ([]models.Podcast, error)
	Create(ctx context.Context, podcast *models.Podcast) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	UpdateAuthorImage(ctx context.Context, authorID, imageURL string) (int64, error)
	ListTrending(ctx context.Context, limit int) ([]models.Podcast, error)
	ListLatest(ctx context.Context, limit int) ([]models.Podcast, error)
	SearchField(ctx context.Context, field repositories.SearchField, query string, limit int) ([]models.Podcast, error)
}

// ObjectStorage lưu file nhị phân (audio, ảnh) và trả về storage reference
type ObjectStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (storageID string, err error)
	URL(ctx context.Context, storageID string) (string, error)
	SignedUploadURL(ctx context.Context, path string) (string, error)
	Remove(ctx context.Context, storageIDs ...string) error
}

// VoiceSynthesizer chuyển text thành audio mp3
type VoiceSynthesizer interface {
	Synthesize(ctx context.Context, voice models.VoiceType, text string) ([]byte, error)
}

type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Toast là thông báo ngắn hiển thị phía client
type Toast struct {
	Title   string `json:"title"`
	Variant string `json:"variant,omitempty"`
}

const ToastDestructive = "destructive"

// Notifier đẩy thông báo tới client của một identity (websocket)
type Notifier interface {
	Toast(identityID string, toast Toast)
	DraftChanged(identityID string, snapshot DraftSnapshot)
}

// NopNotifier bỏ qua mọi thông báo
type NopNotifier struct{}

func (NopNotifier) Toast(string, Toast)                {}
func (NopNotifier) DraftChanged(string, DraftSnapshot) {}
