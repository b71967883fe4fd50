package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/vnkhanh/wepodcaster-backend/models"
	"github.com/vnkhanh/wepodcaster-backend/repositories"
)

const (
	defaultTrendingLimit = 8
	searchLimit          = 10
)

type CreatePodcastInput struct {
	Title          string           `json:"podcast_title"`
	Description    string           `json:"podcast_description"`
	AudioURL       string           `json:"audio_url"`
	AudioStorageID string           `json:"audio_storage_id"`
	AudioDuration  float64          `json:"audio_duration"`
	ImageURL       string           `json:"image_url"`
	ImageStorageID string           `json:"image_storage_id"`
	VoiceType      models.VoiceType `json:"voice_type"`
	VoicePrompt    string           `json:"voice_prompt"`
	ImagePrompt    string           `json:"image_prompt"`
}

func (in CreatePodcastInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return validationErr("podcast title is required")
	case strings.TrimSpace(in.Description) == "":
		return validationErr("podcast description is required")
	case strings.TrimSpace(in.VoicePrompt) == "":
		return validationErr("voice prompt is required")
	case !in.VoiceType.Valid():
		return validationErr("invalid voice type")
	case in.AudioURL == "" || in.AudioStorageID == "":
		return validationErr("please generate audio first")
	}
	return nil
}

// UploadTarget là URL ký sẵn để client tự upload file
type UploadTarget struct {
	UploadURL string `json:"upload_url"`
	StorageID string `json:"storage_id"`
}

// StoredFile là file đã lưu trên storage
type StoredFile struct {
	StorageID string `json:"storage_id"`
	URL       string `json:"url"`
}

// EmptyState hiển thị khi không có podcast tương tự
type EmptyState struct {
	Title      string `json:"title"`
	ButtonLink string `json:"button_link"`
	ButtonText string `json:"button_text"`
}

var NoSimilarPodcasts = EmptyState{
	Title:      "No Similar Podcasts Found",
	ButtonLink: "/discover",
	ButtonText: "Discover More Podcasts",
}

type PodcastDetails struct {
	Podcast    *models.Podcast  `json:"podcast"`
	IsOwner    bool             `json:"is_owner"`
	Similar    []models.Podcast `json:"similar_podcasts"`
	EmptyState *EmptyState      `json:"empty_state,omitempty"`
}

type PodcastService struct {
	podcasts PodcastRepository
	users    UserRepository
	storage  ObjectStorage
	log      *zap.Logger
}

func NewPodcastService(podcasts PodcastRepository, users UserRepository, storage ObjectStorage, log *zap.Logger) *PodcastService {
	return &PodcastService{podcasts: podcasts, users: users, storage: storage, log: log}
}

func (s *PodcastService) GetPodcastByID(ctx context.Context, id uuid.UUID) (*models.Podcast, error) {
	p, err := s.podcasts.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Podcast not found")
	}
	return p, nil
}

// GetPodcastByVoiceType trả về các podcast cùng giọng, trừ chính nó
func (s *PodcastService) GetPodcastByVoiceType(ctx context.Context, id uuid.UUID) ([]models.Podcast, error) {
	p, err := s.GetPodcastByID(ctx, id)
	if err != nil {
		return nil, err
	}
	similar, err := s.podcasts.FindByVoiceType(ctx, p.VoiceType, p.ID)
	if err != nil {
		return nil, fmt.Errorf("similar podcasts: %w", err)
	}
	return similar, nil
}

// GetPodcastDetails gom dữ liệu cho trang chi tiết podcast
func (s *PodcastService) GetPodcastDetails(ctx context.Context, id uuid.UUID, viewerID string) (*PodcastDetails, error) {
	p, err := s.GetPodcastByID(ctx, id)
	if err != nil {
		return nil, err
	}
	similar, err := s.podcasts.FindByVoiceType(ctx, p.VoiceType, p.ID)
	if err != nil {
		return nil, fmt.Errorf("similar podcasts: %w", err)
	}

	details := &PodcastDetails{
		Podcast: p,
		IsOwner: viewerID != "" && viewerID == p.AuthorID,
		Similar: similar,
	}
	if len(similar) == 0 {
		empty := NoSimilarPodcasts
		details.EmptyState = &empty
	}
	return details, nil
}

// CreatePodcast copy tên và ảnh của tác giả tại thời điểm tạo
func (s *PodcastService) CreatePodcast(ctx context.Context, identityID string, in CreatePodcastInput) (*models.Podcast, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	author, err := s.users.FindByIdentityID(ctx, identityID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}

	p := &models.Podcast{
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		AuthorID:       author.IdentityID,
		AuthorName:     author.Name,
		AuthorImageURL: author.ImageURL,
		AudioStorageID: in.AudioStorageID,
		AudioURL:       in.AudioURL,
		AudioDuration:  in.AudioDuration,
		ImageStorageID: in.ImageStorageID,
		ImageURL:       in.ImageURL,
		VoiceType:      in.VoiceType,
		VoicePrompt:    in.VoicePrompt,
		ImagePrompt:    in.ImagePrompt,
	}
	if err := s.podcasts.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create podcast: %w", err)
	}
	s.log.Info("podcast created", zap.String("podcast_id", p.ID.String()), zap.String("author_id", identityID))
	return p, nil
}

// DeletePodcast chỉ chủ sở hữu được xoá; xoá file trên storage là best-effort
func (s *PodcastService) DeletePodcast(ctx context.Context, identityID string, id uuid.UUID) error {
	p, err := s.GetPodcastByID(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != identityID {
		return fmt.Errorf("only the author can delete this podcast: %w", ErrForbidden)
	}

	var objects []string
	for _, sid := range []string{p.AudioStorageID, p.ImageStorageID} {
		if sid != "" {
			objects = append(objects, sid)
		}
	}
	if len(objects) > 0 {
		if err := s.storage.Remove(ctx, objects...); err != nil {
			s.log.Warn("remove podcast files failed", zap.String("podcast_id", id.String()), zap.Error(err))
		}
	}

	if err := s.podcasts.Delete(ctx, id); err != nil {
		return storeErr(err, "Podcast not found")
	}
	s.log.Info("podcast deleted", zap.String("podcast_id", id.String()))
	return nil
}

func (s *PodcastService) UpdatePodcastViews(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.podcasts.IncrementViews(ctx, id), "Podcast not found")
}

func (s *PodcastService) GetTrendingPodcasts(ctx context.Context, limit int) ([]models.Podcast, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}
	return s.podcasts.ListTrending(ctx, limit)
}

func (s *PodcastService) GetAllPodcasts(ctx context.Context) ([]models.Podcast, error) {
	return s.podcasts.ListLatest(ctx, 0)
}

func (s *PodcastService) GetPodcastByAuthorID(ctx context.Context, authorID string) (*models.PodcastsByAuthor, error) {
	podcasts, err := s.podcasts.FindByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("podcasts by author: %w", err)
	}
	listeners := 0
	for _, p := range podcasts {
		listeners += p.Views
	}
	return &models.PodcastsByAuthor{Podcasts: podcasts, Listeners: listeners}, nil
}

// GetPodcastBySearch: query rỗng trả về podcast mới nhất, ngược lại
// tìm theo tác giả, rồi tiêu đề, rồi mô tả; tập đầu tiên có kết quả được dùng.
func (s *PodcastService) GetPodcastBySearch(ctx context.Context, query string) ([]models.Podcast, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.podcasts.ListLatest(ctx, 0)
	}

	for _, field := range []repositories.SearchField{
		repositories.SearchAuthor,
		repositories.SearchTitle,
		repositories.SearchDescription,
	} {
		found, err := s.podcasts.SearchField(ctx, field, query, searchLimit)
		if err != nil {
			return nil, fmt.Errorf("search podcasts: %w", err)
		}
		if len(found) > 0 {
			return found, nil
		}
	}
	return []models.Podcast{}, nil
}

// GenerateUploadURL cấp URL upload cho một object mới
func (s *PodcastService) GenerateUploadURL(ctx context.Context) (*UploadTarget, error) {
	storageID := path.Join("uploads", uuid.NewString())
	url, err := s.storage.SignedUploadURL(ctx, storageID)
	if err != nil {
		return nil, fmt.Errorf("signed upload url: %v: %w", err, ErrExternalService)
	}
	return &UploadTarget{UploadURL: url, StorageID: storageID}, nil
}

func (s *PodcastService) GetURL(ctx context.Context, storageID string) (string, error) {
	if storageID == "" {
		return "", validationErr("storage id is required")
	}
	url, err := s.storage.URL(ctx, storageID)
	if err != nil {
		return "", fmt.Errorf("resolve url: %v: %w", err, ErrExternalService)
	}
	return url, nil
}

// UploadThumbnail lưu ảnh thumbnail, tên file được slug hoá
func (s *PodcastService) UploadThumbnail(ctx context.Context, filename string, data []byte, contentType string) (*StoredFile, error) {
	if len(data) == 0 {
		return nil, validationErr("image is empty")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, validationErr("file must be an image")
	}

	ext := strings.ToLower(path.Ext(filename))
	base := slug.Make(strings.TrimSuffix(filename, path.Ext(filename)))
	if base == "" {
		base = "thumbnail"
	}
	objectPath := fmt.Sprintf("images/%s-%s%s", base, uuid.NewString()[:8], ext)

	storageID, err := s.storage.Upload(ctx, objectPath, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %v: %w", err, ErrExternalService)
	}
	url, err := s.storage.URL(ctx, storageID)
	if err != nil {
		return nil, fmt.Errorf("resolve image url: %v: %w", err, ErrExternalService)
	}
	return &StoredFile{StorageID: storageID, URL: url}, nil
}
