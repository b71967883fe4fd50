package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/wepodcaster-backend/models"
)

type PodcastRepository struct {
	db *gorm.DB
}

func NewPodcastRepository(db *gorm.DB) *PodcastRepository {
	return &PodcastRepository{db: db}
}

func (r *PodcastRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Podcast, error) {
	var podcast models.Podcast
	if err := r.db.WithContext(ctx).First(&podcast, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &podcast, nil
}

func (r *PodcastRepository) FindByAuthor(ctx context.Context, authorID string) ([]models.Podcast, error) {
	var podcasts []models.Podcast
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at ASC").
		Find(&podcasts).Error
	return podcasts, err
}

// FindByVoiceType lists podcasts sharing voiceType, excluding excludeID.
func (r *PodcastRepository) FindByVoiceType(ctx context.Context, voiceType models.VoiceType, excludeID uuid.UUID) ([]models.Podcast, error) {
	var podcasts []models.Podcast
	err := r.db.WithContext(ctx).
		Where("voice_type = ? AND id <> ?", voiceType, excludeID).
		Order("created_at DESC").
		Find(&podcasts).Error
	return podcasts, err
}

func (r *PodcastRepository) Create(ctx context.Context, podcast *models.Podcast) error {
	return r.db.WithContext(ctx).Create(podcast).Error
}

func (r *PodcastRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Podcast{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews tăng lượt nghe ở tầng DB, không đọc-sửa-ghi
func (r *PodcastRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Podcast{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAuthorImage rewrites the denormalized author image on every podcast of authorID.
func (r *PodcastRepository) UpdateAuthorImage(ctx context.Context, authorID, imageURL string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Podcast{}).
		Where("author_id = ?", authorID).
		Update("author_image_url", imageURL)
	return res.RowsAffected, res.Error
}

func (r *PodcastRepository) ListTrending(ctx context.Context, limit int) ([]models.Podcast, error) {
	var podcasts []models.Podcast
	q := r.db.WithContext(ctx).Order("views DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&podcasts).Error
	return podcasts, err
}

// ListLatest trả về podcast mới nhất trước; limit <= 0 là lấy tất cả
func (r *PodcastRepository) ListLatest(ctx context.Context, limit int) ([]models.Podcast, error) {
	var podcasts []models.Podcast
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&podcasts).Error
	return podcasts, err
}

// SearchField does a case-insensitive substring match on one of the searchable columns.
func (r *PodcastRepository) SearchField(ctx context.Context, field SearchField, query string, limit int) ([]models.Podcast, error) {
	var podcasts []models.Podcast
	q := r.db.WithContext(ctx).
		Where("LOWER("+field.column()+") LIKE ?", "%"+strings.ToLower(query)+"%").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&podcasts).Error
	return podcasts, err
}

type SearchField int

const (
	SearchAuthor SearchField = iota
	SearchTitle
	SearchDescription
)

func (f SearchField) column() string {
	switch f {
	case SearchAuthor:
		return "author_name"
	case SearchTitle:
		return "title"
	default:
		return "description"
	}
}
