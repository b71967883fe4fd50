package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vnkhanh/wepodcaster-backend/models"
	"github.com/vnkhanh/wepodcaster-backend/repositories"
)

// số truy vấn podcast chạy song song khi tổng hợp top user
const aggregateConcurrency = 8

type CreateUserInput struct {
	IdentityID string `json:"identity_id" binding:"required"`
	Email      string `json:"email" binding:"required"`
	ImageURL   string `json:"image_url"`
	Name       string `json:"name"`
}

type UpdateUserInput struct {
	IdentityID string `json:"identity_id" binding:"required"`
	ImageURL   string `json:"image_url"`
	Email      string `json:"email"`
}

type UserService struct {
	users    UserRepository
	podcasts PodcastRepository
	log      *zap.Logger
}

func NewUserService(users UserRepository, podcasts PodcastRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, podcasts: podcasts, log: log}
}

func (s *UserService) GetUserByID(ctx context.Context, identityID string) (*models.User, error) {
	user, err := s.users.FindByIdentityID(ctx, identityID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	return user, nil
}

// CreateUser không kiểm tra trước; store từ chối identity trùng và lỗi đó thành ErrConflict
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) error {
	if in.IdentityID == "" {
		return validationErr("identity id is required")
	}
	user := &models.User{
		IdentityID: in.IdentityID,
		Email:      in.Email,
		ImageURL:   in.ImageURL,
		Name:       in.Name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("User already exists: %w", ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user created", zap.String("identity_id", in.IdentityID))
	return nil
}

// UpdateUser cập nhật email/ảnh rồi đồng bộ ảnh tác giả sang các podcast.
// Bước đồng bộ là best-effort: nếu lỗi thì user vẫn đã được cập nhật.
func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) error {
	if err := s.users.UpdateProfile(ctx, in.IdentityID, in.Email, in.ImageURL); err != nil {
		return storeErr(err, "User not found")
	}

	n, err := s.podcasts.UpdateAuthorImage(ctx, in.IdentityID, in.ImageURL)
	if err != nil {
		s.log.Error("author image fan-out failed",
			zap.String("identity_id", in.IdentityID), zap.Error(err))
		return fmt.Errorf("user updated but podcast author images are stale: %w", err)
	}
	s.log.Debug("author image fan-out",
		zap.String("identity_id", in.IdentityID), zap.Int64("podcasts", n))
	return nil
}

// DeleteUser chỉ xoá user, podcast của user giữ nguyên
func (s *UserService) DeleteUser(ctx context.Context, identityID string) error {
	if err := s.users.Delete(ctx, identityID); err != nil {
		return storeErr(err, "User not found")
	}
	s.log.Info("user deleted", zap.String("identity_id", identityID))
	return nil
}

// EnsureUser dùng khi đăng nhập: tạo user lần đầu, lần sau chỉ cập nhật khi email/ảnh đổi
func (s *UserService) EnsureUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	existing, err := s.GetUserByID(ctx, in.IdentityID)
	switch {
	case err == nil:
		if existing.Email == in.Email && existing.ImageURL == in.ImageURL {
			return existing, nil
		}
		if err := s.UpdateUser(ctx, UpdateUserInput{
			IdentityID: in.IdentityID,
			ImageURL:   in.ImageURL,
			Email:      in.Email,
		}); err != nil {
			return nil, err
		}
	case isNotFound(err):
		// đăng nhập song song có thể đã tạo user trước, khi đó chỉ đọc lại
		if err := s.CreateUser(ctx, in); err != nil && !errors.Is(err, ErrConflict) {
			return nil, err
		}
	default:
		return nil, err
	}
	return s.GetUserByID(ctx, in.IdentityID)
}

// GetTopUserByPodcastCount trả về user kèm podcast (views giảm dần),
// sắp xếp theo số podcast giảm dần. Bằng nhau thì giữ thứ tự lưu trữ.
func (s *UserService) GetTopUserByPodcastCount(ctx context.Context) ([]models.UserWithPodcasts, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result := make([]models.UserWithPodcasts, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aggregateConcurrency)
	for i := range users {
		i := i
		g.Go(func() error {
			podcasts, err := s.podcasts.FindByAuthor(gctx, users[i].IdentityID)
			if err != nil {
				return fmt.Errorf("podcasts of %s: %w", users[i].IdentityID, err)
			}
			result[i] = BuildUserWithPodcasts(users[i], podcasts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	RankByPodcastCount(result)
	return result, nil
}

// BuildUserWithPodcasts gom podcast của một user, sắp theo views giảm dần
func BuildUserWithPodcasts(user models.User, podcasts []models.Podcast) models.UserWithPodcasts {
	sorted := make([]models.Podcast, len(podcasts))
	copy(sorted, podcasts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Views > sorted[j].Views })

	refs := make([]models.PodcastRef, 0, len(sorted))
	for _, p := range sorted {
		refs = append(refs, models.PodcastRef{PodcastTitle: p.Title, PodcastID: p.ID})
	}
	return models.UserWithPodcasts{
		User:          user,
		TotalPodcasts: len(sorted),
		Podcasts:      refs,
	}
}

// RankByPodcastCount sắp xếp ổn định, không có khoá phụ
func RankByPodcastCount(users []models.UserWithPodcasts) {
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].TotalPodcasts > users[j].TotalPodcasts
	})
}
