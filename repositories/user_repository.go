package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/vnkhanh/wepodcaster-backend/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByIdentityID(ctx context.Context, identityID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("identity_id = ?", identityID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Create trả ErrDuplicate khi identity_id đã có
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// UpdateProfile patches email and image of the user row only.
func (r *UserRepository) UpdateProfile(ctx context.Context, identityID, email, imageURL string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("identity_id = ?", identityID).
		Updates(map[string]interface{}{
			"email":     email,
			"image_url": imageURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, identityID string) error {
	res := r.db.WithContext(ctx).Where("identity_id = ?", identityID).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every user in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
