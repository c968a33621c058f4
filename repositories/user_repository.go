package repositories

import (
	"context"

	"github.com/Prince5598/Cloud-Storage/models"

	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count, err
}

func (r *GormUserRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return useTx(ctx, r.db, tx).Create(user).Error
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (models.User, error) {
	var user models.User
	err := useTx(ctx, r.db, tx).Where("email = ?", email).First(&user).Error
	return user, err
}

func (r *GormUserRepository) GetByID(ctx context.Context, tx *gorm.DB, userID string) (models.User, error) {
	var user models.User
	err := useTx(ctx, r.db, tx).Where("id = ?", userID).First(&user).Error
	return user, err
}
