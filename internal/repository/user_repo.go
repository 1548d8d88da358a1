package repository

import (
	"context"

	"vidstream-go/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindActive 根据 ID 查询用户（排除已删除）
func (r *UserRepository) FindActive(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Scopes(notDeleted("")).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsActive 用户是否存在且未删除
func (r *UserRepository) ExistsActive(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Scopes(notDeleted("")).
		Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// FindByLogin 用户名或邮箱登录
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Scopes(notDeleted("")).
		Where("user_name = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByNameOrEmail 检查用户名或邮箱是否已被占用
func (r *UserRepository) ExistsByNameOrEmail(ctx context.Context, userName, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_name = ? OR email = ?", userName, email).Count(&count).Error
	return count > 0, err
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// AdjustSubscribersCount 频道订阅者数 ±n（不低于 0）
func (r *UserRepository) AdjustSubscribersCount(ctx context.Context, id int64, delta int) (bool, error) {
	return adjustCounter(r.db.WithContext(ctx), &model.User{}, id, "subscribers_count", delta)
}

// AdjustSubscribedToCount 用户已订阅频道数 ±n（不低于 0）
func (r *UserRepository) AdjustSubscribedToCount(ctx context.Context, id int64, delta int) (bool, error) {
	return adjustCounter(r.db.WithContext(ctx), &model.User{}, id, "channels_subscribed_to_count", delta)
}
