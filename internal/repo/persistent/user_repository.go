package persistent

import (
	"context"
	"errors"
	"time"

	"quill-post/internal/entity"
	"quill-post/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	if userModel.ID == "" {
		userModel.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if userModel.CreatedAt.IsZero() {
		userModel.CreatedAt = now
	}
	if userModel.UpdatedAt.IsZero() {
		userModel.UpdatedAt = now
	}

	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return err
	}

	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

func (r *userRepository) getBy(ctx context.Context, query string, arg string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}
