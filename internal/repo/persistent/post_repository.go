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

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Post, error)
	Update(ctx context.Context, id, title, content string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	ListPage(ctx context.Context, page, pageSize int) ([]*entity.Post, int64, error)
	CountByOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) (int64, error)
	SlugVariants(ctx context.Context, base string) ([]string, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create persists the post and reserves its slug in the same transaction.
// The reservation row outlives the post, so a deleted post's slug is
// never handed out again. A unique-constraint violation on either table
// is reported as ErrSlugTaken.
func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)
	if postModel.ID == "" {
		postModel.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if postModel.CreatedAt.IsZero() {
		postModel.CreatedAt = now
	}
	if postModel.UpdatedAt.IsZero() {
		postModel.UpdatedAt = postModel.CreatedAt
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation := &model.SlugReservationModel{Slug: postModel.Slug, CreatedAt: postModel.CreatedAt}
		if err := tx.Create(reservation).Error; err != nil {
			return err
		}
		return tx.Create(postModel).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return err
	}

	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&postModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&postModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

// Update touches title, content and updated_at only; slug, owner_id and
// created_at are immutable after creation.
func (r *postRepository) Update(ctx context.Context, id, title, content string, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"content":    content,
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PostModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPage returns one page of posts ordered newest first, id descending
// as a deterministic tie-break, plus the total row count.
func (r *postRepository) ListPage(ctx context.Context, page, pageSize int) ([]*entity.Post, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.PostModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var postModels []model.PostModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&postModels).Error
	if err != nil {
		return nil, 0, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, total, nil
}

func (r *postRepository) CountByOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("owner_id = ? AND created_at >= ? AND created_at < ?", ownerID, from, to).
		Count(&count).Error
	return count, err
}

// SlugVariants returns every reserved slug equal to base or starting
// with "base-". Deleted posts keep their reservation rows, so their
// slugs still count. Bases come out of slugify and contain no SQL LIKE
// metacharacters.
func (r *postRepository) SlugVariants(ctx context.Context, base string) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).
		Model(&model.SlugReservationModel{}).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Order("slug ASC").
		Pluck("slug", &slugs).Error
	return slugs, err
}
