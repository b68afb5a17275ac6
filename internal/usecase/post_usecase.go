package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quill-post/internal/cache"
	"quill-post/internal/entity"
	"quill-post/internal/repo/persistent"
	"quill-post/pkg/logger"
	"quill-post/pkg/slugify"
)

const (
	// DailyPostLimit caps how many posts one user may create per UTC
	// calendar day. The check and the insert are separate statements, so
	// concurrent creates near the limit can briefly overshoot it by one;
	// the limit is a soft cap.
	DailyPostLimit = 3

	// PageSize is the fixed listing page size.
	PageSize = 20
)

var (
	ErrNotFound      = errors.New("post not found")
	ErrForbidden     = errors.New("user does not own this post")
	ErrQuotaExceeded = errors.New("daily post limit reached")
	ErrSlugConflict  = errors.New("could not allocate a unique slug")
)

type PostUseCase interface {
	CreatePost(ctx context.Context, userID, title, content string) (*entity.Post, error)
	UpdatePost(ctx context.Context, userID, slug, title, content string) (*entity.Post, error)
	DeletePost(ctx context.Context, userID, slug string) error
	GetPost(ctx context.Context, slug string) (*entity.Post, error)
	ListPosts(ctx context.Context, page int) (*entity.PostPage, error)
}

type postUseCase struct {
	postRepo persistent.PostRepository
	cache    cache.PostCache
	logger   *logger.Logger
	now      func() time.Time
}

// NewPostUseCase wires the post service. now is the clock used for quota
// windows and timestamps; pass time.Now outside of tests.
func NewPostUseCase(postRepo persistent.PostRepository, postCache cache.PostCache, log *logger.Logger, now func() time.Time) PostUseCase {
	if now == nil {
		now = time.Now
	}
	return &postUseCase{
		postRepo: postRepo,
		cache:    postCache,
		logger:   log,
		now:      now,
	}
}

func (uc *postUseCase) CreatePost(ctx context.Context, userID, title, content string) (*entity.Post, error) {
	now := uc.now().UTC()

	if err := uc.checkQuota(ctx, userID, now); err != nil {
		return nil, err
	}

	base := slugify.Base(title)
	post, err := uc.createWithFreshSlug(ctx, userID, title, content, base, now)
	if errors.Is(err, persistent.ErrSlugTaken) {
		// Lost a create race on the slug; recompute against the updated
		// store state and retry once.
		post, err = uc.createWithFreshSlug(ctx, userID, title, content, base, now)
		if errors.Is(err, persistent.ErrSlugTaken) {
			return nil, ErrSlugConflict
		}
	}
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateListings(ctx)
	return post, nil
}

func (uc *postUseCase) checkQuota(ctx context.Context, userID string, now time.Time) error {
	dayStart := now.Truncate(24 * time.Hour)
	count, err := uc.postRepo.CountByOwnerBetween(ctx, userID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("count posts for quota: %w", err)
	}
	if count >= DailyPostLimit {
		return ErrQuotaExceeded
	}
	return nil
}

func (uc *postUseCase) createWithFreshSlug(ctx context.Context, userID, title, content, base string, now time.Time) (*entity.Post, error) {
	variants, err := uc.postRepo.SlugVariants(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("list slug variants: %w", err)
	}

	post := &entity.Post{
		OwnerID:   userID,
		Slug:      slugify.Unique(base, variants),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (uc *postUseCase) UpdatePost(ctx context.Context, userID, slug, title, content string) (*entity.Post, error) {
	post, err := uc.ownedPost(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	if err := uc.postRepo.Update(ctx, post.ID, title, content, now); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	post.Title = title
	post.Content = content
	post.UpdatedAt = now

	uc.cache.InvalidatePost(ctx, slug)
	uc.cache.InvalidateListings(ctx)
	return post, nil
}

func (uc *postUseCase) DeletePost(ctx context.Context, userID, slug string) error {
	post, err := uc.ownedPost(ctx, userID, slug)
	if err != nil {
		return err
	}

	if err := uc.postRepo.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}

	uc.cache.InvalidatePost(ctx, slug)
	uc.cache.InvalidateListings(ctx)
	return nil
}

func (uc *postUseCase) ownedPost(ctx context.Context, userID, slug string) (*entity.Post, error) {
	post, err := uc.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	if post.OwnerID != userID {
		return nil, ErrForbidden
	}
	return post, nil
}

func (uc *postUseCase) GetPost(ctx context.Context, slug string) (*entity.Post, error) {
	post, err := uc.cache.GetPost(ctx, slug, func() (*entity.Post, error) {
		return uc.postRepo.GetBySlug(ctx, slug)
	})
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	return post, nil
}

func (uc *postUseCase) ListPosts(ctx context.Context, page int) (*entity.PostPage, error) {
	if page < 1 {
		page = 1
	}

	listing, err := uc.cache.GetListing(ctx, page, func() (*entity.PostPage, error) {
		posts, total, err := uc.postRepo.ListPage(ctx, page, PageSize)
		if err != nil {
			return nil, err
		}
		return &entity.PostPage{
			Posts:    posts,
			Total:    total,
			Page:     page,
			PageSize: PageSize,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return listing, nil
}
