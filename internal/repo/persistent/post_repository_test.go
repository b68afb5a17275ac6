package persistent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quill-post/internal/entity"
	"quill-post/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PostModel{}, &model.SlugReservationModel{}, &model.UserModel{}))
	return db
}

func newPost(owner, slug, title string, createdAt time.Time) *entity.Post {
	return &entity.Post{
		OwnerID:   owner,
		Slug:      slug,
		Title:     title,
		Content:   "some content",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	post := &entity.Post{OwnerID: "user-1", Slug: "hello-world", Title: "Hello World", Content: "body"}
	require.NoError(t, repo.Create(ctx, post))

	assert.NotEmpty(t, post.ID)
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)

	bySlug, err := repo.GetBySlug(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, post.ID, bySlug.ID)
	assert.Equal(t, "user-1", bySlug.OwnerID)

	byID, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", byID.Slug)
}

func TestPostRepository_Get_NotFound(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepository_Create_DuplicateSlug(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Post{OwnerID: "user-1", Slug: "same", Title: "t", Content: "c"}))

	err := repo.Create(ctx, &entity.Post{OwnerID: "user-2", Slug: "same", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestPostRepository_SlugReservedAfterDelete(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	post := &entity.Post{OwnerID: "user-1", Slug: "keep-me", Title: "t", Content: "c"}
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, repo.Delete(ctx, post.ID))

	// The post is gone but the slug stays reserved
	_, err := repo.GetBySlug(ctx, "keep-me")
	assert.ErrorIs(t, err, ErrNotFound)

	variants, err := repo.SlugVariants(ctx, "keep-me")
	require.NoError(t, err)
	assert.Contains(t, variants, "keep-me")

	err = repo.Create(ctx, &entity.Post{OwnerID: "user-2", Slug: "keep-me", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestPostRepository_Update_OnlyTitleContentUpdatedAt(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	post := newPost("user-1", "original", "Original", created)
	require.NoError(t, repo.Create(ctx, post))

	later := created.Add(2 * time.Hour)
	require.NoError(t, repo.Update(ctx, post.ID, "Changed", "new content", later))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.Title)
	assert.Equal(t, "new content", got.Content)
	assert.Equal(t, later, got.UpdatedAt.UTC())

	// Immutable fields untouched
	assert.Equal(t, "original", got.Slug)
	assert.Equal(t, "user-1", got.OwnerID)
	assert.Equal(t, created, got.CreatedAt.UTC())
}

func TestPostRepository_Update_NotFound(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	err := repo.Update(context.Background(), "missing-id", "t", "c", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepository_Delete(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	post := &entity.Post{OwnerID: "user-1", Slug: "doomed", Title: "t", Content: "c"}
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, post.ID), ErrNotFound)
}

func TestPostRepository_ListPage(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		post := newPost("user-1", fmt.Sprintf("post-%d", i), fmt.Sprintf("Post %d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(ctx, post))
	}

	first, total, err := repo.ListPage(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, first, 20)
	assert.Equal(t, "post-24", first[0].Slug) // newest first

	second, total, err := repo.ListPage(ctx, 2, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, second, 5)
	assert.Equal(t, "post-0", second[4].Slug)

	// Page numbers below 1 are clamped
	clamped, _, err := repo.ListPage(ctx, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, first[0].Slug, clamped[0].Slug)
}

func TestPostRepository_ListPage_TieBreakByID(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := newPost("user-1", "post-a", "A", ts)
	a.ID = "aaaaaaaa-0000-0000-0000-000000000000"
	b := newPost("user-1", "post-b", "B", ts)
	b.ID = "bbbbbbbb-0000-0000-0000-000000000000"
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	posts, _, err := repo.ListPage(ctx, 1, 20)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, b.ID, posts[0].ID)
	assert.Equal(t, a.ID, posts[1].ID)
}

func TestPostRepository_CountByOwnerBetween(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	nextDay := dayStart.Add(24 * time.Hour)

	// Two inside the window, one at the exclusive upper bound, one before
	require.NoError(t, repo.Create(ctx, newPost("user-1", "in-1", "t", dayStart)))
	require.NoError(t, repo.Create(ctx, newPost("user-1", "in-2", "t", dayStart.Add(23*time.Hour+59*time.Minute))))
	require.NoError(t, repo.Create(ctx, newPost("user-1", "next-day", "t", nextDay)))
	require.NoError(t, repo.Create(ctx, newPost("user-1", "prev-day", "t", dayStart.Add(-time.Second))))
	require.NoError(t, repo.Create(ctx, newPost("user-2", "other-owner", "t", dayStart)))

	count, err := repo.CountByOwnerBetween(ctx, "user-1", dayStart, nextDay)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPostRepository_SlugVariants(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	for _, slug := range []string{"go", "go-1", "go-lang", "golang", "other"} {
		require.NoError(t, repo.Create(ctx, &entity.Post{OwnerID: "u", Slug: slug, Title: "t", Content: "c"}))
	}

	variants, err := repo.SlugVariants(ctx, "go")
	require.NoError(t, err)

	// Prefix match at the SQL level; numeric-suffix filtering is the
	// slug generator's job.
	assert.ElementsMatch(t, []string{"go", "go-1", "go-lang"}, variants)
}
