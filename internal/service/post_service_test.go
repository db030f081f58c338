package service

import (
	"Quill/internal/api/dto"
	"Quill/internal/model"
	"Quill/internal/pkg/cache"
	"Quill/internal/pkg/consts"
	"Quill/internal/pkg/counter"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryRepo struct {
	categories map[uint64]*model.Category
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *model.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *model.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, categoryID uint64) error {
	delete(r.categories, categoryID)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, categoryID uint64) (*model.Category, error) {
	return r.categories[categoryID], nil
}

func (r *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) List(_ context.Context, parentID uint64, _, _ int) ([]*model.Category, error) {
	var categories []*model.Category
	for _, c := range r.categories {
		if c.ParentID == parentID {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

type postFixture struct {
	svc           PostService
	buffer        *counter.Buffer
	store         *cache.Store
	postRepo      *fakePostRepo
	categoryRepo  *fakeCategoryRepo
	analyticsRepo *fakeAnalyticsRepo
}

func newPostFixture() *postFixture {
	f := &postFixture{
		buffer:        counter.NewBuffer(),
		store:         cache.NewStore(5 * time.Minute),
		analyticsRepo: newFakeAnalyticsRepo(),
	}
	f.postRepo = &fakePostRepo{posts: map[uint64]*model.Post{
		1: {ID: 1, UserID: 10, CategoryID: 1, Title: "Hello", Slug: "hello-world", Status: consts.PostStatusPublished},
		2: {ID: 2, UserID: 10, CategoryID: 1, Title: "Second", Slug: "second", Status: consts.PostStatusPublished},
	}}
	f.categoryRepo = &fakeCategoryRepo{categories: map[uint64]*model.Category{
		1: {ID: 1, Name: "Tech", Slug: "tech"},
	}}
	analyticsSvc := NewAnalyticsService(f.buffer, f.analyticsRepo)
	interactionSvc := NewInteractionService(newFakeViewRepo(), &fakeInteractionRepo{}, newFakePostActionRepo(),
		f.postRepo, analyticsSvc, f.buffer, defaultAnalyticsConfig())
	f.svc = NewPostService(f.postRepo, f.categoryRepo, analyticsSvc, interactionSvc,
		f.buffer, f.store, 5*time.Minute)
	return f
}

func drainMetric(b *counter.Buffer, key counter.Key, metric counter.Metric) int64 {
	var total int64
	for _, e := range b.DrainAll() {
		if e.Key == key {
			total += e.Delta[metric]
		}
	}
	return total
}

func TestGetPostListServesSecondReadFromCache(t *testing.T) {
	f := newPostFixture()
	query := &dto.PostListQuery{Sort: "newest"}

	first, err := f.svc.GetPostList(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, first.List, 2)

	second, err := f.svc.GetPostList(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.postRepo.listCalls)
}

func TestGetPostListCountsImpressionsOnHitAndMiss(t *testing.T) {
	f := newPostFixture()
	query := &dto.PostListQuery{}

	_, err := f.svc.GetPostList(context.Background(), query)
	require.NoError(t, err)
	_, err = f.svc.GetPostList(context.Background(), query)
	require.NoError(t, err)

	// 未命中与命中各记一次 impression
	key := counter.Key{Kind: counter.KindPost, ID: 1}
	assert.Equal(t, int64(2), drainMetric(f.buffer, key, counter.MetricImpressions))
}

func TestGetPostListUnknownCategory(t *testing.T) {
	f := newPostFixture()

	_, err := f.svc.GetPostList(context.Background(), &dto.PostListQuery{CategorySlug: "nope"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetPostDetailRecordsUniqueViewOnce(t *testing.T) {
	f := newPostFixture()
	viewer := Identity{UserID: 10, IP: "10.0.0.1"}

	first, err := f.svc.GetPostDetail(context.Background(), "hello-world", viewer)
	require.NoError(t, err)
	assert.Equal(t, "Hello", first.Title)

	slugCallsAfterMiss := f.postRepo.slugCalls
	second, err := f.svc.GetPostDetail(context.Background(), "hello-world", viewer)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// 命中缓存不再查库
	assert.Equal(t, slugCallsAfterMiss, f.postRepo.slugCalls)

	key := counter.Key{Kind: counter.KindPost, ID: 1}
	assert.Equal(t, int64(1), drainMetric(f.buffer, key, counter.MetricViews))
}

func TestGetPostDetailNotFound(t *testing.T) {
	f := newPostFixture()

	_, err := f.svc.GetPostDetail(context.Background(), "missing", Identity{IP: "10.0.0.1"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreatePostGeneratesSlugAndAnalyticsRecord(t *testing.T) {
	f := newPostFixture()

	id, err := f.svc.CreatePost(context.Background(), 10, &dto.PostCreateDTO{
		Title:      "Go Concurrency Patterns!",
		CategoryID: 1,
		Publish:    true,
	})
	require.NoError(t, err)

	post := f.postRepo.posts[id]
	require.NotNil(t, post)
	assert.Equal(t, "go-concurrency-patterns", post.Slug)
	assert.Equal(t, consts.PostStatusPublished, post.Status)
	assert.Contains(t, f.analyticsRepo.posts, id)
}

func TestCreatePostInvalidatesListCache(t *testing.T) {
	f := newPostFixture()
	query := &dto.PostListQuery{}

	_, err := f.svc.GetPostList(context.Background(), query)
	require.NoError(t, err)

	_, err = f.svc.CreatePost(context.Background(), 10, &dto.PostCreateDTO{
		Title:      "Fresh",
		Slug:       "fresh",
		CategoryID: 1,
		Publish:    true,
	})
	require.NoError(t, err)

	_, err = f.svc.GetPostList(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 2, f.postRepo.listCalls)
}

func TestUpdatePostOwnership(t *testing.T) {
	f := newPostFixture()

	err := f.svc.UpdatePost(context.Background(), 99, "hello-world", &dto.PostUpdateDTO{Title: "Hijack"})
	assert.ErrorIs(t, err, UnauthorizedError)
}

func TestUpdatePostInvalidatesDetailCache(t *testing.T) {
	f := newPostFixture()
	viewer := Identity{UserID: 10, IP: "10.0.0.1"}

	_, err := f.svc.GetPostDetail(context.Background(), "hello-world", viewer)
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdatePost(context.Background(), 10, "hello-world", &dto.PostUpdateDTO{Title: "Hello v2"}))

	detail, err := f.svc.GetPostDetail(context.Background(), "hello-world", viewer)
	require.NoError(t, err)
	assert.Equal(t, "Hello v2", detail.Title)
}

func TestClickPostRecalculatesCTR(t *testing.T) {
	f := newPostFixture()
	f.analyticsRepo.posts[1] = &model.PostAnalytics{PostID: 1, Impressions: 10}

	require.NoError(t, f.svc.ClickPost(context.Background(), "hello-world"))

	assert.Equal(t, int64(1), f.analyticsRepo.posts[1].Clicks)
	assert.InDelta(t, 10.0, f.analyticsRepo.posts[1].ClickThroughRate, 0.0001)

	err := f.svc.ClickPost(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}
