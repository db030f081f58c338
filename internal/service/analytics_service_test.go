package service

import (
	"Quill/internal/model"
	"Quill/internal/pkg/counter"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAnalyticsRepo 内存实现，failPosts 用来模拟单个 key 的落库故障
type fakeAnalyticsRepo struct {
	posts      map[uint64]*model.PostAnalytics
	categories map[uint64]*model.CategoryAnalytics
	failPosts  map[uint64]error
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{
		posts:      make(map[uint64]*model.PostAnalytics),
		categories: make(map[uint64]*model.CategoryAnalytics),
		failPosts:  make(map[uint64]error),
	}
}

func (r *fakeAnalyticsRepo) GetOrCreatePostAnalytics(_ context.Context, postID uint64) (*model.PostAnalytics, error) {
	a, ok := r.posts[postID]
	if !ok {
		a = &model.PostAnalytics{PostID: postID}
		r.posts[postID] = a
	}
	return a, nil
}

func (r *fakeAnalyticsRepo) GetOrCreateCategoryAnalytics(_ context.Context, categoryID uint64) (*model.CategoryAnalytics, error) {
	a, ok := r.categories[categoryID]
	if !ok {
		a = &model.CategoryAnalytics{CategoryID: categoryID}
		r.categories[categoryID] = a
	}
	return a, nil
}

func (r *fakeAnalyticsRepo) UpdatePostAnalytics(ctx context.Context, postID uint64, apply func(a *model.PostAnalytics)) error {
	if err := r.failPosts[postID]; err != nil {
		return err
	}
	a, _ := r.GetOrCreatePostAnalytics(ctx, postID)
	apply(a)
	return nil
}

func (r *fakeAnalyticsRepo) UpdateCategoryAnalytics(ctx context.Context, categoryID uint64, apply func(a *model.CategoryAnalytics)) error {
	a, _ := r.GetOrCreateCategoryAnalytics(ctx, categoryID)
	apply(a)
	return nil
}

func TestFlushAppliesBufferedDeltasAndRecalculatesCTR(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	repo.posts[1] = &model.PostAnalytics{PostID: 1, Clicks: 10}

	buffer := counter.NewBuffer()
	svc := NewAnalyticsService(buffer, repo)

	key := counter.Key{Kind: counter.KindPost, ID: 1}
	buffer.Increment(key, counter.MetricImpressions, 100)
	buffer.Increment(key, counter.MetricViews, 40)

	applied, requeued := svc.Flush(context.Background())
	assert.Equal(t, 1, applied)
	assert.Equal(t, 0, requeued)

	a := repo.posts[1]
	assert.Equal(t, int64(100), a.Impressions)
	assert.Equal(t, int64(40), a.Views)
	assert.InDelta(t, 10.0, a.ClickThroughRate, 0.0001)

	// 落库后缓冲应为空
	assert.Empty(t, buffer.DrainAll())
}

func TestFlushRequeuesOnlyFailedKeys(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	repo.failPosts[2] = errors.New("connection refused")

	buffer := counter.NewBuffer()
	svc := NewAnalyticsService(buffer, repo)

	buffer.Increment(counter.Key{Kind: counter.KindPost, ID: 1}, counter.MetricViews, 3)
	buffer.Increment(counter.Key{Kind: counter.KindPost, ID: 2}, counter.MetricViews, 5)

	applied, requeued := svc.Flush(context.Background())
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, requeued)
	assert.Equal(t, int64(3), repo.posts[1].Views)

	// 故障恢复后，合并回缓冲的增量在下个周期补上
	delete(repo.failPosts, 2)
	applied, requeued = svc.Flush(context.Background())
	assert.Equal(t, 1, applied)
	assert.Equal(t, 0, requeued)
	assert.Equal(t, int64(5), repo.posts[2].Views)
}

func TestFlushEmptyBuffer(t *testing.T) {
	svc := NewAnalyticsService(counter.NewBuffer(), newFakeAnalyticsRepo())

	applied, requeued := svc.Flush(context.Background())
	assert.Zero(t, applied)
	assert.Zero(t, requeued)
}

func TestIncrementClickRecalculatesCTR(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	repo.posts[1] = &model.PostAnalytics{PostID: 1, Impressions: 50}

	svc := NewAnalyticsService(counter.NewBuffer(), repo)
	require.NoError(t, svc.IncrementClick(context.Background(), counter.KindPost, 1))

	assert.Equal(t, int64(1), repo.posts[1].Clicks)
	assert.InDelta(t, 2.0, repo.posts[1].ClickThroughRate, 0.0001)
}

func TestCTRZeroWithoutImpressions(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	svc := NewAnalyticsService(counter.NewBuffer(), repo)

	require.NoError(t, svc.IncrementClick(context.Background(), counter.KindCategory, 3))

	assert.Equal(t, int64(1), repo.categories[3].Clicks)
	assert.Zero(t, repo.categories[3].ClickThroughRate)
}

func TestIncrementPostMetricRejectsUnknownName(t *testing.T) {
	svc := NewAnalyticsService(counter.NewBuffer(), newFakeAnalyticsRepo())

	err := svc.IncrementPostMetric(context.Background(), 1, "impressions_raw")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestSetPostMetricOverwrites(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	repo.posts[1] = &model.PostAnalytics{PostID: 1, Likes: 9}

	svc := NewAnalyticsService(counter.NewBuffer(), repo)
	require.NoError(t, svc.SetPostMetric(context.Background(), 1, MetricLikes, 7))

	assert.Equal(t, int64(7), repo.posts[1].Likes)
}

// 100 次并发曝光进缓冲、刷盘后同步 10 次点击，点击率应为 10.0
func TestConcurrentImpressionsThenClicksScenario(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	buffer := counter.NewBuffer()
	svc := NewAnalyticsService(buffer, repo)

	key := counter.Key{Kind: counter.KindPost, ID: 1}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buffer.Increment(key, counter.MetricImpressions, 1)
		}()
	}
	wg.Wait()

	applied, requeued := svc.Flush(context.Background())
	require.Equal(t, 1, applied)
	require.Zero(t, requeued)

	for i := 0; i < 10; i++ {
		require.NoError(t, svc.IncrementClick(context.Background(), counter.KindPost, 1))
	}

	a := repo.posts[1]
	assert.Equal(t, int64(100), a.Impressions)
	assert.Equal(t, int64(10), a.Clicks)
	assert.InDelta(t, 10.0, a.ClickThroughRate, 0.0001)
}
