package service

import (
	"Quill/internal/api/config"
	"Quill/internal/api/dto"
	"Quill/internal/model"
	"Quill/internal/pkg/consts"
	"Quill/internal/pkg/counter"
	"Quill/internal/repository"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeViewRepo struct {
	postLedger     map[string]struct{}
	categoryLedger map[string]struct{}
}

func newFakeViewRepo() *fakeViewRepo {
	return &fakeViewRepo{
		postLedger:     make(map[string]struct{}),
		categoryLedger: make(map[string]struct{}),
	}
}

func viewerKey(entityID, userID uint64, ip string) string {
	return fmt.Sprintf("%d:%d:%s", entityID, userID, ip)
}

func (r *fakeViewRepo) PostViewExists(_ context.Context, postID, userID uint64, ip string) (bool, error) {
	_, ok := r.postLedger[viewerKey(postID, userID, ip)]
	return ok, nil
}

func (r *fakeViewRepo) CreatePostView(_ context.Context, view *model.PostView) error {
	key := viewerKey(view.PostID, view.UserID, view.IPAddress)
	if _, ok := r.postLedger[key]; ok {
		return repository.ErrDuplicateKey
	}
	r.postLedger[key] = struct{}{}
	return nil
}

func (r *fakeViewRepo) CategoryViewExists(_ context.Context, categoryID, userID uint64, ip string) (bool, error) {
	_, ok := r.categoryLedger[viewerKey(categoryID, userID, ip)]
	return ok, nil
}

func (r *fakeViewRepo) CreateCategoryView(_ context.Context, view *model.CategoryView) error {
	key := viewerKey(view.CategoryID, view.UserID, view.IPAddress)
	if _, ok := r.categoryLedger[key]; ok {
		return repository.ErrDuplicateKey
	}
	r.categoryLedger[key] = struct{}{}
	return nil
}

type fakeInteractionRepo struct {
	events []*model.PostInteraction
}

func (r *fakeInteractionRepo) Create(_ context.Context, interaction *model.PostInteraction) error {
	r.events = append(r.events, interaction)
	return nil
}

func (r *fakeInteractionRepo) CountRecent(_ context.Context, postID, userID uint64, ip string, _ time.Duration) (int64, error) {
	var count int64
	for _, e := range r.events {
		if e.PostID != postID {
			continue
		}
		if userID > 0 {
			if e.UserID == userID {
				count++
			}
		} else if e.IPAddress == ip {
			count++
		}
	}
	return count, nil
}

type fakePostActionRepo struct {
	likes         map[[2]uint64]struct{}
	shares        []*model.PostShare
	comments      map[uint64]*model.PostComment
	nextCommentID uint64
}

func newFakePostActionRepo() *fakePostActionRepo {
	return &fakePostActionRepo{
		likes:    make(map[[2]uint64]struct{}),
		comments: make(map[uint64]*model.PostComment),
	}
}

func (r *fakePostActionRepo) CreateLike(_ context.Context, like *model.PostLike) error {
	key := [2]uint64{like.UserID, like.PostID}
	if _, ok := r.likes[key]; ok {
		return repository.ErrDuplicateKey
	}
	r.likes[key] = struct{}{}
	return nil
}

func (r *fakePostActionRepo) DeleteLike(_ context.Context, userID, postID uint64) (bool, error) {
	key := [2]uint64{userID, postID}
	if _, ok := r.likes[key]; !ok {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}

func (r *fakePostActionRepo) GetLikeCountByPostID(_ context.Context, postID uint64) (int64, error) {
	var count int64
	for key := range r.likes {
		if key[1] == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakePostActionRepo) CreateShare(_ context.Context, share *model.PostShare) error {
	r.shares = append(r.shares, share)
	return nil
}

func (r *fakePostActionRepo) GetShareCountByPostID(_ context.Context, postID uint64) (int64, error) {
	var count int64
	for _, s := range r.shares {
		if s.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakePostActionRepo) CreateComment(_ context.Context, comment *model.PostComment) error {
	r.nextCommentID++
	comment.ID = r.nextCommentID
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakePostActionRepo) DeleteComment(_ context.Context, commentID uint64) error {
	delete(r.comments, commentID)
	return nil
}

func (r *fakePostActionRepo) GetCommentByID(_ context.Context, commentID uint64) (*model.PostComment, error) {
	return r.comments[commentID], nil
}

func (r *fakePostActionRepo) GetCommentCountByPostID(_ context.Context, postID uint64) (int64, error) {
	var count int64
	for _, c := range r.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

type fakePostRepo struct {
	posts     map[uint64]*model.Post
	slugCalls int
	listCalls int
}

func (r *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	if post.ID == 0 {
		post.ID = uint64(len(r.posts)) + 100
	}
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) Update(_ context.Context, post *model.Post) error {
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, postID uint64) error {
	delete(r.posts, postID)
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, postID uint64) (*model.Post, error) {
	return r.posts[postID], nil
}

func (r *fakePostRepo) GetBySlug(_ context.Context, slug string, publishedOnly bool) (*model.Post, error) {
	r.slugCalls++
	for _, p := range r.posts {
		if p.Slug != slug {
			continue
		}
		if publishedOnly && p.Status != consts.PostStatusPublished {
			continue
		}
		return p, nil
	}
	return nil, nil
}

func (r *fakePostRepo) List(_ context.Context, _ *repository.PostQuery) ([]*model.Post, error) {
	r.listCalls++
	var posts []*model.Post
	for _, p := range r.posts {
		posts = append(posts, p)
	}
	return posts, nil
}

type interactionFixture struct {
	svc             InteractionService
	buffer          *counter.Buffer
	viewRepo        *fakeViewRepo
	interactionRepo *fakeInteractionRepo
	actionRepo      *fakePostActionRepo
	analyticsRepo   *fakeAnalyticsRepo
}

func newInteractionFixture(cfg config.AnalyticsConfig) *interactionFixture {
	f := &interactionFixture{
		buffer:          counter.NewBuffer(),
		viewRepo:        newFakeViewRepo(),
		interactionRepo: &fakeInteractionRepo{},
		actionRepo:      newFakePostActionRepo(),
		analyticsRepo:   newFakeAnalyticsRepo(),
	}
	postRepo := &fakePostRepo{posts: map[uint64]*model.Post{
		1: {ID: 1, Slug: "hello-world", Status: consts.PostStatusPublished},
		2: {ID: 2, Slug: "unpublished", Status: consts.PostStatusDraft},
	}}
	analyticsSvc := NewAnalyticsService(f.buffer, f.analyticsRepo)
	f.svc = NewInteractionService(f.viewRepo, f.interactionRepo, f.actionRepo, postRepo, analyticsSvc, f.buffer, cfg)
	return f
}

func defaultAnalyticsConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		AnomalyThreshold: 50,
		AnomalyWindow:    600,
		DedupByUser:      true,
	}
}

func TestRecordPostViewDeduplicatesSameViewer(t *testing.T) {
	f := newInteractionFixture(defaultAnalyticsConfig())
	viewer := Identity{UserID: 10, IP: "10.0.0.1"}

	require.NoError(t, f.svc.RecordPostView(context.Background(), 1, viewer))
	// 重复阅读不再计数，但请求仍然成功
	require.NoError(t, f.svc.RecordPostView(context.Background(), 1, viewer))

	entries := f.buffer.DrainAll()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].Delta[counter.MetricViews])
	assert.Len(t, f.interactionRepo.events, 1)
	assert.Equal(t, consts.InteractionView, f.interactionRepo.events[0].Type)
	assert.Equal(t, consts.InteractionCategoryPassive, f.interactionRepo.events[0].Category)
}

func TestRecordPostViewAnonymousDedupByIP(t *testing.T) {
	f := newInteractionFixture(defaultAnalyticsConfig())

	require.NoError(t, f.svc.RecordPostView(context.Background(), 1, Identity{IP: "10.0.0.1"}))
	require.NoError(t, f.svc.RecordPostView(context.Background(), 1, Identity{IP: "10.0.0.1"}))
	require.NoError(t, f.svc.RecordPostView(context.Background(), 1, Identity{IP: "10.0.0.2"}))

	entries := f.buffer.DrainAll()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].Delta[counter.MetricViews])
}

func TestLikePostDuplicate(t *testing.T) {
	f := newInteractionFixture(defaultAnalyticsConfig())
	viewer := Identity{UserID: 10, IP: "10.0.0.1"}

	require.NoError(t, f.svc.LikePost(context.Background(), "hello-world", viewer))
	err := f.svc.LikePost(context.Background(), "hello-world", viewer)
	assert.ErrorIs(t, err, ErrActionDuplicate)

	assert.Equal(t, int64(1), f.analyticsRepo.posts[1].Likes)
}

func TestUnlikeRecountsLikes(t *testing.T) {
	f := newInteractionFixture(defaultAnalyticsConfig())
	viewer := Identity{UserID: 10, IP: "10.0.0.1"}

	require.NoError(t, f.svc.LikePost(context.Background(), "hello-world", viewer))
	require.NoError(t, f.svc.UnlikePost(context.Background(), "hello-world", viewer))
	assert.Zero(t, f.analyticsRepo.posts[1].Likes)

	err := f.svc.UnlikePost(context.Background(), "hello-world", viewer)
	assert.ErrorIs(t, err, ErrLikeNotFound)
}

func TestLikeUnpublishedPost(t *testing.T) {
	f := newInteractionFixture(defaultAnalyticsConfig())

	err := f.svc.LikePost(context.Background(), "unpublished", Identity{UserID: 10})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestAnomalousActivityRejected(t *testing.T) {
	cfg := defaultAnalyticsConfig()
	cfg.AnomalyThreshold = 5
	f := newInteractionFixture(cfg)
	viewer := Identity{UserID: 10, IP: "10.0.0.1"}

	for i := 0; i < 5; i++ {
		require.NoError(t, f.svc.SharePost(context.Background(), "hello-world",
			&dto.ShareCreateDTO{Platform: "twitter"}, viewer))
	}

	err := f.svc.SharePost(context.Background(), "hello-world",
		&dto.ShareCreateDTO{Platform: "twitter"}, viewer)
	assert.ErrorIs(t, err, ErrActionAnomalous)

	// 其它身份不受影响
	require.NoError(t, f.svc.SharePost(context.Background(), "hello-world",
		&dto.ShareCreateDTO{Platform: "twitter"}, Identity{UserID: 11, IP: "10.0.0.9"}))
}

func TestSharePlatformValidation(t *testing.T) {
	f := newInteractionFixture(defaultAnalyticsConfig())
	viewer := Identity{UserID: 10, IP: "10.0.0.1"}

	err := f.svc.SharePost(context.Background(), "hello-world",
		&dto.ShareCreateDTO{Platform: "myspace"}, viewer)
	assert.ErrorIs(t, err, ErrPlatformInvalid)

	// 未指定平台时落到 other
	require.NoError(t, f.svc.SharePost(context.Background(), "hello-world", &dto.ShareCreateDTO{}, viewer))
	require.Len(t, f.actionRepo.shares, 1)
	assert.Equal(t, "other", f.actionRepo.shares[0].Platform)
}

func TestCommentEventCarriesCommentID(t *testing.T) {
	f := newInteractionFixture(defaultAnalyticsConfig())
	viewer := Identity{UserID: 10, IP: "10.0.0.1"}

	require.NoError(t, f.svc.CreateComment(context.Background(), "hello-world",
		&dto.CommentCreateDTO{Content: "nice"}, viewer))

	require.Len(t, f.interactionRepo.events, 1)
	event := f.interactionRepo.events[0]
	assert.Equal(t, consts.InteractionComment, event.Type)
	require.NotNil(t, event.CommentID)
	assert.Equal(t, uint64(1), *event.CommentID)
	assert.Equal(t, consts.InteractionCategoryActive, event.Category)
	assert.Equal(t, int64(1), f.analyticsRepo.posts[1].Comments)
}

func TestCommentParentMustBelongToSamePost(t *testing.T) {
	f := newInteractionFixture(defaultAnalyticsConfig())
	viewer := Identity{UserID: 10, IP: "10.0.0.1"}

	err := f.svc.CreateComment(context.Background(), "hello-world",
		&dto.CommentCreateDTO{Content: "reply", ParentID: 99}, viewer)
	assert.ErrorIs(t, err, ErrPostCommentNotFound)
}

func TestDeleteCommentOwnership(t *testing.T) {
	f := newInteractionFixture(defaultAnalyticsConfig())
	viewer := Identity{UserID: 10, IP: "10.0.0.1"}

	require.NoError(t, f.svc.CreateComment(context.Background(), "hello-world",
		&dto.CommentCreateDTO{Content: "nice"}, viewer))

	err := f.svc.DeleteComment(context.Background(), 1, 99)
	assert.ErrorIs(t, err, UnauthorizedError)

	require.NoError(t, f.svc.DeleteComment(context.Background(), 1, 10))
	assert.Zero(t, f.analyticsRepo.posts[1].Comments)
}

func TestRecordCategoryViewDeduplicates(t *testing.T) {
	f := newInteractionFixture(defaultAnalyticsConfig())
	viewer := Identity{UserID: 10, IP: "10.0.0.1"}

	require.NoError(t, f.svc.RecordCategoryView(context.Background(), 3, viewer))
	require.NoError(t, f.svc.RecordCategoryView(context.Background(), 3, viewer))

	entries := f.buffer.DrainAll()
	require.Len(t, entries, 1)
	assert.Equal(t, counter.KindCategory, entries[0].Key.Kind)
	assert.Equal(t, int64(1), entries[0].Delta[counter.MetricViews])
}
