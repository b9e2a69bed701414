package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	interactiondb "VidTube.com/cmd/interaction/dal/db"
	"VidTube.com/cmd/model"
	relationdb "VidTube.com/cmd/relation/dal/db"
	userdb "VidTube.com/cmd/user/dal/db"
	"VidTube.com/cmd/video/dal/db"
	"VidTube.com/pkg/cache"
	"VidTube.com/pkg/database/dbtest"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/utils"
)

const (
	alice = int64(1)
	bob   = int64(2)
)

type fakeMedia struct {
	mu      sync.Mutex
	objects map[string]string
	removed []string
	failOn  string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{objects: map[string]string{}}
}

func (m *fakeMedia) Upload(_ context.Context, bucket, key, localPath, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && m.failOn == bucket {
		return "", fmt.Errorf("bucket %s unavailable", bucket)
	}
	m.objects[bucket+"/"+key] = localPath
	return "http://media.test/" + bucket + "/" + key, nil
}

func (m *fakeMedia) Remove(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	m.removed = append(m.removed, bucket+"/"+key)
	return nil
}

type capture struct {
	mu       sync.Mutex
	contents []*mq.ContentEvent
}

func (c *capture) PublishRelationEvent(context.Context, *mq.RelationEvent) error { return nil }

func (c *capture) PublishContentEvent(_ context.Context, e *mq.ContentEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contents = append(c.contents, e)
	return nil
}

func (c *capture) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.contents))
	for _, e := range c.contents {
		out = append(out, e.Type)
	}
	return out
}

func setup(t *testing.T) (context.Context, *fakeMedia, *capture) {
	t.Helper()
	gdb := dbtest.Open(t)
	db.Init(gdb)
	userdb.Init(gdb)
	interactiondb.Init(gdb)
	relationdb.Init(gdb)

	ctx := context.Background()
	require.NoError(t, userdb.CreateUser(ctx, &model.User{ID: alice, Username: "alice", FullName: "Alice"}))
	require.NoError(t, userdb.CreateUser(ctx, &model.User{ID: bob, Username: "bob", FullName: "Bob"}))

	m := newFakeMedia()
	Init(m, nil)
	probeDuration = func(string) (float64, error) { return 12.5, nil }
	rec := &capture{}
	mq.SetPublisher(rec)
	t.Cleanup(func() {
		Init(nil, nil)
		probeDuration = utils.ProbeDuration
		mq.SetPublisher(nil)
	})
	return ctx, m, rec
}

func id(v int64) string { return utils.FormatID(v) }

func seedVideo(t *testing.T, ctx context.Context, videoId, owner int64, published bool, at time.Time) *model.Video {
	t.Helper()
	v := &model.Video{
		ID:           videoId,
		UserId:       owner,
		Title:        fmt.Sprintf("video %d", videoId),
		ThumbnailKey: fmt.Sprintf("picture/%d/cover.png", videoId),
		VideoKey:     fmt.Sprintf("video/%d/video.mp4", videoId),
		IsPublished:  published,
		CreatedAt:    at,
	}
	require.NoError(t, db.InsertVideo(ctx, v))
	return v
}

func publishRequest() *PublishVideoRequest {
	return &PublishVideoRequest{
		Title:       "  First upload ",
		Description: "hello",
		VideoFile:   &Upload{Path: "/tmp/a.mp4", Filename: "a.MP4", ContentType: "video/mp4"},
		Thumbnail:   &Upload{Path: "/tmp/a.png", Filename: "a.png", ContentType: "image/png"},
	}
}

func TestPublishVideo(t *testing.T) {
	ctx, m, rec := setup(t)
	s := NewVideoService(ctx)

	v, err := s.PublishVideo(alice, publishRequest())
	require.NoError(t, err)
	assert.Equal(t, "First upload", v.Title)
	assert.Equal(t, 12.5, v.Duration)
	assert.True(t, v.IsPublished)
	assert.Equal(t, alice, v.UserId)
	assert.Contains(t, v.VideoFile, "video/"+id(v.ID)+"/video.mp4")
	assert.Len(t, m.objects, 2)
	assert.Equal(t, []string{mq.ContentVideoCreated}, rec.types())

	stored, err := db.GetVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Thumbnail, stored.Thumbnail)
}

func TestPublishVideoValidation(t *testing.T) {
	ctx, m, _ := setup(t)
	s := NewVideoService(ctx)

	req := publishRequest()
	req.Title = "   "
	_, err := s.PublishVideo(alice, req)
	assert.ErrorIs(t, err, errno.InvalidArgumentErr)

	req = publishRequest()
	req.VideoFile = nil
	_, err = s.PublishVideo(alice, req)
	assert.ErrorIs(t, err, errno.InvalidArgumentErr)

	probeDuration = func(string) (float64, error) { return 0, fmt.Errorf("not a video") }
	_, err = s.PublishVideo(alice, publishRequest())
	assert.ErrorIs(t, err, errno.InvalidArgumentErr)
	assert.Empty(t, m.objects)
}

func TestPublishVideoRollsBackUploads(t *testing.T) {
	ctx, m, _ := setup(t)
	m.failOn = "picture"

	_, err := NewVideoService(ctx).PublishVideo(alice, publishRequest())
	require.Error(t, err)
	assert.Empty(t, m.objects)
	require.Len(t, m.removed, 1)

	n, err := db.GetVideoCount(ctx, db.VideoQuery{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetVideo(t *testing.T) {
	ctx, _, _ := setup(t)
	now := time.Now()
	seedVideo(t, ctx, 100, alice, true, now)
	seedVideo(t, ctx, 101, alice, false, now)
	require.NoError(t, interactiondb.LikeStore{}.Insert(ctx, engage.Key{ActorID: bob, TargetID: 100, Kind: engage.KindVideoLike}))
	require.NoError(t, relationdb.SubscriptionStore{}.Insert(ctx, engage.Key{ActorID: bob, TargetID: alice, Kind: engage.KindSubscription}))
	s := NewVideoService(ctx)

	viewer := bob
	d, err := s.GetVideo(id(100), &viewer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.Views)
	assert.Equal(t, int64(1), d.LikesCount)
	assert.True(t, d.IsLiked)
	require.NotNil(t, d.Owner)
	assert.Equal(t, "alice", d.Owner.Username)
	assert.Equal(t, int64(1), d.Owner.SubscribersCount)
	assert.True(t, d.Owner.IsSubscribed)

	history, err := userdb.GetWatchHistory(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, history)

	anon, err := s.GetVideo(id(100), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), anon.Views)
	assert.False(t, anon.IsLiked)
	assert.False(t, anon.Owner.IsSubscribed)

	// watching again keeps a single history entry
	_, err = s.GetVideo(id(100), &viewer)
	require.NoError(t, err)
	history, err = userdb.GetWatchHistory(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	t.Run("UnpublishedHiddenFromOthers", func(t *testing.T) {
		_, err := s.GetVideo(id(101), &viewer)
		assert.ErrorIs(t, err, errno.NotFoundErr)
		_, err = s.GetVideo(id(101), nil)
		assert.ErrorIs(t, err, errno.NotFoundErr)

		owner := alice
		d, err := s.GetVideo(id(101), &owner)
		require.NoError(t, err)
		assert.False(t, d.IsPublished)
	})

	t.Run("InvalidID", func(t *testing.T) {
		_, err := s.GetVideo("abc", nil)
		assert.ErrorIs(t, err, errno.InvalidArgumentErr)
		_, err = s.GetVideo(id(999), nil)
		assert.ErrorIs(t, err, errno.NotFoundErr)
	})
}

func TestListVideos(t *testing.T) {
	ctx, _, _ := setup(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedVideo(t, ctx, 100, alice, true, base)
	seedVideo(t, ctx, 101, bob, true, base.Add(time.Minute))
	seedVideo(t, ctx, 102, alice, false, base.Add(2*time.Minute))
	require.NoError(t, interactiondb.LikeStore{}.Insert(ctx, engage.Key{ActorID: alice, TargetID: 101, Kind: engage.KindVideoLike}))
	s := NewVideoService(ctx)

	viewer := alice
	page, err := s.ListVideos(&ListVideosRequest{Page: engage.NewPage(1, 10)}, &viewer)
	require.NoError(t, err)
	require.Len(t, page.Docs, 2)
	assert.Equal(t, int64(101), page.Docs[0].ID)
	assert.True(t, page.Docs[0].IsLiked)
	assert.Equal(t, int64(1), page.Docs[0].LikesCount)
	assert.Equal(t, "bob", page.Docs[0].Owner.Username)
	assert.False(t, page.Docs[1].IsLiked)

	mine, err := s.ListVideos(&ListVideosRequest{Page: engage.NewPage(1, 10), UserId: id(alice)}, nil)
	require.NoError(t, err)
	require.Len(t, mine.Docs, 1)
	assert.Equal(t, int64(100), mine.Docs[0].ID)

	_, err = s.ListVideos(&ListVideosRequest{Page: engage.NewPage(1, 10), UserId: "nope"}, nil)
	assert.ErrorIs(t, err, errno.InvalidArgumentErr)
}

func TestUpdateVideo(t *testing.T) {
	ctx, m, rec := setup(t)
	seedVideo(t, ctx, 100, alice, true, time.Now())
	s := NewVideoService(ctx)
	title := " Renamed "

	_, err := s.UpdateVideo(bob, id(100), &UpdateVideoRequest{Title: &title})
	assert.ErrorIs(t, err, errno.ForbiddenErr)

	_, err = s.UpdateVideo(alice, id(100), &UpdateVideoRequest{})
	assert.ErrorIs(t, err, errno.InvalidArgumentErr)

	v, err := s.UpdateVideo(alice, id(100), &UpdateVideoRequest{
		Title:     &title,
		Thumbnail: &Upload{Path: "/tmp/b.jpg", Filename: "b.jpg", ContentType: "image/jpeg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", v.Title)
	assert.Contains(t, v.Thumbnail, "/cover-")
	assert.Equal(t, []string{"picture/picture/100/cover.png"}, m.removed)
	assert.Equal(t, []string{mq.ContentVideoUpdated}, rec.types())

	stored, err := db.GetVideo(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, v.ThumbnailKey, stored.ThumbnailKey)
}

func TestUpdateVideoDropsNewThumbnailWhenSaveFails(t *testing.T) {
	ctx, m, rec := setup(t)
	seedVideo(t, ctx, 100, alice, true, time.Now())
	require.NoError(t, db.DB.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		_ = tx.AddError(fmt.Errorf("disk full"))
	}))
	s := NewVideoService(ctx)

	_, err := s.UpdateVideo(alice, id(100), &UpdateVideoRequest{
		Thumbnail: &Upload{Path: "/tmp/b.jpg", Filename: "b.jpg", ContentType: "image/jpeg"},
	})
	require.Error(t, err)

	require.Len(t, m.removed, 1)
	assert.True(t, strings.HasPrefix(m.removed[0], "picture/picture/100/cover-"), m.removed[0])
	assert.NotContains(t, m.removed, "picture/picture/100/cover.png")
	for key := range m.objects {
		assert.False(t, strings.HasPrefix(key, "picture/"), "orphaned upload %s", key)
	}
	assert.Empty(t, rec.types())

	stored, err := db.GetVideo(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "picture/100/cover.png", stored.ThumbnailKey)
}

func TestDeleteVideo(t *testing.T) {
	ctx, m, rec := setup(t)
	seedVideo(t, ctx, 100, alice, true, time.Now())
	require.NoError(t, interactiondb.LikeStore{}.Insert(ctx, engage.Key{ActorID: bob, TargetID: 100, Kind: engage.KindVideoLike}))
	s := NewVideoService(ctx)

	_, err := s.DeleteVideo(bob, id(100))
	assert.ErrorIs(t, err, errno.ForbiddenErr)

	res, err := s.DeleteVideo(alice, id(100))
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.ID)
	assert.Len(t, m.removed, 2)
	assert.Equal(t, []string{mq.ContentVideoDeleted}, rec.types())

	ok, err := db.IsVideoExist(ctx, 100)
	require.NoError(t, err)
	assert.False(t, ok)
	n, err := interactiondb.GetLikeCount(ctx, engage.KindVideoLike, 100)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.DeleteVideo(alice, id(100))
	assert.ErrorIs(t, err, errno.NotFoundErr)
}

func TestTogglePublish(t *testing.T) {
	ctx, _, _ := setup(t)
	seedVideo(t, ctx, 100, alice, true, time.Now())
	s := NewVideoService(ctx)

	state, err := s.TogglePublish(alice, id(100))
	require.NoError(t, err)
	assert.False(t, state.IsPublished)

	state, err = s.TogglePublish(alice, id(100))
	require.NoError(t, err)
	assert.True(t, state.IsPublished)

	_, err = s.TogglePublish(bob, id(100))
	assert.ErrorIs(t, err, errno.ForbiddenErr)
}

func TestPlaylists(t *testing.T) {
	ctx, _, _ := setup(t)
	now := time.Now()
	seedVideo(t, ctx, 100, alice, true, now)
	seedVideo(t, ctx, 101, bob, false, now)
	require.NoError(t, db.IncrVideoViews(ctx, 100))
	s := NewPlaylistService(ctx)

	_, err := s.CreatePlaylist(alice, "", "desc")
	assert.ErrorIs(t, err, errno.InvalidArgumentErr)

	p, err := s.CreatePlaylist(alice, "Mix", "favourites")
	require.NoError(t, err)
	pid := id(p.ID)

	_, err = s.AddVideo(bob, id(100), pid)
	assert.ErrorIs(t, err, errno.ForbiddenErr)
	_, err = s.AddVideo(alice, id(999), pid)
	assert.ErrorIs(t, err, errno.NotFoundErr)

	d, err := s.AddVideo(alice, id(100), pid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.TotalVideos)
	d, err = s.AddVideo(alice, id(100), pid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.TotalVideos)

	d, err = s.AddVideo(alice, id(101), pid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.TotalVideos)
	assert.Equal(t, int64(1), d.TotalViews)

	t.Run("UnpublishedHiddenFromOthers", func(t *testing.T) {
		public, err := s.GetPlaylist(pid, nil)
		require.NoError(t, err)
		require.Len(t, public.Videos, 1)
		assert.Equal(t, int64(100), public.Videos[0].ID)
		assert.Equal(t, "alice", public.Owner.Username)
	})

	t.Run("UserPlaylists", func(t *testing.T) {
		owner := alice
		page, err := s.UserPlaylists(id(alice), &owner, engage.NewPage(1, 10))
		require.NoError(t, err)
		require.Len(t, page.Docs, 1)
		assert.Equal(t, int64(2), page.Docs[0].TotalVideos)
		assert.Equal(t, int64(1), page.Docs[0].TotalViews)
		assert.Equal(t, "alice", page.Docs[0].Owner.Username)

		// totals match what GetPlaylist shows the same viewer
		other := bob
		for _, viewer := range []*int64{nil, &other} {
			page, err = s.UserPlaylists(id(alice), viewer, engage.NewPage(1, 10))
			require.NoError(t, err)
			require.Len(t, page.Docs, 1)
			detail, err := s.GetPlaylist(pid, viewer)
			require.NoError(t, err)
			assert.Equal(t, int64(1), page.Docs[0].TotalVideos)
			assert.Equal(t, detail.TotalVideos, page.Docs[0].TotalVideos)
			assert.Equal(t, int64(1), page.Docs[0].TotalViews)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		d, err := s.RemoveVideo(alice, id(101), pid)
		require.NoError(t, err)
		assert.Equal(t, int64(1), d.TotalVideos)
		_, err = s.RemoveVideo(alice, id(101), pid)
		assert.ErrorIs(t, err, errno.NotFoundErr)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		name := "Renamed"
		up, err := s.UpdatePlaylist(alice, pid, &UpdatePlaylistRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", up.Name)
		assert.Equal(t, "favourites", up.Description)

		_, err = s.DeletePlaylist(bob, pid)
		assert.ErrorIs(t, err, errno.ForbiddenErr)
		_, err = s.DeletePlaylist(alice, pid)
		require.NoError(t, err)
		_, err = s.GetPlaylist(pid, nil)
		assert.ErrorIs(t, err, errno.NotFoundErr)
	})
}

func TestDashboard(t *testing.T) {
	ctx, _, _ := setup(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	Init(newFakeMedia(), cache.NewStatsCacheManager(client))

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedVideo(t, ctx, 100, alice, true, base)
	seedVideo(t, ctx, 101, alice, false, base.Add(time.Minute))
	seedVideo(t, ctx, 102, bob, true, base)
	require.NoError(t, db.IncrVideoViews(ctx, 100))
	require.NoError(t, db.IncrVideoViews(ctx, 101))
	require.NoError(t, db.IncrVideoViews(ctx, 102))
	require.NoError(t, interactiondb.LikeStore{}.Insert(ctx, engage.Key{ActorID: bob, TargetID: 100, Kind: engage.KindVideoLike}))
	require.NoError(t, relationdb.SubscriptionStore{}.Insert(ctx, engage.Key{ActorID: bob, TargetID: alice, Kind: engage.KindSubscription}))
	s := NewDashboardService(ctx)

	got, err := s.ChannelStats(alice)
	require.NoError(t, err)
	assert.Equal(t, &cache.ChannelStats{TotalSubscribers: 1, TotalLikes: 1, TotalViews: 2, TotalVideos: 2}, got)

	// cached until invalidated
	require.NoError(t, relationdb.SubscriptionStore{}.Insert(ctx, engage.Key{ActorID: 3, TargetID: alice, Kind: engage.KindSubscription}))
	got, err = s.ChannelStats(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalSubscribers)

	inv := StatsInvalidator{}
	require.NoError(t, inv.HandleRelationEvent(ctx, mq.NewRelationEvent(string(engage.KindSubscription), 3, alice, true)))
	got, err = s.ChannelStats(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.TotalSubscribers)

	// a like on one of the channel's videos
	require.NoError(t, interactiondb.LikeStore{}.Insert(ctx, engage.Key{ActorID: 3, TargetID: 101, Kind: engage.KindVideoLike}))
	got, err = s.ChannelStats(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalLikes)
	require.NoError(t, inv.HandleRelationEvent(ctx, mq.NewRelationEvent(string(engage.KindVideoLike), 3, 101, true)))
	got, err = s.ChannelStats(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.TotalLikes)

	// likes on other channels and on missing videos leave the entry alone
	require.NoError(t, inv.HandleRelationEvent(ctx, mq.NewRelationEvent(string(engage.KindVideoLike), 3, 999, true)))
	require.NoError(t, interactiondb.LikeStore{}.Insert(ctx, engage.Key{ActorID: 3, TargetID: 100, Kind: engage.KindVideoLike}))
	require.NoError(t, inv.HandleRelationEvent(ctx, mq.NewRelationEvent(string(engage.KindVideoLike), 3, 102, true)))
	got, err = s.ChannelStats(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.TotalLikes)

	videos, err := s.ChannelVideos(alice, engage.NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, videos.Docs, 2)
	assert.Equal(t, int64(101), videos.Docs[0].ID)
	assert.Equal(t, int64(1), videos.Docs[0].LikesCount)
	assert.Equal(t, int64(2), videos.Docs[1].LikesCount)
}
