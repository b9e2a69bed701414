package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net"
	"os"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VidTube.com/cmd/api/handlers/pack"
	interactiondb "VidTube.com/cmd/interaction/dal/db"
	"VidTube.com/cmd/model"
	relationdb "VidTube.com/cmd/relation/dal/db"
	userdb "VidTube.com/cmd/user/dal/db"
	videodb "VidTube.com/cmd/video/dal/db"
	videoservice "VidTube.com/cmd/video/service"
	"VidTube.com/pkg/database/dbtest"
	"VidTube.com/pkg/jwt"
	"VidTube.com/pkg/metrics"
	"VidTube.com/pkg/middleware"
	"VidTube.com/pkg/utils"
)

const (
	alice = int64(1)
	bob   = int64(2)
	clip  = int64(100)
)

type envelope struct {
	StatusCode int64           `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

type nopMedia struct{}

func (nopMedia) Upload(_ context.Context, bucket, key, _, _ string) (string, error) {
	return "http://media.test/" + bucket + "/" + key, nil
}

func (nopMedia) Remove(context.Context, string, string) error { return nil }

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "sentinel-*")
	if err := middleware.InitSentinel(dir, 10000); err != nil {
		panic(err)
	}
	if err := jwt.Init("test-secret", time.Hour, pack.SendFailure); err != nil {
		panic(err)
	}
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func setup(t *testing.T) *route.Engine {
	t.Helper()
	gdb := dbtest.Open(t)
	userdb.Init(gdb)
	videodb.Init(gdb)
	interactiondb.Init(gdb)
	relationdb.Init(gdb)
	videoservice.Init(nopMedia{}, nil)
	t.Cleanup(func() { videoservice.Init(nil, nil) })

	ctx := context.Background()
	require.NoError(t, userdb.CreateUser(ctx, &model.User{ID: alice, Username: "alice", FullName: "Alice"}))
	require.NoError(t, userdb.CreateUser(ctx, &model.User{ID: bob, Username: "bob", FullName: "Bob"}))
	require.NoError(t, videodb.InsertVideo(ctx, &model.Video{ID: clip, UserId: alice, Title: "clip", IsPublished: true}))

	r := route.NewEngine(config.NewOptions([]config.Option{}))
	Register(r)
	return r
}

func bearer(t *testing.T, userId int64) ut.Header {
	t.Helper()
	token, err := jwt.GenerateToken(userId)
	require.NoError(t, err)
	return ut.Header{Key: "Authorization", Value: "Bearer " + token}
}

func jsonBody(t *testing.T, v interface{}) *ut.Body {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return &ut.Body{Body: bytes.NewReader(b), Len: len(b)}
}

var jsonType = ut.Header{Key: "Content-Type", Value: "application/json"}

func do(t *testing.T, r *route.Engine, method, url string, body *ut.Body, headers ...ut.Header) (int, envelope) {
	t.Helper()
	w := ut.PerformRequest(r, method, url, body, headers...)
	resp := w.Result()
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body(), &env), string(resp.Body()))
	return resp.StatusCode(), env
}

func id(v int64) string { return utils.FormatID(v) }

func TestHealthcheck(t *testing.T) {
	r := setup(t)
	code, env := do(t, r, "GET", "/api/v1/healthcheck", nil)
	assert.Equal(t, 200, code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"status":"OK"`)
}

// /metrics hijacks the connection writer, so it is exercised on a real
// listener instead of the ut recorder.
func TestMetricsEndpoint(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	h := server.Default(server.WithHostPorts(addr))
	Register(h.Engine)
	go func() { _ = h.Run() }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = h.Shutdown(ctx)
	})

	metrics.ObserveToggle("video", true)

	cli, err := client.NewClient()
	require.NoError(t, err)
	var (
		code int
		body []byte
	)
	require.Eventually(t, func() bool {
		code, body, err = cli.Get(context.Background(), nil, "http://"+addr+"/metrics")
		return err == nil
	}, 3*time.Second, 50*time.Millisecond)
	assert.Equal(t, 200, code)
	assert.Contains(t, string(body), "vidtube_relation_toggles_total")
}

func TestHugePageIsEmpty(t *testing.T) {
	r := setup(t)
	_, _ = do(t, r, "POST", "/api/v1/videos/"+id(clip)+"/comments",
		jsonBody(t, map[string]string{"content": "first"}), bearer(t, bob), jsonType)

	code, env := do(t, r, "GET", "/api/v1/videos/"+id(clip)+"/comments?page=1000000000000000000&limit=10", nil)
	require.Equal(t, 200, code, env.Message)
	assert.Contains(t, string(env.Data), `"docs":[]`)
	assert.Contains(t, string(env.Data), `"totalDocs":1`)
}

func TestToggleVideoLike(t *testing.T) {
	r := setup(t)
	url := "/api/v1/likes/video/" + id(clip)

	code, env := do(t, r, "POST", url, nil)
	assert.Equal(t, 401, code)
	assert.False(t, env.Success)
	assert.Equal(t, []string{}, env.Errors)

	code, env = do(t, r, "POST", url, nil, bearer(t, bob))
	require.Equal(t, 200, code, env.Message)
	assert.JSONEq(t, `{"isActive":true}`, string(env.Data))

	code, env = do(t, r, "POST", url, nil, bearer(t, bob))
	require.Equal(t, 200, code)
	assert.JSONEq(t, `{"isActive":false}`, string(env.Data))

	code, _ = do(t, r, "POST", "/api/v1/likes/video/abc", nil, bearer(t, bob))
	assert.Equal(t, 400, code)
	code, _ = do(t, r, "POST", "/api/v1/likes/video/999", nil, bearer(t, bob))
	assert.Equal(t, 404, code)
}

func TestOptionalAuth(t *testing.T) {
	r := setup(t)
	_, _ = do(t, r, "POST", "/api/v1/likes/video/"+id(clip), nil, bearer(t, bob))

	var page struct {
		Docs []struct {
			ID         string `json:"id"`
			LikesCount int64  `json:"likesCount"`
			IsLiked    bool   `json:"isLiked"`
			Owner      struct {
				Username string `json:"username"`
			} `json:"owner"`
		} `json:"docs"`
		TotalDocs int64 `json:"totalDocs"`
	}

	code, env := do(t, r, "GET", "/api/v1/videos", nil)
	require.Equal(t, 200, code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Docs, 1)
	assert.Equal(t, id(clip), page.Docs[0].ID)
	assert.Equal(t, int64(1), page.Docs[0].LikesCount)
	assert.False(t, page.Docs[0].IsLiked)
	assert.Equal(t, "alice", page.Docs[0].Owner.Username)

	code, env = do(t, r, "GET", "/api/v1/videos?page=1&limit=5", nil, bearer(t, bob))
	require.Equal(t, 200, code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.True(t, page.Docs[0].IsLiked)

	code, _ = do(t, r, "GET", "/api/v1/videos", nil, ut.Header{Key: "Authorization", Value: "Bearer not-a-token"})
	assert.Equal(t, 401, code)
}

func TestCommentLifecycle(t *testing.T) {
	r := setup(t)
	url := "/api/v1/videos/" + id(clip) + "/comments"

	code, env := do(t, r, "POST", url, jsonBody(t, map[string]string{"content": "   "}), bearer(t, bob), jsonType)
	assert.Equal(t, 400, code)
	assert.False(t, env.Success)

	code, env = do(t, r, "POST", url, jsonBody(t, map[string]string{"content": "nice clip"}), bearer(t, bob), jsonType)
	require.Equal(t, 200, code, env.Message)
	var comment struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &comment))
	assert.Equal(t, "nice clip", comment.Content)

	code, _ = do(t, r, "PATCH", "/api/v1/comments/"+comment.ID, jsonBody(t, map[string]string{"content": "edited"}), bearer(t, alice), jsonType)
	assert.Equal(t, 403, code)

	code, env = do(t, r, "PATCH", "/api/v1/comments/"+comment.ID, jsonBody(t, map[string]string{"content": "edited"}), bearer(t, bob), jsonType)
	require.Equal(t, 200, code)
	assert.Contains(t, string(env.Data), `"content":"edited"`)

	code, _ = do(t, r, "POST", "/api/v1/likes/comment/"+comment.ID, nil, bearer(t, alice))
	require.Equal(t, 200, code)

	code, env = do(t, r, "GET", url, nil, bearer(t, alice))
	require.Equal(t, 200, code)
	assert.Contains(t, string(env.Data), `"isLiked":true`)
	assert.Contains(t, string(env.Data), `"totalDocs":1`)

	code, env = do(t, r, "DELETE", "/api/v1/comments/"+comment.ID, nil, bearer(t, bob))
	require.Equal(t, 200, code)
	assert.JSONEq(t, `{"id":"`+comment.ID+`"}`, string(env.Data))

	code, _ = do(t, r, "DELETE", "/api/v1/comments/"+comment.ID, nil, bearer(t, bob))
	assert.Equal(t, 404, code)
}

func TestSubscriptions(t *testing.T) {
	r := setup(t)

	code, env := do(t, r, "POST", "/api/v1/subscriptions/"+id(alice), nil, bearer(t, alice))
	assert.Equal(t, 400, code)
	assert.Equal(t, "You cannot subscribe to your own channel", env.Message)

	code, env = do(t, r, "POST", "/api/v1/subscriptions/"+id(alice), nil, bearer(t, bob))
	require.Equal(t, 200, code)
	assert.JSONEq(t, `{"isActive":true}`, string(env.Data))

	code, env = do(t, r, "GET", "/api/v1/subscriptions/channel/"+id(alice), nil)
	require.Equal(t, 200, code)
	assert.Contains(t, string(env.Data), `"username":"bob"`)

	code, env = do(t, r, "GET", "/api/v1/subscriptions/user/"+id(bob), nil, bearer(t, bob))
	require.Equal(t, 200, code)
	assert.Contains(t, string(env.Data), `"subscribersCount":1`)
	assert.Contains(t, string(env.Data), `"isSubscribed":true`)
}

func TestVideoOwnership(t *testing.T) {
	r := setup(t)
	url := "/api/v1/videos/toggle/publish/" + id(clip)

	code, _ := do(t, r, "PATCH", url, nil, bearer(t, bob))
	assert.Equal(t, 403, code)

	code, env := do(t, r, "PATCH", url, nil, bearer(t, alice))
	require.Equal(t, 200, code)
	assert.JSONEq(t, `{"isPublished":false}`, string(env.Data))

	// unpublished: hidden from everyone but the owner
	code, _ = do(t, r, "GET", "/api/v1/videos/"+id(clip), nil, bearer(t, bob))
	assert.Equal(t, 404, code)
	code, env = do(t, r, "GET", "/api/v1/videos/"+id(clip), nil, bearer(t, alice))
	require.Equal(t, 200, code)
	assert.Contains(t, string(env.Data), `"views":1`)

	code, env = do(t, r, "PATCH", "/api/v1/videos/"+id(clip), jsonBody(t, map[string]string{"title": "renamed"}), bearer(t, alice), jsonType)
	require.Equal(t, 200, code, env.Message)
	assert.Contains(t, string(env.Data), `"title":"renamed"`)

	code, _ = do(t, r, "DELETE", "/api/v1/videos/"+id(clip), nil, bearer(t, bob))
	assert.Equal(t, 403, code)
	code, _ = do(t, r, "DELETE", "/api/v1/videos/"+id(clip), nil, bearer(t, alice))
	assert.Equal(t, 200, code)
}

func TestPublishVideoRejectsBadUpload(t *testing.T) {
	r := setup(t)

	code, _ := do(t, r, "POST", "/api/v1/videos", jsonBody(t, map[string]string{"title": "t"}), bearer(t, alice), jsonType)
	assert.Equal(t, 400, code)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "t"))
	require.NoError(t, mw.WriteField("description", "d"))
	require.NoError(t, mw.Close())
	code, env := do(t, r, "POST", "/api/v1/videos", &ut.Body{Body: &buf, Len: buf.Len()}, bearer(t, alice),
		ut.Header{Key: "Content-Type", Value: mw.FormDataContentType()})
	assert.Equal(t, 400, code)
	assert.Equal(t, "Video file is required", env.Message)
}

func TestPlaylistRoutes(t *testing.T) {
	r := setup(t)

	code, env := do(t, r, "POST", "/api/v1/playlists", jsonBody(t, map[string]string{"name": "mix"}), bearer(t, alice), jsonType)
	assert.Equal(t, 400, code)
	assert.Equal(t, "Name and description for the playlist is required", env.Message)

	code, env = do(t, r, "POST", "/api/v1/playlists", jsonBody(t, map[string]string{"name": "mix", "description": "d"}), bearer(t, alice), jsonType)
	require.Equal(t, 200, code, env.Message)
	var p struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))

	add := "/api/v1/playlists/add/" + id(clip) + "/" + p.ID
	code, _ = do(t, r, "PATCH", add, nil, bearer(t, bob))
	assert.Equal(t, 403, code)
	code, _ = do(t, r, "PATCH", add, nil, bearer(t, alice))
	require.Equal(t, 200, code)
	code, env = do(t, r, "PATCH", add, nil, bearer(t, alice))
	require.Equal(t, 200, code)
	assert.Contains(t, string(env.Data), `"totalVideos":1`)

	code, env = do(t, r, "GET", "/api/v1/playlists/user/"+id(alice), nil)
	require.Equal(t, 200, code)
	assert.Contains(t, string(env.Data), `"totalDocs":1`)

	draft := int64(101)
	require.NoError(t, videodb.InsertVideo(context.Background(), &model.Video{ID: draft, UserId: alice, Title: "draft", Views: 7}))
	code, _ = do(t, r, "PATCH", "/api/v1/playlists/add/"+id(draft)+"/"+p.ID, nil, bearer(t, alice))
	require.Equal(t, 200, code)

	code, env = do(t, r, "GET", "/api/v1/playlists/user/"+id(alice), nil)
	require.Equal(t, 200, code)
	assert.Contains(t, string(env.Data), `"totalVideos":1`)
	assert.Contains(t, string(env.Data), `"totalViews":0`)
	code, env = do(t, r, "GET", "/api/v1/playlists/user/"+id(alice), nil, bearer(t, alice))
	require.Equal(t, 200, code)
	assert.Contains(t, string(env.Data), `"totalVideos":2`)
	assert.Contains(t, string(env.Data), `"totalViews":7`)
	code, env = do(t, r, "GET", "/api/v1/playlists/"+p.ID, nil)
	require.Equal(t, 200, code)
	assert.Contains(t, string(env.Data), `"totalVideos":1`)

	code, _ = do(t, r, "PATCH", "/api/v1/playlists/remove/"+id(clip)+"/"+p.ID, nil, bearer(t, alice))
	assert.Equal(t, 200, code)
	code, _ = do(t, r, "PATCH", "/api/v1/playlists/remove/"+id(clip)+"/"+p.ID, nil, bearer(t, alice))
	assert.Equal(t, 404, code)
}

func TestDashboard(t *testing.T) {
	r := setup(t)
	_, _ = do(t, r, "POST", "/api/v1/likes/video/"+id(clip), nil, bearer(t, bob))
	_, _ = do(t, r, "POST", "/api/v1/subscriptions/"+id(alice), nil, bearer(t, bob))

	code, _ := do(t, r, "GET", "/api/v1/dashboard/stats", nil)
	assert.Equal(t, 401, code)

	code, env := do(t, r, "GET", "/api/v1/dashboard/stats", nil, bearer(t, alice))
	require.Equal(t, 200, code)
	assert.JSONEq(t, `{"totalSubscribers":1,"totalLikes":1,"totalViews":0,"totalVideos":1}`, string(env.Data))

	code, env = do(t, r, "GET", "/api/v1/dashboard/videos", nil, bearer(t, alice))
	require.Equal(t, 200, code)
	assert.Contains(t, string(env.Data), `"likesCount":1`)
}
