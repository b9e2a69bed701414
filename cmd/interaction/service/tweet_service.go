package service

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"VidTube.com/cmd/interaction/dal/db"
	"VidTube.com/cmd/model"
	userdb "VidTube.com/cmd/user/dal/db"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/metrics"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/utils"
)

type TweetService struct {
	ctx context.Context
}

func NewTweetService(ctx context.Context) *TweetService {
	return &TweetService{ctx: ctx}
}

type TweetItem struct {
	ID         int64         `json:"id,string"`
	Content    string        `json:"content"`
	CreatedAt  time.Time     `json:"createdAt"`
	LikesCount int64         `json:"likesCount"`
	Owner      *engage.Owner `json:"owner"`
	IsLiked    bool          `json:"isLiked"`
}

func (service *TweetService) CreateTweet(actorId int64, content string) (*model.Tweet, error) {
	content, err := ValidateContent("tweet", content)
	if err != nil {
		return nil, err
	}
	tweet := &model.Tweet{
		ID:      utils.GenerateID(),
		UserId:  actorId,
		Content: content,
	}
	if err := db.CreateTweet(service.ctx, tweet); err != nil {
		hlog.CtxErrorf(service.ctx, "Failed to create tweet: %v", err)
		return nil, errors.Wrap(err, "create tweet")
	}
	metrics.ObserveMutation("tweet", "create")
	publishContent(service.ctx, mq.ContentTweetCreated, tweet.ID, actorId)
	return tweet, nil
}

// ListUserTweets 获取用户的动态列表
func (service *TweetService) ListUserTweets(rawUserId string, viewer *int64, page engage.Page) (*engage.Paged[*TweetItem], error) {
	userId, err := utils.ParseID("user", rawUserId)
	if err != nil {
		return nil, err
	}
	ok, err := userdb.IsUserExist(service.ctx, userId)
	if err != nil {
		return nil, errors.Wrap(err, "check user exists")
	}
	if !ok {
		return nil, errno.EntityNotFound("user")
	}
	src := engage.Source[*model.Tweet]{
		Count: func(ctx context.Context) (int64, error) {
			return db.GetUserTweetCount(ctx, userId)
		},
		Fetch: func(ctx context.Context, offset, limit int) ([]*model.Tweet, error) {
			return db.GetUserTweetsByPart(ctx, userId, offset, limit)
		},
		OwnerID:  func(t *model.Tweet) int64 { return t.UserId },
		TargetID: func(t *model.Tweet) int64 { return t.ID },
		Owners:   userdb.GetProfiles,
		Relations: func(ctx context.Context, ids []int64) (map[int64]int64, error) {
			return db.GetLikeCounts(ctx, engage.KindTweetLike, ids)
		},
		ViewerRelations: func(ctx context.Context, viewerId int64, ids []int64) (map[int64]bool, error) {
			return db.GetViewerLikes(ctx, engage.KindTweetLike, viewerId, ids)
		},
	}
	return engage.List(service.ctx, src, viewer, page, func(t *model.Tweet, d engage.Decoration) *TweetItem {
		return &TweetItem{
			ID:         t.ID,
			Content:    t.Content,
			CreatedAt:  t.CreatedAt,
			LikesCount: d.RelationCount,
			Owner:      d.Owner,
			IsLiked:    d.ViewerActive,
		}
	})
}

func (service *TweetService) UpdateTweet(actorId int64, rawTweetId, content string) (*model.Tweet, error) {
	content, err := ValidateContent("tweet", content)
	if err != nil {
		return nil, err
	}
	return engage.Mutate(service.ctx, "tweet", rawTweetId, actorId, db.GetTweet,
		func(ctx context.Context, t *model.Tweet) (*model.Tweet, error) {
			if err := db.UpdateTweetContent(ctx, t, content); err != nil {
				return nil, errors.Wrap(err, "update tweet")
			}
			metrics.ObserveMutation("tweet", "update")
			return t, nil
		})
}

func (service *TweetService) DeleteTweet(actorId int64, rawTweetId string) (*engage.Deleted, error) {
	return engage.Mutate(service.ctx, "tweet", rawTweetId, actorId, db.GetTweet,
		func(ctx context.Context, t *model.Tweet) (*engage.Deleted, error) {
			if err := db.DeleteTweet(ctx, t.ID); err != nil {
				hlog.CtxErrorf(ctx, "Failed to delete tweet %d: %v", t.ID, err)
				return nil, err
			}
			metrics.ObserveMutation("tweet", "delete")
			publishContent(ctx, mq.ContentTweetDeleted, t.ID, actorId)
			return &engage.Deleted{ID: t.ID}, nil
		})
}
