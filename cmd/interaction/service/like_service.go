package service

import (
	"context"

	"github.com/pkg/errors"

	"VidTube.com/cmd/interaction/dal/db"
	"VidTube.com/cmd/model"
	userdb "VidTube.com/cmd/user/dal/db"
	videodb "VidTube.com/cmd/video/dal/db"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/metrics"
	"VidTube.com/pkg/mq"
)

// LikeService 点赞服务: 视频、评论、动态的点赞切换以及点赞视频列表
type LikeService struct {
	ctx context.Context
}

func NewLikeService(ctx context.Context) *LikeService {
	return &LikeService{ctx: ctx}
}

// LikedVideo is one entry of the caller's liked-videos listing. Owner
// replaces the bare owner id of the embedded video.
type LikedVideo struct {
	*model.Video
	Owner *engage.Owner `json:"owner"`
}

func recordToggle(ctx context.Context, key engage.Key, active bool) {
	metrics.ObserveToggle(string(key.Kind), active)
	mq.EmitRelation(ctx, mq.NewRelationEvent(string(key.Kind), key.ActorID, key.TargetID, active))
}

func likeToggler(kind engage.Kind, exists func(context.Context, int64) (bool, error)) *engage.Toggler {
	return &engage.Toggler{
		Store:        db.LikeStore{},
		Kind:         kind,
		TargetExists: exists,
		OnToggle:     recordToggle,
	}
}

func (service *LikeService) ToggleVideoLike(actorId int64, videoId string) (*engage.ToggleResult, error) {
	return likeToggler(engage.KindVideoLike, videodb.IsVideoExist).Toggle(service.ctx, actorId, videoId)
}

func (service *LikeService) ToggleCommentLike(actorId int64, commentId string) (*engage.ToggleResult, error) {
	return likeToggler(engage.KindCommentLike, db.IsCommentExist).Toggle(service.ctx, actorId, commentId)
}

func (service *LikeService) ToggleTweetLike(actorId int64, tweetId string) (*engage.ToggleResult, error) {
	return likeToggler(engage.KindTweetLike, db.IsTweetExist).Toggle(service.ctx, actorId, tweetId)
}

// LikedVideos 获取用户点赞过的视频，最近点赞的在前
func (service *LikeService) LikedVideos(userId int64, page engage.Page) (*engage.Paged[*LikedVideo], error) {
	src := engage.Source[*model.Video]{
		Count: func(ctx context.Context) (int64, error) {
			return db.GetLikedVideoCount(ctx, userId)
		},
		Fetch: func(ctx context.Context, offset, limit int) ([]*model.Video, error) {
			return db.GetLikedVideosByPart(ctx, userId, offset, limit)
		},
		OwnerID:  func(v *model.Video) int64 { return v.UserId },
		TargetID: func(v *model.Video) int64 { return v.ID },
		Owners:   userdb.GetProfiles,
	}
	res, err := engage.List(service.ctx, src, nil, page, func(v *model.Video, d engage.Decoration) *LikedVideo {
		return &LikedVideo{Video: v, Owner: d.Owner}
	})
	if err != nil {
		return nil, errors.WithMessage(err, "list liked videos")
	}
	return res, nil
}
