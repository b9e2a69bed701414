package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	interactiondb "VidTube.com/cmd/interaction/dal/db"
	"VidTube.com/cmd/model"
	relationdb "VidTube.com/cmd/relation/dal/db"
	"VidTube.com/cmd/video/dal/db"
	"VidTube.com/pkg/cache"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/mq"
)

type DashboardService struct {
	ctx context.Context
}

func NewDashboardService(ctx context.Context) *DashboardService {
	return &DashboardService{ctx: ctx}
}

type DashboardVideo struct {
	*model.Video
	LikesCount int64 `json:"likesCount"`
}

// ChannelStats 频道统计: 订阅数, 视频获赞数, 总播放量, 视频数。结果缓存一分钟
func (service *DashboardService) ChannelStats(channelId int64) (*cache.ChannelStats, error) {
	if stats != nil {
		cached, err := stats.GetChannelStats(service.ctx, channelId)
		if err != nil {
			hlog.CtxWarnf(service.ctx, "Failed to read stats cache: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	out := &cache.ChannelStats{}
	var err error
	if out.TotalSubscribers, err = relationdb.GetSubscriberCount(service.ctx, channelId); err != nil {
		return nil, errors.Wrap(err, "count subscribers")
	}
	if out.TotalLikes, err = interactiondb.GetUserReceivedLikes(service.ctx, channelId); err != nil {
		return nil, errors.Wrap(err, "count likes")
	}
	if out.TotalVideos, out.TotalViews, err = db.GetChannelVideoStats(service.ctx, channelId); err != nil {
		return nil, errors.Wrap(err, "sum video stats")
	}

	if stats != nil {
		if err := stats.SetChannelStats(service.ctx, channelId, out); err != nil {
			hlog.CtxWarnf(service.ctx, "Failed to write stats cache: %v", err)
		}
	}
	return out, nil
}

// ChannelVideos 获取频道的全部视频(包括未发布)，按时间倒序
func (service *DashboardService) ChannelVideos(channelId int64, page engage.Page) (*engage.Paged[*DashboardVideo], error) {
	q := db.VideoQuery{UserId: channelId}
	src := engage.Source[*model.Video]{
		Count: func(ctx context.Context) (int64, error) {
			return db.GetVideoCount(ctx, q)
		},
		Fetch: func(ctx context.Context, offset, limit int) ([]*model.Video, error) {
			return db.GetVideosByPart(ctx, q, offset, limit)
		},
		TargetID: func(v *model.Video) int64 { return v.ID },
		Relations: func(ctx context.Context, ids []int64) (map[int64]int64, error) {
			return interactiondb.GetLikeCounts(ctx, engage.KindVideoLike, ids)
		},
	}
	return engage.List(service.ctx, src, nil, page, func(v *model.Video, d engage.Decoration) *DashboardVideo {
		return &DashboardVideo{Video: v, LikesCount: d.RelationCount}
	})
}

// StatsInvalidator drops cached channel stats when a channel's numbers move.
type StatsInvalidator struct{}

// View counts are left to the cache TTL.
func (StatsInvalidator) HandleRelationEvent(ctx context.Context, event *mq.RelationEvent) error {
	if stats == nil {
		return nil
	}
	switch event.Kind {
	case string(engage.KindSubscription):
		return stats.InvalidateChannelStats(ctx, event.TargetID)
	case string(engage.KindVideoLike):
		v, err := db.GetVideo(ctx, event.TargetID)
		if errors.Is(err, errno.NotFoundErr) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "load liked video")
		}
		return stats.InvalidateChannelStats(ctx, v.UserId)
	}
	return nil
}

func (StatsInvalidator) HandleContentEvent(ctx context.Context, event *mq.ContentEvent) error {
	if stats == nil {
		return nil
	}
	switch event.Type {
	case mq.ContentVideoCreated, mq.ContentVideoDeleted:
		return stats.InvalidateChannelStats(ctx, event.ActorID)
	}
	return nil
}

var (
	_ mq.RelationEventHandler = StatsInvalidator{}
	_ mq.ContentEventHandler  = StatsInvalidator{}
)
