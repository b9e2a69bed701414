package service

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	interactiondb "VidTube.com/cmd/interaction/dal/db"
	"VidTube.com/cmd/model"
	relationdb "VidTube.com/cmd/relation/dal/db"
	userdb "VidTube.com/cmd/user/dal/db"
	"VidTube.com/cmd/video/dal/db"
	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/metrics"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/oss"
	"VidTube.com/pkg/utils"
)

type VideoService struct {
	ctx context.Context
}

func NewVideoService(ctx context.Context) *VideoService {
	return &VideoService{ctx: ctx}
}

// VideoItem is a video decorated with its owner and like state.
type VideoItem struct {
	*model.Video
	Owner      *engage.Owner `json:"owner"`
	LikesCount int64         `json:"likesCount"`
	IsLiked    bool          `json:"isLiked"`
}

// Channel is a video owner seen by a viewer.
type Channel struct {
	*engage.Owner
	SubscribersCount int64 `json:"subscribersCount"`
	IsSubscribed     bool  `json:"isSubscribed"`
}

type VideoDetail struct {
	*model.Video
	Owner      *Channel `json:"owner"`
	LikesCount int64    `json:"likesCount"`
	IsLiked    bool     `json:"isLiked"`
}

type ListVideosRequest struct {
	Page     engage.Page
	Query    string
	SortBy   string
	SortType string
	UserId   string
}

// Upload is a media file already spooled to local disk.
type Upload struct {
	Path        string
	Filename    string
	ContentType string
}

type PublishVideoRequest struct {
	Title       string
	Description string
	VideoFile   *Upload
	Thumbnail   *Upload
}

type UpdateVideoRequest struct {
	Title       *string
	Description *string
	Thumbnail   *Upload
}

type PublishState struct {
	IsPublished bool `json:"isPublished"`
}

func videoLikeSource(q db.VideoQuery) engage.Source[*model.Video] {
	return engage.Source[*model.Video]{
		Count: func(ctx context.Context) (int64, error) {
			return db.GetVideoCount(ctx, q)
		},
		Fetch: func(ctx context.Context, offset, limit int) ([]*model.Video, error) {
			return db.GetVideosByPart(ctx, q, offset, limit)
		},
		OwnerID:  func(v *model.Video) int64 { return v.UserId },
		TargetID: func(v *model.Video) int64 { return v.ID },
		Owners:   userdb.GetProfiles,
		Relations: func(ctx context.Context, ids []int64) (map[int64]int64, error) {
			return interactiondb.GetLikeCounts(ctx, engage.KindVideoLike, ids)
		},
		ViewerRelations: func(ctx context.Context, viewerId int64, ids []int64) (map[int64]bool, error) {
			return interactiondb.GetViewerLikes(ctx, engage.KindVideoLike, viewerId, ids)
		},
	}
}

// ListVideos 获取已发布视频列表，支持关键字搜索、按用户过滤和排序
func (service *VideoService) ListVideos(req *ListVideosRequest, viewer *int64) (*engage.Paged[*VideoItem], error) {
	q := db.VideoQuery{
		Keyword:       req.Query,
		OnlyPublished: true,
		SortBy:        req.SortBy,
		SortType:      req.SortType,
	}
	if strings.TrimSpace(req.UserId) != "" {
		userId, err := utils.ParseID("user", req.UserId)
		if err != nil {
			return nil, err
		}
		q.UserId = userId
	}
	return engage.List(service.ctx, videoLikeSource(q), viewer, req.Page, func(v *model.Video, d engage.Decoration) *VideoItem {
		return &VideoItem{Video: v, Owner: d.Owner, LikesCount: d.RelationCount, IsLiked: d.ViewerActive}
	})
}

// PublishVideo 探测视频时长，上传视频与封面后写入数据库
func (service *VideoService) PublishVideo(actorId int64, req *PublishVideoRequest) (*model.Video, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, errno.InvalidArgumentErr.WithMessage("Title and description are required")
	}
	if req.VideoFile == nil {
		return nil, errno.InvalidArgumentErr.WithMessage("Video file is required")
	}
	if req.Thumbnail == nil {
		return nil, errno.InvalidArgumentErr.WithMessage("Thumbnail is required")
	}

	duration, err := probeDuration(req.VideoFile.Path)
	if err != nil {
		hlog.CtxErrorf(service.ctx, "Failed to probe video duration: %v", err)
		return nil, errno.InvalidArgumentErr.WithMessage("Video file could not be read")
	}

	video := &model.Video{
		ID:          utils.GenerateID(),
		UserId:      actorId,
		Title:       title,
		Description: description,
		Duration:    duration,
		IsPublished: true,
	}
	video.VideoKey = oss.ObjectKey("video", video.ID, "video", req.VideoFile.Filename)
	video.ThumbnailKey = oss.ObjectKey("picture", video.ID, "cover", req.Thumbnail.Filename)

	if video.VideoFile, err = media.Upload(service.ctx, constants.VideoBucket, video.VideoKey, req.VideoFile.Path, req.VideoFile.ContentType); err != nil {
		return nil, errors.Wrap(err, "upload video file")
	}
	if video.Thumbnail, err = media.Upload(service.ctx, constants.ThumbnailBucket, video.ThumbnailKey, req.Thumbnail.Path, req.Thumbnail.ContentType); err != nil {
		service.removeMedia(constants.VideoBucket, video.VideoKey)
		return nil, errors.Wrap(err, "upload thumbnail")
	}

	if err := db.InsertVideo(service.ctx, video); err != nil {
		service.removeMedia(constants.VideoBucket, video.VideoKey)
		service.removeMedia(constants.ThumbnailBucket, video.ThumbnailKey)
		return nil, errors.Wrap(err, "insert video")
	}
	metrics.ObserveMutation("video", "create")
	mq.EmitContent(service.ctx, mq.NewContentEvent(mq.ContentVideoCreated, video.ID, actorId))
	return video, nil
}

func (service *VideoService) removeMedia(bucket, key string) {
	if err := media.Remove(service.ctx, bucket, key); err != nil {
		hlog.CtxErrorf(service.ctx, "Failed to remove %s/%s: %v", bucket, key, err)
	}
}

// GetVideo 获取视频详情，播放量加一并写入观看历史。未发布的视频只有作者可见
func (service *VideoService) GetVideo(rawVideoId string, viewer *int64) (*VideoDetail, error) {
	videoId, err := utils.ParseID("video", rawVideoId)
	if err != nil {
		return nil, err
	}
	video, err := db.GetVideo(service.ctx, videoId)
	if err != nil {
		return nil, err
	}
	isOwner := viewer != nil && *viewer == video.UserId
	if !video.IsPublished && !isOwner {
		return nil, errno.EntityNotFound("video")
	}

	if err := db.IncrVideoViews(service.ctx, videoId); err != nil {
		return nil, errors.Wrap(err, "increment views")
	}
	video.Views++
	if viewer != nil {
		if err := userdb.AddWatchHistory(service.ctx, *viewer, videoId); err != nil {
			return nil, errors.Wrap(err, "add watch history")
		}
	}

	detail := &VideoDetail{Video: video}
	if detail.LikesCount, err = interactiondb.GetLikeCount(service.ctx, engage.KindVideoLike, videoId); err != nil {
		return nil, errors.Wrap(err, "count likes")
	}
	profile, err := userdb.GetProfile(service.ctx, video.UserId)
	if err != nil {
		return nil, errors.Wrap(err, "load owner")
	}
	if profile != nil {
		detail.Owner = &Channel{Owner: profile}
		if detail.Owner.SubscribersCount, err = relationdb.GetSubscriberCount(service.ctx, video.UserId); err != nil {
			return nil, errors.Wrap(err, "count subscribers")
		}
	}
	if viewer != nil {
		if detail.IsLiked, err = interactiondb.IsLiked(service.ctx, engage.KindVideoLike, *viewer, videoId); err != nil {
			return nil, errors.Wrap(err, "match viewer like")
		}
		if detail.Owner != nil {
			if detail.Owner.IsSubscribed, err = relationdb.IsSubscribed(service.ctx, *viewer, video.UserId); err != nil {
				return nil, errors.Wrap(err, "match viewer subscription")
			}
		}
	}
	return detail, nil
}

func (service *VideoService) UpdateVideo(actorId int64, rawVideoId string, req *UpdateVideoRequest) (*model.Video, error) {
	fields := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errno.InvalidArgumentErr.WithMessage("Title cannot be empty")
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if len(fields) == 0 && req.Thumbnail == nil {
		return nil, errno.InvalidArgumentErr.WithMessage("Nothing to update")
	}

	return engage.Mutate(service.ctx, "video", rawVideoId, actorId, db.GetVideo,
		func(ctx context.Context, v *model.Video) (*model.Video, error) {
			oldThumbnail, newThumbnail := v.ThumbnailKey, ""
			if req.Thumbnail != nil {
				key := oss.ObjectKey("picture", v.ID, "cover-"+utils.FormatID(utils.GenerateID()), req.Thumbnail.Filename)
				url, err := media.Upload(ctx, constants.ThumbnailBucket, key, req.Thumbnail.Path, req.Thumbnail.ContentType)
				if err != nil {
					return nil, errors.Wrap(err, "upload thumbnail")
				}
				fields["thumbnail"] = url
				fields["thumbnail_key"] = key
				newThumbnail = key
			}
			if err := db.UpdateVideo(ctx, v, fields); err != nil {
				if newThumbnail != "" {
					service.removeMedia(constants.ThumbnailBucket, newThumbnail)
				}
				return nil, errors.Wrap(err, "update video")
			}
			applyVideoFields(v, fields)
			if req.Thumbnail != nil && oldThumbnail != "" {
				service.removeMedia(constants.ThumbnailBucket, oldThumbnail)
			}
			metrics.ObserveMutation("video", "update")
			mq.EmitContent(ctx, mq.NewContentEvent(mq.ContentVideoUpdated, v.ID, actorId))
			return v, nil
		})
}

func applyVideoFields(v *model.Video, fields map[string]interface{}) {
	for k, val := range fields {
		s, _ := val.(string)
		switch k {
		case "title":
			v.Title = s
		case "description":
			v.Description = s
		case "thumbnail":
			v.Thumbnail = s
		case "thumbnail_key":
			v.ThumbnailKey = s
		}
	}
}

// DeleteVideo 删除视频及其关联数据，提交后再删除媒体文件
func (service *VideoService) DeleteVideo(actorId int64, rawVideoId string) (*engage.Deleted, error) {
	return engage.Mutate(service.ctx, "video", rawVideoId, actorId, db.GetVideo,
		func(ctx context.Context, v *model.Video) (*engage.Deleted, error) {
			if err := db.DeleteVideo(ctx, v.ID); err != nil {
				hlog.CtxErrorf(ctx, "Failed to delete video %d: %v", v.ID, err)
				return nil, err
			}
			service.removeMedia(constants.VideoBucket, v.VideoKey)
			service.removeMedia(constants.ThumbnailBucket, v.ThumbnailKey)
			metrics.ObserveMutation("video", "delete")
			mq.EmitContent(ctx, mq.NewContentEvent(mq.ContentVideoDeleted, v.ID, actorId))
			return &engage.Deleted{ID: v.ID}, nil
		})
}

func (service *VideoService) TogglePublish(actorId int64, rawVideoId string) (*PublishState, error) {
	return engage.Mutate(service.ctx, "video", rawVideoId, actorId, db.GetVideo,
		func(ctx context.Context, v *model.Video) (*PublishState, error) {
			if err := db.SetPublished(ctx, v, !v.IsPublished); err != nil {
				return nil, errors.Wrap(err, "toggle publish status")
			}
			mq.EmitContent(ctx, mq.NewContentEvent(mq.ContentVideoPublished, v.ID, actorId))
			return &PublishState{IsPublished: v.IsPublished}, nil
		})
}
