package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"VidTube.com/cmd/interaction/dal/db"
	"VidTube.com/cmd/model"
	userdb "VidTube.com/cmd/user/dal/db"
	videodb "VidTube.com/cmd/video/dal/db"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/metrics"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/utils"
)

// MaxContentLength bounds comment and tweet text, in characters.
const MaxContentLength = 500

type CommentService struct {
	ctx context.Context
}

func NewCommentService(ctx context.Context) *CommentService {
	return &CommentService{ctx: ctx}
}

// CommentItem is a comment decorated for listing.
type CommentItem struct {
	ID         int64         `json:"id,string"`
	Content    string        `json:"content"`
	CreatedAt  time.Time     `json:"createdAt"`
	LikesCount int64         `json:"likesCount"`
	Owner      *engage.Owner `json:"owner"`
	IsLiked    bool          `json:"isLiked"`
}

// ValidateContent trims text and rejects empty or oversized bodies.
func ValidateContent(entity, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errno.InvalidArgumentErr.WithMessage("Content of the " + entity + " is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", errno.InvalidArgumentErr.WithMessage("Content of the " + entity + " is too long")
	}
	return content, nil
}

func publishContent(ctx context.Context, typ string, entityId, actorId int64) {
	mq.EmitContent(ctx, mq.NewContentEvent(typ, entityId, actorId))
}

func (service *CommentService) requireVideo(rawVideoId string) (int64, error) {
	videoId, err := utils.ParseID("video", rawVideoId)
	if err != nil {
		return 0, err
	}
	ok, err := videodb.IsVideoExist(service.ctx, videoId)
	if err != nil {
		return 0, errors.Wrap(err, "check video exists")
	}
	if !ok {
		return 0, errno.EntityNotFound("video")
	}
	return videoId, nil
}

// ListVideoComments 获取视频评论列表，按时间倒序，附带点赞数与当前用户的点赞状态
func (service *CommentService) ListVideoComments(rawVideoId string, viewer *int64, page engage.Page) (*engage.Paged[*CommentItem], error) {
	videoId, err := service.requireVideo(rawVideoId)
	if err != nil {
		return nil, err
	}
	src := engage.Source[*model.Comment]{
		Count: func(ctx context.Context) (int64, error) {
			return db.GetVideoCommentCount(ctx, videoId)
		},
		Fetch: func(ctx context.Context, offset, limit int) ([]*model.Comment, error) {
			return db.GetVideoCommentsByPart(ctx, videoId, offset, limit)
		},
		OwnerID:  func(c *model.Comment) int64 { return c.UserId },
		TargetID: func(c *model.Comment) int64 { return c.ID },
		Owners:   userdb.GetProfiles,
		Relations: func(ctx context.Context, ids []int64) (map[int64]int64, error) {
			return db.GetLikeCounts(ctx, engage.KindCommentLike, ids)
		},
		ViewerRelations: func(ctx context.Context, viewerId int64, ids []int64) (map[int64]bool, error) {
			return db.GetViewerLikes(ctx, engage.KindCommentLike, viewerId, ids)
		},
	}
	return engage.List(service.ctx, src, viewer, page, func(c *model.Comment, d engage.Decoration) *CommentItem {
		return &CommentItem{
			ID:         c.ID,
			Content:    c.Content,
			CreatedAt:  c.CreatedAt,
			LikesCount: d.RelationCount,
			Owner:      d.Owner,
			IsLiked:    d.ViewerActive,
		}
	})
}

func (service *CommentService) AddComment(actorId int64, rawVideoId, content string) (*model.Comment, error) {
	content, err := ValidateContent("comment", content)
	if err != nil {
		return nil, err
	}
	videoId, err := service.requireVideo(rawVideoId)
	if err != nil {
		return nil, err
	}
	comment := &model.Comment{
		ID:      utils.GenerateID(),
		UserId:  actorId,
		VideoId: videoId,
		Content: content,
	}
	if err := db.CreateComment(service.ctx, comment); err != nil {
		hlog.CtxErrorf(service.ctx, "Failed to create comment: %v", err)
		return nil, errors.Wrap(err, "create comment")
	}
	metrics.ObserveMutation("comment", "create")
	publishContent(service.ctx, mq.ContentCommentCreated, comment.ID, actorId)
	return comment, nil
}

func (service *CommentService) UpdateComment(actorId int64, rawCommentId, content string) (*model.Comment, error) {
	content, err := ValidateContent("comment", content)
	if err != nil {
		return nil, err
	}
	return engage.Mutate(service.ctx, "comment", rawCommentId, actorId, db.GetComment,
		func(ctx context.Context, c *model.Comment) (*model.Comment, error) {
			if err := db.UpdateCommentContent(ctx, c, content); err != nil {
				return nil, errors.Wrap(err, "update comment")
			}
			metrics.ObserveMutation("comment", "update")
			return c, nil
		})
}

// DeleteComment 删除评论，同时删除该评论的所有点赞
func (service *CommentService) DeleteComment(actorId int64, rawCommentId string) (*engage.Deleted, error) {
	return engage.Mutate(service.ctx, "comment", rawCommentId, actorId, db.GetComment,
		func(ctx context.Context, c *model.Comment) (*engage.Deleted, error) {
			if err := db.DeleteComment(ctx, c.ID); err != nil {
				hlog.CtxErrorf(ctx, "Failed to delete comment %d: %v", c.ID, err)
				return nil, err
			}
			metrics.ObserveMutation("comment", "delete")
			publishContent(ctx, mq.ContentCommentDeleted, c.ID, actorId)
			return &engage.Deleted{ID: c.ID}, nil
		})
}
