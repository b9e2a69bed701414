package db

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
)

// sortColumns 允许排序的字段，避免把请求参数拼进 SQL
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

// VideoQuery filters a video listing. Zero values mean "no filter".
type VideoQuery struct {
	Keyword       string
	UserId        int64
	OnlyPublished bool
	SortBy        string
	SortType      string
}

func (q VideoQuery) scope(tx *gorm.DB) *gorm.DB {
	if q.OnlyPublished {
		tx = tx.Where("is_published = ?", true)
	}
	if q.UserId != 0 {
		tx = tx.Where("user_id = ?", q.UserId)
	}
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		like := "%" + kw + "%"
		tx = tx.Where("(title LIKE ? OR description LIKE ?)", like, like)
	}
	return tx
}

func (q VideoQuery) order(tx *gorm.DB) *gorm.DB {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(q.SortType, "asc") {
		dir = "ASC"
	}
	return tx.Order(col + " " + dir).Order("id " + dir)
}

func InsertVideo(ctx context.Context, video *model.Video) error {
	return DB.WithContext(ctx).Create(video).Error
}

func GetVideo(ctx context.Context, videoId int64) (*model.Video, error) {
	video := &model.Video{}
	err := DB.WithContext(ctx).Where("id = ?", videoId).First(video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.EntityNotFound("video")
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}

func IsVideoExist(ctx context.Context, videoId int64) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Video{}).Where("id = ?", videoId).Count(&count).Error; err != nil {
		return false, err
	}
	return count != 0, nil
}

func GetVideoCount(ctx context.Context, q VideoQuery) (count int64, err error) {
	if err := q.scope(DB.WithContext(ctx).Model(&model.Video{})).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func GetVideosByPart(ctx context.Context, q VideoQuery, offset, limit int) ([]*model.Video, error) {
	list := make([]*model.Video, 0, limit)
	tx := q.order(q.scope(DB.WithContext(ctx).Model(&model.Video{})))
	if err := tx.Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func GetVideosByIds(ctx context.Context, videoIds []int64) ([]*model.Video, error) {
	list := make([]*model.Video, 0, len(videoIds))
	if len(videoIds) == 0 {
		return list, nil
	}
	if err := DB.WithContext(ctx).Where("id IN ?", videoIds).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateVideo 只更新传入的字段
func UpdateVideo(ctx context.Context, video *model.Video, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return DB.WithContext(ctx).Model(video).Updates(fields).Error
}

func IncrVideoViews(ctx context.Context, videoId int64) error {
	return DB.WithContext(ctx).Model(&model.Video{}).Where("id = ?", videoId).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// SetPublished writes the flag explicitly; Updates with a struct would skip false.
func SetPublished(ctx context.Context, video *model.Video, published bool) error {
	if err := DB.WithContext(ctx).Model(video).Update("is_published", published).Error; err != nil {
		return err
	}
	video.IsPublished = published
	return nil
}

// DeleteVideo 删除视频及其所有关联数据: 点赞, 评论, 评论点赞, 播放列表成员, 观看历史
func DeleteVideo(ctx context.Context, videoId int64) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIds := make([]int64, 0)
		if err := tx.Model(&model.Comment{}).Where("video_id = ?", videoId).Pluck("id", &commentIds).Error; err != nil {
			return errors.Wrap(err, "list comments")
		}
		if len(commentIds) > 0 {
			if err := tx.Where("kind = ? AND target_id IN ?", string(engage.KindCommentLike), commentIds).
				Delete(&model.Like{}).Error; err != nil {
				return errors.Wrap(err, "delete comment likes")
			}
		}
		if err := tx.Where("video_id = ?", videoId).Delete(&model.Comment{}).Error; err != nil {
			return errors.Wrap(err, "delete comments")
		}
		if err := tx.Where("kind = ? AND target_id = ?", string(engage.KindVideoLike), videoId).
			Delete(&model.Like{}).Error; err != nil {
			return errors.Wrap(err, "delete video likes")
		}
		if err := tx.Where("video_id = ?", videoId).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return errors.Wrap(err, "delete playlist memberships")
		}
		if err := tx.Where("video_id = ?", videoId).Delete(&model.WatchHistory{}).Error; err != nil {
			return errors.Wrap(err, "delete watch history")
		}
		if err := tx.Where("id = ?", videoId).Delete(&model.Video{}).Error; err != nil {
			return errors.Wrap(err, "delete video")
		}
		return nil
	})
}

type channelStats struct {
	TotalVideos int64
	TotalViews  int64
}

// GetChannelVideoStats 统计频道的视频数与总播放量(包括未发布的视频)
func GetChannelVideoStats(ctx context.Context, userId int64) (totalVideos, totalViews int64, err error) {
	var row channelStats
	if err := DB.WithContext(ctx).Model(&model.Video{}).
		Select("COUNT(*) AS total_videos, COALESCE(SUM(views), 0) AS total_views").
		Where("user_id = ?", userId).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.TotalVideos, row.TotalViews, nil
}
