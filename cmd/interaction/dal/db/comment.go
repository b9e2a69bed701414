package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
)

func CreateComment(ctx context.Context, comment *model.Comment) error {
	return DB.WithContext(ctx).Create(comment).Error
}

// GetComment 获取某一条评论的全部信息
func GetComment(ctx context.Context, commentId int64) (*model.Comment, error) {
	comment := &model.Comment{}
	err := DB.WithContext(ctx).Where("id = ?", commentId).First(comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.EntityNotFound("comment")
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func IsCommentExist(ctx context.Context, commentId int64) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", commentId).Count(&count).Error; err != nil {
		return false, err
	}
	return count != 0, nil
}

func UpdateCommentContent(ctx context.Context, comment *model.Comment, content string) error {
	if err := DB.WithContext(ctx).Model(comment).Update("content", content).Error; err != nil {
		return err
	}
	comment.Content = content
	return nil
}

// DeleteComment 删除评论以及评论上的所有点赞
func DeleteComment(ctx context.Context, commentId int64) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("kind = ? AND target_id = ?", string(engage.KindCommentLike), commentId).
			Delete(&model.Like{}).Error; err != nil {
			return errors.Wrap(err, "delete comment likes")
		}
		if err := tx.Where("id = ?", commentId).Delete(&model.Comment{}).Error; err != nil {
			return errors.Wrap(err, "delete comment")
		}
		return nil
	})
}

func GetVideoCommentCount(ctx context.Context, videoId int64) (count int64, err error) {
	if err := DB.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoId).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetVideoCommentsByPart 按时间倒序分页获取视频评论
func GetVideoCommentsByPart(ctx context.Context, videoId int64, offset, limit int) ([]*model.Comment, error) {
	list := make([]*model.Comment, 0, limit)
	if err := DB.WithContext(ctx).Model(&model.Comment{}).
		Where("video_id = ?", videoId).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
