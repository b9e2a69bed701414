package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
)

func CreateTweet(ctx context.Context, tweet *model.Tweet) error {
	return DB.WithContext(ctx).Create(tweet).Error
}

func GetTweet(ctx context.Context, tweetId int64) (*model.Tweet, error) {
	tweet := &model.Tweet{}
	err := DB.WithContext(ctx).Where("id = ?", tweetId).First(tweet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.EntityNotFound("tweet")
	}
	if err != nil {
		return nil, err
	}
	return tweet, nil
}

func IsTweetExist(ctx context.Context, tweetId int64) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", tweetId).Count(&count).Error; err != nil {
		return false, err
	}
	return count != 0, nil
}

func UpdateTweetContent(ctx context.Context, tweet *model.Tweet, content string) error {
	if err := DB.WithContext(ctx).Model(tweet).Update("content", content).Error; err != nil {
		return err
	}
	tweet.Content = content
	return nil
}

func DeleteTweet(ctx context.Context, tweetId int64) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("kind = ? AND target_id = ?", string(engage.KindTweetLike), tweetId).
			Delete(&model.Like{}).Error; err != nil {
			return errors.Wrap(err, "delete tweet likes")
		}
		if err := tx.Where("id = ?", tweetId).Delete(&model.Tweet{}).Error; err != nil {
			return errors.Wrap(err, "delete tweet")
		}
		return nil
	})
}

func GetUserTweetCount(ctx context.Context, userId int64) (count int64, err error) {
	if err := DB.WithContext(ctx).Model(&model.Tweet{}).Where("user_id = ?", userId).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func GetUserTweetsByPart(ctx context.Context, userId int64, offset, limit int) ([]*model.Tweet, error) {
	list := make([]*model.Tweet, 0, limit)
	if err := DB.WithContext(ctx).Model(&model.Tweet{}).
		Where("user_id = ?", userId).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
