package db

import (
	"context"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/utils"
)

func CreateUser(ctx context.Context, user *model.User) error {
	return DB.WithContext(ctx).Create(user).Error
}

func IsUserExist(ctx context.Context, userId int64) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).Count(&count).Error; err != nil {
		return false, err
	}
	return count != 0, nil
}

// GetProfiles 批量获取用户公开资料，不存在的用户不会出现在结果中
func GetProfiles(ctx context.Context, userIds []int64) (map[int64]*engage.Owner, error) {
	out := make(map[int64]*engage.Owner, len(userIds))
	if len(userIds) == 0 {
		return out, nil
	}
	var users []model.User
	if err := DB.WithContext(ctx).Model(&model.User{}).
		Select("id", "username", "full_name", "avatar").
		Where("id IN ?", lo.Uniq(userIds)).
		Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = &engage.Owner{
			ID:       u.ID,
			Username: u.Username,
			FullName: u.FullName,
			Avatar:   u.Avatar,
		}
	}
	return out, nil
}

func GetProfile(ctx context.Context, userId int64) (*engage.Owner, error) {
	profiles, err := GetProfiles(ctx, []int64{userId})
	if err != nil {
		return nil, err
	}
	return profiles[userId], nil
}

// AddWatchHistory 记录观看历史，同一视频只保留一条
func AddWatchHistory(ctx context.Context, userId, videoId int64) error {
	return DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model.WatchHistory{
		ID:        utils.GenerateID(),
		UserId:    userId,
		VideoId:   videoId,
		CreatedAt: time.Now(),
	}).Error
}

func GetWatchHistory(ctx context.Context, userId int64) ([]int64, error) {
	list := make([]int64, 0)
	if err := DB.WithContext(ctx).Model(&model.WatchHistory{}).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Pluck("video_id", &list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
