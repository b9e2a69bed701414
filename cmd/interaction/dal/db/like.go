package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/database"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/utils"
)

// LikeStore keeps like records of every kind in one table, discriminated by
// the kind column.
type LikeStore struct{}

var _ engage.RelationStore = LikeStore{}

func (LikeStore) Find(ctx context.Context, key engage.Key) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND target_id = ? AND kind = ?", key.ActorID, key.TargetID, string(key.Kind)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count != 0, nil
}

func (LikeStore) Insert(ctx context.Context, key engage.Key) error {
	err := DB.WithContext(ctx).Create(&model.Like{
		ID:        utils.GenerateID(),
		UserId:    key.ActorID,
		TargetId:  key.TargetID,
		Kind:      string(key.Kind),
		CreatedAt: time.Now(),
	}).Error
	if database.IsDuplicate(err) {
		return errno.ConflictErr
	}
	return err
}

func (LikeStore) Delete(ctx context.Context, key engage.Key) (int64, error) {
	res := DB.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND kind = ?", key.ActorID, key.TargetID, string(key.Kind)).
		Delete(&model.Like{})
	return res.RowsAffected, res.Error
}

type likeCount struct {
	TargetId int64
	Total    int64
}

// GetLikeCounts 批量统计点赞数，没有点赞的目标不会出现在结果中
func GetLikeCounts(ctx context.Context, kind engage.Kind, targetIds []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(targetIds))
	if len(targetIds) == 0 {
		return out, nil
	}
	var rows []likeCount
	if err := DB.WithContext(ctx).Model(&model.Like{}).
		Select("target_id, COUNT(*) AS total").
		Where("kind = ? AND target_id IN ?", string(kind), targetIds).
		Group("target_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.TargetId] = r.Total
	}
	return out, nil
}

// GetViewerLikes 返回 viewer 点赞过的目标集合
func GetViewerLikes(ctx context.Context, kind engage.Kind, viewerId int64, targetIds []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(targetIds))
	if len(targetIds) == 0 {
		return out, nil
	}
	list := make([]int64, 0)
	if err := DB.WithContext(ctx).Model(&model.Like{}).
		Where("kind = ? AND user_id = ? AND target_id IN ?", string(kind), viewerId, targetIds).
		Pluck("target_id", &list).Error; err != nil {
		return nil, err
	}
	for _, id := range list {
		out[id] = true
	}
	return out, nil
}

func GetLikeCount(ctx context.Context, kind engage.Kind, targetId int64) (int64, error) {
	counts, err := GetLikeCounts(ctx, kind, []int64{targetId})
	if err != nil {
		return 0, err
	}
	return counts[targetId], nil
}

func IsLiked(ctx context.Context, kind engage.Kind, viewerId, targetId int64) (bool, error) {
	return LikeStore{}.Find(ctx, engage.Key{ActorID: viewerId, TargetID: targetId, Kind: kind})
}

func likedVideos(ctx context.Context, userId int64) *gorm.DB {
	return DB.WithContext(ctx).Table(model.Like{}.TableName()+" AS l").
		Joins("JOIN "+model.Video{}.TableName()+" AS v ON v.id = l.target_id").
		Where("l.user_id = ? AND l.kind = ?", userId, string(engage.KindVideoLike))
}

func GetLikedVideoCount(ctx context.Context, userId int64) (count int64, err error) {
	if err := likedVideos(ctx, userId).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetLikedVideosByPart 按点赞时间倒序获取用户点赞过的视频
func GetLikedVideosByPart(ctx context.Context, userId int64, offset, limit int) ([]*model.Video, error) {
	list := make([]*model.Video, 0, limit)
	if err := likedVideos(ctx, userId).
		Select("v.*").
		Order("l.created_at DESC").Order("l.id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// GetUserReceivedLikes 统计某个用户所有视频收到的点赞
func GetUserReceivedLikes(ctx context.Context, userId int64) (count int64, err error) {
	if err := DB.WithContext(ctx).Table(model.Like{}.TableName()+" AS l").
		Joins("JOIN "+model.Video{}.TableName()+" AS v ON v.id = l.target_id").
		Where("l.kind = ? AND v.user_id = ?", string(engage.KindVideoLike), userId).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
