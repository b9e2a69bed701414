package db

import (
	"context"
	"time"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/database"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/utils"
)

// SubscriptionStore 订阅关系: ActorID 为订阅者, TargetID 为频道
type SubscriptionStore struct{}

var _ engage.RelationStore = SubscriptionStore{}

func (SubscriptionStore) Find(ctx context.Context, key engage.Key) (bool, error) {
	return IsSubscribed(ctx, key.ActorID, key.TargetID)
}

func (SubscriptionStore) Insert(ctx context.Context, key engage.Key) error {
	err := DB.WithContext(ctx).Create(&model.Subscription{
		ID:           utils.GenerateID(),
		SubscriberId: key.ActorID,
		ChannelId:    key.TargetID,
		CreatedAt:    time.Now(),
	}).Error
	if database.IsDuplicate(err) {
		return errno.ConflictErr
	}
	return err
}

func (SubscriptionStore) Delete(ctx context.Context, key engage.Key) (int64, error) {
	res := DB.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", key.ActorID, key.TargetID).
		Delete(&model.Subscription{})
	return res.RowsAffected, res.Error
}

func IsSubscribed(ctx context.Context, subscriberId, channelId int64) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberId, channelId).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetSubscriberCount 频道的订阅者数量
func GetSubscriberCount(ctx context.Context, channelId int64) (count int64, err error) {
	if err := DB.WithContext(ctx).Model(&model.Subscription{}).Where("channel_id = ?", channelId).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetSubscribedCount 用户订阅的频道数量
func GetSubscribedCount(ctx context.Context, subscriberId int64) (count int64, err error) {
	if err := DB.WithContext(ctx).Model(&model.Subscription{}).Where("subscriber_id = ?", subscriberId).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func GetSubscribersByPart(ctx context.Context, channelId int64, offset, limit int) ([]*model.Subscription, error) {
	list := make([]*model.Subscription, 0, limit)
	if err := DB.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelId).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func GetSubscribedChannelsByPart(ctx context.Context, subscriberId int64, offset, limit int) ([]*model.Subscription, error) {
	list := make([]*model.Subscription, 0, limit)
	if err := DB.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberId).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

type subscriberCount struct {
	ChannelId int64
	Total     int64
}

// GetSubscriberCounts 批量统计频道订阅数
func GetSubscriberCounts(ctx context.Context, channelIds []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(channelIds))
	if len(channelIds) == 0 {
		return out, nil
	}
	var rows []subscriberCount
	if err := DB.WithContext(ctx).Model(&model.Subscription{}).
		Select("channel_id, COUNT(*) AS total").
		Where("channel_id IN ?", channelIds).
		Group("channel_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ChannelId] = r.Total
	}
	return out, nil
}

// GetViewerSubscriptions 返回 viewer 订阅了其中哪些频道
func GetViewerSubscriptions(ctx context.Context, viewerId int64, channelIds []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(channelIds))
	if len(channelIds) == 0 {
		return out, nil
	}
	list := make([]int64, 0)
	if err := DB.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id IN ?", viewerId, channelIds).
		Pluck("channel_id", &list).Error; err != nil {
		return nil, err
	}
	for _, id := range list {
		out[id] = true
	}
	return out, nil
}
