package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"

	"VidTube.com/config"
	"VidTube.com/pkg/constants"
)

// ChannelStats 频道统计数据
type ChannelStats struct {
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalViews       int64 `json:"totalViews"`
	TotalVideos      int64 `json:"totalVideos"`
}

// 缓存键名常量
const (
	// 频道统计缓存键
	ChannelStatsKey = "channel:stats:%d"
)

// StatsCacheManager 频道统计缓存管理器
type StatsCacheManager struct {
	client *redis.Client
	expire time.Duration
}

func NewStatsCacheManager(client *redis.Client) *StatsCacheManager {
	return &StatsCacheManager{
		client: client,
		expire: constants.StatsCacheTTLSeconds * time.Second,
	}
}

// NewRedisClient 根据配置创建 redis 客户端并检查连通性
func NewRedisClient(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.ConfigInfo.Redis.Addr,
		Password: config.ConfigInfo.Redis.Password,
		DB:       config.ConfigInfo.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	hlog.Info("Connect Redis Success")
	return client, nil
}

// GetChannelStats 获取缓存的频道统计，未命中时返回 nil
func (m *StatsCacheManager) GetChannelStats(ctx context.Context, channelID int64) (*ChannelStats, error) {
	data, err := m.client.Get(ctx, fmt.Sprintf(ChannelStatsKey, channelID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel stats: %w", err)
	}
	stats := &ChannelStats{}
	if err := json.Unmarshal(data, stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel stats: %w", err)
	}
	return stats, nil
}

func (m *StatsCacheManager) SetChannelStats(ctx context.Context, channelID int64, stats *ChannelStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal channel stats: %w", err)
	}
	return m.client.Set(ctx, fmt.Sprintf(ChannelStatsKey, channelID), data, m.expire).Err()
}

func (m *StatsCacheManager) InvalidateChannelStats(ctx context.Context, channelID int64) error {
	return m.client.Del(ctx, fmt.Sprintf(ChannelStatsKey, channelID)).Err()
}
