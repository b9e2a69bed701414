package service

import (
	"context"

	"VidTube.com/pkg/cache"
	"VidTube.com/pkg/utils"
)

// MediaStore uploads local media files and removes stored objects.
type MediaStore interface {
	Upload(ctx context.Context, bucket, key, localPath, contentType string) (string, error)
	Remove(ctx context.Context, bucket, key string) error
}

// StatsCache caches dashboard statistics per channel.
type StatsCache interface {
	GetChannelStats(ctx context.Context, channelID int64) (*cache.ChannelStats, error)
	SetChannelStats(ctx context.Context, channelID int64, stats *cache.ChannelStats) error
	InvalidateChannelStats(ctx context.Context, channelID int64) error
}

var (
	media MediaStore
	stats StatsCache

	probeDuration = utils.ProbeDuration
)

// Init wires the media store and the stats cache. A nil cache disables
// dashboard caching.
func Init(m MediaStore, s StatsCache) {
	media = m
	stats = s
}
