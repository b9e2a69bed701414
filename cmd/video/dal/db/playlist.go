package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/utils"
)

func CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	return DB.WithContext(ctx).Create(playlist).Error
}

func GetPlaylist(ctx context.Context, playlistId int64) (*model.Playlist, error) {
	playlist := &model.Playlist{}
	err := DB.WithContext(ctx).Where("id = ?", playlistId).First(playlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.EntityNotFound("playlist")
	}
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

func UpdatePlaylist(ctx context.Context, playlist *model.Playlist, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return DB.WithContext(ctx).Model(playlist).Updates(fields).Error
}

func DeletePlaylist(ctx context.Context, playlistId int64) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlistId).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return errors.Wrap(err, "delete playlist memberships")
		}
		if err := tx.Where("id = ?", playlistId).Delete(&model.Playlist{}).Error; err != nil {
			return errors.Wrap(err, "delete playlist")
		}
		return nil
	})
}

// AddVideoToPlaylist 重复添加不会产生重复记录
func AddVideoToPlaylist(ctx context.Context, playlistId, videoId int64) error {
	return DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model.PlaylistVideo{
		ID:         utils.GenerateID(),
		PlaylistId: playlistId,
		VideoId:    videoId,
		CreatedAt:  time.Now(),
	}).Error
}

func RemoveVideoFromPlaylist(ctx context.Context, playlistId, videoId int64) (int64, error) {
	res := DB.WithContext(ctx).Where("playlist_id = ? AND video_id = ?", playlistId, videoId).Delete(&model.PlaylistVideo{})
	return res.RowsAffected, res.Error
}

// GetPlaylistVideos 按加入顺序返回播放列表中的视频
func GetPlaylistVideos(ctx context.Context, playlistId int64) ([]*model.Video, error) {
	list := make([]*model.Video, 0)
	if err := DB.WithContext(ctx).Table(model.Video{}.TableName()+" AS v").
		Select("v.*").
		Joins("JOIN "+model.PlaylistVideo{}.TableName()+" AS pv ON pv.video_id = v.id").
		Where("pv.playlist_id = ?", playlistId).
		Order("pv.created_at ASC").Order("pv.id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func GetUserPlaylistCount(ctx context.Context, userId int64) (count int64, err error) {
	if err := DB.WithContext(ctx).Model(&model.Playlist{}).Where("user_id = ?", userId).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func GetUserPlaylistsByPart(ctx context.Context, userId int64, offset, limit int) ([]*model.Playlist, error) {
	list := make([]*model.Playlist, 0, limit)
	if err := DB.WithContext(ctx).Model(&model.Playlist{}).
		Where("user_id = ?", userId).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

type PlaylistTotals struct {
	PlaylistId  int64
	TotalVideos int64
	TotalViews  int64
}

// GetPlaylistTotals 批量统计播放列表的视频数和总播放量, onlyPublished 时跳过未发布视频
func GetPlaylistTotals(ctx context.Context, playlistIds []int64, onlyPublished bool) (map[int64]PlaylistTotals, error) {
	out := make(map[int64]PlaylistTotals, len(playlistIds))
	if len(playlistIds) == 0 {
		return out, nil
	}
	var rows []PlaylistTotals
	query := DB.WithContext(ctx).Table(model.PlaylistVideo{}.TableName()+" AS pv").
		Select("pv.playlist_id, COUNT(*) AS total_videos, COALESCE(SUM(v.views), 0) AS total_views").
		Joins("JOIN "+model.Video{}.TableName()+" AS v ON v.id = pv.video_id").
		Where("pv.playlist_id IN ?", playlistIds)
	if onlyPublished {
		query = query.Where("v.is_published = ?", true)
	}
	if err := query.Group("pv.playlist_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.PlaylistId] = r
	}
	return out, nil
}
