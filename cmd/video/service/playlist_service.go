package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"VidTube.com/cmd/model"
	userdb "VidTube.com/cmd/user/dal/db"
	"VidTube.com/cmd/video/dal/db"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/metrics"
	"VidTube.com/pkg/utils"
)

type PlaylistService struct {
	ctx context.Context
}

func NewPlaylistService(ctx context.Context) *PlaylistService {
	return &PlaylistService{ctx: ctx}
}

// PlaylistItem is a playlist with its member totals.
type PlaylistItem struct {
	*model.Playlist
	Owner       *engage.Owner `json:"owner"`
	TotalVideos int64         `json:"totalVideos"`
	TotalViews  int64         `json:"totalViews"`
}

type PlaylistDetail struct {
	PlaylistItem
	Videos []*model.Video `json:"videos"`
}

type UpdatePlaylistRequest struct {
	Name        *string
	Description *string
}

func (service *PlaylistService) CreatePlaylist(actorId int64, name, description string) (*model.Playlist, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, errno.InvalidArgumentErr.WithMessage("Name and description for the playlist is required")
	}
	playlist := &model.Playlist{
		ID:          utils.GenerateID(),
		UserId:      actorId,
		Name:        name,
		Description: description,
	}
	if err := db.CreatePlaylist(service.ctx, playlist); err != nil {
		return nil, errors.Wrap(err, "create playlist")
	}
	metrics.ObserveMutation("playlist", "create")
	return playlist, nil
}

// UserPlaylists 获取用户的播放列表，附带视频数与总播放量
// 非本人查看时只统计已发布视频, 与 GetPlaylist 的可见范围一致
func (service *PlaylistService) UserPlaylists(rawUserId string, viewer *int64, page engage.Page) (*engage.Paged[*PlaylistItem], error) {
	userId, err := utils.ParseID("user", rawUserId)
	if err != nil {
		return nil, err
	}
	onlyPublished := viewer == nil || *viewer != userId
	src := engage.Source[*PlaylistItem]{
		Count: func(ctx context.Context) (int64, error) {
			return db.GetUserPlaylistCount(ctx, userId)
		},
		Fetch: func(ctx context.Context, offset, limit int) ([]*PlaylistItem, error) {
			playlists, err := db.GetUserPlaylistsByPart(ctx, userId, offset, limit)
			if err != nil {
				return nil, err
			}
			totals, err := db.GetPlaylistTotals(ctx, lo.Map(playlists, func(p *model.Playlist, _ int) int64 { return p.ID }), onlyPublished)
			if err != nil {
				return nil, errors.Wrap(err, "sum playlist totals")
			}
			return lo.Map(playlists, func(p *model.Playlist, _ int) *PlaylistItem {
				return &PlaylistItem{Playlist: p, TotalVideos: totals[p.ID].TotalVideos, TotalViews: totals[p.ID].TotalViews}
			}), nil
		},
		OwnerID:  func(p *PlaylistItem) int64 { return p.UserId },
		TargetID: func(p *PlaylistItem) int64 { return p.ID },
		Owners:   userdb.GetProfiles,
	}
	return engage.List(service.ctx, src, nil, page, func(p *PlaylistItem, d engage.Decoration) *PlaylistItem {
		p.Owner = d.Owner
		return p
	})
}

// detail builds the playlist view. Unpublished members are only listed for
// the playlist owner.
func (service *PlaylistService) detail(ctx context.Context, p *model.Playlist, viewer *int64) (*PlaylistDetail, error) {
	videos, err := db.GetPlaylistVideos(ctx, p.ID)
	if err != nil {
		return nil, errors.Wrap(err, "load playlist videos")
	}
	if viewer == nil || *viewer != p.UserId {
		videos = lo.Filter(videos, func(v *model.Video, _ int) bool { return v.IsPublished })
	}
	owner, err := userdb.GetProfile(ctx, p.UserId)
	if err != nil {
		return nil, errors.Wrap(err, "load owner")
	}
	out := &PlaylistDetail{
		PlaylistItem: PlaylistItem{Playlist: p, Owner: owner, TotalVideos: int64(len(videos))},
		Videos:       videos,
	}
	out.TotalViews = lo.SumBy(videos, func(v *model.Video) int64 { return v.Views })
	return out, nil
}

func (service *PlaylistService) GetPlaylist(rawPlaylistId string, viewer *int64) (*PlaylistDetail, error) {
	playlistId, err := utils.ParseID("playlist", rawPlaylistId)
	if err != nil {
		return nil, err
	}
	p, err := db.GetPlaylist(service.ctx, playlistId)
	if err != nil {
		return nil, err
	}
	return service.detail(service.ctx, p, viewer)
}

func (service *PlaylistService) UpdatePlaylist(actorId int64, rawPlaylistId string, req *UpdatePlaylistRequest) (*model.Playlist, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errno.InvalidArgumentErr.WithMessage("Playlist name cannot be empty")
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if len(fields) == 0 {
		return nil, errno.InvalidArgumentErr.WithMessage("Name or description is required")
	}
	return engage.Mutate(service.ctx, "playlist", rawPlaylistId, actorId, db.GetPlaylist,
		func(ctx context.Context, p *model.Playlist) (*model.Playlist, error) {
			if err := db.UpdatePlaylist(ctx, p, fields); err != nil {
				return nil, errors.Wrap(err, "update playlist")
			}
			if v, ok := fields["name"].(string); ok {
				p.Name = v
			}
			if v, ok := fields["description"].(string); ok {
				p.Description = v
			}
			metrics.ObserveMutation("playlist", "update")
			return p, nil
		})
}

func (service *PlaylistService) DeletePlaylist(actorId int64, rawPlaylistId string) (*engage.Deleted, error) {
	return engage.Mutate(service.ctx, "playlist", rawPlaylistId, actorId, db.GetPlaylist,
		func(ctx context.Context, p *model.Playlist) (*engage.Deleted, error) {
			if err := db.DeletePlaylist(ctx, p.ID); err != nil {
				return nil, err
			}
			metrics.ObserveMutation("playlist", "delete")
			return &engage.Deleted{ID: p.ID}, nil
		})
}

// AddVideo 将视频加入播放列表，重复加入不会产生重复成员
func (service *PlaylistService) AddVideo(actorId int64, rawVideoId, rawPlaylistId string) (*PlaylistDetail, error) {
	videoId, err := utils.ParseID("video", rawVideoId)
	if err != nil {
		return nil, err
	}
	return engage.Mutate(service.ctx, "playlist", rawPlaylistId, actorId, db.GetPlaylist,
		func(ctx context.Context, p *model.Playlist) (*PlaylistDetail, error) {
			ok, err := db.IsVideoExist(ctx, videoId)
			if err != nil {
				return nil, errors.Wrap(err, "check video exists")
			}
			if !ok {
				return nil, errno.EntityNotFound("video")
			}
			if err := db.AddVideoToPlaylist(ctx, p.ID, videoId); err != nil {
				return nil, errors.Wrap(err, "add video to playlist")
			}
			return service.detail(ctx, p, &actorId)
		})
}

func (service *PlaylistService) RemoveVideo(actorId int64, rawVideoId, rawPlaylistId string) (*PlaylistDetail, error) {
	videoId, err := utils.ParseID("video", rawVideoId)
	if err != nil {
		return nil, err
	}
	return engage.Mutate(service.ctx, "playlist", rawPlaylistId, actorId, db.GetPlaylist,
		func(ctx context.Context, p *model.Playlist) (*PlaylistDetail, error) {
			removed, err := db.RemoveVideoFromPlaylist(ctx, p.ID, videoId)
			if err != nil {
				return nil, errors.Wrap(err, "remove video from playlist")
			}
			if removed == 0 {
				return nil, errno.NotFoundErr.WithMessage("Video is not in the playlist")
			}
			return service.detail(ctx, p, &actorId)
		})
}
