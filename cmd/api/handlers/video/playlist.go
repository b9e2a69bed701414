package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VidTube.com/cmd/api/handlers/pack"
	"VidTube.com/cmd/video/service"
	"VidTube.com/pkg/jwt"
)

func CreatePlaylist(ctx context.Context, c *app.RequestContext) {
	var param PlaylistParam
	if err := c.BindAndValidate(&param); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	var name, description string
	if param.Name != nil {
		name = *param.Name
	}
	if param.Description != nil {
		description = *param.Description
	}
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewPlaylistService(ctx).CreatePlaylist(userId, name, description)
	pack.SendResponse(ctx, c, err, resp, "Playlist created successfully")
}

func UserPlaylists(ctx context.Context, c *app.RequestContext) {
	var page pack.PageParam
	if err := c.BindAndValidate(&page); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	resp, err := service.NewPlaylistService(ctx).UserPlaylists(c.Param("userId"), jwt.Viewer(c), page.ToPage())
	pack.SendResponse(ctx, c, err, resp, "Playlists fetched successfully")
}

func GetPlaylist(ctx context.Context, c *app.RequestContext) {
	resp, err := service.NewPlaylistService(ctx).GetPlaylist(c.Param("playlistId"), jwt.Viewer(c))
	pack.SendResponse(ctx, c, err, resp, "Playlist fetched successfully")
}

func UpdatePlaylist(ctx context.Context, c *app.RequestContext) {
	var param PlaylistParam
	if err := c.BindAndValidate(&param); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewPlaylistService(ctx).UpdatePlaylist(userId, c.Param("playlistId"), &service.UpdatePlaylistRequest{
		Name:        param.Name,
		Description: param.Description,
	})
	pack.SendResponse(ctx, c, err, resp, "Playlist updated successfully")
}

func DeletePlaylist(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewPlaylistService(ctx).DeletePlaylist(userId, c.Param("playlistId"))
	pack.SendResponse(ctx, c, err, resp, "Playlist deleted successfully")
}

func AddVideoToPlaylist(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewPlaylistService(ctx).AddVideo(userId, c.Param("videoId"), c.Param("playlistId"))
	pack.SendResponse(ctx, c, err, resp, "Video added to playlist successfully")
}

func RemoveVideoFromPlaylist(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewPlaylistService(ctx).RemoveVideo(userId, c.Param("videoId"), c.Param("playlistId"))
	pack.SendResponse(ctx, c, err, resp, "Video removed from playlist successfully")
}
