package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"VidTube.com/cmd/api/handlers/pack"
	"VidTube.com/cmd/video/service"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/jwt"
)

func ListVideos(ctx context.Context, c *app.RequestContext) {
	var param ListVideosParam
	if err := c.BindAndValidate(&param); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	resp, err := service.NewVideoService(ctx).ListVideos(&service.ListVideosRequest{
		Page:     engage.NewPage(param.PageNum, param.PageSize),
		Query:    param.Query,
		SortBy:   param.SortBy,
		SortType: param.SortType,
		UserId:   param.UserId,
	}, jwt.Viewer(c))
	pack.SendResponse(ctx, c, err, resp, "Videos fetched successfully")
}

// PublishVideo 接收multipart上传: videoFile, thumbnail, title, description
func PublishVideo(ctx context.Context, c *app.RequestContext) {
	if !isMultipart(c) {
		pack.BindErr(ctx, c, errors.New("Video upload must be multipart/form-data"))
		return
	}
	dir, cleanup, err := spoolDir()
	if err != nil {
		pack.SendResponse(ctx, c, errors.Wrap(err, "create upload dir"), nil, "")
		return
	}
	defer cleanup()

	req := &service.PublishVideoRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	if req.VideoFile, err = spool(c, dir, "videoFile"); err != nil {
		hlog.CtxErrorf(ctx, "Failed to save video file: %v", err)
		pack.BindErr(ctx, c, err)
		return
	}
	if req.Thumbnail, err = spool(c, dir, "thumbnail"); err != nil {
		hlog.CtxErrorf(ctx, "Failed to save thumbnail: %v", err)
		pack.BindErr(ctx, c, err)
		return
	}
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewVideoService(ctx).PublishVideo(userId, req)
	pack.SendResponse(ctx, c, err, resp, "Video published successfully")
}

func GetVideo(ctx context.Context, c *app.RequestContext) {
	resp, err := service.NewVideoService(ctx).GetVideo(c.Param("videoId"), jwt.Viewer(c))
	pack.SendResponse(ctx, c, err, resp, "Video fetched successfully")
}

func UpdateVideo(ctx context.Context, c *app.RequestContext) {
	var param VideoFieldsParam
	if err := c.BindAndValidate(&param); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	req := &service.UpdateVideoRequest{Title: param.Title, Description: param.Description}
	if isMultipart(c) {
		dir, cleanup, err := spoolDir()
		if err != nil {
			pack.SendResponse(ctx, c, errors.Wrap(err, "create upload dir"), nil, "")
			return
		}
		defer cleanup()
		if req.Thumbnail, err = spool(c, dir, "thumbnail"); err != nil {
			pack.BindErr(ctx, c, err)
			return
		}
	}
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewVideoService(ctx).UpdateVideo(userId, c.Param("videoId"), req)
	pack.SendResponse(ctx, c, err, resp, "Video updated successfully")
}

func DeleteVideo(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewVideoService(ctx).DeleteVideo(userId, c.Param("videoId"))
	pack.SendResponse(ctx, c, err, resp, "Video deleted successfully")
}

func TogglePublish(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewVideoService(ctx).TogglePublish(userId, c.Param("videoId"))
	pack.SendResponse(ctx, c, err, resp, "Publish status toggled successfully")
}
