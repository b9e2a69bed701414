package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VidTube.com/cmd/api/handlers/pack"
	"VidTube.com/cmd/video/service"
	"VidTube.com/pkg/jwt"
)

func ChannelStats(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewDashboardService(ctx).ChannelStats(userId)
	pack.SendResponse(ctx, c, err, resp, "Channel stats fetched successfully")
}

func ChannelVideos(ctx context.Context, c *app.RequestContext) {
	var page pack.PageParam
	if err := c.BindAndValidate(&page); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewDashboardService(ctx).ChannelVideos(userId, page.ToPage())
	pack.SendResponse(ctx, c, err, resp, "Channel videos fetched successfully")
}
