package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VidTube.com/cmd/api/handlers/pack"
	"VidTube.com/cmd/relation/service"
	"VidTube.com/pkg/jwt"
)

func ToggleSubscription(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewSubscriptionService(ctx).ToggleSubscription(userId, c.Param("channelId"))
	message := "Subscribed successfully"
	if resp != nil && !resp.IsActive {
		message = "Unsubscribed successfully"
	}
	pack.SendResponse(ctx, c, err, resp, message)
}

func ChannelSubscribers(ctx context.Context, c *app.RequestContext) {
	var page pack.PageParam
	if err := c.BindAndValidate(&page); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	resp, err := service.NewSubscriptionService(ctx).ChannelSubscribers(c.Param("channelId"), jwt.Viewer(c), page.ToPage())
	pack.SendResponse(ctx, c, err, resp, "Subscribers fetched successfully")
}

func SubscribedChannels(ctx context.Context, c *app.RequestContext) {
	var page pack.PageParam
	if err := c.BindAndValidate(&page); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	resp, err := service.NewSubscriptionService(ctx).SubscribedChannels(c.Param("subscriberId"), jwt.Viewer(c), page.ToPage())
	pack.SendResponse(ctx, c, err, resp, "Subscribed channels fetched successfully")
}
