package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VidTube.com/cmd/api/handlers/pack"
	"VidTube.com/cmd/interaction/service"
	"VidTube.com/pkg/jwt"
)

func CreateTweet(ctx context.Context, c *app.RequestContext) {
	var req ContentParam
	if err := c.BindAndValidate(&req); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewTweetService(ctx).CreateTweet(userId, req.Content)
	pack.SendResponse(ctx, c, err, resp, "Tweet created successfully")
}

func ListUserTweets(ctx context.Context, c *app.RequestContext) {
	var page pack.PageParam
	if err := c.BindAndValidate(&page); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	resp, err := service.NewTweetService(ctx).ListUserTweets(c.Param("userId"), jwt.Viewer(c), page.ToPage())
	pack.SendResponse(ctx, c, err, resp, "Tweets fetched successfully")
}

func UpdateTweet(ctx context.Context, c *app.RequestContext) {
	var req ContentParam
	if err := c.BindAndValidate(&req); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewTweetService(ctx).UpdateTweet(userId, c.Param("tweetId"), req.Content)
	pack.SendResponse(ctx, c, err, resp, "Tweet updated successfully")
}

func DeleteTweet(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewTweetService(ctx).DeleteTweet(userId, c.Param("tweetId"))
	pack.SendResponse(ctx, c, err, resp, "Tweet deleted successfully")
}
