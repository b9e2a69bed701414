package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VidTube.com/cmd/api/handlers/pack"
	"VidTube.com/cmd/interaction/service"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/jwt"
)

func toggleMessage(target string, res *engage.ToggleResult) string {
	if res != nil && !res.IsActive {
		return target + " unliked successfully"
	}
	return target + " liked successfully"
}

func ToggleVideoLike(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewLikeService(ctx).ToggleVideoLike(userId, c.Param("videoId"))
	pack.SendResponse(ctx, c, err, resp, toggleMessage("Video", resp))
}

func ToggleCommentLike(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewLikeService(ctx).ToggleCommentLike(userId, c.Param("commentId"))
	pack.SendResponse(ctx, c, err, resp, toggleMessage("Comment", resp))
}

func ToggleTweetLike(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewLikeService(ctx).ToggleTweetLike(userId, c.Param("tweetId"))
	pack.SendResponse(ctx, c, err, resp, toggleMessage("Tweet", resp))
}

func LikedVideos(ctx context.Context, c *app.RequestContext) {
	var page pack.PageParam
	if err := c.BindAndValidate(&page); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewLikeService(ctx).LikedVideos(userId, page.ToPage())
	pack.SendResponse(ctx, c, err, resp, "Liked videos fetched successfully")
}
