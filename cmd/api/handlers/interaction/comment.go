package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VidTube.com/cmd/api/handlers/pack"
	"VidTube.com/cmd/interaction/service"
	"VidTube.com/pkg/jwt"
)

func ListVideoComments(ctx context.Context, c *app.RequestContext) {
	var page pack.PageParam
	if err := c.BindAndValidate(&page); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	resp, err := service.NewCommentService(ctx).ListVideoComments(c.Param("videoId"), jwt.Viewer(c), page.ToPage())
	pack.SendResponse(ctx, c, err, resp, "Comments fetched successfully")
}

func AddComment(ctx context.Context, c *app.RequestContext) {
	var req ContentParam
	if err := c.BindAndValidate(&req); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewCommentService(ctx).AddComment(userId, c.Param("videoId"), req.Content)
	pack.SendResponse(ctx, c, err, resp, "Comment added successfully")
}

func UpdateComment(ctx context.Context, c *app.RequestContext) {
	var req ContentParam
	if err := c.BindAndValidate(&req); err != nil {
		pack.BindErr(ctx, c, err)
		return
	}
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewCommentService(ctx).UpdateComment(userId, c.Param("commentId"), req.Content)
	pack.SendResponse(ctx, c, err, resp, "Comment updated successfully")
}

func DeleteComment(ctx context.Context, c *app.RequestContext) {
	userId, _ := jwt.ViewerID(c)
	resp, err := service.NewCommentService(ctx).DeleteComment(userId, c.Param("commentId"))
	pack.SendResponse(ctx, c, err, resp, "Comment deleted successfully")
}
