package router

import (
	"github.com/cloudwego/hertz/pkg/route"

	"VidTube.com/cmd/api/handlers/health"
	interaction "VidTube.com/cmd/api/handlers/interaction"
	relation "VidTube.com/cmd/api/handlers/relation"
	video "VidTube.com/cmd/api/handlers/video"
	"VidTube.com/cmd/api/router/authfunc"
	"VidTube.com/pkg/metrics"
)

// Register mounts the API under /api/v1 and the prometheus endpoint.
func Register(r *route.Engine) {
	r.GET("/metrics", metrics.Handler())

	v1 := r.Group("/api/v1")
	v1.GET("/healthcheck", health.Healthcheck)

	videos := v1.Group("/videos")
	videos.GET("", append(authfunc.OptionalAuth(), video.ListVideos)...)
	videos.POST("", append(authfunc.Write(), video.PublishVideo)...)
	videos.GET("/:videoId", append(authfunc.OptionalAuth(), video.GetVideo)...)
	videos.PATCH("/:videoId", append(authfunc.Write(), video.UpdateVideo)...)
	videos.DELETE("/:videoId", append(authfunc.Write(), video.DeleteVideo)...)
	videos.PATCH("/toggle/publish/:videoId", append(authfunc.Write(), video.TogglePublish)...)
	videos.GET("/:videoId/comments", append(authfunc.OptionalAuth(), interaction.ListVideoComments)...)
	videos.POST("/:videoId/comments", append(authfunc.Write(), interaction.AddComment)...)

	comments := v1.Group("/comments")
	comments.PATCH("/:commentId", append(authfunc.Write(), interaction.UpdateComment)...)
	comments.DELETE("/:commentId", append(authfunc.Write(), interaction.DeleteComment)...)

	likes := v1.Group("/likes")
	likes.POST("/video/:videoId", append(authfunc.Toggle(), interaction.ToggleVideoLike)...)
	likes.POST("/comment/:commentId", append(authfunc.Toggle(), interaction.ToggleCommentLike)...)
	likes.POST("/tweet/:tweetId", append(authfunc.Toggle(), interaction.ToggleTweetLike)...)
	likes.GET("/videos", append(authfunc.Auth(), interaction.LikedVideos)...)

	tweets := v1.Group("/tweets")
	tweets.POST("", append(authfunc.Write(), interaction.CreateTweet)...)
	tweets.GET("/user/:userId", append(authfunc.OptionalAuth(), interaction.ListUserTweets)...)
	tweets.PATCH("/:tweetId", append(authfunc.Write(), interaction.UpdateTweet)...)
	tweets.DELETE("/:tweetId", append(authfunc.Write(), interaction.DeleteTweet)...)

	subscriptions := v1.Group("/subscriptions")
	subscriptions.POST("/:channelId", append(authfunc.Toggle(), relation.ToggleSubscription)...)
	subscriptions.GET("/channel/:channelId", append(authfunc.OptionalAuth(), relation.ChannelSubscribers)...)
	subscriptions.GET("/user/:subscriberId", append(authfunc.OptionalAuth(), relation.SubscribedChannels)...)

	playlists := v1.Group("/playlists")
	playlists.POST("", append(authfunc.Write(), video.CreatePlaylist)...)
	playlists.GET("/user/:userId", append(authfunc.OptionalAuth(), video.UserPlaylists)...)
	playlists.GET("/:playlistId", append(authfunc.OptionalAuth(), video.GetPlaylist)...)
	playlists.PATCH("/:playlistId", append(authfunc.Write(), video.UpdatePlaylist)...)
	playlists.DELETE("/:playlistId", append(authfunc.Write(), video.DeletePlaylist)...)
	playlists.PATCH("/add/:videoId/:playlistId", append(authfunc.Write(), video.AddVideoToPlaylist)...)
	playlists.PATCH("/remove/:videoId/:playlistId", append(authfunc.Write(), video.RemoveVideoFromPlaylist)...)

	dashboard := v1.Group("/dashboard", authfunc.Auth()...)
	dashboard.GET("/stats", video.ChannelStats)
	dashboard.GET("/videos", video.ChannelVideos)
}
