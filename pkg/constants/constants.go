package constants

const (
	UserTableName          = "users"
	VideoTableName         = "videos"
	CommentTableName       = "comments"
	TweetTableName         = "tweets"
	LikeTableName          = "likes"
	SubscriptionTableName  = "subscriptions"
	PlaylistTableName      = "playlists"
	PlaylistVideoTableName = "playlist_videos"
	WatchHistoryTableName  = "watch_histories"

	IdentityKey = "user_id"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	VideoBucket     = "video"
	ThumbnailBucket = "picture"

	StatsCacheTTLSeconds = 60

	// sentinel resource names
	WriteResource  = "vidtube_write"
	ToggleResource = "vidtube_toggle"
)
