package model

// Tables lists every model in migration order.
func Tables() []interface{} {
	return []interface{}{
		&User{},
		&Video{},
		&Comment{},
		&Tweet{},
		&Like{},
		&Subscription{},
		&Playlist{},
		&PlaylistVideo{},
		&WatchHistory{},
	}
}
