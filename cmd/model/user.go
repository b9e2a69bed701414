package model

import (
	"time"

	"VidTube.com/pkg/constants"
)

// User is owned by the identity provider; this service only reads profiles
// and records watch history.
type User struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Username   string    `gorm:"type:varchar(64);uniqueIndex" json:"username"`
	FullName   string    `gorm:"type:varchar(128)" json:"fullName"`
	Email      string    `gorm:"type:varchar(128)" json:"email"`
	Avatar     string    `gorm:"type:varchar(512)" json:"avatar"`
	CoverImage string    `gorm:"type:varchar(512)" json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string { return constants.UserTableName }

type WatchHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	UserId    int64     `gorm:"uniqueIndex:idx_watch_user_video,priority:1;not null"`
	VideoId   int64     `gorm:"uniqueIndex:idx_watch_user_video,priority:2;index;not null"`
	CreatedAt time.Time
}

func (WatchHistory) TableName() string { return constants.WatchHistoryTableName }
