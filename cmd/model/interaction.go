package model

import (
	"time"

	"VidTube.com/pkg/constants"
)

type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserId    int64     `gorm:"index;not null" json:"owner,string"`
	VideoId   int64     `gorm:"index:idx_comment_video_created,priority:1;not null" json:"video,string"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_comment_video_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Comment) TableName() string { return constants.CommentTableName }

func (c *Comment) OwnerID() int64 { return c.UserId }

type Tweet struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserId    int64     `gorm:"index:idx_tweet_user_created,priority:1;not null" json:"owner,string"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_tweet_user_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Tweet) TableName() string { return constants.TweetTableName }

func (t *Tweet) OwnerID() int64 { return t.UserId }

// Like is a relationship record: UserId liked the Kind target TargetId.
// idx_like_unique is what makes a like toggle safe under concurrency.
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserId    int64     `gorm:"uniqueIndex:idx_like_unique,priority:1;not null" json:"likedBy,string"`
	TargetId  int64     `gorm:"uniqueIndex:idx_like_unique,priority:2;index:idx_like_target,priority:2;not null" json:"target,string"`
	Kind      string    `gorm:"type:varchar(16);uniqueIndex:idx_like_unique,priority:3;index:idx_like_target,priority:1;not null" json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string { return constants.LikeTableName }
