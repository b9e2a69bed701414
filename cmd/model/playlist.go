package model

import (
	"time"

	"VidTube.com/pkg/constants"
)

type Playlist struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserId      int64     `gorm:"index;not null" json:"owner,string"`
	Name        string    `gorm:"type:varchar(128);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Playlist) TableName() string { return constants.PlaylistTableName }

func (p *Playlist) OwnerID() int64 { return p.UserId }

// PlaylistVideo is one membership; the unique index keeps the member set
// free of duplicates.
type PlaylistVideo struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false"`
	PlaylistId int64     `gorm:"uniqueIndex:idx_playlist_video,priority:1;not null"`
	VideoId    int64     `gorm:"uniqueIndex:idx_playlist_video,priority:2;index;not null"`
	CreatedAt  time.Time
}

func (PlaylistVideo) TableName() string { return constants.PlaylistVideoTableName }
