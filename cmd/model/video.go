package model

import (
	"time"

	"VidTube.com/pkg/constants"
)

type Video struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserId       int64     `gorm:"index;not null" json:"owner,string"`
	VideoFile    string    `gorm:"type:varchar(512)" json:"videoFile"`
	Thumbnail    string    `gorm:"type:varchar(512)" json:"thumbnail"`
	VideoKey     string    `gorm:"type:varchar(255)" json:"-"`
	ThumbnailKey string    `gorm:"type:varchar(255)" json:"-"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Duration     float64   `json:"duration"`
	Views        int64     `gorm:"not null;default:0" json:"views"`
	IsPublished  bool      `gorm:"not null" json:"isPublished"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Video) TableName() string { return constants.VideoTableName }

func (v *Video) OwnerID() int64 { return v.UserId }
