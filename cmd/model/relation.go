package model

import (
	"time"

	"VidTube.com/pkg/constants"
)

// Subscription 订阅关系: SubscriberId 订阅了 ChannelId
type Subscription struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	SubscriberId int64     `gorm:"uniqueIndex:idx_subscription_unique,priority:1;not null" json:"subscriber,string"`
	ChannelId    int64     `gorm:"uniqueIndex:idx_subscription_unique,priority:2;index;not null" json:"channel,string"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Subscription) TableName() string { return constants.SubscriptionTableName }
