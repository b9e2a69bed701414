package mq

import (
	"time"

	"github.com/google/uuid"
)

// RelationEvent 关系变更事件(点赞/订阅)
type RelationEvent struct {
	EventID   string `json:"event_id"`
	Kind      string `json:"kind"`      // video, comment, tweet, subscription
	ActorID   int64  `json:"actor_id"`  // 发起者
	TargetID  int64  `json:"target_id"` // 被点赞的内容或被订阅的频道
	Active    bool   `json:"active"`    // 变更后的状态
	Timestamp int64  `json:"timestamp"`
}

// ContentEvent 内容变更事件
type ContentEvent struct {
	EventID   string `json:"event_id"`
	Type      string `json:"type"`     // 见 ContentXxx 常量
	EntityID  int64  `json:"entity_id"`
	ActorID   int64  `json:"actor_id"` // 内容的所有者
	Timestamp int64  `json:"timestamp"`
}

const (
	ContentVideoCreated   = "video_created"
	ContentVideoUpdated   = "video_updated"
	ContentVideoDeleted   = "video_deleted"
	ContentVideoPublished = "video_publish_toggled"
	ContentCommentCreated = "comment_created"
	ContentCommentDeleted = "comment_deleted"
	ContentTweetCreated   = "tweet_created"
	ContentTweetDeleted   = "tweet_deleted"
)

const (
	// 交换机名称
	RelationEventExchange = "relation_events"
	ContentEventExchange  = "content_events"

	// 队列名称
	RelationEventQueue = "relation_event_queue"
	ContentEventQueue  = "content_event_queue"
)

func NewRelationEvent(kind string, actorID, targetID int64, active bool) *RelationEvent {
	return &RelationEvent{
		EventID:   uuid.NewString(),
		Kind:      kind,
		ActorID:   actorID,
		TargetID:  targetID,
		Active:    active,
		Timestamp: time.Now().Unix(),
	}
}

func NewContentEvent(typ string, entityID, actorID int64) *ContentEvent {
	return &ContentEvent{
		EventID:   uuid.NewString(),
		Type:      typ,
		EntityID:  entityID,
		ActorID:   actorID,
		Timestamp: time.Now().Unix(),
	}
}
