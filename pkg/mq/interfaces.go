package mq

import (
	"context"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Publisher 消息生产者接口
type Publisher interface {
	PublishRelationEvent(ctx context.Context, event *RelationEvent) error
	PublishContentEvent(ctx context.Context, event *ContentEvent) error
}

// 确保Producer实现Publisher接口
var _ Publisher = (*Producer)(nil)

// NopPublisher drops every event. It is the default until SetPublisher is
// called, so services run without a broker.
type NopPublisher struct{}

func (NopPublisher) PublishRelationEvent(context.Context, *RelationEvent) error { return nil }

func (NopPublisher) PublishContentEvent(context.Context, *ContentEvent) error { return nil }

var (
	mu      sync.RWMutex
	current Publisher = NopPublisher{}
)

func SetPublisher(p Publisher) {
	mu.Lock()
	defer mu.Unlock()
	if p == nil {
		p = NopPublisher{}
	}
	current = p
}

func Default() Publisher {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// EmitRelation publishes through the default publisher and only logs a
// failure; callers have already committed the change.
func EmitRelation(ctx context.Context, event *RelationEvent) {
	if err := Default().PublishRelationEvent(ctx, event); err != nil {
		hlog.CtxErrorf(ctx, "Failed to publish relation event %s: %v", event.EventID, err)
	}
}

func EmitContent(ctx context.Context, event *ContentEvent) {
	if err := Default().PublishContentEvent(ctx, event); err != nil {
		hlog.CtxErrorf(ctx, "Failed to publish content event %s: %v", event.EventID, err)
	}
}
