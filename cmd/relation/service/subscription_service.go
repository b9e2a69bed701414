package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"VidTube.com/cmd/model"
	"VidTube.com/cmd/relation/dal/db"
	userdb "VidTube.com/cmd/user/dal/db"
	"VidTube.com/pkg/engage"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/metrics"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/utils"
)

type SubscriptionService struct {
	ctx context.Context
}

func NewSubscriptionService(ctx context.Context) *SubscriptionService {
	return &SubscriptionService{ctx: ctx}
}

// SubscriptionItem is one side of a subscription, decorated with that
// user's own subscriber count and whether the viewer follows them.
type SubscriptionItem struct {
	User             *engage.Owner `json:"user"`
	SubscribedAt     time.Time     `json:"subscribedAt"`
	SubscribersCount int64         `json:"subscribersCount"`
	IsSubscribed     bool          `json:"isSubscribed"`
}

var subscriptionToggler = &engage.Toggler{
	Store:        db.SubscriptionStore{},
	Kind:         engage.KindSubscription,
	TargetExists: userdb.IsUserExist,
	Precheck: func(_ context.Context, key engage.Key) error {
		if key.ActorID == key.TargetID {
			return errno.InvalidArgumentErr.WithMessage("You cannot subscribe to your own channel")
		}
		return nil
	},
	OnToggle: func(ctx context.Context, key engage.Key, active bool) {
		metrics.ObserveToggle(string(key.Kind), active)
		mq.EmitRelation(ctx, mq.NewRelationEvent(string(key.Kind), key.ActorID, key.TargetID, active))
	},
}

// ToggleSubscription 订阅/取消订阅频道
func (service *SubscriptionService) ToggleSubscription(subscriberId int64, rawChannelId string) (*engage.ToggleResult, error) {
	return subscriptionToggler.Toggle(service.ctx, subscriberId, rawChannelId)
}

func (service *SubscriptionService) requireUser(entity, raw string) (int64, error) {
	userId, err := utils.ParseID(entity, raw)
	if err != nil {
		return 0, err
	}
	ok, err := userdb.IsUserExist(service.ctx, userId)
	if err != nil {
		return 0, errors.Wrapf(err, "check %s exists", entity)
	}
	if !ok {
		return 0, errno.EntityNotFound(entity)
	}
	return userId, nil
}

func listSubscriptions(ctx context.Context, viewer *int64, page engage.Page,
	count func(context.Context) (int64, error),
	fetch func(context.Context, int, int) ([]*model.Subscription, error),
	side func(*model.Subscription) int64,
) (*engage.Paged[*SubscriptionItem], error) {
	src := engage.Source[*model.Subscription]{
		Count:           count,
		Fetch:           fetch,
		OwnerID:         side,
		TargetID:        side,
		Owners:          userdb.GetProfiles,
		Relations:       db.GetSubscriberCounts,
		ViewerRelations: db.GetViewerSubscriptions,
	}
	return engage.List(ctx, src, viewer, page, func(s *model.Subscription, d engage.Decoration) *SubscriptionItem {
		return &SubscriptionItem{
			User:             d.Owner,
			SubscribedAt:     s.CreatedAt,
			SubscribersCount: d.RelationCount,
			IsSubscribed:     d.ViewerActive,
		}
	})
}

// ChannelSubscribers 获取频道的订阅者列表
func (service *SubscriptionService) ChannelSubscribers(rawChannelId string, viewer *int64, page engage.Page) (*engage.Paged[*SubscriptionItem], error) {
	channelId, err := service.requireUser("channel", rawChannelId)
	if err != nil {
		return nil, err
	}
	return listSubscriptions(service.ctx, viewer, page,
		func(ctx context.Context) (int64, error) { return db.GetSubscriberCount(ctx, channelId) },
		func(ctx context.Context, offset, limit int) ([]*model.Subscription, error) {
			return db.GetSubscribersByPart(ctx, channelId, offset, limit)
		},
		func(s *model.Subscription) int64 { return s.SubscriberId },
	)
}

// SubscribedChannels 获取用户订阅的频道列表
func (service *SubscriptionService) SubscribedChannels(rawSubscriberId string, viewer *int64, page engage.Page) (*engage.Paged[*SubscriptionItem], error) {
	subscriberId, err := service.requireUser("subscriber", rawSubscriberId)
	if err != nil {
		return nil, err
	}
	return listSubscriptions(service.ctx, viewer, page,
		func(ctx context.Context) (int64, error) { return db.GetSubscribedCount(ctx, subscriberId) },
		func(ctx context.Context, offset, limit int) ([]*model.Subscription, error) {
			return db.GetSubscribedChannelsByPart(ctx, subscriberId, offset, limit)
		},
		func(s *model.Subscription) int64 { return s.ChannelId },
	)
}
