package engage

import (
	"context"

	"github.com/pkg/errors"

	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/utils"
)

// Kind discriminates the target of a relationship record.
type Kind string

const (
	KindVideoLike    Kind = "video"
	KindCommentLike  Kind = "comment"
	KindTweetLike    Kind = "tweet"
	KindSubscription Kind = "subscription"
)

// Target names the entity a record of this kind points at.
func (k Kind) Target() string {
	if k == KindSubscription {
		return "channel"
	}
	return string(k)
}

// Key identifies one relationship record. At most one record exists per Key.
type Key struct {
	ActorID  int64
	TargetID int64
	Kind     Kind
}

// RelationStore is the membership set behind a toggle. Insert must report a
// unique violation on Key as errno.ConflictErr.
type RelationStore interface {
	Find(ctx context.Context, key Key) (bool, error)
	Insert(ctx context.Context, key Key) error
	Delete(ctx context.Context, key Key) (int64, error)
}

type ToggleResult struct {
	IsActive bool `json:"isActive"`
}

type Toggler struct {
	Store RelationStore
	Kind  Kind
	// TargetExists is optional; nil skips the existence check.
	TargetExists func(ctx context.Context, id int64) (bool, error)
	// Precheck runs after parsing and before any store access.
	Precheck func(ctx context.Context, key Key) error
	// OnToggle observes the committed state.
	OnToggle func(ctx context.Context, key Key, active bool)
}

// Toggle flips membership of (actorID, target, Kind).
func (t *Toggler) Toggle(ctx context.Context, actorID int64, rawTargetID string) (*ToggleResult, error) {
	targetID, err := utils.ParseID(t.Kind.Target(), rawTargetID)
	if err != nil {
		return nil, err
	}
	key := Key{ActorID: actorID, TargetID: targetID, Kind: t.Kind}

	if t.Precheck != nil {
		if err := t.Precheck(ctx, key); err != nil {
			return nil, err
		}
	}
	if t.TargetExists != nil {
		ok, err := t.TargetExists(ctx, targetID)
		if err != nil {
			return nil, errors.Wrapf(err, "check %s exists", t.Kind.Target())
		}
		if !ok {
			return nil, errno.EntityNotFound(t.Kind.Target())
		}
	}

	active, err := t.flip(ctx, key)
	if err != nil {
		return nil, err
	}
	if t.OnToggle != nil {
		t.OnToggle(ctx, key, active)
	}
	return &ToggleResult{IsActive: active}, nil
}

func (t *Toggler) flip(ctx context.Context, key Key) (bool, error) {
	found, err := t.Store.Find(ctx, key)
	if err != nil {
		return false, errors.Wrapf(err, "find %s relation", key.Kind)
	}
	if found {
		// a concurrent delete may already have removed it; either way it is gone
		if _, err := t.Store.Delete(ctx, key); err != nil {
			return false, errors.Wrapf(err, "delete %s relation", key.Kind)
		}
		return false, nil
	}

	if err := t.Store.Insert(ctx, key); err != nil {
		if errors.Is(err, errno.ConflictErr) {
			// lost the insert race: the record exists, which is the requested state
			return true, nil
		}
		return false, errors.Wrapf(err, "insert %s relation", key.Kind)
	}
	return true, nil
}
