package engage

import (
	"context"

	"github.com/pkg/errors"

	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/utils"
)

// Owned is implemented by every entity only its owner may change.
type Owned interface {
	OwnerID() int64
}

// Deleted is returned by delete mutations.
type Deleted struct {
	ID int64 `json:"id,string"`
}

type Loader[T Owned] func(ctx context.Context, id int64) (T, error)

type Applier[T Owned, R any] func(ctx context.Context, entity T) (R, error)

// Mutate validates rawID, loads the entity, checks that actorID owns it and
// only then applies op. Loaders report a missing entity as errno.NotFoundErr.
func Mutate[T Owned, R any](ctx context.Context, entity, rawID string, actorID int64, load Loader[T], op Applier[T, R]) (R, error) {
	var zero R

	id, err := utils.ParseID(entity, rawID)
	if err != nil {
		return zero, err
	}
	e, err := load(ctx, id)
	if err != nil {
		if errors.Is(err, errno.NotFoundErr) {
			return zero, err
		}
		return zero, errors.Wrapf(err, "load %s", entity)
	}
	if e.OwnerID() != actorID {
		return zero, errno.ForbiddenErr.WithMessage("Only the owner of the " + entity + " can modify it")
	}
	return op(ctx, e)
}
