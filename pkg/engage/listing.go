package engage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"VidTube.com/pkg/constants"
)

// Page is a 1-based page request.
type Page struct {
	Num  int
	Size int
}

func NewPage(num, size int64) Page {
	if num < 1 {
		num = constants.DefaultPage
	}
	if size < 1 {
		size = constants.DefaultLimit
	}
	if size > constants.MaxLimit {
		size = constants.MaxLimit
	}
	return Page{Num: int(num), Size: int(size)}
}

func (p Page) Offset() int {
	return (p.Num - 1) * p.Size
}

// Owner is the public profile joined onto listed items.
type Owner struct {
	ID       int64  `json:"id,string"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// Decoration is what the listing joins onto one item. Owner is nil when the
// owning actor no longer exists.
type Decoration struct {
	Owner         *Owner
	RelationCount int64
	ViewerActive  bool
}

// Source describes one listable collection. Fetch must return items newest
// first.
type Source[T any] struct {
	Count    func(ctx context.Context) (int64, error)
	Fetch    func(ctx context.Context, offset, limit int) ([]T, error)
	OwnerID  func(T) int64
	TargetID func(T) int64

	Owners          func(ctx context.Context, ids []int64) (map[int64]*Owner, error)
	Relations       func(ctx context.Context, ids []int64) (map[int64]int64, error)
	ViewerRelations func(ctx context.Context, viewerID int64, ids []int64) (map[int64]bool, error)
}

type Paged[R any] struct {
	Docs        []R   `json:"docs"`
	TotalDocs   int64 `json:"totalDocs"`
	Limit       int   `json:"limit"`
	Page        int   `json:"page"`
	TotalPages  int64 `json:"totalPages"`
	HasPrevPage bool  `json:"hasPrevPage"`
	HasNextPage bool  `json:"hasNextPage"`
}

// List pages through src and decorates every item. A nil viewer never
// matches a relationship.
func List[T, R any](ctx context.Context, src Source[T], viewer *int64, page Page, project func(T, Decoration) R) (*Paged[R], error) {
	total, err := src.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count items")
	}

	out := &Paged[R]{
		Docs:      make([]R, 0, page.Size),
		TotalDocs: total,
		Limit:     page.Size,
		Page:      page.Num,
	}
	out.TotalPages = (total + int64(page.Size) - 1) / int64(page.Size)
	out.HasPrevPage = page.Num > 1
	out.HasNextPage = int64(page.Num) < out.TotalPages

	// compared in pages so a huge page number cannot overflow the offset
	if int64(page.Num) > out.TotalPages {
		return out, nil
	}

	items, err := src.Fetch(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, errors.Wrap(err, "fetch items")
	}
	if len(items) == 0 {
		return out, nil
	}

	owners := map[int64]*Owner{}
	if src.Owners != nil && src.OwnerID != nil {
		ids := lo.Uniq(lo.Map(items, func(it T, _ int) int64 { return src.OwnerID(it) }))
		if owners, err = src.Owners(ctx, ids); err != nil {
			return nil, errors.Wrap(err, "join owners")
		}
	}

	targets := lo.Uniq(lo.Map(items, func(it T, _ int) int64 { return src.TargetID(it) }))
	counts := map[int64]int64{}
	if src.Relations != nil {
		if counts, err = src.Relations(ctx, targets); err != nil {
			return nil, errors.Wrap(err, "count relations")
		}
	}
	active := map[int64]bool{}
	if viewer != nil && src.ViewerRelations != nil {
		if active, err = src.ViewerRelations(ctx, *viewer, targets); err != nil {
			return nil, errors.Wrap(err, "match viewer relations")
		}
	}

	for _, it := range items {
		d := Decoration{
			RelationCount: counts[src.TargetID(it)],
			ViewerActive:  active[src.TargetID(it)],
		}
		if src.OwnerID != nil {
			d.Owner = owners[src.OwnerID(it)]
		}
		out.Docs = append(out.Docs, project(it, d))
	}
	return out, nil
}
