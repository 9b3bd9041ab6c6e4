package block

import (
	"context"
	"errors"
	"strings"
	"time"

	"campsite/internal/domain/shared/daterange"
	"campsite/internal/domain/shared/events"
	"campsite/internal/domain/site"
)

var (
	ErrBlockNotFound = errors.New("block: not found")
	ErrSiteRequired  = errors.New("block: site id required")
)

// WildcardSite marks a block that occupies every site at once.
const WildcardSite site.SiteID = "ALL"

type BlockID string

// Block is an administrative hold on a site/date range. A paid block is
// treated as a confirmed manual booking; an unpaid one is a soft hold. Both
// participate in the overlap invariant exactly like reservations.
type Block struct {
	ID        BlockID
	SiteID    site.SiteID
	Range     daterange.DateRange
	Memo      string
	IsPaid    bool
	GuestName string
	Contact   string
	CreatedAt time.Time
	Version   int64
	events.EventRecorder
}

type CreateParams struct {
	ID        BlockID
	SiteID    site.SiteID
	Range     daterange.DateRange
	Memo      string
	IsPaid    bool
	GuestName string
	Contact   string
	CreatedAt time.Time
}

func New(params CreateParams) (*Block, error) {
	if strings.TrimSpace(string(params.SiteID)) == "" {
		return nil, ErrSiteRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	b := &Block{
		ID:        params.ID,
		SiteID:    params.SiteID,
		Range:     params.Range,
		Memo:      params.Memo,
		IsPaid:    params.IsPaid,
		GuestName: params.GuestName,
		Contact:   params.Contact,
		CreatedAt: params.CreatedAt.UTC(),
	}
	b.Record(BlockCreated{BlockID: b.ID, SiteID: b.SiteID, Range: b.Range, IsPaid: b.IsPaid, At: b.CreatedAt})
	return b, nil
}

// AppliesTo reports whether the block occupies the given site.
func (b *Block) AppliesTo(id site.SiteID) bool {
	return b.SiteID == WildcardSite || b.SiteID == id
}

type Repository interface {
	ByID(ctx context.Context, id BlockID) (*Block, error)
	// ForSite returns blocks occupying the site, wildcard blocks included.
	ForSite(ctx context.Context, id site.SiteID) ([]*Block, error)
	All(ctx context.Context) ([]*Block, error)
	// Insert atomically re-verifies the overlap invariant before persisting.
	Insert(ctx context.Context, b *Block) error
	Delete(ctx context.Context, id BlockID) error
}
