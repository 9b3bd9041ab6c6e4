package availability

import (
	"context"

	"campsite/internal/app/dto"
	"campsite/internal/app/queries"
	"campsite/internal/app/uow"
	domainavailability "campsite/internal/domain/availability"
	domainrange "campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
)

const maxBlockDurationKey = "availability.max_block_duration"

type MaxBlockDurationQuery struct {
	SiteID    string
	StartDate string
}

func (q MaxBlockDurationQuery) Key() string { return maxBlockDurationKey }

// MaxBlockDurationHandler tells an administrator how long a manual block can
// run from a start date before colliding with the next occupancy.
type MaxBlockDurationHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *MaxBlockDurationHandler) Handle(ctx context.Context, q MaxBlockDurationQuery) (dto.MaxBlockDuration, error) {
	start, err := domainrange.ParseDate(q.StartDate)
	if err != nil {
		return dto.MaxBlockDuration{}, err
	}

	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.MaxBlockDuration{}, err
	}
	defer unit.Close(ctx)

	siteID := domainsite.SiteID(q.SiteID)
	if _, err := unit.Sites().ByID(ctx, siteID); err != nil {
		return dto.MaxBlockDuration{}, err
	}

	index := domainavailability.Index{Reservations: unit.Reservations(), Blocks: unit.Blocks()}
	occs, err := index.Occupancies(ctx, siteID)
	if err != nil {
		return dto.MaxBlockDuration{}, err
	}

	return dto.MaxBlockDuration{
		SiteID:    q.SiteID,
		StartDate: q.StartDate,
		MaxNights: domainavailability.MaxBlockNights(occs, start),
	}, nil
}

var _ queries.Handler[MaxBlockDurationQuery, dto.MaxBlockDuration] = (*MaxBlockDurationHandler)(nil)
