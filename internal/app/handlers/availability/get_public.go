package availability

import (
	"context"

	"campsite/internal/app/dto"
	"campsite/internal/app/queries"
	"campsite/internal/app/uow"
	domainavailability "campsite/internal/domain/availability"
	domainrange "campsite/internal/domain/shared/daterange"
)

const getPublicAvailabilityKey = "availability.public"

type GetPublicAvailabilityQuery struct {
	From string
	To   string
}

func (q GetPublicAvailabilityQuery) Key() string { return getPublicAvailabilityKey }

// GetPublicAvailabilityHandler renders the anonymous calendar: which nights
// are taken on which site inside the window. Reservations and blocks both
// occupy; nothing personal is exposed.
type GetPublicAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetPublicAvailabilityHandler) Handle(ctx context.Context, q GetPublicAvailabilityQuery) (dto.PublicAvailability, error) {
	rng, err := domainrange.Parse(q.From, q.To)
	if err != nil {
		return dto.PublicAvailability{}, err
	}

	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.PublicAvailability{}, err
	}
	defer unit.Close(ctx)

	out := dto.PublicAvailability{
		From:     q.From,
		To:       q.To,
		Occupied: []dto.OccupiedDate{},
	}

	sites, err := unit.Sites().All(ctx)
	if err != nil {
		return dto.PublicAvailability{}, err
	}
	index := domainavailability.Index{Reservations: unit.Reservations(), Blocks: unit.Blocks()}
	for _, s := range sites {
		occs, err := index.Occupancies(ctx, s.ID)
		if err != nil {
			return dto.PublicAvailability{}, err
		}
		for _, day := range rng.Dates() {
			if domainavailability.IsDateOccupied(occs, day) {
				out.Occupied = append(out.Occupied, dto.OccupiedDate{
					SiteID: string(s.ID),
					Date:   domainrange.FormatDate(day),
				})
			}
		}
	}
	return out, nil
}

var _ queries.Handler[GetPublicAvailabilityQuery, dto.PublicAvailability] = (*GetPublicAvailabilityHandler)(nil)
