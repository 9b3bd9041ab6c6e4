package admin

import (
	"context"
	"time"

	"campsite/internal/app/commands"
	"campsite/internal/app/middleware"
	"campsite/internal/app/outbox"
	"campsite/internal/app/uow"
	domainavailability "campsite/internal/domain/availability"
	domainblock "campsite/internal/domain/block"
	domainrange "campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
)

const blockSiteKey = "admin.block_site"

type BlockSiteCommand struct {
	CommandID string
	SiteID    string
	StartDate string
	EndDate   string
	Memo      string
	IsPaid    bool
	GuestName string
	Contact   string
}

func (c BlockSiteCommand) Key() string { return blockSiteKey }

func (c BlockSiteCommand) Validate() error {
	_, err := domainrange.Parse(c.StartDate, c.EndDate)
	return err
}

type BlockSiteResult struct {
	BlockID string `json:"blockId"`
}

// BlockSiteHandler creates an administrative hold, wildcard "ALL" included.
// Blocks obey the same overlap invariant as reservations, re-verified
// atomically at insert.
type BlockSiteHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *BlockSiteHandler) Handle(ctx context.Context, cmd BlockSiteCommand) (*BlockSiteResult, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	dr, err := domainrange.Parse(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}
	siteID := domainsite.SiteID(cmd.SiteID)
	if siteID != domainblock.WildcardSite {
		if _, err := unit.Sites().ByID(ctx, siteID); err != nil {
			return nil, err
		}
	}

	index := domainavailability.Index{Reservations: unit.Reservations(), Blocks: unit.Blocks()}
	targets := []domainsite.SiteID{siteID}
	if siteID == domainblock.WildcardSite {
		// a wildcard hold must be clear on every site at once
		sites, err := unit.Sites().All(ctx)
		if err != nil {
			return nil, err
		}
		targets = targets[:0]
		for _, s := range sites {
			targets = append(targets, s.ID)
		}
	}
	for _, target := range targets {
		conflict, err := index.HasOverlap(ctx, target, dr, "")
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, domainavailability.ErrDateConflict
		}
	}

	blk, err := domainblock.New(domainblock.CreateParams{
		ID:        domainblock.BlockID(cmd.CommandID),
		SiteID:    siteID,
		Range:     dr,
		Memo:      cmd.Memo,
		IsPaid:    cmd.IsPaid,
		GuestName: cmd.GuestName,
		Contact:   cmd.Contact,
		CreatedAt: nowOrDefault(h.Now),
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Blocks().Insert(ctx, blk); err != nil {
		return nil, err
	}

	pending := blk.PendingEvents()
	blk.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, encoderOrDefault(h.Encoder), pending); err != nil {
		return nil, err
	}

	if err := unit.Complete(ctx); err != nil {
		return nil, err
	}
	return &BlockSiteResult{BlockID: string(blk.ID)}, nil
}

var _ commands.Handler[BlockSiteCommand, *BlockSiteResult] = (*BlockSiteHandler)(nil)
var _ middleware.SelfValidating = BlockSiteCommand{}
