package admin

import (
	"context"
	"time"

	"campsite/internal/app/commands"
	"campsite/internal/app/outbox"
	"campsite/internal/app/uow"
	domainavailability "campsite/internal/domain/availability"
	domainblock "campsite/internal/domain/block"
)

const unblockSiteKey = "admin.unblock_site"

type UnblockSiteCommand struct {
	BlockID string
}

func (c UnblockSiteCommand) Key() string { return unblockSiteKey }

type UnblockSiteResult struct {
	BlockID string `json:"blockId"`
}

// UnblockSiteHandler removes an administrative hold. Removing a block frees a
// date range, so the waitlist broadcast fires exactly as it does for a
// cancelled reservation.
type UnblockSiteHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *UnblockSiteHandler) Handle(ctx context.Context, cmd UnblockSiteCommand) (*UnblockSiteResult, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	blk, err := unit.Blocks().ByID(ctx, domainblock.BlockID(cmd.BlockID))
	if err != nil {
		return nil, err
	}
	if err := unit.Blocks().Delete(ctx, blk.ID); err != nil {
		return nil, err
	}

	now := nowOrDefault(h.Now)
	blk.Record(domainblock.BlockReleased{BlockID: blk.ID, SiteID: blk.SiteID, Range: blk.Range, At: now})
	blk.Record(domainavailability.DateRangeFreed{SiteID: blk.SiteID, Range: blk.Range, At: now})

	pending := blk.PendingEvents()
	blk.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, encoderOrDefault(h.Encoder), pending); err != nil {
		return nil, err
	}

	if err := unit.Complete(ctx); err != nil {
		return nil, err
	}
	return &UnblockSiteResult{BlockID: string(blk.ID)}, nil
}

var _ commands.Handler[UnblockSiteCommand, *UnblockSiteResult] = (*UnblockSiteHandler)(nil)
