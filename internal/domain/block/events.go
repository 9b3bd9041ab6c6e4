package block

import (
	"time"

	"campsite/internal/domain/shared/daterange"
	"campsite/internal/domain/site"
)

type BlockCreated struct {
	BlockID BlockID
	SiteID  site.SiteID
	Range   daterange.DateRange
	IsPaid  bool
	At      time.Time
}

func (e BlockCreated) EventName() string     { return "block.created" }
func (e BlockCreated) AggregateID() string   { return string(e.BlockID) }
func (e BlockCreated) OccurredAt() time.Time { return e.At }

type BlockReleased struct {
	BlockID BlockID
	SiteID  site.SiteID
	Range   daterange.DateRange
	At      time.Time
}

func (e BlockReleased) EventName() string     { return "block.released" }
func (e BlockReleased) AggregateID() string   { return string(e.BlockID) }
func (e BlockReleased) OccurredAt() time.Time { return e.At }
