package availability

import (
	"time"

	"campsite/internal/domain/shared/daterange"
	"campsite/internal/domain/site"
)

// DateRangeFreed is the waitlist-notify broadcast: a previously occupied range
// became available again. Best effort and fire-and-forget; published via the
// outbox with no ordering guarantee.
type DateRangeFreed struct {
	SiteID site.SiteID
	Range  daterange.DateRange
	At     time.Time
}

func (e DateRangeFreed) EventName() string     { return "waitlist.date_freed" }
func (e DateRangeFreed) AggregateID() string   { return string(e.SiteID) }
func (e DateRangeFreed) OccurredAt() time.Time { return e.At }
