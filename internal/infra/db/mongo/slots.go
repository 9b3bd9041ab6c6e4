package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainavailability "campsite/internal/domain/availability"
	"campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
)

// slotGuard is the write-time authority of the overlap invariant for the
// Mongo backend. Every occupied night is one document keyed "<site>|<date>";
// the unique _id turns two racing claims for the same night into a duplicate
// key error, which surfaces as ErrDateConflict. Claims ride the ambient
// session, so an aborted transaction leaves no stray slots.
type slotGuard struct {
	col *mongo.Collection
}

func newSlotGuard(db *mongo.Database) slotGuard {
	return slotGuard{col: db.Collection("slot_guard")}
}

func slotID(id domainsite.SiteID, date string) string {
	return string(id) + "|" + date
}

type slotDocument struct {
	ID     string `bson:"_id"`
	SiteID string `bson:"site_id"`
	Date   string `bson:"date"`
	Holder string `bson:"holder"`
}

// Claim takes every night of the range on every listed site for holder.
func (g slotGuard) Claim(ctx context.Context, sites []domainsite.SiteID, rng daterange.DateRange, holder string) error {
	var docs []any
	for _, id := range sites {
		for _, date := range rng.Dates() {
			iso := daterange.FormatDate(date)
			docs = append(docs, slotDocument{ID: slotID(id, iso), SiteID: string(id), Date: iso, Holder: holder})
		}
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := g.col.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainavailability.ErrDateConflict
		}
		return err
	}
	return nil
}

// ReleaseHolder frees every night held by the given reservation or block.
func (g slotGuard) ReleaseHolder(ctx context.Context, holder string) error {
	_, err := g.col.DeleteMany(ctx, bson.M{"holder": holder})
	return err
}
