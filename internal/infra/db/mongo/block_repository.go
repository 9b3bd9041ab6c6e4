package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainblock "campsite/internal/domain/block"
	"campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
)

type BlockRepository struct {
	col   *mongo.Collection
	slots slotGuard
	sites domainsite.Repository
}

// NewBlockRepository needs the site catalogue to expand wildcard blocks into
// per-site slot claims.
func NewBlockRepository(db *mongo.Database, sites domainsite.Repository) *BlockRepository {
	return &BlockRepository{col: db.Collection("agg_block"), slots: newSlotGuard(db), sites: sites}
}

func (r *BlockRepository) ByID(ctx context.Context, id domainblock.BlockID) (*domainblock.Block, error) {
	var doc blockDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainblock.ErrBlockNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *BlockRepository) ForSite(ctx context.Context, id domainsite.SiteID) ([]*domainblock.Block, error) {
	filter := bson.M{"site_id": bson.M{"$in": []string{string(id), string(domainblock.WildcardSite)}}}
	return r.list(ctx, filter)
}

func (r *BlockRepository) All(ctx context.Context) ([]*domainblock.Block, error) {
	return r.list(ctx, bson.M{})
}

func (r *BlockRepository) Insert(ctx context.Context, b *domainblock.Block) error {
	targets, err := r.expand(ctx, b.SiteID)
	if err != nil {
		return err
	}
	if err := r.slots.Claim(ctx, targets, b.Range, string(b.ID)); err != nil {
		return err
	}
	b.Version = 1
	_, err = r.col.InsertOne(ctx, newBlockDocument(b))
	return err
}

func (r *BlockRepository) Delete(ctx context.Context, id domainblock.BlockID) error {
	if err := r.slots.ReleaseHolder(ctx, string(id)); err != nil {
		return err
	}
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domainblock.ErrBlockNotFound
	}
	return nil
}

func (r *BlockRepository) expand(ctx context.Context, id domainsite.SiteID) ([]domainsite.SiteID, error) {
	if id != domainblock.WildcardSite {
		return []domainsite.SiteID{id}, nil
	}
	all, err := r.sites.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domainsite.SiteID, 0, len(all))
	for _, s := range all {
		out = append(out, s.ID)
	}
	return out, nil
}

func (r *BlockRepository) list(ctx context.Context, filter bson.M) ([]*domainblock.Block, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainblock.Block
	for cursor.Next(ctx) {
		var doc blockDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		agg, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, cursor.Err()
}

type blockDocument struct {
	ID        string    `bson:"_id"`
	SiteID    string    `bson:"site_id"`
	CheckIn   string    `bson:"check_in"`
	CheckOut  string    `bson:"check_out"`
	Memo      string    `bson:"memo,omitempty"`
	IsPaid    bool      `bson:"is_paid"`
	GuestName string    `bson:"guest_name,omitempty"`
	Contact   string    `bson:"contact,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	Version   int64     `bson:"version"`
}

func newBlockDocument(b *domainblock.Block) blockDocument {
	return blockDocument{
		ID:        string(b.ID),
		SiteID:    string(b.SiteID),
		CheckIn:   daterange.FormatDate(b.Range.CheckIn),
		CheckOut:  daterange.FormatDate(b.Range.CheckOut),
		Memo:      b.Memo,
		IsPaid:    b.IsPaid,
		GuestName: b.GuestName,
		Contact:   b.Contact,
		CreatedAt: b.CreatedAt,
		Version:   b.Version,
	}
}

func (d blockDocument) toAggregate() (*domainblock.Block, error) {
	rng, err := daterange.Parse(d.CheckIn, d.CheckOut)
	if err != nil {
		return nil, err
	}
	return &domainblock.Block{
		ID:        domainblock.BlockID(d.ID),
		SiteID:    domainsite.SiteID(d.SiteID),
		Range:     rng,
		Memo:      d.Memo,
		IsPaid:    d.IsPaid,
		GuestName: d.GuestName,
		Contact:   d.Contact,
		CreatedAt: d.CreatedAt,
		Version:   d.Version,
	}, nil
}

var _ domainblock.Repository = (*BlockRepository)(nil)
