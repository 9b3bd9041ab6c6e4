package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainpricing "campsite/internal/domain/pricing"
	domainreservation "campsite/internal/domain/reservation"
	"campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
)

type ReservationRepository struct {
	col   *mongo.Collection
	slots slotGuard
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection("agg_reservation"), slots: newSlotGuard(db)}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ReservationID) (*domainreservation.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreservation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *ReservationRepository) Insert(ctx context.Context, res *domainreservation.Reservation) error {
	if err := r.slots.Claim(ctx, []domainsite.SiteID{res.SiteID}, res.Range, string(res.ID)); err != nil {
		return err
	}
	res.Version = 1
	doc := newReservationDocument(res)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return err
	}
	return nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	return r.update(ctx, res)
}

func (r *ReservationRepository) Move(ctx context.Context, res *domainreservation.Reservation, _ domainsite.SiteID, _ daterange.DateRange) error {
	// Drop the previous slot claims and take the new ones inside the same
	// transaction; an abort restores both sides.
	if err := r.slots.ReleaseHolder(ctx, string(res.ID)); err != nil {
		return err
	}
	if err := r.slots.Claim(ctx, []domainsite.SiteID{res.SiteID}, res.Range, string(res.ID)); err != nil {
		return err
	}
	return r.update(ctx, res)
}

func (r *ReservationRepository) Release(ctx context.Context, res *domainreservation.Reservation) error {
	if err := r.slots.ReleaseHolder(ctx, string(res.ID)); err != nil {
		return err
	}
	return r.update(ctx, res)
}

func (r *ReservationRepository) update(ctx context.Context, res *domainreservation.Reservation) error {
	filter := bson.M{"_id": string(res.ID), "version": res.Version}
	doc := newReservationDocument(res)
	doc.Version = res.Version + 1
	result, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domainreservation.ErrVersionConflict
	}
	res.Version = doc.Version
	return nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]*domainreservation.Reservation, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *ReservationRepository) ListBySite(ctx context.Context, id domainsite.SiteID) ([]*domainreservation.Reservation, error) {
	return r.list(ctx, bson.M{"site_id": string(id)})
}

func (r *ReservationRepository) ListByStatus(ctx context.Context, status domainreservation.Status) ([]*domainreservation.Reservation, error) {
	return r.list(ctx, bson.M{"status": string(status)})
}

func (r *ReservationRepository) ListWindow(ctx context.Context, rng daterange.DateRange) ([]*domainreservation.Reservation, error) {
	// ISO date strings compare lexicographically, so the half-open overlap
	// test works directly on the stored fields.
	filter := bson.M{
		"check_in":  bson.M{"$lt": daterange.FormatDate(rng.CheckOut)},
		"check_out": bson.M{"$gt": daterange.FormatDate(rng.CheckIn)},
	}
	return r.list(ctx, filter)
}

func (r *ReservationRepository) list(ctx context.Context, filter bson.M) ([]*domainreservation.Reservation, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainreservation.Reservation
	for cursor.Next(ctx) {
		var doc reservationDocument
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

type priceDocument struct {
	Nights              int   `bson:"nights"`
	Base                int64 `bson:"base"`
	ExtraFamily         int64 `bson:"extra_family"`
	Visitor             int64 `bson:"visitor"`
	ConsecutiveDiscount int64 `bson:"consecutive_discount"`
	PackageDiscount     int64 `bson:"package_discount"`
	Total               int64 `bson:"total"`
}

type refundDocument struct {
	Bank        string `bson:"bank"`
	Account     string `bson:"account"`
	Holder      string `bson:"holder"`
	RatePercent int    `bson:"rate_percent"`
	Amount      int64  `bson:"amount"`
}

type reservationDocument struct {
	ID           string         `bson:"_id"`
	UserID       string         `bson:"user_id"`
	SiteID       string         `bson:"site_id"`
	CheckIn      string         `bson:"check_in"`
	CheckOut     string         `bson:"check_out"`
	FamilyCount  int            `bson:"family_count"`
	VisitorCount int            `bson:"visitor_count"`
	VehicleCount int            `bson:"vehicle_count"`
	Price        priceDocument  `bson:"price"`
	Status       string         `bson:"status"`
	GuestName    string         `bson:"guest_name,omitempty"`
	GuestPhone   string         `bson:"guest_phone,omitempty"`
	Requests     string         `bson:"requests,omitempty"`
	CreatedAt    time.Time      `bson:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at"`
	CancelReason string         `bson:"cancel_reason,omitempty"`
	CancelledAt  time.Time      `bson:"cancelled_at,omitempty"`
	Refund       refundDocument `bson:"refund,omitempty"`
	RefundedAt   time.Time      `bson:"refunded_at,omitempty"`
	Version      int64          `bson:"version"`
}

func newReservationDocument(res *domainreservation.Reservation) reservationDocument {
	return reservationDocument{
		ID:           string(res.ID),
		UserID:       res.UserID,
		SiteID:       string(res.SiteID),
		CheckIn:      daterange.FormatDate(res.Range.CheckIn),
		CheckOut:     daterange.FormatDate(res.Range.CheckOut),
		FamilyCount:  res.FamilyCount,
		VisitorCount: res.VisitorCount,
		VehicleCount: res.VehicleCount,
		Price: priceDocument{
			Nights:              res.Price.Nights,
			Base:                res.Price.Base,
			ExtraFamily:         res.Price.ExtraFamily,
			Visitor:             res.Price.Visitor,
			ConsecutiveDiscount: res.Price.ConsecutiveDiscount,
			PackageDiscount:     res.Price.PackageDiscount,
			Total:               res.Price.Total,
		},
		Status:       string(res.Status),
		GuestName:    res.GuestName,
		GuestPhone:   res.GuestPhone,
		Requests:     res.Requests,
		CreatedAt:    res.CreatedAt,
		UpdatedAt:    res.UpdatedAt,
		CancelReason: res.CancelReason,
		CancelledAt:  res.CancelledAt,
		Refund: refundDocument{
			Bank:        res.Refund.Bank,
			Account:     res.Refund.Account,
			Holder:      res.Refund.Holder,
			RatePercent: res.Refund.RatePercent,
			Amount:      res.Refund.Amount,
		},
		RefundedAt: res.RefundedAt,
		Version:    res.Version,
	}
}

func (d reservationDocument) toAggregate() (*domainreservation.Reservation, error) {
	rng, err := daterange.Parse(d.CheckIn, d.CheckOut)
	if err != nil {
		return nil, err
	}
	return &domainreservation.Reservation{
		ID:           domainreservation.ReservationID(d.ID),
		UserID:       d.UserID,
		SiteID:       domainsite.SiteID(d.SiteID),
		Range:        rng,
		FamilyCount:  d.FamilyCount,
		VisitorCount: d.VisitorCount,
		VehicleCount: d.VehicleCount,
		Price: domainpricing.Breakdown{
			Nights:              d.Price.Nights,
			Base:                d.Price.Base,
			ExtraFamily:         d.Price.ExtraFamily,
			Visitor:             d.Price.Visitor,
			ConsecutiveDiscount: d.Price.ConsecutiveDiscount,
			PackageDiscount:     d.Price.PackageDiscount,
			Total:               d.Price.Total,
		},
		Status:       domainreservation.Status(d.Status),
		GuestName:    d.GuestName,
		GuestPhone:   d.GuestPhone,
		Requests:     d.Requests,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		CancelReason: d.CancelReason,
		CancelledAt:  d.CancelledAt,
		Refund: domainreservation.RefundDetails{
			Bank:        d.Refund.Bank,
			Account:     d.Refund.Account,
			Holder:      d.Refund.Holder,
			RatePercent: d.Refund.RatePercent,
			Amount:      d.Refund.Amount,
		},
		RefundedAt: d.RefundedAt,
		Version:    d.Version,
	}, nil
}

var _ domainreservation.Repository = (*ReservationRepository)(nil)
