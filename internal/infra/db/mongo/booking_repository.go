package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "innstay/internal/domain/booking"
	domainhotel "innstay/internal/domain/hotel"
	"innstay/internal/domain/shared/daterange"
	"innstay/internal/domain/shared/money"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("bookings")
	// serves ActiveByHotel and the scheduler's status/date scans
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "hotel_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "range.check_in", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "range.check_out", Value: 1}}},
		{Keys: bson.D{{Key: "guest_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrVersionConflict
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainbooking.ErrVersionConflict
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"guest_id": guestID})
}

func (r *BookingRepository) ByHotel(ctx context.Context, hotelID domainhotel.HotelID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"hotel_id": hotelID})
}

func (r *BookingRepository) ActiveByHotel(ctx context.Context, hotelID domainhotel.HotelID) ([]*domainbooking.Booking, error) {
	statuses := make([]string, 0, len(domainbooking.ActiveStatuses))
	for _, s := range domainbooking.ActiveStatuses {
		statuses = append(statuses, string(s))
	}
	return r.find(ctx, bson.M{"hotel_id": hotelID, "status": bson.M{"$in": statuses}})
}

func (r *BookingRepository) ByStatusStartedBefore(ctx context.Context, status domainbooking.Status, at time.Time) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"status": string(status), "range.check_in": bson.M{"$lte": at.UTC().UnixMilli()}})
}

func (r *BookingRepository) ByStatusEndedBefore(ctx context.Context, status domainbooking.Status, at time.Time) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"status": string(status), "range.check_out": bson.M{"$lte": at.UTC().UnixMilli()}})
}

func (r *BookingRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"created_at": bson.M{"$gte": from.UTC().UnixMilli(), "$lt": to.UTC().UnixMilli()}})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type bookingDocument struct {
	ID        string        `bson:"_id"`
	HotelID   string        `bson:"hotel_id"`
	GuestID   string        `bson:"guest_id"`
	Range     rangeDocument `bson:"range"`
	Amount    int64         `bson:"amount"`
	Currency  string        `bson:"currency"`
	Status    string        `bson:"status"`
	CreatedAt int64         `bson:"created_at"`
	UpdatedAt int64         `bson:"updated_at"`
	Version   int64         `bson:"version"`
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:        string(b.ID),
		HotelID:   string(b.HotelID),
		GuestID:   b.GuestID,
		Range:     rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
		Amount:    b.Total.Amount,
		Currency:  b.Total.Currency,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
		Version:   b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:      domainbooking.BookingID(d.ID),
		HotelID: domainhotel.HotelID(d.HotelID),
		GuestID: d.GuestID,
		Range: daterange.DateRange{
			CheckIn:  timestampToTime(d.Range.CheckIn),
			CheckOut: timestampToTime(d.Range.CheckOut),
		},
		Total:     money.Money{Amount: d.Amount, Currency: d.Currency},
		Status:    domainbooking.Status(d.Status),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
