package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaindiscount "innstay/internal/domain/discount"
	domainhotel "innstay/internal/domain/hotel"
)

type DiscountRepository struct {
	col *mongo.Collection
}

func NewDiscountRepository(db *mongo.Database) *DiscountRepository {
	col := db.Collection("discounts")
	unique := options.Index().SetUnique(true)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "hotel_id", Value: 1}, {Key: "code", Value: 1}},
		Options: unique,
	})
	return &DiscountRepository{col: col}
}

func (r *DiscountRepository) ByCode(ctx context.Context, hotelID domainhotel.HotelID, code string) (*domaindiscount.Discount, error) {
	var doc discountDocument
	filter := bson.M{"hotel_id": hotelID, "code": domaindiscount.NormalizeCode(code)}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaindiscount.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *DiscountRepository) Save(ctx context.Context, discount *domaindiscount.Discount) error {
	doc := newDiscountDocument(discount)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domaindiscount.ErrCodeTaken
		}
		return err
	}
	return nil
}

func (r *DiscountRepository) ListByHotel(ctx context.Context, hotelID domainhotel.HotelID) ([]*domaindiscount.Discount, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"hotel_id": hotelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domaindiscount.Discount
	for cursor.Next(ctx) {
		var doc discountDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type discountDocument struct {
	ID         string `bson:"_id"`
	HotelID    string `bson:"hotel_id"`
	Code       string `bson:"code"`
	Percent    int    `bson:"percent"`
	ValidFrom  int64  `bson:"valid_from"`
	ValidUntil int64  `bson:"valid_until"`
	Disabled   bool   `bson:"disabled"`
	CreatedAt  int64  `bson:"created_at"`
}

func newDiscountDocument(d *domaindiscount.Discount) discountDocument {
	return discountDocument{
		ID:         string(d.ID),
		HotelID:    string(d.HotelID),
		Code:       d.Code,
		Percent:    d.Percent,
		ValidFrom:  d.ValidFrom.UnixMilli(),
		ValidUntil: d.ValidUntil.UnixMilli(),
		Disabled:   d.Disabled,
		CreatedAt:  d.CreatedAt.UnixMilli(),
	}
}

func (d discountDocument) toAggregate() *domaindiscount.Discount {
	return &domaindiscount.Discount{
		ID:         domaindiscount.DiscountID(d.ID),
		HotelID:    domainhotel.HotelID(d.HotelID),
		Code:       d.Code,
		Percent:    d.Percent,
		ValidFrom:  timestampToTime(d.ValidFrom),
		ValidUntil: timestampToTime(d.ValidUntil),
		Disabled:   d.Disabled,
		CreatedAt:  timestampToTime(d.CreatedAt),
	}
}

var _ domaindiscount.Repository = (*DiscountRepository)(nil)
