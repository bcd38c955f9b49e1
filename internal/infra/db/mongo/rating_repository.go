package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "innstay/internal/domain/booking"
	domainhotel "innstay/internal/domain/hotel"
	domainrating "innstay/internal/domain/rating"
)

type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	col := db.Collection("ratings")
	unique := options.Index().SetUnique(true)
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "hotel_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return &RatingRepository{col: col}
}

func (r *RatingRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainrating.Rating, error) {
	var doc ratingDocument
	if err := r.col.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrating.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *RatingRepository) Save(ctx context.Context, rating *domainrating.Rating) error {
	doc := newRatingDocument(rating)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainrating.ErrAlreadySubmitted
		}
		return err
	}
	return nil
}

func (r *RatingRepository) ListByHotel(ctx context.Context, hotelID domainhotel.HotelID, limit, offset int) ([]*domainrating.Rating, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit)).SetSkip(int64(offset))
	}
	cursor, err := r.col.Find(ctx, bson.M{"hotel_id": hotelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainrating.Rating
	for cursor.Next(ctx) {
		var doc ratingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *RatingRepository) AverageByHotel(ctx context.Context, hotelID domainhotel.HotelID) (float64, int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"hotel_id": hotelID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$score"}, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)
	var result struct {
		Avg   float64 `bson:"avg"`
		Count int     `bson:"count"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, 0, err
		}
	}
	return result.Avg, result.Count, cursor.Err()
}

type ratingDocument struct {
	ID        string `bson:"_id"`
	BookingID string `bson:"booking_id"`
	HotelID   string `bson:"hotel_id"`
	AuthorID  string `bson:"author_id"`
	Score     int    `bson:"score"`
	Text      string `bson:"text"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func newRatingDocument(r *domainrating.Rating) ratingDocument {
	return ratingDocument{
		ID:        string(r.ID),
		BookingID: string(r.BookingID),
		HotelID:   string(r.HotelID),
		AuthorID:  r.AuthorID,
		Score:     r.Score,
		Text:      r.Text,
		CreatedAt: r.CreatedAt.UnixMilli(),
		UpdatedAt: r.UpdatedAt.UnixMilli(),
	}
}

func (d ratingDocument) toAggregate() *domainrating.Rating {
	return &domainrating.Rating{
		ID:        domainrating.RatingID(d.ID),
		BookingID: domainbooking.BookingID(d.BookingID),
		HotelID:   domainhotel.HotelID(d.HotelID),
		AuthorID:  d.AuthorID,
		Score:     d.Score,
		Text:      d.Text,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}

var _ domainrating.Repository = (*RatingRepository)(nil)
