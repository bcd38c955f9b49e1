package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhotel "innstay/internal/domain/hotel"
	"innstay/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type HotelRepository struct {
	col *mongo.Collection
}

func NewHotelRepository(db *mongo.Database) *HotelRepository {
	col := db.Collection("hotels")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "address.city", Value: 1}}},
	})
	return &HotelRepository{col: col}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.HotelID) (*domainhotel.Hotel, error) {
	var doc hotelDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainhotel.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	doc := newHotelDocument(h)
	filter := bson.M{"_id": doc.ID, "version": h.Version}
	doc.Version = h.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	h.Version = doc.Version
	return nil
}

func (r *HotelRepository) Search(ctx context.Context, params domainhotel.SearchParams) ([]*domainhotel.Hotel, error) {
	filter := bson.M{}
	if params.OnlyActive {
		filter["state"] = string(domainhotel.StateActive)
	}
	if params.OwnerID != "" {
		filter["owner_id"] = params.OwnerID
	}
	if params.City != "" {
		filter["address.city"] = bson.M{"$regex": "^" + params.City + "$", "$options": "i"}
	}
	if params.MinStars > 0 {
		filter["stars"] = bson.M{"$gte": params.MinStars}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.Limit > 0 {
		opts = opts.SetLimit(int64(params.Limit)).SetSkip(int64(params.Offset))
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainhotel.Hotel
	for cursor.Next(ctx) {
		var doc hotelDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type hotelDocument struct {
	ID          string          `bson:"_id"`
	OwnerID     string          `bson:"owner_id"`
	Name        string          `bson:"name"`
	Description string          `bson:"description"`
	Address     addressDocument `bson:"address"`
	Stars       int             `bson:"stars"`
	Amenities   []string        `bson:"amenities"`
	RateAmount  int64           `bson:"rate_amount"`
	RateCcy     string          `bson:"rate_currency"`
	PhotoURLs   []string        `bson:"photo_urls"`
	State       string          `bson:"state"`
	CreatedAt   int64           `bson:"created_at"`
	UpdatedAt   int64           `bson:"updated_at"`
	Version     int64           `bson:"version"`
}

type addressDocument struct {
	Line1   string  `bson:"line1"`
	Line2   string  `bson:"line2"`
	City    string  `bson:"city"`
	Country string  `bson:"country"`
	Lat     float64 `bson:"lat"`
	Lon     float64 `bson:"lon"`
}

func newHotelDocument(h *domainhotel.Hotel) hotelDocument {
	return hotelDocument{
		ID:          string(h.ID),
		OwnerID:     h.OwnerID,
		Name:        h.Name,
		Description: h.Description,
		Address: addressDocument{
			Line1: h.Address.Line1, Line2: h.Address.Line2,
			City: h.Address.City, Country: h.Address.Country,
			Lat: h.Address.Lat, Lon: h.Address.Lon,
		},
		Stars:      h.Stars,
		Amenities:  h.Amenities,
		RateAmount: h.NightlyRate.Amount,
		RateCcy:    h.NightlyRate.Currency,
		PhotoURLs:  h.PhotoURLs,
		State:      string(h.State),
		CreatedAt:  h.CreatedAt.UnixMilli(),
		UpdatedAt:  h.UpdatedAt.UnixMilli(),
		Version:    h.Version,
	}
}

func (d hotelDocument) toAggregate() *domainhotel.Hotel {
	return &domainhotel.Hotel{
		ID:          domainhotel.HotelID(d.ID),
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Description: d.Description,
		Address: domainhotel.Address{
			Line1: d.Address.Line1, Line2: d.Address.Line2,
			City: d.Address.City, Country: d.Address.Country,
			Lat: d.Address.Lat, Lon: d.Address.Lon,
		},
		Stars:       d.Stars,
		Amenities:   d.Amenities,
		NightlyRate: money.Money{Amount: d.RateAmount, Currency: d.RateCcy},
		PhotoURLs:   d.PhotoURLs,
		State:       domainhotel.State(d.State),
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
		Version:     d.Version,
	}
}

var _ domainhotel.Repository = (*HotelRepository)(nil)
