package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainaccount "innstay/internal/domain/account"
)

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	col := db.Collection("accounts")
	unique := options.Index().SetUnique(true)
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "roles", Value: 1}}},
	})
	return &AccountRepository{col: col}
}

func (r *AccountRepository) ByID(ctx context.Context, id domainaccount.ID) (*domainaccount.Account, error) {
	var doc accountDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainaccount.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *AccountRepository) ByEmail(ctx context.Context, email string) (*domainaccount.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var doc accountDocument
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainaccount.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *AccountRepository) ByRole(ctx context.Context, role domainaccount.Role) ([]*domainaccount.Account, error) {
	cursor, err := r.col.Find(ctx, bson.M{"roles": string(role)}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainaccount.Account
	for cursor.Next(ctx) {
		var doc accountDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *AccountRepository) Save(ctx context.Context, acc *domainaccount.Account) error {
	doc := newAccountDocument(acc)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainaccount.ErrEmailAlreadyUsed
		}
		return err
	}
	return nil
}

type accountDocument struct {
	ID           string   `bson:"_id"`
	Email        string   `bson:"email"`
	Name         string   `bson:"name"`
	Phone        string   `bson:"phone"`
	PasswordHash string   `bson:"password_hash"`
	Roles        []string `bson:"roles"`
	Blocked      bool     `bson:"blocked"`
	CreatedAt    int64    `bson:"created_at"`
	UpdatedAt    int64    `bson:"updated_at"`
}

func newAccountDocument(a *domainaccount.Account) accountDocument {
	roles := make([]string, 0, len(a.Roles))
	for _, role := range a.Roles {
		roles = append(roles, string(role))
	}
	return accountDocument{
		ID:           string(a.ID),
		Email:        a.Email,
		Name:         a.Name,
		Phone:        a.Phone,
		PasswordHash: a.PasswordHash,
		Roles:        roles,
		Blocked:      a.Blocked,
		CreatedAt:    a.CreatedAt.UnixMilli(),
		UpdatedAt:    a.UpdatedAt.UnixMilli(),
	}
}

func (d accountDocument) toAggregate() *domainaccount.Account {
	roles := make([]domainaccount.Role, 0, len(d.Roles))
	for _, role := range d.Roles {
		roles = append(roles, domainaccount.Role(role))
	}
	return &domainaccount.Account{
		ID:           domainaccount.ID(d.ID),
		Email:        d.Email,
		Name:         d.Name,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		Roles:        roles,
		Blocked:      d.Blocked,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
}

var _ domainaccount.Repository = (*AccountRepository)(nil)
