package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrAtomicNotConfigured = errors.New("mongo: atomic runner missing database")

// Atomic runs callbacks inside a MongoDB transaction. The session is carried
// through the context, so repositories called inside fn automatically join
// the transaction. Requires a replica set.
type Atomic struct {
	DB *mongo.Database
}

func (a *Atomic) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.DB == nil {
		return ErrAtomicNotConfigured
	}
	session, err := a.DB.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(a.DB.ReadConcern()).
		SetWriteConcern(a.DB.WriteConcern())
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	}, txnOpts)
	return err
}
