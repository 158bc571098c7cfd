package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner runs a function inside a single MongoDB transaction. The
// coin ledger depends on this: a balance mutation and its ledger append
// must commit or abort as one unit so the stored balance and the
// transaction log can never drift apart.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type mongoTxRunner struct {
	client *mongo.Client
}

func NewTxRunner(client *mongo.Client) TxRunner {
	return &mongoTxRunner{client: client}
}

func (r *mongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
