package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager runs fn inside a database transaction, handing the
// transaction handle to repositories through tx.
//
// The concrete type of tx is infra-defined (pgx.Tx for Postgres).
// Repositories MUST accept a nil tx and fall back to the pool.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
