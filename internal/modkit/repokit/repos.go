// Package repokit holds the seams repositories are written against
package repokit

import (
	"context"

	"leadsdash/internal/platform/store"
)

type (
	// Queryer is the read surface shared by postgres and clickhouse repos
	Queryer = store.Querier

	// RowQuerier adds Exec and QueryRow for sql repos
	RowQuerier = store.RowQuerier

	// TxRunner can execute a function inside a transaction
	TxRunner = store.TxRunner

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result
	Row = store.Row

	// CommandTag is the result of a statement that modifies data
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q RowQuerier) error) error {
	return tx.Tx(ctx, fn)
}
