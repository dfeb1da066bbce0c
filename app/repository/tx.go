package repository

import (
	"context"
	"database/sql"
)

type TxFunc func(ctx context.Context, store SubscriptionStore) error

// TxManager runs a callback against a transaction-bound subscription store.
// The transaction commits only if the callback returns nil; any error,
// including a cancelled context, rolls back every change.
type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(ctx, NewSubscriptionRepository(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
