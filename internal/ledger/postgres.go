package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresLedger persists wallets and transactions in PostgreSQL. Balance
// mutations run inside a database transaction holding a row-level lock on
// the wallet, so the insufficient-balance check and the balance write form
// one unit even with multiple service instances sharing the database.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Apply credits or debits the wallet for userID and records the matching
// transaction, atomically. A rejected debit leaves no trace.
func (l *PostgresLedger) Apply(ctx context.Context, userID int64, amount decimal.Decimal, kind EntryType, description string) (Wallet, error) {
	if !amount.IsPositive() {
		return Wallet{}, fmt.Errorf("amount must be positive")
	}
	if !kind.Valid() {
		return Wallet{}, fmt.Errorf("unknown entry type %q", kind)
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Wallet{}, fmt.Errorf("begin mutation: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	w, err := lockWallet(ctx, tx, userID)
	if err != nil {
		return Wallet{}, err
	}

	if kind == Debit && w.Balance.LessThan(amount) {
		return Wallet{}, ErrInsufficientBalance
	}

	newBalance := w.Balance.Add(amount)
	if kind == Debit {
		newBalance = w.Balance.Sub(amount)
	}

	const updateQuery = `UPDATE wallets SET balance = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`
	if err := tx.QueryRow(ctx, updateQuery, newBalance, w.ID).Scan(&w.UpdatedAt); err != nil {
		return Wallet{}, fmt.Errorf("update balance: %w", err)
	}

	if err := recordTransaction(ctx, tx, userID, amount, kind, description); err != nil {
		return Wallet{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Wallet{}, fmt.Errorf("commit mutation: %w", err)
	}

	w.Balance = newBalance
	return w, nil
}

// WalletFor fetches the wallet row for userID without locking it.
func (l *PostgresLedger) WalletFor(ctx context.Context, userID int64) (Wallet, error) {
	const query = `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1`
	var w Wallet
	row := l.db.QueryRow(ctx, query, userID)
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrWalletNotFound
		}
		return Wallet{}, fmt.Errorf("load wallet: %w", err)
	}
	return w, nil
}

// Transactions lists the user's history newest first. The id tiebreaker
// keeps the order deterministic when created_at timestamps collide.
func (l *PostgresLedger) Transactions(ctx context.Context, userID int64) ([]Transaction, error) {
	const query = `
        SELECT id, user_id, amount, type, description, created_at
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC`
	rows, err := l.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	entries := []Transaction{}
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		entries = append(entries, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return entries, nil
}

// lockWallet returns the wallet row for userID under an exclusive row lock,
// creating it with a zero balance first if it does not exist. The insert
// uses ON CONFLICT DO NOTHING so two concurrent first mutations cannot
// create two wallets; both then contend on the same FOR UPDATE lock.
func lockWallet(ctx context.Context, tx pgx.Tx, userID int64) (Wallet, error) {
	if _, err := tx.Exec(ctx, `INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return Wallet{}, fmt.Errorf("create wallet: %w", err)
	}

	const query = `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE`
	var w Wallet
	row := tx.QueryRow(ctx, query, userID)
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return Wallet{}, fmt.Errorf("lock wallet: %w", err)
	}
	return w, nil
}

// recordTransaction appends the immutable history row inside the same
// database transaction as the balance write.
func recordTransaction(ctx context.Context, tx pgx.Tx, userID int64, amount decimal.Decimal, kind EntryType, description string) error {
	const query = `INSERT INTO transactions (user_id, amount, type, description) VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, query, userID, amount, string(kind), description); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}
