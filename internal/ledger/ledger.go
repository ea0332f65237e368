package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientBalance occurs when a debit would take the wallet
	// balance below zero. The mutation is aborted and nothing is recorded.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrWalletNotFound indicates no wallet row exists for the user yet.
	// Wallets are created lazily on the first accepted mutation.
	ErrWalletNotFound = errors.New("wallet not found")
)

// EntryType is the direction of a balance mutation. The sign of a mutation
// is carried exclusively by the type; stored amounts are always positive.
type EntryType string

const (
	// Credit increases the wallet balance.
	Credit EntryType = "credit"
	// Debit decreases the wallet balance.
	Debit EntryType = "debit"
)

// Valid reports whether t is one of the two supported entry types.
func (t EntryType) Valid() bool {
	return t == Credit || t == Debit
}

// Wallet is the per-user balance row. Its balance equals the signed sum of
// the user's transactions after every committed mutation.
type Wallet struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Transaction is an immutable record of one accepted mutation. Rows are
// append-only: never updated, never deleted.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        EntryType       `json:"type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Ledger defines the contract implemented by ledger backends (e.g. Postgres).
//
// Apply performs one mutation as a single atomic unit: it locks the wallet
// row for userID (creating it with a zero balance if absent), rejects a
// debit that exceeds the current balance, writes the new balance and appends
// the matching transaction. Either both writes become visible or neither
// does. Mutations for the same user are serialized by the row lock;
// mutations for different users proceed in parallel.
//
// Transactions returns the user's history newest first, ties broken by
// descending insertion order, and an empty slice for an unknown user.
type Ledger interface {
	Apply(ctx context.Context, userID int64, amount decimal.Decimal, kind EntryType, description string) (Wallet, error)
	WalletFor(ctx context.Context, userID int64) (Wallet, error)
	Transactions(ctx context.Context, userID int64) ([]Transaction, error)
}
