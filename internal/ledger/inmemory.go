package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type inMemoryLedger struct {
	mu           sync.Mutex
	wallets      map[int64]Wallet
	entries      map[int64][]Transaction
	nextWalletID int64
	nextEntryID  int64
}

// NewInMemory creates a concurrency-safe in-memory ledger with the same
// semantics as the Postgres backend. Useful for unit tests and local runs
// without a database.
func NewInMemory() Ledger {
	return &inMemoryLedger{
		wallets: make(map[int64]Wallet),
		entries: make(map[int64][]Transaction),
	}
}

func (l *inMemoryLedger) Apply(_ context.Context, userID int64, amount decimal.Decimal, kind EntryType, description string) (Wallet, error) {
	if !amount.IsPositive() || !kind.Valid() {
		return Wallet{}, ErrInsufficientBalance
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	w, ok := l.wallets[userID]
	if !ok {
		l.nextWalletID++
		w = Wallet{ID: l.nextWalletID, UserID: userID, Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now}
	}

	if kind == Debit && w.Balance.LessThan(amount) {
		return Wallet{}, ErrInsufficientBalance
	}

	if kind == Credit {
		w.Balance = w.Balance.Add(amount)
	} else {
		w.Balance = w.Balance.Sub(amount)
	}
	w.UpdatedAt = now
	l.wallets[userID] = w

	l.nextEntryID++
	l.entries[userID] = append(l.entries[userID], Transaction{
		ID:          l.nextEntryID,
		UserID:      userID,
		Amount:      amount,
		Type:        kind,
		Description: description,
		CreatedAt:   now,
	})

	return w, nil
}

func (l *inMemoryLedger) WalletFor(_ context.Context, userID int64) (Wallet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.wallets[userID]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return w, nil
}

func (l *inMemoryLedger) Transactions(_ context.Context, userID int64) ([]Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored := l.entries[userID]
	// Entries are appended in id order; reversing yields newest first with
	// the same id tiebreak the Postgres backend applies.
	out := make([]Transaction, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}
