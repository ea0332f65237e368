package ledger

import "github.com/shopspring/decimal"

// SeedBalance is a test helper that sets a wallet balance directly when
// using the in-memory ledger, without recording a transaction.
func SeedBalance(l Ledger, userID int64, balance decimal.Decimal) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		w, exists := mem.wallets[userID]
		if !exists {
			mem.nextWalletID++
			w = Wallet{ID: mem.nextWalletID, UserID: userID}
		}
		w.Balance = balance
		mem.wallets[userID] = w
	}
}
