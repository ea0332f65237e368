package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func TestInMemoryLedger_CreditCreatesWallet(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	w, err := l.Apply(ctx, 1, decimal.RequireFromString("100.00"), Credit, "opening credit")
	if err != nil {
		t.Fatalf("apply credit: %v", err)
	}
	if w.Balance.String() != "100" {
		t.Fatalf("expected balance 100, got %s", w.Balance)
	}

	entries, err := l.Transactions(ctx, 1)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(entries))
	}
	if entries[0].Type != Credit || !entries[0].Amount.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("unexpected transaction: %+v", entries[0])
	}
}

func TestInMemoryLedger_DebitReducesBalance(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	if _, err := l.Apply(ctx, 1, decimal.RequireFromString("100.00"), Credit, ""); err != nil {
		t.Fatalf("seed credit: %v", err)
	}
	w, err := l.Apply(ctx, 1, decimal.RequireFromString("50.00"), Debit, "withdrawal")
	if err != nil {
		t.Fatalf("apply debit: %v", err)
	}
	if w.Balance.String() != "50" {
		t.Fatalf("expected balance 50, got %s", w.Balance)
	}

	entries, _ := l.Transactions(ctx, 1)
	if len(entries) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Type != Debit || entries[1].Type != Credit {
		t.Fatalf("unexpected ordering: %+v", entries)
	}
}

func TestInMemoryLedger_InsufficientBalance(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	SeedBalance(l, 1, decimal.RequireFromString("50.00"))

	if _, err := l.Apply(ctx, 1, decimal.RequireFromString("100.00"), Debit, ""); err != ErrInsufficientBalance {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	w, err := l.WalletFor(ctx, 1)
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if w.Balance.String() != "50" {
		t.Fatalf("rejected debit changed balance: %s", w.Balance)
	}
	entries, _ := l.Transactions(ctx, 1)
	if len(entries) != 0 {
		t.Fatalf("rejected debit recorded %d transactions", len(entries))
	}
}

func TestInMemoryLedger_BalanceEqualsTransactionSum(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	steps := []struct {
		amount string
		kind   EntryType
	}{
		{"120.00", Credit},
		{"30.50", Debit},
		{"9.99", Credit},
		{"0.49", Debit},
	}
	for _, step := range steps {
		if _, err := l.Apply(ctx, 7, decimal.RequireFromString(step.amount), step.kind, ""); err != nil {
			t.Fatalf("apply %s %s: %v", step.kind, step.amount, err)
		}
	}

	entries, _ := l.Transactions(ctx, 7)
	sum := decimal.Zero
	for _, e := range entries {
		if e.Type == Credit {
			sum = sum.Add(e.Amount)
		} else {
			sum = sum.Sub(e.Amount)
		}
	}

	w, _ := l.WalletFor(ctx, 7)
	if !w.Balance.Equal(sum) {
		t.Fatalf("balance %s does not match transaction sum %s", w.Balance, sum)
	}
}

func TestInMemoryLedger_ConcurrentCreditsConverge(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	amount := decimal.RequireFromString("10.00")

	const workers = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := l.Apply(ctx, 1, amount, Credit, fmt.Sprintf("credit %d", i)); err != nil {
				t.Errorf("credit %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	w, err := l.WalletFor(ctx, 1)
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	want := amount.Mul(decimal.NewFromInt(workers))
	if !w.Balance.Equal(want) {
		t.Fatalf("expected balance %s, got %s", want, w.Balance)
	}

	entries, _ := l.Transactions(ctx, 1)
	if len(entries) != workers {
		t.Fatalf("expected %d transactions, got %d", workers, len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].ID <= entries[i].ID {
			t.Fatalf("transactions not in descending id order: %d before %d", entries[i-1].ID, entries[i].ID)
		}
	}
}

func TestInMemoryLedger_ConcurrentDebitsNeverGoNegative(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	// Funds cover only half of the attempted debits.
	if _, err := l.Apply(ctx, 1, decimal.RequireFromString("50.00"), Credit, ""); err != nil {
		t.Fatalf("seed credit: %v", err)
	}

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Apply(ctx, 1, decimal.RequireFromString("10.00"), Debit, "")
			if err != nil && err != ErrInsufficientBalance {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	w, _ := l.WalletFor(ctx, 1)
	if w.Balance.IsNegative() {
		t.Fatalf("balance went negative: %s", w.Balance)
	}
	if !w.Balance.Equal(decimal.Zero) {
		t.Fatalf("expected exactly five debits to land, balance %s", w.Balance)
	}
}

func TestInMemoryLedger_UnknownUser(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	if _, err := l.WalletFor(ctx, 42); err != ErrWalletNotFound {
		t.Fatalf("expected wallet not found, got %v", err)
	}

	entries, err := l.Transactions(ctx, 42)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}
}
