package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerpay/walletd/internal/cache"
	"github.com/ledgerpay/walletd/internal/ledger"
	"github.com/ledgerpay/walletd/internal/notification"
	"github.com/ledgerpay/walletd/internal/user"
)

var (
	// ErrInvalidAmount indicates the amount failed to parse as a decimal or
	// is not strictly positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidTransactionType indicates the type is neither credit nor debit.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrUserNotFound indicates the mutation referenced an unknown user.
	ErrUserNotFound = errors.New("user not found")
)

// Service validates mutation requests and drives them through the ledger.
// All input validation happens before the ledger is touched, so a rejected
// request leaves no observable effect.
type Service struct {
	users    user.Repository
	ledger   ledger.Ledger
	cache    *cache.Cache
	notifier notification.Notifier
}

// NewService builds a wallet service instance. cache and notifier may be nil.
func NewService(users user.Repository, led ledger.Ledger, c *cache.Cache, notifier notification.Notifier) *Service {
	return &Service{users: users, ledger: led, cache: c, notifier: notifier}
}

// ApplyInput captures one requested balance mutation. Amount arrives as a
// string so the caller never routes money through binary floating point.
type ApplyInput struct {
	UserID      int64
	Amount      string
	Type        string
	Description string
}

// State bundles a wallet with its owning user for responses.
type State struct {
	Wallet ledger.Wallet
	User   user.User
}

// ApplyMutation validates the input, applies the credit or debit atomically
// and invalidates cached reads for the user. Exactly one wallet update and
// one transaction insert happen per accepted call; none on rejection.
func (s *Service) ApplyMutation(ctx context.Context, input ApplyInput) (State, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil {
		return State{}, fmt.Errorf("%w: %q", ErrInvalidAmount, input.Amount)
	}
	if !amount.IsPositive() {
		return State{}, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}

	kind := ledger.EntryType(input.Type)
	if !kind.Valid() {
		return State{}, fmt.Errorf("%w: %q", ErrInvalidTransactionType, input.Type)
	}

	owner, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return State{}, ErrUserNotFound
		}
		return State{}, fmt.Errorf("look up user: %w", err)
	}

	w, err := s.ledger.Apply(ctx, input.UserID, amount, kind, input.Description)
	if err != nil {
		return State{}, err
	}

	_ = s.cache.Invalidate(ctx, walletKey(input.UserID), historyKey(input.UserID))

	if s.notifier != nil {
		verb := "credited"
		if kind == ledger.Debit {
			verb = "debited"
		}
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindWalletMutation,
			Destination: owner.Username,
			Body:        fmt.Sprintf("Your wallet was %s %s", verb, amount.StringFixed(2)),
		})
	}

	return State{Wallet: w, User: owner}, nil
}

// Wallet returns the current wallet state for userID, serving the balance
// from cache when possible.
func (s *Service) Wallet(ctx context.Context, userID int64) (State, error) {
	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return State{}, ErrUserNotFound
		}
		return State{}, fmt.Errorf("look up user: %w", err)
	}

	key := walletKey(userID)
	var w ledger.Wallet
	if found, err := s.cache.Get(ctx, key, &w); err == nil && found {
		return State{Wallet: w, User: owner}, nil
	}

	w, err = s.ledger.WalletFor(ctx, userID)
	if err != nil {
		return State{}, err
	}
	_ = s.cache.Set(ctx, key, w)
	return State{Wallet: w, User: owner}, nil
}

// Transactions lists the user's history newest first. An unknown user yields
// an empty list, not an error.
func (s *Service) Transactions(ctx context.Context, userID int64) ([]ledger.Transaction, error) {
	key := historyKey(userID)
	var cached []ledger.Transaction
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	entries, err := s.ledger.Transactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, entries)
	return entries, nil
}

func walletKey(userID int64) string {
	return fmt.Sprintf("wallet:user:%d", userID)
}

func historyKey(userID int64) string {
	return fmt.Sprintf("txhistory:user:%d", userID)
}
