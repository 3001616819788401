// Package ledger mediates every balance-affecting action for one logged-in
// account. It keeps two balances: the committed balance last confirmed by
// the store of record, and a virtual balance reflecting bets the current
// round has not settled yet. Gameplay debits the virtual balance
// immediately; commits push the virtual value to the store and reconcile.
//
// A Session is scoped to a single login and is not safe for concurrent use:
// callers run operations to completion one at a time, the way a single
// event loop would. Construct one per login and pass it by reference to
// whatever game code needs it.
package ledger

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/shopspring/decimal"

	"github.com/dedovbet/backend/internal/models"
)

// Deposit and withdrawal bounds, checked locally before any network call.
var (
	MinDeposit    = decimal.NewFromInt(10)
	MaxDeposit    = decimal.NewFromInt(9999)
	MinWithdrawal = decimal.NewFromInt(25)
	MaxWithdrawal = decimal.NewFromInt(5000)
)

// DefaultMethod is used when a deposit or withdrawal names no payment method.
const DefaultMethod = "credit_card"

// balances is the virtual/committed split. reconcile marks the current
// virtual value as confirmed by the store.
type balances struct {
	committed decimal.Decimal
	virtual   decimal.Decimal
}

func (b *balances) reconcile() {
	b.committed = b.virtual
}

// BetIntent is one in-flight bet of the current round.
type BetIntent struct {
	Amount   decimal.Decimal
	GameType string
	PlacedAt string
}

// Update is pushed to subscribers whenever a balance changes.
type Update struct {
	Committed   decimal.Decimal
	Virtual     decimal.Decimal
	Transaction *models.Transaction
}

// Result is returned by every balance-mutating operation.
type Result struct {
	Balance     decimal.Decimal
	Transaction *models.Transaction
}

// GameResult is what a game engine reports when a round resolves.
type GameResult struct {
	IsWin     bool
	WinAmount decimal.Decimal
	GameType  string
	Details   models.Metadata
}

// Filter selects transactions from the session history. Zero fields match
// everything; set fields combine with AND. Dates are "2006-01-02" strings
// compared on the date portion only, bounds inclusive.
type Filter struct {
	Category models.TransactionCategory
	Type     models.TransactionType
	DateFrom string
	DateTo   string
}

// Session is the per-login ledger service.
type Session struct {
	gateway      Gateway
	cache        SnapshotCache
	account      models.PublicAccount
	bal          balances
	pending      []BetIntent
	transactions []models.Transaction
	diverged     bool
	active       bool
	subscribers  []func(Update)
}

// Option configures a Session.
type Option func(*Session)

// WithCache attaches a snapshot cache refreshed after committing operations.
func WithCache(c SnapshotCache) Option {
	return func(s *Session) { s.cache = c }
}

// NewSession opens a ledger session for an authenticated account. Both
// balances start at the account's server-confirmed value.
func NewSession(gw Gateway, account models.PublicAccount, opts ...Option) *Session {
	s := &Session{
		gateway: gw,
		account: account,
		bal:     balances{committed: account.Balance, virtual: account.Balance},
		active:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadHistory fetches the persisted transaction log into the session.
func (s *Session) LoadHistory(ctx context.Context) error {
	if !s.active {
		return ErrNotLoggedIn
	}
	txs, err := s.gateway.Transactions(ctx, s.account.Username)
	if err != nil {
		return fmt.Errorf("loading transaction history: %w", err)
	}
	s.transactions = txs
	return nil
}

// Username returns the logged-in account name.
func (s *Session) Username() string { return s.account.Username }

// Active reports whether the session still represents a logged-in user.
func (s *Session) Active() bool { return s.active }

// Balance returns the virtual balance, the value gameplay sees.
func (s *Session) Balance() decimal.Decimal { return s.bal.virtual }

// CommittedBalance returns the balance last confirmed by the store.
func (s *Session) CommittedBalance() decimal.Decimal { return s.bal.committed }

// Diverged reports whether a commit failed and the local balance no longer
// matches the store of record. Reconcile retries the push.
func (s *Session) Diverged() bool { return s.diverged }

// PendingBets returns the unsettled bets of the current round.
func (s *Session) PendingBets() []BetIntent {
	out := make([]BetIntent, len(s.pending))
	copy(out, s.pending)
	return out
}

// Subscribe registers fn to be called after every balance change.
func (s *Session) Subscribe(fn func(Update)) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) notify(tx *models.Transaction) {
	u := Update{Committed: s.bal.committed, Virtual: s.bal.virtual, Transaction: tx}
	for _, fn := range s.subscribers {
		fn(u)
	}
}

// PlaceBet debits the virtual balance, records a bet transaction and commits
// it to the store. Bets commit at placement time; if the commit fails the
// local debit stands, the session is marked diverged and the store error is
// returned alongside the result so the caller can Reconcile and retry.
func (s *Session) PlaceBet(ctx context.Context, amount decimal.Decimal, gameType string, details models.Metadata) (*Result, error) {
	if !s.active {
		return nil, ErrNotLoggedIn
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if amount.GreaterThan(s.bal.virtual) {
		return nil, ErrInsufficientBalance
	}

	s.bal.virtual = s.bal.virtual.Sub(amount)

	tx := models.NewTransaction(models.TransactionBet, amount.Neg(), s.bal.virtual)
	tx.GameType = gameType
	tx.Details = details
	s.record(tx)
	s.pending = append(s.pending, BetIntent{Amount: amount, GameType: gameType, PlacedAt: tx.Timestamp.Format("2006-01-02T15:04:05Z07:00")})

	err := s.commit(ctx, tx)
	s.notify(&tx)
	return &Result{Balance: s.bal.virtual, Transaction: &tx}, err
}

// ProcessGameResult settles the current round. A win credits the win amount
// and commits; a loss needs no further debit because stakes were taken at
// placement time. Pending bets are cleared either way.
func (s *Session) ProcessGameResult(ctx context.Context, result GameResult) (*Result, error) {
	if !s.active {
		return nil, ErrNotLoggedIn
	}

	s.pending = s.pending[:0]

	if !result.IsWin || !result.WinAmount.IsPositive() {
		return &Result{Balance: s.bal.virtual}, nil
	}

	s.bal.virtual = s.bal.virtual.Add(result.WinAmount)

	tx := models.NewTransaction(models.TransactionWin, result.WinAmount, s.bal.virtual)
	tx.GameType = result.GameType
	tx.Details = result.Details
	s.record(tx)

	err := s.commit(ctx, tx)
	s.notify(&tx)
	return &Result{Balance: s.bal.virtual, Transaction: &tx}, err
}

// RefundBet credits back a canceled bet and commits the refund.
func (s *Session) RefundBet(ctx context.Context, amount decimal.Decimal, gameType string) (*Result, error) {
	if !s.active {
		return nil, ErrNotLoggedIn
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	s.bal.virtual = s.bal.virtual.Add(amount)

	tx := models.NewTransaction(models.TransactionRefund, amount, s.bal.virtual)
	tx.GameType = gameType
	s.record(tx)

	err := s.commit(ctx, tx)
	s.notify(&tx)
	return &Result{Balance: s.bal.virtual, Transaction: &tx}, err
}

// Deposit adds funds through the store of record. Bounds are enforced
// locally first; on a store failure the local balances are untouched and
// the store's message is surfaced.
func (s *Session) Deposit(ctx context.Context, amount decimal.Decimal, method string) (*Result, error) {
	if !s.active {
		return nil, ErrNotLoggedIn
	}
	if method == "" {
		method = DefaultMethod
	}
	if amount.LessThan(MinDeposit) {
		return nil, ErrDepositBelowMinimum
	}
	if amount.GreaterThan(MaxDeposit) {
		return nil, ErrDepositAboveMaximum
	}

	balance, txID, err := s.gateway.Deposit(ctx, s.account.Username, amount, method)
	if err != nil {
		return nil, err
	}

	s.applyCommitted(balance)

	tx := models.NewTransaction(models.TransactionDeposit, amount, s.bal.virtual)
	tx.ID = txID
	tx.Method = method
	s.record(tx)

	s.refreshCache(ctx)
	s.notify(&tx)
	return &Result{Balance: s.bal.virtual, Transaction: &tx}, nil
}

// Withdraw removes funds through the store of record. Sufficiency is
// checked against the committed balance, never against provisional wins.
func (s *Session) Withdraw(ctx context.Context, amount decimal.Decimal, method string) (*Result, error) {
	if !s.active {
		return nil, ErrNotLoggedIn
	}
	if method == "" {
		method = DefaultMethod
	}
	if amount.LessThan(MinWithdrawal) {
		return nil, ErrWithdrawalBelowMinimum
	}
	if amount.GreaterThan(MaxWithdrawal) {
		return nil, ErrWithdrawalAboveMaximum
	}
	if amount.GreaterThan(s.bal.committed) {
		return nil, ErrInsufficientBalance
	}

	balance, txID, err := s.gateway.Withdraw(ctx, s.account.Username, amount, method)
	if err != nil {
		return nil, err
	}

	s.applyCommitted(balance)

	tx := models.NewTransaction(models.TransactionWithdrawal, amount.Neg(), s.bal.virtual)
	tx.ID = txID
	tx.Method = method
	s.record(tx)

	s.refreshCache(ctx)
	s.notify(&tx)
	return &Result{Balance: s.bal.virtual, Transaction: &tx}, nil
}

// TransactionHistory filters the session's local transaction mirror.
func (s *Session) TransactionHistory(f Filter) []models.Transaction {
	if !s.active {
		return []models.Transaction{}
	}

	out := make([]models.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		day := tx.Timestamp.UTC().Format("2006-01-02")
		if f.DateFrom != "" && day < f.DateFrom {
			continue
		}
		if f.DateTo != "" && day > f.DateTo {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// PersistBalance pushes the current virtual balance to the store as the new
// authoritative value and reconciles. Failures mark the session diverged;
// they are never swallowed.
func (s *Session) PersistBalance(ctx context.Context) error {
	if !s.active {
		return ErrNotLoggedIn
	}
	if _, err := s.gateway.UpdateBalance(ctx, s.account.Username, s.bal.virtual); err != nil {
		s.diverged = true
		return fmt.Errorf("persisting balance: %w", err)
	}
	s.bal.reconcile()
	s.diverged = false
	s.refreshCache(ctx)
	return nil
}

// Reconcile retries the authoritative push after a failed commit.
func (s *Session) Reconcile(ctx context.Context) error {
	return s.PersistBalance(ctx)
}

// Close persists the balance best-effort and logs the session out. The
// persist error is returned but logout happens regardless, mirroring a
// page-unload flush.
func (s *Session) Close(ctx context.Context) error {
	if !s.active {
		return nil
	}
	err := s.PersistBalance(ctx)
	s.Logout()
	return err
}

// Logout discards all session state without persisting anything.
func (s *Session) Logout() {
	s.active = false
	s.bal = balances{}
	s.pending = nil
	s.transactions = nil
	s.diverged = false
}

// commit writes the current virtual balance and the new transaction to the
// store. The balance push and the log append are two store calls; each is
// atomic only with respect to its own file rewrite.
func (s *Session) commit(ctx context.Context, tx models.Transaction) error {
	if _, err := s.gateway.UpdateBalance(ctx, s.account.Username, s.bal.virtual); err != nil {
		s.diverged = true
		return fmt.Errorf("committing balance: %w", err)
	}
	s.bal.reconcile()
	s.diverged = false

	if err := s.gateway.SaveTransaction(ctx, s.account.Username, tx); err != nil {
		return fmt.Errorf("saving transaction: %w", err)
	}

	s.refreshCache(ctx)
	return nil
}

// applyCommitted mirrors a store-confirmed balance while preserving any
// local provisional offset between virtual and committed.
func (s *Session) applyCommitted(balance decimal.Decimal) {
	offset := s.bal.virtual.Sub(s.bal.committed)
	s.bal.committed = balance
	s.bal.virtual = balance.Add(offset)
}

func (s *Session) record(tx models.Transaction) {
	s.transactions = append([]models.Transaction{tx}, s.transactions...)
}

func (s *Session) refreshCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.account.Balance = s.bal.committed
	if err := s.cache.PutAccount(ctx, s.account); err != nil {
		log.Printf("[LEDGER] Failed to refresh session cache for %s: %v", s.account.Username, err)
	}
}
