package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Balances and amounts go over the wire and into the store file as JSON
	// numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionBet        TransactionType = "bet"
	TransactionWin        TransactionType = "win"
	TransactionRefund     TransactionType = "refund"
)

// TransactionCategory groups entries into account movements (deposits,
// withdrawals) and game movements (bets, wins, refunds).
type TransactionCategory string

const (
	CategoryAccount TransactionCategory = "account"
	CategoryGame    TransactionCategory = "game"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionDeposit, TransactionWithdrawal, TransactionBet, TransactionWin, TransactionRefund:
		return true
	}
	return false
}

// Category returns the category a transaction type belongs to.
func (t TransactionType) Category() TransactionCategory {
	switch t {
	case TransactionDeposit, TransactionWithdrawal:
		return CategoryAccount
	default:
		return CategoryGame
	}
}

// Metadata holds opaque per-transaction details (bet numbers, wheel outcome).
type Metadata map[string]any

// Transaction is a single immutable ledger entry. Amount is signed: debits
// (bets, withdrawals) are negative, credits positive. BalanceAfter is the
// account balance once the entry was applied, so replaying a log
// chronologically from the initial balance reproduces every entry.
type Transaction struct {
	ID           string              `json:"transactionId,omitempty"`
	Type         TransactionType     `json:"type"`
	Category     TransactionCategory `json:"category"`
	Amount       decimal.Decimal     `json:"amount"`
	Method       string              `json:"method,omitempty"`
	GameType     string              `json:"gameType,omitempty"`
	Details      Metadata            `json:"details,omitempty"`
	Timestamp    time.Time           `json:"timestamp"`
	BalanceAfter decimal.Decimal     `json:"balanceAfter"`
}

// NewTransaction builds an entry with a fresh timestamp and the category
// derived from the type.
func NewTransaction(txType TransactionType, amount, balanceAfter decimal.Decimal) Transaction {
	return Transaction{
		Type:         txType,
		Category:     txType.Category(),
		Amount:       amount,
		Timestamp:    time.Now().UTC(),
		BalanceAfter: balanceAfter,
	}
}

// UnmarshalJSON fills in the derived category for entries saved by clients
// that did not record one.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type alias Transaction
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*t = Transaction(a)
	if t.Type != "" && !t.Type.Valid() {
		return errors.New("unknown transaction type")
	}
	if t.Category == "" {
		t.Category = t.Type.Category()
	}
	return nil
}
