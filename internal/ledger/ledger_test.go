package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedovbet/backend/internal/models"
)

// fakeGateway is an in-memory store of record. Individual calls can be made
// to fail to exercise the failure semantics.
type fakeGateway struct {
	balance      decimal.Decimal
	saved        []models.Transaction
	depositIDs   int
	failUpdate   bool
	failDeposit  bool
	failWithdraw bool
	updateCalls  int
}

func (g *fakeGateway) Balance(ctx context.Context, username string) (decimal.Decimal, error) {
	return g.balance, nil
}

func (g *fakeGateway) Deposit(ctx context.Context, username string, amount decimal.Decimal, method string) (decimal.Decimal, string, error) {
	if g.failDeposit {
		return decimal.Zero, "", &StoreError{Message: "store offline"}
	}
	g.balance = g.balance.Add(amount)
	g.depositIDs++
	return g.balance, "tx-dep", nil
}

func (g *fakeGateway) Withdraw(ctx context.Context, username string, amount decimal.Decimal, method string) (decimal.Decimal, string, error) {
	if g.failWithdraw {
		return decimal.Zero, "", &StoreError{Message: "store offline"}
	}
	g.balance = g.balance.Sub(amount)
	return g.balance, "tx-wd", nil
}

func (g *fakeGateway) UpdateBalance(ctx context.Context, username string, balance decimal.Decimal) (decimal.Decimal, error) {
	g.updateCalls++
	if g.failUpdate {
		return decimal.Zero, &StoreError{Message: "store offline"}
	}
	g.balance = balance
	return g.balance, nil
}

func (g *fakeGateway) SaveTransaction(ctx context.Context, username string, tx models.Transaction) error {
	g.saved = append(g.saved, tx)
	return nil
}

func (g *fakeGateway) Transactions(ctx context.Context, username string) ([]models.Transaction, error) {
	return g.saved, nil
}

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newTestSession(balance int64) (*Session, *fakeGateway) {
	gw := &fakeGateway{balance: money(balance)}
	session := NewSession(gw, models.PublicAccount{Username: "highroller", Balance: money(balance)})
	return session, gw
}

func TestSession_PlaceBet(t *testing.T) {
	ctx := context.Background()

	t.Run("debits virtual balance and commits", func(t *testing.T) {
		session, gw := newTestSession(1000)

		result, err := session.PlaceBet(ctx, money(50), "roulette", nil)
		require.NoError(t, err)

		assert.True(t, result.Balance.Equal(money(950)))
		assert.True(t, session.Balance().Equal(money(950)))
		assert.True(t, session.CommittedBalance().Equal(money(950)))
		assert.True(t, gw.balance.Equal(money(950)))
		assert.False(t, session.Diverged())

		require.NotNil(t, result.Transaction)
		assert.Equal(t, models.TransactionBet, result.Transaction.Type)
		assert.True(t, result.Transaction.Amount.Equal(money(-50)))
		assert.True(t, result.Transaction.BalanceAfter.Equal(money(950)))
		assert.Len(t, session.PendingBets(), 1)
	})

	t.Run("invalid amount", func(t *testing.T) {
		session, _ := newTestSession(1000)
		_, err := session.PlaceBet(ctx, money(0), "roulette", nil)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("insufficient virtual balance across a round", func(t *testing.T) {
		session, _ := newTestSession(100)

		_, err := session.PlaceBet(ctx, money(80), "roulette", nil)
		require.NoError(t, err)

		// Second bet checked against the already-debited virtual balance.
		_, err = session.PlaceBet(ctx, money(30), "roulette", nil)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("not logged in", func(t *testing.T) {
		session, _ := newTestSession(1000)
		session.Logout()
		_, err := session.PlaceBet(ctx, money(10), "roulette", nil)
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("failed commit keeps local debit and marks divergence", func(t *testing.T) {
		session, gw := newTestSession(1000)
		gw.failUpdate = true

		result, err := session.PlaceBet(ctx, money(50), "roulette", nil)
		require.Error(t, err)

		assert.True(t, result.Balance.Equal(money(950)))
		assert.True(t, session.CommittedBalance().Equal(money(1000)))
		assert.True(t, session.Diverged())

		gw.failUpdate = false
		require.NoError(t, session.Reconcile(ctx))
		assert.False(t, session.Diverged())
		assert.True(t, gw.balance.Equal(money(950)))
	})
}

func TestSession_ProcessGameResult(t *testing.T) {
	ctx := context.Background()

	t.Run("loss leaves balance at post-bet value", func(t *testing.T) {
		session, _ := newTestSession(1000)

		_, err := session.PlaceBet(ctx, money(100), "roulette", nil)
		require.NoError(t, err)

		result, err := session.ProcessGameResult(ctx, GameResult{IsWin: false, GameType: "roulette"})
		require.NoError(t, err)

		assert.True(t, result.Balance.Equal(money(900)))
		assert.Nil(t, result.Transaction)
		assert.Empty(t, session.PendingBets())
	})

	t.Run("win credits win amount", func(t *testing.T) {
		session, gw := newTestSession(1000)

		_, err := session.PlaceBet(ctx, money(100), "roulette", nil)
		require.NoError(t, err)

		result, err := session.ProcessGameResult(ctx, GameResult{
			IsWin:     true,
			WinAmount: money(360),
			GameType:  "roulette",
		})
		require.NoError(t, err)

		// balance_before - stake + win
		assert.True(t, result.Balance.Equal(money(1260)))
		assert.True(t, gw.balance.Equal(money(1260)))
		require.NotNil(t, result.Transaction)
		assert.Equal(t, models.TransactionWin, result.Transaction.Type)
		assert.Empty(t, session.PendingBets())
	})
}

func TestSession_Deposit(t *testing.T) {
	ctx := context.Background()

	t.Run("bounds", func(t *testing.T) {
		session, _ := newTestSession(1000)

		_, err := session.Deposit(ctx, money(9), "")
		assert.ErrorIs(t, err, ErrDepositBelowMinimum)

		_, err = session.Deposit(ctx, money(10000), "")
		assert.ErrorIs(t, err, ErrDepositAboveMaximum)
	})

	t.Run("success increases balance by exactly the amount", func(t *testing.T) {
		session, _ := newTestSession(1000)

		result, err := session.Deposit(ctx, money(500), "bank_transfer")
		require.NoError(t, err)

		assert.True(t, result.Balance.Equal(money(1500)))
		assert.Equal(t, "tx-dep", result.Transaction.ID)
		assert.Equal(t, "bank_transfer", result.Transaction.Method)
		assert.True(t, session.CommittedBalance().Equal(money(1500)))
	})

	t.Run("store failure leaves local state unchanged", func(t *testing.T) {
		session, gw := newTestSession(1000)
		gw.failDeposit = true

		_, err := session.Deposit(ctx, money(100), "")
		require.Error(t, err)

		var storeErr *StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "store offline", storeErr.Message)
		assert.True(t, session.Balance().Equal(money(1000)))
		assert.True(t, session.CommittedBalance().Equal(money(1000)))
	})
}

func TestSession_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("bounds", func(t *testing.T) {
		session, _ := newTestSession(1000)

		_, err := session.Withdraw(ctx, money(24), "")
		assert.ErrorIs(t, err, ErrWithdrawalBelowMinimum)

		_, err = session.Withdraw(ctx, money(5001), "")
		assert.ErrorIs(t, err, ErrWithdrawalAboveMaximum)
	})

	t.Run("insufficient committed balance", func(t *testing.T) {
		session, _ := newTestSession(100)
		_, err := session.Withdraw(ctx, money(200), "")
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("checked against committed, not provisional wins", func(t *testing.T) {
		gw := &fakeGateway{balance: money(100)}
		session := NewSession(gw, models.PublicAccount{Username: "highroller", Balance: money(100)})

		// Simulate an uncommitted provisional credit.
		session.bal.virtual = money(6000)

		_, err := session.Withdraw(ctx, money(500), "")
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("success", func(t *testing.T) {
		session, _ := newTestSession(1000)

		result, err := session.Withdraw(ctx, money(250), "")
		require.NoError(t, err)

		assert.True(t, result.Balance.Equal(money(750)))
		assert.True(t, result.Transaction.Amount.Equal(money(-250)))
		assert.Equal(t, DefaultMethod, result.Transaction.Method)
	})

	t.Run("store failure leaves local state unchanged", func(t *testing.T) {
		session, gw := newTestSession(1000)
		gw.failWithdraw = true

		_, err := session.Withdraw(ctx, money(100), "")
		require.Error(t, err)
		assert.True(t, session.Balance().Equal(money(1000)))
	})
}

func TestSession_RefundBet(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession(1000)

	_, err := session.PlaceBet(ctx, money(100), "roulette", nil)
	require.NoError(t, err)

	result, err := session.RefundBet(ctx, money(100), "roulette")
	require.NoError(t, err)

	assert.True(t, result.Balance.Equal(money(1000)))
	assert.Equal(t, models.TransactionRefund, result.Transaction.Type)

	_, err = session.RefundBet(ctx, money(0), "roulette")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSession_TransactionHistory(t *testing.T) {
	session, _ := newTestSession(1000)

	day := func(d string) time.Time {
		ts, err := time.Parse("2006-01-02T15:04:05Z", d)
		if err != nil {
			t.Fatalf("bad test timestamp: %v", err)
		}
		return ts
	}

	session.transactions = []models.Transaction{
		{Type: models.TransactionWin, Category: models.CategoryGame, Timestamp: day("2024-01-02T10:00:00Z")},
		{Type: models.TransactionBet, Category: models.CategoryGame, Timestamp: day("2024-01-01T23:59:59Z")},
		{Type: models.TransactionDeposit, Category: models.CategoryAccount, Timestamp: day("2024-01-01T12:00:00Z")},
		{Type: models.TransactionBet, Category: models.CategoryGame, Timestamp: day("2023-12-31T10:00:00Z")},
	}

	t.Run("no filter returns everything", func(t *testing.T) {
		assert.Len(t, session.TransactionHistory(Filter{}), 4)
	})

	t.Run("category and day filters combine with AND", func(t *testing.T) {
		got := session.TransactionHistory(Filter{
			Category: models.CategoryGame,
			DateFrom: "2024-01-01",
			DateTo:   "2024-01-01",
		})
		require.Len(t, got, 1)
		assert.Equal(t, models.TransactionBet, got[0].Type)
	})

	t.Run("type filter", func(t *testing.T) {
		got := session.TransactionHistory(Filter{Type: models.TransactionBet})
		assert.Len(t, got, 2)
	})

	t.Run("date bounds inclusive", func(t *testing.T) {
		got := session.TransactionHistory(Filter{DateFrom: "2023-12-31", DateTo: "2024-01-01"})
		assert.Len(t, got, 3)
	})

	t.Run("logged out returns nothing", func(t *testing.T) {
		session.Logout()
		assert.Empty(t, session.TransactionHistory(Filter{}))
	})
}

func TestSession_Subscribe(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession(1000)

	var updates []Update
	session.Subscribe(func(u Update) { updates = append(updates, u) })

	_, err := session.PlaceBet(ctx, money(50), "roulette", nil)
	require.NoError(t, err)
	_, err = session.Deposit(ctx, money(100), "")
	require.NoError(t, err)

	require.Len(t, updates, 2)
	assert.True(t, updates[0].Virtual.Equal(money(950)))
	assert.True(t, updates[1].Virtual.Equal(money(1050)))
	assert.Equal(t, models.TransactionDeposit, updates[1].Transaction.Type)
}

func TestSession_Close(t *testing.T) {
	ctx := context.Background()
	session, gw := newTestSession(1000)

	_, err := session.PlaceBet(ctx, money(10), "roulette", nil)
	require.NoError(t, err)

	require.NoError(t, session.Close(ctx))
	assert.False(t, session.Active())
	assert.True(t, gw.balance.Equal(money(990)))

	// Closing twice is a no-op.
	assert.NoError(t, session.Close(ctx))
}

func TestSession_LoadHistory(t *testing.T) {
	ctx := context.Background()
	session, gw := newTestSession(1000)
	gw.saved = []models.Transaction{
		models.NewTransaction(models.TransactionDeposit, money(100), money(1100)),
	}

	require.NoError(t, session.LoadHistory(ctx))
	assert.Len(t, session.TransactionHistory(Filter{}), 1)
}
