package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedovbet/backend/internal/client"
	"github.com/dedovbet/backend/internal/ledger"
	"github.com/dedovbet/backend/internal/models"
	"github.com/dedovbet/backend/internal/roulette"
	"github.com/dedovbet/backend/internal/services"
	"github.com/dedovbet/backend/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.UserStore) {
	t.Helper()

	st := store.NewUserStore(filepath.Join(t.TempDir(), "users.json"))
	auth := services.NewAuthService(st, nil)
	wallet := services.NewWalletService(st, nil)

	ts := httptest.NewServer(NewRouter(auth, wallet))
	t.Cleanup(ts.Close)
	return ts, st
}

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAccountLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	ctx := context.Background()
	api := client.New(ts.URL)

	user, token, err := api.Register(ctx, map[string]any{
		"username": "highroller",
		"email":    "user@example.com",
		"password": "secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
	assert.True(t, user.Balance.Equal(models.StartingBalance))

	t.Run("login round trip", func(t *testing.T) {
		logged, _, err := api.Login(ctx, "user@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "highroller", logged.Username)
	})

	t.Run("token grants account access", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/account", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("account requires a token", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/api/account")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestSessionAgainstServer(t *testing.T) {
	ts, st := newTestServer(t)
	ctx := context.Background()
	api := client.New(ts.URL)

	user, _, err := api.Register(ctx, map[string]any{
		"username": "highroller",
		"email":    "user@example.com",
		"password": "secret123",
	})
	require.NoError(t, err)

	session := ledger.NewSession(api, *user)

	t.Run("deposit commits through the API", func(t *testing.T) {
		result, err := session.Deposit(ctx, money(500), "")
		require.NoError(t, err)
		assert.True(t, result.Balance.Equal(money(1500)))
		assert.NotEmpty(t, result.Transaction.ID)

		stored, err := st.Balance("highroller")
		require.NoError(t, err)
		assert.True(t, stored.Equal(money(1500)))
	})

	t.Run("roulette round settles against the store", func(t *testing.T) {
		round := roulette.NewRound(session, nil)
		require.NoError(t, round.PlaceNumberBet(ctx, 17, money(10)))

		result, err := round.SpinAt(ctx, 17)
		require.NoError(t, err)
		assert.True(t, result.Win.Equal(money(360)))

		// 1500 - 10 staked + 360 won
		stored, err := st.Balance("highroller")
		require.NoError(t, err)
		assert.True(t, stored.Equal(money(1850)))
		assert.True(t, session.Balance().Equal(money(1850)))
	})

	t.Run("withdrawal bounds enforced locally", func(t *testing.T) {
		_, err := session.Withdraw(ctx, money(10), "")
		assert.ErrorIs(t, err, ledger.ErrWithdrawalBelowMinimum)
	})

	t.Run("withdrawal commits through the API", func(t *testing.T) {
		result, err := session.Withdraw(ctx, money(850), "")
		require.NoError(t, err)
		assert.True(t, result.Balance.Equal(money(1000)))

		stored, err := st.Balance("highroller")
		require.NoError(t, err)
		assert.True(t, stored.Equal(money(1000)))
	})

	t.Run("history spans account and game activity", func(t *testing.T) {
		all := session.TransactionHistory(ledger.Filter{})
		// deposit, bet, win, withdrawal
		require.Len(t, all, 4)

		game := session.TransactionHistory(ledger.Filter{Category: models.CategoryGame})
		assert.Len(t, game, 2)

		deposits := session.TransactionHistory(ledger.Filter{Type: models.TransactionDeposit})
		require.Len(t, deposits, 1)
		assert.True(t, deposits[0].Amount.Equal(money(500)))
	})

	t.Run("server log matches session history", func(t *testing.T) {
		txs, err := api.Transactions(ctx, "highroller")
		require.NoError(t, err)
		require.Len(t, txs, 4)
		// Most recent first: the withdrawal tops the log.
		assert.Equal(t, models.TransactionWithdrawal, txs[0].Type)
	})

	t.Run("close persists and deactivates", func(t *testing.T) {
		require.NoError(t, session.Close(ctx))
		assert.False(t, session.Active())

		_, err := session.Deposit(ctx, money(100), "")
		assert.ErrorIs(t, err, ledger.ErrNotLoggedIn)
	})
}

func TestGatewayErrorsSurfaceAsStoreErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	ctx := context.Background()
	api := client.New(ts.URL)

	_, err := api.Balance(ctx, "ghost")
	var storeErr *ledger.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "User not found", storeErr.Message)
}
