package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedovbet/backend/internal/models"
)

func testAccount() models.PublicAccount {
	return models.PublicAccount{
		Username: "HighRoller",
		Email:    "user@example.com",
		Balance:  decimal.NewFromInt(1000),
	}
}

func TestSessionCache_PutAccount(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := New(rdb)

	account := testAccount()
	data, err := json.Marshal(account)
	require.NoError(t, err)

	// Keys are lowercased so lookups ignore username casing.
	mock.ExpectSet("session:highroller", data, snapshotTTL).SetVal("OK")

	require.NoError(t, c.PutAccount(context.Background(), account))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionCache_GetAccount(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		c := New(rdb)

		data, err := json.Marshal(testAccount())
		require.NoError(t, err)
		mock.ExpectGet("session:highroller").SetVal(string(data))

		account, err := c.GetAccount(context.Background(), "HighRoller")
		require.NoError(t, err)
		assert.Equal(t, "HighRoller", account.Username)
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(1000)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		c := New(rdb)

		mock.ExpectGet("session:ghost").RedisNil()

		_, err := c.GetAccount(context.Background(), "ghost")
		assert.ErrorIs(t, err, redis.Nil)
	})
}

func TestSessionCache_Delete(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := New(rdb)

	mock.ExpectDel("session:highroller").SetVal(1)

	require.NoError(t, c.Delete(context.Background(), "HighRoller"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionCache_NilSafe(t *testing.T) {
	var c *SessionCache

	assert.NoError(t, c.PutAccount(context.Background(), testAccount()))
	assert.NoError(t, c.Delete(context.Background(), "highroller"))

	_, err := c.GetAccount(context.Background(), "highroller")
	assert.ErrorIs(t, err, redis.Nil)
}
