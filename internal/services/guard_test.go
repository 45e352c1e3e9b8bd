package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticket-storefront/internal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSubmissionGuard_AcquireAndRelease(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	guard := NewRedisSubmissionGuard(db, 30*time.Second)
	guard.newToken = func() string { return "token-1" }

	key := GuardKey("cart-1")
	mockRedis.ExpectSetNX(key, "token-1", 30*time.Second).SetVal(true)
	mockRedis.ExpectEvalSha(releaseScript.Hash(), []string{key}, "token-1").SetVal(int64(1))

	release, err := guard.Acquire(context.Background(), "cart-1")
	require.NoError(t, err)
	release()
	release()

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisSubmissionGuard_Held(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	guard := NewRedisSubmissionGuard(db, 30*time.Second)
	guard.newToken = func() string { return "token-2" }

	mockRedis.ExpectSetNX(GuardKey("cart-1"), "token-2", 30*time.Second).SetVal(false)

	_, err := guard.Acquire(context.Background(), "cart-1")
	assert.ErrorIs(t, err, models.ErrSubmissionInFlight)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisSubmissionGuard_Error(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	guard := NewRedisSubmissionGuard(db, 30*time.Second)
	guard.newToken = func() string { return "token-3" }

	mockRedis.ExpectSetNX(GuardKey("cart-1"), "token-3", 30*time.Second).SetErr(errors.New("READONLY"))

	_, err := guard.Acquire(context.Background(), "cart-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrSubmissionInFlight)
}
