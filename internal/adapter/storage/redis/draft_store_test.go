package redis

import (
	"context"
	"testing"
	"time"

	"remitflow/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDraft() *domain.TransferDraft {
	account := &domain.Account{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Currency: "USD",
		Balance:  decimal.NewFromInt(1000),
	}
	return domain.NewTransferDraft(account.UserID, account)
}

func TestDraftStore_SaveAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewDraftStore(client)
	ctx := context.Background()

	draft := testDraft()
	draft.DestinationCountry = "DE"
	draft.DestinationCurrency = "EUR"
	draft.Bump()

	require.NoError(t, store.Save(ctx, draft, 30*time.Minute))

	got, err := store.Get(ctx, draft.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, draft.ID, got.ID)
	assert.Equal(t, draft.UserID, got.UserID)
	assert.Equal(t, "EUR", got.DestinationCurrency)
	assert.Equal(t, draft.Version, got.Version)
}

func TestDraftStore_Get_Missing(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewDraftStore(client)

	got, err := store.Get(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftStore_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewDraftStore(client)
	ctx := context.Background()

	draft := testDraft()
	require.NoError(t, store.Save(ctx, draft, 1*time.Second))

	// Fast-forward time in miniredis
	s.FastForward(2 * time.Second)

	got, err := store.Get(ctx, draft.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftStore_Delete(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewDraftStore(client)
	ctx := context.Background()

	draft := testDraft()
	require.NoError(t, store.Save(ctx, draft, time.Minute))
	require.NoError(t, store.Delete(ctx, draft.ID))

	got, err := store.Get(ctx, draft.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftStore_PreservesAmounts(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewDraftStore(client)
	ctx := context.Background()

	draft := testDraft()
	draft.SendAmount = decimal.RequireFromString("500")
	draft.FeeAmount = decimal.RequireFromString("10")
	draft.ExchangeRate = decimal.RequireFromString("0.92")
	draft.ConvertedAmount = decimal.RequireFromString("460")
	draft.Quoted = true

	require.NoError(t, store.Save(ctx, draft, time.Minute))

	got, err := store.Get(ctx, draft.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.SendAmount.Equal(decimal.RequireFromString("500")))
	assert.True(t, got.ConvertedAmount.Equal(decimal.RequireFromString("460")))
	assert.True(t, got.Quoted)
}
