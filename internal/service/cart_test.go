package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamerstore/backend/internal/domain"
)

func TestGetCart(t *testing.T) {
	ctx := context.Background()
	stores := newMemStores()
	user := stores.addUser("alice", domain.RoleUser)
	svc := NewCartService(stores, testLogger())

	// first access creates an empty cart, second returns the same one
	first, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, first.Items)

	second, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds and merges lines", func(t *testing.T) {
		stores := newMemStores()
		user := stores.addUser("alice", domain.RoleUser)
		product := stores.addProduct("Keyboard", "49.99", 10)
		svc := NewCartService(stores, testLogger())

		summary, err := svc.AddItem(ctx, user.ID, product.ID, 2)
		require.NoError(t, err)
		require.Len(t, summary.Items, 1)
		assert.Equal(t, int32(2), summary.Items[0].Quantity)

		summary, err = svc.AddItem(ctx, user.ID, product.ID, 3)
		require.NoError(t, err)
		require.Len(t, summary.Items, 1)
		assert.Equal(t, int32(5), summary.Items[0].Quantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		stores := newMemStores()
		user := stores.addUser("alice", domain.RoleUser)
		product := stores.addProduct("Keyboard", "49.99", 10)
		svc := NewCartService(stores, testLogger())

		_, err := svc.AddItem(ctx, user.ID, product.ID, 0)
		require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("rejects missing product", func(t *testing.T) {
		stores := newMemStores()
		user := stores.addUser("alice", domain.RoleUser)
		svc := NewCartService(stores, testLogger())

		gone := stores.addProduct("gone", "1.00", 1)
		delete(stores.products, gone.ID)

		_, err := svc.AddItem(ctx, user.ID, gone.ID, 1)
		require.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("huge quantity cannot wrap past the stock check", func(t *testing.T) {
		stores := newMemStores()
		user := stores.addUser("alice", domain.RoleUser)
		product := stores.addProduct("GPU", "999.99", 5)
		svc := NewCartService(stores, testLogger())

		_, err := svc.AddItem(ctx, user.ID, product.ID, 2)
		require.NoError(t, err)

		// 2 + MaxInt32 overflows int32 to a negative sum
		_, err = svc.AddItem(ctx, user.ID, product.ID, math.MaxInt32)
		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

		summary, err := svc.GetCart(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, summary.Items, 1)
		assert.Equal(t, int32(2), summary.Items[0].Quantity)
	})

	t.Run("in-cart plus requested must fit live stock", func(t *testing.T) {
		stores := newMemStores()
		user := stores.addUser("alice", domain.RoleUser)
		product := stores.addProduct("GPU", "999.99", 5)
		svc := NewCartService(stores, testLogger())

		_, err := svc.AddItem(ctx, user.ID, product.ID, 3)
		require.NoError(t, err)

		_, err = svc.AddItem(ctx, user.ID, product.ID, 3)
		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})
}

func TestRemoveOne(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements and removes the line at zero", func(t *testing.T) {
		stores := newMemStores()
		user := stores.addUser("alice", domain.RoleUser)
		product := stores.addProduct("Mouse", "20.00", 10)
		svc := NewCartService(stores, testLogger())

		_, err := svc.AddItem(ctx, user.ID, product.ID, 2)
		require.NoError(t, err)

		summary, err := svc.RemoveOne(ctx, user.ID, product.ID)
		require.NoError(t, err)
		require.Len(t, summary.Items, 1)
		assert.Equal(t, int32(1), summary.Items[0].Quantity)

		summary, err = svc.RemoveOne(ctx, user.ID, product.ID)
		require.NoError(t, err)
		assert.Empty(t, summary.Items)
	})

	t.Run("fails on an absent line", func(t *testing.T) {
		stores := newMemStores()
		user := stores.addUser("alice", domain.RoleUser)
		product := stores.addProduct("Mouse", "20.00", 10)
		svc := NewCartService(stores, testLogger())

		// cart exists but is empty
		_, err := svc.GetCart(ctx, user.ID)
		require.NoError(t, err)

		_, err = svc.RemoveOne(ctx, user.ID, product.ID)
		require.ErrorIs(t, err, domain.ErrCartItemNotFound)
	})
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	stores := newMemStores()
	user := stores.addUser("alice", domain.RoleUser)
	a := stores.addProduct("A", "1.00", 10)
	b := stores.addProduct("B", "2.00", 10)
	svc := NewCartService(stores, testLogger())

	_, err := svc.AddItem(ctx, user.ID, a.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user.ID, b.ID, 2)
	require.NoError(t, err)

	summary, err := svc.ClearCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}
