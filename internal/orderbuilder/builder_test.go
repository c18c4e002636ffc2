package orderbuilder

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/safar/vendor-portal/internal/database"
	"github.com/safar/vendor-portal/internal/models"
	"github.com/safar/vendor-portal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	seed, err := store.DefaultSeed()
	require.NoError(t, err)
	return New(store.NewMemoryStore(seed), 0)
}

func TestBuilderSubmit(t *testing.T) {
	ctx := context.Background()
	b := newBuilder(t)

	summary, err := b.SelectVendor(ctx, "s1", "1")
	require.NoError(t, err)
	assert.Len(t, summary.Catalog, 2)

	_, err = b.Update("s1", func(d *Draft) error { return d.AddLine("P001") })
	require.NoError(t, err)

	sub, err := b.Submit(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sub.OrderID, "PO-"))
	assert.NotContains(t, []string{"PO-001", "PO-002", "PO-003", "PO-004"}, sub.OrderID)
	assert.Equal(t, models.NotificationDefault, sub.Notification.Variant)
	assert.Contains(t, sub.Notification.Description, sub.OrderID)

	orders, err := b.store.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 4)

	assert.Empty(t, b.View("s1").Lines)
	assert.Empty(t, b.View("s1").VendorID)
}

func TestBuilderSubmitValidationKeepsDraft(t *testing.T) {
	ctx := context.Background()
	b := newBuilder(t)

	_, err := b.SelectVendor(ctx, "s1", "2")
	require.NoError(t, err)

	_, err = b.Submit(ctx, "s1")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, "2", b.View("s1").VendorID)
}

func TestBuilderDraftsArePerSession(t *testing.T) {
	ctx := context.Background()
	b := newBuilder(t)

	_, err := b.SelectVendor(ctx, "a", "1")
	require.NoError(t, err)

	assert.Equal(t, "1", b.View("a").VendorID)
	assert.Empty(t, b.View("b").VendorID)

	b.Discard("a")
	assert.Empty(t, b.View("a").VendorID)
}

func TestBuilderUnknownVendor(t *testing.T) {
	b := newBuilder(t)
	_, err := b.SelectVendor(context.Background(), "s1", "99")
	assert.ErrorIs(t, err, database.ErrVendorNotFound)
}

func TestBuilderSubmitCancelled(t *testing.T) {
	seed, err := store.DefaultSeed()
	require.NoError(t, err)
	b := New(store.NewMemoryStore(seed), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	_, err = b.SelectVendor(ctx, "s1", "1")
	require.NoError(t, err)
	_, err = b.Update("s1", func(d *Draft) error { return d.AddLine("P004") })
	require.NoError(t, err)

	cancel()
	_, err = b.Submit(ctx, "s1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, b.View("s1").Lines, 1)
}

func TestBuilderEditsDuringSubmitStartNewDraft(t *testing.T) {
	ctx := context.Background()
	b := newBuilder(t)

	_, err := b.SelectVendor(ctx, "s1", "1")
	require.NoError(t, err)
	_, err = b.Update("s1", func(d *Draft) error { return d.AddLine("P001") })
	require.NoError(t, err)

	b.wait = func(ctx context.Context, _ time.Duration) error {
		_, err := b.SelectVendor(ctx, "s1", "2")
		return err
	}

	sub, err := b.Submit(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "1", sub.Summary.VendorID)
	require.Len(t, sub.Summary.Lines, 1)

	kept := b.View("s1")
	assert.Equal(t, "2", kept.VendorID)
	assert.Empty(t, kept.Lines)
}

func TestBuilderFailedSubmitKeepsNewerDraft(t *testing.T) {
	ctx := context.Background()
	b := newBuilder(t)

	_, err := b.SelectVendor(ctx, "s1", "1")
	require.NoError(t, err)
	_, err = b.Update("s1", func(d *Draft) error { return d.AddLine("P001") })
	require.NoError(t, err)

	b.wait = func(ctx context.Context, _ time.Duration) error {
		if _, err := b.SelectVendor(ctx, "s1", "2"); err != nil {
			return err
		}
		return context.Canceled
	}

	_, err = b.Submit(ctx, "s1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "2", b.View("s1").VendorID)
}
