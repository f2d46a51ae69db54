package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrikart/agrikart/internal/domain/identity"
	"github.com/agrikart/agrikart/internal/domain/product"
	"github.com/agrikart/agrikart/internal/storage"
)

// --- Mock implementations ---

type stubProvider struct {
	id       identity.Identity
	signedIn bool
}

func (p *stubProvider) Current() (identity.Identity, bool) {
	return p.id, p.signedIn
}

// unreadableBridge fails every Load the way a damaged compressed container
// does, and records whether the entry was purged.
type unreadableBridge struct {
	*storage.Memory
	cleared bool
}

func (b *unreadableBridge) Load(context.Context, string, string) ([]byte, error) {
	return nil, errors.New("gzip: invalid header")
}

func (b *unreadableBridge) Clear(ctx context.Context, identityID, key string) error {
	b.cleared = true
	return b.Memory.Clear(ctx, identityID, key)
}

// --- Helpers ---

func newTestCatalog() product.Catalog {
	return product.NewMemoryCatalog(
		product.Product{ID: "p1", Name: "Tiller", Price: decimal.RequireFromString("100.00"), Colors: []string{"Red", "Green"}},
		product.Product{ID: "p2", Name: "Sprayer", Price: decimal.RequireFromString("250.00")},
	)
}

func newTestCart(t *testing.T) (*Cart, *storage.Memory) {
	t.Helper()
	bridge := storage.NewMemory()
	provider := &stubProvider{id: identity.Identity{ID: "u1", Username: "farmer"}, signedIn: true}
	c := New(provider, newTestCatalog(), bridge, zap.NewNop())
	c.Load(context.Background(), "u1")
	return c, bridge
}

// --- Tests ---

func TestAdd_RequiresSignIn(t *testing.T) {
	c := New(&stubProvider{}, newTestCatalog(), storage.NewMemory(), zap.NewNop())

	err := c.Add(context.Background(), "p1", 1, "")
	require.ErrorIs(t, err, identity.ErrNotAuthenticated)
	assert.Empty(t, c.Lines())
}

func TestAdd_UnknownProduct(t *testing.T) {
	c, _ := newTestCart(t)

	err := c.Add(context.Background(), "missing", 1, "")
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestAdd_InvalidQuantity(t *testing.T) {
	c, _ := newTestCart(t)

	err := c.Add(context.Background(), "p1", 0, "")

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, "p1", iqErr.ProductID)
}

func TestAdd_MergesIntoExistingLine(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "p1", 2, "Red"))
	require.NoError(t, c.Add(ctx, "p1", 1, ""))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "Red", lines[0].Color, "empty color must not overwrite the stored one")
	assert.True(t, lines[0].Selected)

	// A non-empty color does overwrite.
	require.NoError(t, c.Add(ctx, "p1", 1, "Green"))
	assert.Equal(t, "Green", c.Lines()[0].Color)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "p1", 2, ""))
	c.UpdateQuantity(ctx, "p1", 0)

	assert.Empty(t, c.Lines())
}

func TestUpdateQuantity_SetsVerbatim(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "p1", 2, ""))
	c.UpdateQuantity(ctx, "p1", 7)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
}

func TestTotals(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "p1", 2, "")) // 200.00
	require.NoError(t, c.Add(ctx, "p2", 1, "")) // 250.00
	c.SetSelected(ctx, "p2", false)

	assert.True(t, decimal.RequireFromString("450.00").Equal(c.Total()))
	assert.True(t, decimal.RequireFromString("200.00").Equal(c.SelectedTotal()))
	assert.True(t, c.SelectedTotal().LessThanOrEqual(c.Total()))
	assert.Equal(t, 3, c.ItemCount())
}

func TestSelectAll(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "p1", 1, ""))
	require.NoError(t, c.Add(ctx, "p2", 1, ""))

	c.SelectAll(ctx, false)
	assert.Empty(t, c.SelectedLines())

	c.SelectAll(ctx, true)
	assert.Len(t, c.SelectedLines(), 2)
}

func TestConsumeSelected_KeepsUnselectedLines(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "p1", 2, ""))
	require.NoError(t, c.Add(ctx, "p2", 1, ""))
	c.SetSelected(ctx, "p2", false)

	taken := c.ConsumeSelected(ctx)
	require.Len(t, taken, 1)
	assert.Equal(t, "p1", taken[0].ProductID)

	remaining := c.Lines()
	require.Len(t, remaining, 1)
	assert.Equal(t, "p2", remaining[0].ProductID)
}

func TestPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	bridge := storage.NewMemory()
	provider := &stubProvider{id: identity.Identity{ID: "u1"}, signedIn: true}
	catalog := newTestCatalog()

	c := New(provider, catalog, bridge, zap.NewNop())
	c.Load(ctx, "u1")
	require.NoError(t, c.Add(ctx, "p1", 2, "Red"))
	c.SetSelected(ctx, "p1", false)

	// A fresh cart over the same bridge sees the persisted lines.
	c2 := New(provider, catalog, bridge, zap.NewNop())
	c2.Load(ctx, "u1")

	lines := c2.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, Line{ProductID: "p1", Quantity: 2, Color: "Red", Selected: false}, lines[0])
}

func TestLoad_PurgesCorruptDocument(t *testing.T) {
	ctx := context.Background()
	bridge := storage.NewMemory()
	require.NoError(t, bridge.Save(ctx, "u1", bridgeKey, []byte("{not json")))

	provider := &stubProvider{id: identity.Identity{ID: "u1"}, signedIn: true}
	c := New(provider, newTestCatalog(), bridge, zap.NewNop())
	c.Load(ctx, "u1")

	assert.Empty(t, c.Lines())
	_, err := bridge.Load(ctx, "u1", bridgeKey)
	assert.ErrorIs(t, err, storage.ErrNotFound, "corrupt document must be purged")
}

func TestLoad_PurgesUnreadableDocument(t *testing.T) {
	bridge := &unreadableBridge{Memory: storage.NewMemory()}
	provider := &stubProvider{id: identity.Identity{ID: "u1"}, signedIn: true}
	c := New(provider, newTestCatalog(), bridge, zap.NewNop())
	c.Load(context.Background(), "u1")

	assert.Empty(t, c.Lines())
	assert.True(t, bridge.cleared, "an unreadable document must be purged, not left to fail again")
}

func TestReset_LeavesPersistedState(t *testing.T) {
	c, bridge := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "p1", 1, ""))
	c.Reset()

	assert.Empty(t, c.Lines())
	_, err := bridge.Load(ctx, "u1", bridgeKey)
	assert.NoError(t, err, "sign-out must not delete the persisted cart")
}
