package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/domain"
	"github.com/ekoelbar/barclient/internal/storage"
	"github.com/ekoelbar/barclient/internal/storage/memory"
)

var (
	pilsner = domain.Beer{ID: 1, Name: "Pilsner", Price: decimal.RequireFromString("45"), Type: domain.BeerTypeTap, Available: true}
	ipa     = domain.Beer{ID: 2, Name: "IPA", Price: decimal.RequireFromString("55.50"), Type: domain.BeerTypeBottled, Available: true}
)

type failingStorage struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingStorage) Get(context.Context, string) ([]byte, error) { return nil, f.getErr }
func (f *failingStorage) Set(context.Context, string, []byte) error {
	f.sets++
	return f.setErr
}

func newStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()
	st := memory.New()
	return NewStore(context.Background(), st, zap.NewNop()), st
}

func TestStore_StartsEmpty(t *testing.T) {
	s, _ := newStore(t)

	assert.Empty(t, s.Lines())
	assert.Equal(t, 0, s.Count())
	assert.True(t, s.Total().IsZero())
}

func TestStore_AddMergesSameBeer(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	s.Add(ctx, pilsner, 1)
	s.Add(ctx, pilsner, 2)
	s.Add(ctx, pilsner, 4)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
	assert.Equal(t, 7, s.QuantityOf(pilsner.ID))
}

func TestStore_AddKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	s.Add(ctx, ipa, 1)
	s.Add(ctx, pilsner, 1)
	s.Add(ctx, ipa, 1)

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, ipa.ID, lines[0].Item.ID)
	assert.Equal(t, pilsner.ID, lines[1].Item.ID)
}

// Adding zero keeps a zero-quantity line rather than rejecting it. The
// catalog pages always add at least one, so this only shows up via the API.
func TestStore_AddZeroQuantityCreatesZeroLine(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	s.Add(ctx, pilsner, 0)

	assert.True(t, s.Contains(pilsner.ID))
	assert.Equal(t, 0, s.QuantityOf(pilsner.ID))
	assert.Equal(t, 0, s.Count())
	assert.Len(t, s.Lines(), 1)
}

func TestStore_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	s.Add(ctx, pilsner, 1)
	s.Add(ctx, ipa, 3)

	s.UpdateQuantity(ctx, pilsner.ID, 5)
	assert.Equal(t, 5, s.QuantityOf(pilsner.ID))
	assert.Equal(t, 3, s.QuantityOf(ipa.ID))
}

func TestStore_UpdateQuantityZeroOrNegativeRemoves(t *testing.T) {
	ctx := context.Background()

	for _, q := range []int{0, -1, -10} {
		s, _ := newStore(t)
		s.Add(ctx, pilsner, 2)

		s.UpdateQuantity(ctx, pilsner.ID, q)

		assert.False(t, s.Contains(pilsner.ID), "quantity %d", q)
		assert.Equal(t, 0, s.QuantityOf(pilsner.ID), "quantity %d", q)
	}
}

func TestStore_UpdateQuantityUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	s.Add(ctx, pilsner, 1)

	s.UpdateQuantity(ctx, 99, 3)

	assert.False(t, s.Contains(99))
	assert.Len(t, s.Lines(), 1)
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	s.Add(ctx, pilsner, 1)
	s.Add(ctx, ipa, 2)

	s.Remove(ctx, pilsner.ID)
	s.Remove(ctx, 99)

	assert.False(t, s.Contains(pilsner.ID))
	assert.Equal(t, 2, s.Count())
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s, st := newStore(t)
	s.Add(ctx, pilsner, 1)
	s.Add(ctx, ipa, 2)

	s.Clear(ctx)

	assert.Empty(t, s.Lines())
	raw, err := st.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestStore_CountAndTotal(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	s.Add(ctx, pilsner, 2) // 90
	s.Add(ctx, ipa, 3)     // 166.50

	assert.Equal(t, 5, s.Count())
	assert.True(t, decimal.RequireFromString("256.50").Equal(s.Total()), "got %s", s.Total())

	s.UpdateQuantity(ctx, ipa.ID, 1)
	assert.True(t, decimal.RequireFromString("145.50").Equal(s.Total()), "got %s", s.Total())

	s.Remove(ctx, pilsner.ID)
	assert.True(t, decimal.RequireFromString("55.50").Equal(s.Total()), "got %s", s.Total())
}

func TestStore_PersistRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, st := newStore(t)
	s.Add(ctx, pilsner, 2)
	s.Add(ctx, ipa, 1)

	restored := NewStore(ctx, st, zap.NewNop())

	require.Len(t, restored.Lines(), 2)
	assert.Equal(t, s.Count(), restored.Count())
	assert.True(t, s.Total().Equal(restored.Total()))
	assert.Equal(t, "Pilsner", restored.Lines()[0].Item.Name)
}

func TestStore_PersistedFormat(t *testing.T) {
	ctx := context.Background()
	s, st := newStore(t)
	s.Add(ctx, pilsner, 2)

	raw, err := st.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"item":{"id":1,"name":"Pilsner"`)
	assert.Contains(t, string(raw), `"quantity":2`)
}

func TestStore_CorruptedStorageYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Set(ctx, StorageKey, []byte(`{not json`)))

	s := NewStore(ctx, st, zap.NewNop())

	assert.Empty(t, s.Lines())
	assert.Equal(t, 0, s.Count())
}

func TestStore_UnreadableStorageYieldsEmptyCart(t *testing.T) {
	s := NewStore(context.Background(), &failingStorage{getErr: errors.New("disk gone")}, zap.NewNop())
	assert.Empty(t, s.Lines())
}

func TestStore_RestoreFoldsDuplicateLines(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Set(ctx, StorageKey, []byte(
		`[{"item":{"id":1,"name":"Pilsner","price":45},"quantity":1},
		  {"item":{"id":1,"name":"Pilsner","price":"45"},"quantity":2}]`)))

	s := NewStore(ctx, st, zap.NewNop())

	require.Len(t, s.Lines(), 1)
	assert.Equal(t, 3, s.QuantityOf(1))
}

func TestStore_PersistsPriceAsNumber(t *testing.T) {
	ctx := context.Background()
	s, st := newStore(t)

	s.Add(ctx, ipa, 2)

	data, err := st.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":55.5`)
	assert.NotContains(t, string(data), `"price":"`)
}

func TestStore_WriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	fs := &failingStorage{getErr: storage.ErrNotFound, setErr: errors.New("quota exceeded")}
	s := NewStore(ctx, fs, zap.NewNop())

	s.Add(ctx, pilsner, 3)

	assert.Equal(t, 1, fs.sets)
	assert.Equal(t, 3, s.Count())
}

func TestStore_SubscribeReplaysCurrentState(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	s.Add(ctx, pilsner, 2)

	ch, cancel := s.Subscribe()
	defer cancel()

	lines := <-ch
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestStore_SubscribeReceivesLatestSnapshot(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	ch, cancel := s.Subscribe()
	defer cancel()
	assert.Empty(t, <-ch)

	s.Add(ctx, pilsner, 1)
	s.Add(ctx, ipa, 1)
	s.Remove(ctx, pilsner.ID)

	lines := <-ch
	require.Len(t, lines, 1)
	assert.Equal(t, ipa.ID, lines[0].Item.ID)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra snapshot %v", extra)
	default:
	}
}

func TestStore_CancelClosesChannel(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	ch, cancel := s.Subscribe()
	<-ch
	cancel()
	cancel()

	s.Add(ctx, pilsner, 1)

	_, open := <-ch
	assert.False(t, open)
}

func TestStore_SnapshotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	s.Add(ctx, pilsner, 1)

	lines := s.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, s.QuantityOf(pilsner.ID))
}
