package database

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "test.db"), time.Second, logger)
	require.NoError(t, err)
	return store
}

func TestBoltStoreInsertAndFind(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Insert(ctx, "items",
		Record{ID: "b", Data: []byte(`{"n":2}`)},
		Record{ID: "a", Data: []byte(`{"n":1}`)},
	))

	data, err := store.FindByID(ctx, "items", "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(data))

	all, err := store.FindAll(ctx, "items")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.JSONEq(t, `{"n":1}`, string(all[0]))

	count, err := store.Count(ctx, "items")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = store.FindByID(ctx, "items", "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = store.FindByID(ctx, "other", "a")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestBoltStoreInsertDuplicateRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Insert(ctx, "items", Record{ID: "a", Data: []byte(`{}`)}))

	err := store.Insert(ctx, "items",
		Record{ID: "c", Data: []byte(`{}`)},
		Record{ID: "a", Data: []byte(`{}`)},
	)
	assert.ErrorIs(t, err, ErrDuplicateID)

	count, err := store.Count(ctx, "items")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBoltStoreIndexRequiresEnsure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.FindByIndex(ctx, "items", "code", "x")
	assert.ErrorIs(t, err, ErrIndexNotEnsured)
}

func TestBoltStoreIndexBackfillAndMaintenance(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Insert(ctx, "items",
		Record{ID: "1", Data: []byte(`{"id":1}`), Indexes: map[string]string{"code": "A"}},
		Record{ID: "2", Data: []byte(`{"id":2}`), Indexes: map[string]string{"code": "AB"}},
	))
	require.NoError(t, store.EnsureIndex(ctx, "items", "code"))
	require.NoError(t, store.EnsureIndex(ctx, "items", "code"))

	rows, err := store.FindByIndex(ctx, "items", "code", "A")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.JSONEq(t, `{"id":1}`, string(rows[0]))

	require.NoError(t, store.Insert(ctx, "items",
		Record{ID: "3", Data: []byte(`{"id":3}`), Indexes: map[string]string{"code": "A"}},
	))
	rows, err = store.FindByIndex(ctx, "items", "code", "A")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	err = store.Modify(ctx, "items", "1", func(data []byte) (Record, error) {
		return Record{ID: "1", Data: data, Indexes: map[string]string{"code": "Z"}}, nil
	})
	require.NoError(t, err)

	rows, err = store.FindByIndex(ctx, "items", "code", "A")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.JSONEq(t, `{"id":3}`, string(rows[0]))

	rows, err = store.FindByIndex(ctx, "items", "code", "Z")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestBoltStoreModify(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Insert(ctx, "items", Record{ID: "a", Data: []byte(`{"v":1}`)}))

	err := store.Modify(ctx, "items", "missing", func(data []byte) (Record, error) {
		return Record{}, nil
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	boom := errors.New("boom")
	err = store.Modify(ctx, "items", "a", func(data []byte) (Record, error) {
		return Record{}, boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := store.FindByID(ctx, "items", "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(data))

	err = store.Modify(ctx, "items", "a", func(data []byte) (Record, error) {
		return Record{ID: "a", Data: []byte(`{"v":2}`)}, nil
	})
	require.NoError(t, err)

	data, err = store.FindByID(ctx, "items", "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(data))
}

func TestBoltStoreReplaceAllAndDeleteAll(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Insert(ctx, "single",
		Record{ID: "x", Data: []byte(`{"v":"x"}`)},
		Record{ID: "y", Data: []byte(`{"v":"y"}`)},
	))
	require.NoError(t, store.ReplaceAll(ctx, "single", Record{ID: "z", Data: []byte(`{"v":"z"}`)}))

	all, err := store.FindAll(ctx, "single")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.JSONEq(t, `{"v":"z"}`, string(all[0]))

	require.NoError(t, store.DeleteAll(ctx, "single"))
	require.NoError(t, store.DeleteAll(ctx, "single"))

	count, err := store.Count(ctx, "single")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBoltStoreDeleteAllKeepsIndexEnsured(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.EnsureIndex(ctx, "items", "code"))
	require.NoError(t, store.Insert(ctx, "items", Record{ID: "1", Data: []byte(`{}`), Indexes: map[string]string{"code": "A"}}))
	require.NoError(t, store.DeleteAll(ctx, "items"))

	rows, err := store.FindByIndex(ctx, "items", "code", "A")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBoltStoreSnapshotAndHealth(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Insert(ctx, "items", Record{ID: "a", Data: []byte(`{}`)}))

	require.NoError(t, store.HealthCheck(ctx))

	var buf bytes.Buffer
	n, err := store.Snapshot(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Positive(t, n)
}

func TestBoltStoreCancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.FindAll(ctx, "items")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexName(t *testing.T) {
	assert.Equal(t, "idx_products_barcode", indexName("products", "barCode"))
	assert.Equal(t, "idx_stock_movements_product_id", indexName("stock-movements", "product id"))
}

func TestFindByIndexQueryMatchesIndexExpression(t *testing.T) {
	assert.Equal(t,
		`SELECT data FROM records WHERE collection = 'products' AND indexes->>'barCode' = $1 ORDER BY id`,
		findByIndexQuery("products", "barCode"))
	assert.Equal(t,
		`SELECT data FROM records WHERE collection = 'o''neil' AND indexes->>'a''b' = $1 ORDER BY id`,
		findByIndexQuery("o'neil", "a'b"))
}
