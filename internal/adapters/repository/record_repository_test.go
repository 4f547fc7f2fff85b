package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventra/core/internal/adapters/storage"
	"github.com/inventra/core/internal/domain/entities"
)

// failingStorage fails every call with err
type failingStorage struct {
	err error
}

func (f failingStorage) Read(context.Context) ([]byte, error) { return nil, f.err }
func (f failingStorage) Write(context.Context, []byte) error  { return f.err }

// readOnlyStorage serves a fixed document and rejects writes
type readOnlyStorage struct {
	doc []byte
}

func (r readOnlyStorage) Read(context.Context) ([]byte, error) { return r.doc, nil }
func (r readOnlyStorage) Write(context.Context, []byte) error  { return errors.New("read-only") }

func newItemsStore(seed string) (*RecordStore, *storage.MemoryStorage) {
	var doc []byte
	if seed != "" {
		doc = []byte(seed)
	}
	mem := storage.NewMemoryStorage(doc)
	return NewRecordStore("items", mem, StoreOptions{}), mem
}

func newCategoriesStore(seed string) *RecordStore {
	return NewRecordStore("categories", storage.NewMemoryStorage([]byte(seed)), StoreOptions{RequireOwnerOnDelete: true})
}

func ids(t *testing.T, records []entities.Record) []int64 {
	t.Helper()
	out := make([]int64, 0, len(records))
	for _, rec := range records {
		id, ok := rec.ID()
		require.True(t, ok, "record without integer id: %v", rec)
		out = append(out, id)
	}
	return out
}

func int64Ptr(v int64) *int64 { return &v }

func TestRecordStore_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("sequential inserts into an empty collection start at 1", func(t *testing.T) {
		store, _ := newItemsStore("")

		for want := int64(1); want <= 5; want++ {
			created, err := store.Insert(ctx, entities.Record{"name": "x"})
			require.NoError(t, err)
			assert.True(t, created.HasID(want))
		}

		records, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(t, records))
	})

	t.Run("client supplied id is overwritten", func(t *testing.T) {
		store, _ := newItemsStore("")

		created, err := store.Insert(ctx, entities.Record{"id": json.Number("99"), "name": "A"})
		require.NoError(t, err)
		assert.True(t, created.HasID(1))
		assert.Equal(t, "A", created["name"])
	})

	t.Run("caller record is not modified", func(t *testing.T) {
		store, _ := newItemsStore("")
		input := entities.Record{"name": "A"}

		_, err := store.Insert(ctx, input)
		require.NoError(t, err)
		_, hasID := input["id"]
		assert.False(t, hasID)
	})

	t.Run("last strategy follows the last element", func(t *testing.T) {
		store, _ := newItemsStore(`[{"id": 5}, {"id": 2}]`)

		created, err := store.Insert(ctx, entities.Record{})
		require.NoError(t, err)
		assert.True(t, created.HasID(3))
	})

	t.Run("max strategy never reuses an id", func(t *testing.T) {
		mem := storage.NewMemoryStorage([]byte(`[{"id": 5}, {"id": 2}]`))
		store := NewRecordStore("items", mem, StoreOptions{IDStrategy: IDStrategyMax})

		created, err := store.Insert(ctx, entities.Record{})
		require.NoError(t, err)
		assert.True(t, created.HasID(6))
	})

	t.Run("id follows the last element after a deletion", func(t *testing.T) {
		store, _ := newItemsStore("")

		_, err := store.Insert(ctx, entities.Record{"name": "A"})
		require.NoError(t, err)
		_, err = store.Insert(ctx, entities.Record{"name": "B"})
		require.NoError(t, err)
		require.NoError(t, store.DeleteByID(ctx, 1, nil))

		created, err := store.Insert(ctx, entities.Record{"name": "C"})
		require.NoError(t, err)
		assert.True(t, created.HasID(3))
	})

	t.Run("insert then load shows the record", func(t *testing.T) {
		store, mem := newItemsStore("")

		_, err := store.Insert(ctx, entities.Record{"name": "A", "ownerId": json.Number("7")})
		require.NoError(t, err)

		records, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].HasID(1))
		assert.True(t, records[0].OwnedBy(7))
		assert.Contains(t, string(mem.Bytes()), "\n  {\n    \"id\": 1,")
	})
}

func TestRecordStore_ListByOwner(t *testing.T) {
	ctx := context.Background()
	store, _ := newItemsStore(`[
		{"id": 1, "ownerId": 10},
		{"id": 2, "ownerId": 20},
		{"id": 3, "ownerId": 10},
		{"id": 4}
	]`)

	all, err := store.ListByOwner(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(t, all))

	owned, err := store.ListByOwner(ctx, int64Ptr(10))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(t, owned))

	none, err := store.ListByOwner(ctx, int64Ptr(99))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRecordStore_UpdateByID(t *testing.T) {
	ctx := context.Background()
	seed := `[{"id": 1, "name": "A", "price": 10}, {"id": 2, "name": "B"}]`

	t.Run("merges patch over existing fields", func(t *testing.T) {
		store, _ := newItemsStore(seed)

		updated, err := store.UpdateByID(ctx, 1, entities.Record{"name": "A2", "stock": json.Number("3")})
		require.NoError(t, err)
		assert.Equal(t, "A2", updated["name"])
		assert.Equal(t, json.Number("10"), updated["price"])
		assert.Equal(t, json.Number("3"), updated["stock"])
		assert.True(t, updated.HasID(1))

		records, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, ids(t, records))
		assert.Equal(t, "A2", records[0]["name"])
	})

	t.Run("missing id leaves the collection unchanged", func(t *testing.T) {
		store, mem := newItemsStore(seed)
		before := mem.Bytes()

		_, err := store.UpdateByID(ctx, 42, entities.Record{"name": "Z"})
		assert.ErrorIs(t, err, entities.ErrNotFound)
		assert.Equal(t, before, mem.Bytes())
	})

	t.Run("patch cannot change the id", func(t *testing.T) {
		store, mem := newItemsStore(seed)
		before := mem.Bytes()

		_, err := store.UpdateByID(ctx, 1, entities.Record{"id": json.Number("2")})
		assert.ErrorIs(t, err, entities.ErrValidation)
		assert.Equal(t, before, mem.Bytes())
	})

	t.Run("patch repeating the same id is accepted", func(t *testing.T) {
		store, _ := newItemsStore(seed)

		updated, err := store.UpdateByID(ctx, 2, entities.Record{"id": json.Number("2"), "name": "B2"})
		require.NoError(t, err)
		assert.Equal(t, "B2", updated["name"])
	})
}

func TestRecordStore_DeleteByID(t *testing.T) {
	ctx := context.Background()
	seed := `[{"id": 1, "ownerId": 10}, {"id": 2, "ownerId": 20}, {"id": 2, "ownerId": 30}]`

	t.Run("items ignore the owner", func(t *testing.T) {
		store, _ := newItemsStore(seed)

		require.NoError(t, store.DeleteByID(ctx, 2, int64Ptr(999)))

		records, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, ids(t, records))
	})

	t.Run("categories remove only owner matches", func(t *testing.T) {
		store := newCategoriesStore(seed)

		require.NoError(t, store.DeleteByID(ctx, 2, int64Ptr(30)))

		records, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, ids(t, records))
		assert.True(t, records[1].OwnedBy(20))
	})

	t.Run("categories require an owner", func(t *testing.T) {
		mem := storage.NewMemoryStorage([]byte(seed))
		store := NewRecordStore("categories", mem, StoreOptions{RequireOwnerOnDelete: true})

		err := store.DeleteByID(ctx, 1, nil)
		assert.ErrorIs(t, err, entities.ErrValidation)
		assert.Equal(t, seed, string(mem.Bytes()))
	})

	t.Run("owner mismatch is not found", func(t *testing.T) {
		store := newCategoriesStore(seed)

		err := store.DeleteByID(ctx, 1, int64Ptr(20))
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		store, mem := newItemsStore(seed)

		err := store.DeleteByID(ctx, 7, nil)
		assert.ErrorIs(t, err, entities.ErrNotFound)
		assert.Equal(t, seed, string(mem.Bytes()))
	})

	t.Run("delete then load shows the record gone", func(t *testing.T) {
		store, _ := newItemsStore(seed)

		require.NoError(t, store.DeleteByID(ctx, 1, nil))

		records, err := store.Load(ctx)
		require.NoError(t, err)
		for _, rec := range records {
			assert.False(t, rec.HasID(1))
		}
	})
}

func TestRecordStore_StorageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unreadable storage", func(t *testing.T) {
		store := NewRecordStore("items", failingStorage{err: errors.New("disk gone")}, StoreOptions{})

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, entities.ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "disk gone")

		_, err = store.Insert(ctx, entities.Record{})
		assert.ErrorIs(t, err, entities.ErrStorageUnavailable)
	})

	t.Run("corrupt document", func(t *testing.T) {
		store, _ := newItemsStore(`{"not": "an array"}`)

		_, err := store.ListByOwner(ctx, nil)
		assert.ErrorIs(t, err, entities.ErrCorruptData)

		err = store.DeleteByID(ctx, 1, nil)
		assert.ErrorIs(t, err, entities.ErrCorruptData)
	})

	t.Run("failed write is reported", func(t *testing.T) {
		store := NewRecordStore("items", readOnlyStorage{doc: []byte(`[]`)}, StoreOptions{})

		_, err := store.Insert(ctx, entities.Record{"name": "A"})
		assert.ErrorIs(t, err, entities.ErrStorageUnavailable)
	})
}

func TestRecordStore_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	store, _ := newItemsStore("")

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := store.Insert(ctx, entities.Record{"name": "x"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, writers)

	seen := make(map[int64]bool, writers)
	for _, id := range ids(t, records) {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}
