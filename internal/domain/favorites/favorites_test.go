package favorites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/catalog-feed/internal/storage/memory"
)

func TestDecodeList_NumericID(t *testing.T) {
	items, err := DecodeList([]byte(`[
		{"id": 12, "name": "Pasta", "description": "Boil water.", "image": "p.jpg", "price": "$54.00", "originalPrice": null, "originalIndex": 0},
		{"id": "abc", "name": "Soup"}
	]`))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, Item{ID: "12", Name: "Pasta", Description: "Boil water.", Image: "p.jpg", Price: "$54.00"}, items[0])
	assert.Equal(t, "abc", items[1].ID)
}

func TestEncodeList(t *testing.T) {
	data := EncodeList([]Item{{ID: "1", Name: "Pasta", Price: "$50.00"}})
	assert.JSONEq(t, `[{"id":"1","name":"Pasta","description":"","image":"","price":"$50.00","originalPrice":""}]`, string(data))
}

func TestStore_Toggle(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := NewStore(kv, Options{})
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Load(ctx))

	pasta := Item{ID: "1", Name: "Pasta"}
	assert.True(t, s.Toggle(pasta))
	assert.True(t, s.IsFavorite("1"))
	assert.False(t, s.Toggle(pasta))
	assert.False(t, s.IsFavorite("1"))

	s.Toggle(pasta)
	require.NoError(t, s.Flush(ctx))

	data, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	items, err := DecodeList(data)
	require.NoError(t, err)
	assert.Equal(t, []Item{pasta}, items)
}

func TestStore_IndependentOfSavedKey(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, "savedItems", []byte(`[{"id":1,"title":"x"}]`)))

	s := NewStore(kv, Options{})
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Load(ctx))
	assert.Empty(t, s.Items())
}

func TestStore_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, StorageKey, []byte(`"nope"`)))

	s := NewStore(kv, Options{})
	t.Cleanup(func() { _ = s.Close() })
	require.Error(t, s.Load(ctx))
	assert.Empty(t, s.Items())
}
