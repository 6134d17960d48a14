package badger

import (
	"context"
	"testing"

	"github.com/poiesic/coffer/core"
	"github.com/poiesic/coffer/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	db, env, err := NewMemoryDatabase("")
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value core.Value
	}{
		{name: "int", key: "int-key", value: core.IntValue(1234)},
		{name: "double", key: "double-key", value: core.DoubleValue(56.78)},
		{name: "string", key: "string-key", value: core.StringValue("Héllo, wőrld!")},
		{name: "bool", key: "bool-key", value: core.BoolValue(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, db.Put(ctx, []byte(tt.key), tt.value))

			got, found, err := db.Get(ctx, []byte(tt.key))
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, tt.value.Kind(), got.Kind())
			assert.True(t, tt.value.Equal(got), "want %s, got %s", tt.value, got)
		})
	}
}

func TestGetAbsent(t *testing.T) {
	db, env, err := NewMemoryDatabase("")
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()

	_, found, err := db.Get(ctx, []byte("missing"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetAbsentDistinctFromStoredZero(t *testing.T) {
	db, env, err := NewMemoryDatabase("")
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()

	// Stored zero/false/empty values still count as present.
	require.NoError(t, db.Put(ctx, []byte("zero"), core.IntValue(0)))
	require.NoError(t, db.Put(ctx, []byte("false"), core.BoolValue(false)))
	require.NoError(t, db.Put(ctx, []byte("empty"), core.StringValue("")))

	for _, key := range []string{"zero", "false", "empty"} {
		_, found, err := db.Get(ctx, []byte(key))
		require.NoError(t, err)
		assert.True(t, found, "key %q", key)
	}
}

func TestGetOrDefault(t *testing.T) {
	db, env, err := NewMemoryDatabase("")
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()

	fallback := core.StringValue("fallback")
	got, err := db.GetOrDefault(ctx, []byte("missing"), fallback)
	require.NoError(t, err)
	assert.True(t, fallback.Equal(got))

	require.NoError(t, db.Put(ctx, []byte("present"), core.IntValue(9)))
	got, err = db.GetOrDefault(ctx, []byte("present"), fallback)
	require.NoError(t, err)
	assert.True(t, core.IntValue(9).Equal(got))
}

func TestTypedGettersReturnDefaults(t *testing.T) {
	db, env, err := NewMemoryDatabase("")
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()
	key := []byte("absent")

	i, err := db.GetInt(ctx, key, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), i)

	f, err := db.GetDouble(ctx, key, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	s, err := db.GetString(ctx, key, "dflt")
	require.NoError(t, err)
	assert.Equal(t, "dflt", s)

	b, err := db.GetBool(ctx, key, true)
	require.NoError(t, err)
	assert.True(t, b)
}

func TestTypedGettersRequireDefault(t *testing.T) {
	db, env, err := NewMemoryDatabase("")
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()
	key := []byte("any")

	_, err = db.GetInt(ctx, key)
	assert.ErrorIs(t, err, core.ErrDefaultRequired)

	_, err = db.GetDouble(ctx, key)
	assert.ErrorIs(t, err, core.ErrDefaultRequired)

	_, err = db.GetString(ctx, key)
	assert.ErrorIs(t, err, core.ErrDefaultRequired)

	_, err = db.GetBool(ctx, key)
	assert.ErrorIs(t, err, core.ErrDefaultRequired)
}

func TestTypedGettersRejectMismatchedKinds(t *testing.T) {
	db, env, err := NewMemoryDatabase("")
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()

	stored := map[string]core.Value{
		"int-key":    core.IntValue(1234),
		"double-key": core.DoubleValue(56.78),
		"string-key": core.StringValue("Héllo, wőrld!"),
		"bool-key":   core.BoolValue(true),
	}
	for key, value := range stored {
		require.NoError(t, db.Put(ctx, []byte(key), value))
	}

	// Each typed getter against the three keys of other kinds: all
	// twelve mismatched combinations fail, in both directions.
	for key, value := range stored {
		k := []byte(key)
		if value.Kind() != core.KindInt {
			_, err := db.GetInt(ctx, k, 0)
			assert.ErrorIs(t, err, core.ErrTypeMismatch, "GetInt on %s", key)
		}
		if value.Kind() != core.KindDouble {
			_, err := db.GetDouble(ctx, k, 0)
			assert.ErrorIs(t, err, core.ErrTypeMismatch, "GetDouble on %s", key)
		}
		if value.Kind() != core.KindString {
			_, err := db.GetString(ctx, k, "")
			assert.ErrorIs(t, err, core.ErrTypeMismatch, "GetString on %s", key)
		}
		if value.Kind() != core.KindBool {
			_, err := db.GetBool(ctx, k, false)
			assert.ErrorIs(t, err, core.ErrTypeMismatch, "GetBool on %s", key)
		}
	}
}

func TestOverwriteReplacesTagAndPayload(t *testing.T) {
	db, env, err := NewMemoryDatabase("")
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()
	key := []byte("shape-shifter")

	require.NoError(t, db.Put(ctx, key, core.IntValue(1)))
	require.NoError(t, db.Put(ctx, key, core.StringValue("now a string")))

	got, found, err := db.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, core.KindString, got.Kind())

	_, err = db.GetInt(ctx, key, 0)
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
}

func TestDelete(t *testing.T) {
	db, env, err := NewMemoryDatabase("")
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()
	key := []byte("doomed")

	require.NoError(t, db.Put(ctx, key, core.BoolValue(true)))

	has, err := db.Has(ctx, key)
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, db.Delete(ctx, key))

	has, err = db.Has(ctx, key)
	require.NoError(t, err)
	assert.False(t, has)

	got, err := db.GetBool(ctx, key, false)
	require.NoError(t, err)
	assert.False(t, got)

	// Deleting an absent key is not an error.
	require.NoError(t, db.Delete(ctx, key))
}

func TestHasIndependentOfKind(t *testing.T) {
	db, env, err := NewMemoryDatabase("")
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()

	require.NoError(t, db.Put(ctx, []byte("k"), core.DoubleValue(2.5)))

	has, err := db.Has(ctx, []byte("k"))
	require.NoError(t, err)
	assert.True(t, has)

	has, err = db.Has(ctx, []byte("other"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestNamedDatabaseIsolation(t *testing.T) {
	env, err := NewMemoryEnvironment()
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()

	first, err := env.Resolve("first")
	require.NoError(t, err)
	second, err := env.Resolve("second")
	require.NoError(t, err)
	def, err := env.Resolve("")
	require.NoError(t, err)

	key := []byte("shared-key")
	require.NoError(t, first.Put(ctx, key, core.StringValue("from first")))

	// The same key text is invisible through every other handle.
	for name, db := range map[string]storage.Database{"second": second, "default": def} {
		has, err := db.Has(ctx, key)
		require.NoError(t, err)
		assert.False(t, has, "leaked into %s", name)

		_, found, err := db.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, found, "leaked into %s", name)
	}

	require.NoError(t, second.Put(ctx, key, core.IntValue(2)))

	got, err := first.GetString(ctx, key, "")
	require.NoError(t, err)
	assert.Equal(t, "from first", got)
}

func TestReservedRegistrationKeys(t *testing.T) {
	env, err := NewMemoryEnvironment()
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()

	_, err = env.Resolve("inventory")
	require.NoError(t, err)

	def, err := env.Resolve("")
	require.NoError(t, err)

	name := []byte("inventory")

	t.Run("put fails", func(t *testing.T) {
		err := def.Put(ctx, name, core.IntValue(1))
		assert.ErrorIs(t, err, storage.ErrReservedKey)
	})

	t.Run("delete fails", func(t *testing.T) {
		err := def.Delete(ctx, name)
		assert.ErrorIs(t, err, storage.ErrReservedKey)
	})

	t.Run("get fails", func(t *testing.T) {
		_, _, err := def.Get(ctx, name)
		assert.ErrorIs(t, err, storage.ErrReservedValue)
	})

	t.Run("typed get fails", func(t *testing.T) {
		_, err := def.GetInt(ctx, name, 0)
		assert.ErrorIs(t, err, storage.ErrReservedValue)
	})

	t.Run("has sees the registration", func(t *testing.T) {
		has, err := def.Has(ctx, name)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("named database still works", func(t *testing.T) {
		inv, err := env.Resolve("inventory")
		require.NoError(t, err)
		require.NoError(t, inv.Put(ctx, []byte("widgets"), core.IntValue(12)))

		got, err := inv.GetInt(ctx, []byte("widgets"), 0)
		require.NoError(t, err)
		assert.Equal(t, int64(12), got)
	})
}

func TestKeysComparedByCanonicalBytes(t *testing.T) {
	db, env, err := NewMemoryDatabase("")
	require.NoError(t, err)
	defer env.Close()

	ctx := context.Background()

	// Extended characters round-trip through their encoded byte form.
	key := []byte("clé-ütf8-日本")
	require.NoError(t, db.Put(ctx, key, core.BoolValue(true)))

	has, err := db.Has(ctx, key)
	require.NoError(t, err)
	assert.True(t, has)

	cursor, err := db.Enumerate(ctx, nil, nil)
	require.NoError(t, err)
	defer cursor.Close()

	require.True(t, cursor.HasNext())
	pair, err := cursor.Next()
	require.NoError(t, err)
	assert.Equal(t, key, pair.Key)
}
