package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/landprice/pricing"
)

func newTestStore(t *testing.T) *Store {
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func observation(district, locality string, areaSqft, price string) pricing.Observation {
	return pricing.NewObservation(district, locality,
		decimal.RequireFromString(areaSqft), decimal.RequireFromString(price))
}

func TestStore_EmptyOnCreate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	last, err := store.LastImport(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	obs, err := store.Observations(ctx)
	require.NoError(t, err)
	assert.Empty(t, obs)
}

func TestStore_ReplaceObservationsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := []pricing.Observation{
		observation("Chennai", "Anna Nagar", "2178", "500000"),
		observation("Chennai", "Velachery", "871.2", "300000"),
		observation("Kochi", "Kakkanad", "4356", "1500000"),
	}
	require.NoError(t, store.ReplaceObservations(ctx, "land_prices.csv", in))

	out, err := store.Observations(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i := range in {
		assert.Equal(t, in[i].District, out[i].District)
		assert.Equal(t, in[i].Locality, out[i].Locality)
		assert.True(t, in[i].AreaSqft.Equal(out[i].AreaSqft))
		assert.True(t, in[i].PricePerCent.Equal(out[i].PricePerCent))
	}

	last, err := store.LastImport(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "land_prices.csv", last.SourcePath)
	assert.Equal(t, 3, last.Rows)
	assert.False(t, last.ImportedAt.IsZero())
}

func TestStore_ReplaceDropsPreviousDataset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceObservations(ctx, "v1.csv", []pricing.Observation{
		observation("Chennai", "Anna Nagar", "2178", "500000"),
		observation("Chennai", "T Nagar", "4356", "2000000"),
	}))
	require.NoError(t, store.ReplaceObservations(ctx, "v2.csv", []pricing.Observation{
		observation("Kochi", "Kakkanad", "4356", "1500000"),
	}))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	last, err := store.LastImport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2.csv", last.SourcePath)
}

func TestStore_BuildsIndex(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceObservations(ctx, "land_prices.csv", []pricing.Observation{
		observation("Chennai", "Anna Nagar", "2178", "500000"),
		observation("Chennai", "Anna Nagar", "2178", "600000"),
	}))

	idx, err := pricing.Load(ctx, store)
	require.NoError(t, err)

	est, ok := pricing.EstimateOf(idx.Estimate("chennai", "anna nagar"))
	require.True(t, ok)
	assert.Equal(t, "110000.00", est.PerCent.StringFixed(2))
	assert.Equal(t, "550000.00", est.Total.StringFixed(2))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "landprice.db")

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.ReplaceObservations(ctx, "land_prices.csv", []pricing.Observation{
		observation("Kochi", "Edappally", "2178", "1000000"),
	}))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	obs, err := reopened.Observations(ctx)
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, "200000", obs[0].PricePerCent.String())
}
