package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/landprice/pricing"
	"github.com/warp/landprice/pricing/store"
)

type brokenSource struct{}

func (brokenSource) Observations(context.Context) ([]pricing.Observation, error) {
	return nil, errors.New("dataset unavailable")
}

func kakkanad() pricing.Observation {
	return pricing.NewObservation("Kochi", "Kakkanad", decimal.NewFromInt(4356), decimal.NewFromInt(1500000))
}

func TestReloader_ReloadSwapsIndex(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory(kakkanad())
	h := NewHandler(pricing.NewIndex(nil))
	rl := NewReloader(mem, h, time.Hour)

	require.NoError(t, rl.Reload(ctx))

	assert.Equal(t, []string{"Kochi"}, h.Index().Districts())
}

func TestReloader_FailedReloadKeepsPreviousIndex(t *testing.T) {
	previous := pricing.NewIndex([]pricing.Observation{kakkanad()})
	h := NewHandler(previous)
	rl := NewReloader(brokenSource{}, h, time.Hour)

	err := rl.Reload(context.Background())

	assert.True(t, pricing.IsDataLoad(err))
	assert.Same(t, previous, h.Index())
}

func TestReloader_PeriodicReload(t *testing.T) {
	mem := store.NewMemory()
	h := NewHandler(pricing.NewIndex(nil))
	rl := NewReloader(mem, h, 10*time.Millisecond)

	rl.Start()
	defer rl.Stop()

	require.NoError(t, mem.Append(context.Background(), kakkanad()))

	assert.Eventually(t, func() bool {
		return h.Index().Len() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestReloader_DisabledWithoutInterval(t *testing.T) {
	h := NewHandler(pricing.NewIndex(nil))
	rl := NewReloader(store.NewMemory(kakkanad()), h, 0)

	rl.Start()
	rl.Stop()

	assert.Equal(t, 0, h.Index().Len())
}
