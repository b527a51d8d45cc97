package store_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturkart/naturkart/store"
)

func floatPtr(f float64) *float64 { return &f }

func TestLocations_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := store.NewLocationsRepository(setupStoreDB(t))

	created, err := repo.Create(ctx, &store.Location{
		Name:      "Bygdøy",
		Latitude:  floatPtr(59.90),
		Longitude: floatPtr(10.68),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bygdøy", got.Name)
	assert.Equal(t, 0, got.ObservationCount)
}

func TestLocations_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := store.NewLocationsRepository(setupStoreDB(t))

	_, err := repo.GetByID(ctx, 999)
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestLocations_ObservationCounts(t *testing.T) {
	ctx := context.Background()
	db := setupStoreDB(t)
	locations := store.NewLocationsRepository(db)
	observations := store.NewObservationsRepository(db)

	busy, err := locations.Create(ctx, &store.Location{Name: "Busy"})
	require.NoError(t, err)
	quiet, err := locations.Create(ctx, &store.Location{Name: "Quiet"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		record := newObservation("Parus major")
		record.LocationID = &busy.ID
		_, err := observations.Create(ctx, record)
		require.NoError(t, err)
	}

	unlinked := newObservation("Corvus corax")
	_, err = observations.Create(ctx, unlinked)
	require.NoError(t, err)

	t.Run("listing carries per-location counts", func(t *testing.T) {
		records, total, err := locations.List(ctx, 0, 100)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, records, 2)

		counts := map[string]int{}
		for _, r := range records {
			counts[r.Name] = r.ObservationCount
		}
		assert.Equal(t, 3, counts["Busy"])
		assert.Equal(t, 0, counts["Quiet"])
	})

	t.Run("single read carries the count", func(t *testing.T) {
		got, err := locations.GetByID(ctx, busy.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.ObservationCount)

		got, err = locations.GetByID(ctx, quiet.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.ObservationCount)
	})
}

func TestLocations_Update(t *testing.T) {
	ctx := context.Background()
	repo := store.NewLocationsRepository(setupStoreDB(t))

	created, err := repo.Create(ctx, &store.Location{
		Name:        "Bygdøy",
		Description: strPtr("peninsula"),
	})
	require.NoError(t, err)

	name := "Bygdøy Vest"
	updated, err := repo.Update(ctx, created.ID, store.LocationUpdate{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Bygdøy Vest", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "peninsula", *updated.Description)

	_, err = repo.Update(ctx, 999, store.LocationUpdate{Name: &name})
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestLocations_Delete(t *testing.T) {
	ctx := context.Background()
	db := setupStoreDB(t)
	locations := store.NewLocationsRepository(db)
	observations := store.NewObservationsRepository(db)

	place, err := locations.Create(ctx, &store.Location{Name: "Bygdøy"})
	require.NoError(t, err)

	linked := newObservation("Parus major")
	linked.LocationID = &place.ID
	created, err := observations.Create(ctx, linked)
	require.NoError(t, err)

	require.NoError(t, locations.Delete(ctx, place.ID))

	_, err = locations.GetByID(ctx, place.ID)
	assert.True(t, repository.IsRecordNotFound(err))

	// the observation survives, detached from the deleted location
	got, err := observations.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LocationID)

	err = locations.Delete(ctx, place.ID)
	assert.True(t, repository.IsRecordNotFound(err))
}
