package server_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/naturkart/naturkart/server"
	"github.com/naturkart/naturkart/store"
)

func f64(v float64) *float64 { return &v }

func validObservationPayload() server.ObservationCreatePayload {
	date := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return server.ObservationCreatePayload{
		Species:   "Parus major",
		Date:      &date,
		Latitude:  f64(59.91),
		Longitude: f64(10.75),
		Category:  "bird",
	}
}

func TestObservationCreatePayload_Validate(t *testing.T) {
	t.Run("accepts a complete payload", func(t *testing.T) {
		assert.NoError(t, validObservationPayload().Validate())
	})

	t.Run("accepts zero coordinates", func(t *testing.T) {
		payload := validObservationPayload()
		payload.Latitude = f64(0)
		payload.Longitude = f64(0)
		assert.NoError(t, payload.Validate(), "the equator and prime meridian are valid coordinates")
	})

	t.Run("rejects missing species", func(t *testing.T) {
		payload := validObservationPayload()
		payload.Species = ""
		assert.Error(t, payload.Validate())
	})

	t.Run("rejects missing date", func(t *testing.T) {
		payload := validObservationPayload()
		payload.Date = nil
		assert.Error(t, payload.Validate())
	})

	t.Run("rejects missing coordinates", func(t *testing.T) {
		payload := validObservationPayload()
		payload.Latitude = nil
		assert.Error(t, payload.Validate())

		payload = validObservationPayload()
		payload.Longitude = nil
		assert.Error(t, payload.Validate())
	})

	t.Run("rejects out of range coordinates", func(t *testing.T) {
		payload := validObservationPayload()
		payload.Latitude = f64(90.5)
		assert.Error(t, payload.Validate())

		payload = validObservationPayload()
		payload.Longitude = f64(-180.5)
		assert.Error(t, payload.Validate())
	})

	t.Run("rejects missing category", func(t *testing.T) {
		payload := validObservationPayload()
		payload.Category = ""
		assert.Error(t, payload.Validate())
	})
}

func TestObservationUpdatePayload_Validate(t *testing.T) {
	t.Run("accepts an empty patch", func(t *testing.T) {
		assert.NoError(t, server.ObservationUpdatePayload{}.Validate())
	})

	t.Run("accepts a zero coordinate", func(t *testing.T) {
		payload := server.ObservationUpdatePayload{
			ObservationUpdate: store.ObservationUpdate{Latitude: f64(0)},
		}
		assert.NoError(t, payload.Validate())
	})

	t.Run("rejects an out of range coordinate", func(t *testing.T) {
		payload := server.ObservationUpdatePayload{
			ObservationUpdate: store.ObservationUpdate{Latitude: f64(91)},
		}
		assert.Error(t, payload.Validate())
	})
}
