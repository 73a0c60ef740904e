package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSinkPersistsEnqueuedEntries(t *testing.T) {
	store := openTestStore(t)
	sink := NewSink(store, zap.NewNop().Sugar(), 128)

	for i := 0; i < 50; i++ {
		sink.Append(Entry{
			UserID:   fmt.Sprintf("u%d", i%3),
			Action:   "PACIENTES_VISUALIZAR",
			Resource: "/pacientes",
			Unidade:  "BARRA",
			Success:  i%5 != 0,
		})
	}
	sink.Close()

	entries, total, err := store.Query(context.Background(), Filter{Unidade: "BARRA", Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 50, total)
	for _, e := range entries {
		assert.NotEmpty(t, e.ID, "sink must assign ids")
		assert.False(t, e.Timestamp.IsZero(), "sink must stamp entries")
	}
}

func TestSinkAppendAfterCloseDoesNotPanic(t *testing.T) {
	store := openTestStore(t)
	sink := NewSink(store, zap.NewNop().Sugar(), 8)
	sink.Close()

	assert.NotPanics(t, func() {
		sink.Append(Entry{UserID: "u1", Action: "x", Resource: "/x", Unidade: "BARRA"})
	})
	sink.Close()
}

func TestSinkSurvivesStoreFailure(t *testing.T) {
	store := openTestStore(t)

	// Break the store before anything is flushed: both the write and its
	// retry fail, and the sink reports the drop instead of blocking.
	sqlDB, err := store.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	sink := NewSink(store, zap.NewNop().Sugar(), 8)
	assert.NotPanics(t, func() {
		sink.Append(Entry{UserID: "u1", Action: "x", Resource: "/x", Unidade: "BARRA"})
		sink.Close()
	})
}

func TestSinkKeepsProvidedIdentity(t *testing.T) {
	store := openTestStore(t)
	sink := NewSink(store, zap.NewNop().Sugar(), 8)

	sink.Append(Entry{ID: "fixed-id", UserID: "u1", Action: "x", Resource: "/x", Unidade: "BARRA", Success: true})
	sink.Close()

	entries, _, err := store.Query(context.Background(), Filter{Unidade: "BARRA"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fixed-id", entries[0].ID)
}
