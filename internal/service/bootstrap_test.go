package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/floorplan-seat-planner/internal/model"
	"github.com/iliyamo/floorplan-seat-planner/internal/persistence"
	"github.com/iliyamo/floorplan-seat-planner/internal/store"
)

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("dial tcp: connection refused")
}

func (brokenStore) Set(context.Context, string, string) error { return nil }

func bootstrapFrom(t *testing.T, blob string) *Engine {
	t.Helper()
	e, _ := bootstrapWithStore(t, blob)
	return e
}

func bootstrapWithStore(t *testing.T, blob string) (*Engine, *store.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore()
	if blob != "" {
		require.NoError(t, s.Set(ctx, persistence.DefaultKey, blob))
	}
	e, err := Bootstrap(ctx, persistence.NewAdapter(s, "", zerolog.Nop()), zerolog.Nop())
	require.NoError(t, err)
	return e, s
}

func TestBootstrapDefaults(t *testing.T) {
	e := bootstrapFrom(t, "")
	assert.Equal(t, model.DefaultSeats(), e.Seats())
	assert.Empty(t, e.Companies())
}

func TestBootstrapCorruptBlobUsesDefaults(t *testing.T) {
	e := bootstrapFrom(t, "{{{")
	assert.Len(t, e.Seats(), 10)
	assert.Empty(t, e.Companies())
}

func TestBootstrapStoredSeatsReplaceCatalog(t *testing.T) {
	e := bootstrapFrom(t, `{
	  "empresas": [{"id":"c1","nombre":"Acme","color":"#1f78b4"}],
	  "puestos": [
	    {"id": 1, "tipo": "GERENCIAL", "x": 10, "y": 10, "size": 20, "forma": "rect", "empresaId": "c1", "ocupado": true},
	    {"id": 2, "tipo": "PIZZAS", "x": 50, "y": 10, "size": 20, "forma": "circle", "empresaId": "ghost", "ocupado": true}
	  ]
	}`)

	seats := e.Seats()
	require.Len(t, seats, 2)
	assert.True(t, seats[0].AssignedTo("c1"))
	assert.False(t, seats[1].Occupied, "dangling reference is released")
	require.Len(t, e.Companies(), 1)
}

func TestBootstrapSavesReleasedReferences(t *testing.T) {
	blob := `{
	  "empresas": [{"id":"c1","nombre":"Acme","color":"#1f78b4"}],
	  "puestos": [
	    {"id": 1, "tipo": "GERENCIAL", "x": 10, "y": 10, "size": 20, "forma": "rect", "empresaId": "c1", "ocupado": true},
	    {"id": 2, "tipo": "PIZZAS", "x": 50, "y": 10, "size": 20, "forma": "circle", "empresaId": "ghost", "ocupado": true}
	  ]
	}`
	_, s := bootstrapWithStore(t, blob)

	raw, ok, err := s.Get(context.Background(), persistence.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	snap, err := persistence.Decode([]byte(raw))
	require.NoError(t, err)
	require.Len(t, snap.Seats, 2)
	assert.True(t, snap.Seats[0].AssignedTo("c1"))
	assert.Nil(t, snap.Seats[1].CompanyID, "stored blob no longer references ghost")
	assert.NotContains(t, raw, "ghost")
}

func TestBootstrapCleanStateIsNotRewritten(t *testing.T) {
	blob := `{"empresas":[{"id":"c1","nombre":"Acme","color":"#1f78b4"}],"puestos":[]}`
	_, s := bootstrapWithStore(t, blob)

	raw, _, err := s.Get(context.Background(), persistence.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, blob, raw)
}

func TestBootstrapBadSeatKeepsCompanies(t *testing.T) {
	e, s := bootstrapWithStore(t, `{
	  "empresas": [{"id":"c1","nombre":"Acme","color":"#1f78b4"}],
	  "puestos": [
	    {"id": 1, "tipo": "VIP", "x": 10, "y": 10, "size": 20, "forma": "rect", "empresaId": "c1", "ocupado": true}
	  ]
	}`)

	assert.Equal(t, model.DefaultSeats(), e.Seats())
	require.Len(t, e.Companies(), 1)
	assert.Equal(t, "Acme", e.Companies()[0].Name)

	// the next mutation persists the surviving company
	require.NoError(t, e.Assign(context.Background(), 1, "c1"))
	raw, _, err := s.Get(context.Background(), persistence.DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"nombre":"Acme"`)
}

func TestBootstrapEmptySeatListKeepsCatalog(t *testing.T) {
	e := bootstrapFrom(t, `{"empresas":[{"id":"c1","nombre":"Acme","color":"#1"}],"puestos":[]}`)
	assert.Len(t, e.Seats(), 10)
	assert.Len(t, e.Companies(), 1)
}

func TestBootstrapInvalidStoredData(t *testing.T) {
	e := bootstrapFrom(t, `{
	  "empresas": [{"id":"a","nombre":"Acme","color":"#1"},{"id":"b","nombre":"ACME","color":"#2"}],
	  "puestos": [
	    {"id": 1, "tipo": "GERENCIAL", "x": 10, "y": 10, "size": 20, "forma": "rect", "empresaId": "a", "ocupado": true},
	    {"id": 1, "tipo": "PIZZAS", "x": 50, "y": 10, "size": 20, "forma": "circle", "empresaId": null, "ocupado": false}
	  ]
	}`)
	assert.Equal(t, model.DefaultSeats(), e.Seats())
	assert.Empty(t, e.Companies())
}

func TestBootstrapStoreFailure(t *testing.T) {
	_, err := Bootstrap(context.Background(), persistence.NewAdapter(brokenStore{}, "", zerolog.Nop()), zerolog.Nop())
	assert.Error(t, err)
}
