package persistence

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/floorplan-seat-planner/internal/model"
	"github.com/iliyamo/floorplan-seat-planner/internal/store"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("connection refused")
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(store.NewMemoryStore(), "", zerolog.Nop())

	seats := model.DefaultSeats()
	seats[0].AssignTo("c1")
	seats[9].AssignTo("c2")
	companies := []model.Company{
		{ID: "c1", Name: "Acme", Color: "#1f78b4"},
		{ID: "c2", Name: "Globex", Color: "#33a02c"},
	}

	require.NoError(t, a.Save(ctx, seats, companies))
	snap, ok, err := a.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, companies, snap.Companies)
	assert.Equal(t, seats, snap.Seats)
}

func TestLoadAbsent(t *testing.T) {
	a := NewAdapter(store.NewMemoryStore(), "", zerolog.Nop())
	snap, ok, err := a.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, snap.Seats)
}

func TestLoadCorruptFallsBack(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	var logs bytes.Buffer
	a := NewAdapter(s, "gestionPuestos", zerolog.New(&logs))

	for _, blob := range []string{`{not json`, `[1,2,3]`} {
		require.NoError(t, s.Set(ctx, "gestionPuestos", blob))
		_, ok, err := a.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok, blob)
	}
	assert.Contains(t, logs.String(), "corrupt")
}

func TestLoadBadSeatKeepsCompanies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	var logs bytes.Buffer
	a := NewAdapter(s, "gestionPuestos", zerolog.New(&logs))

	for _, blob := range []string{
		`{"empresas":[{"id":"c1","nombre":"Acme","color":"#1f78b4"}],"puestos":[{"id":1,"tipo":"VIP","forma":"rect"}]}`,
		`{"empresas":[{"id":"c1","nombre":"Acme","color":"#1f78b4"}],"puestos":[{"id":1,"tipo":"PIZZAS","forma":"star"}]}`,
	} {
		require.NoError(t, s.Set(ctx, "gestionPuestos", blob))
		snap, ok, err := a.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok, blob)
		assert.Error(t, snap.SeatsErr)
		assert.Nil(t, snap.Seats)
		assert.Equal(t, []model.Company{{ID: "c1", Name: "Acme", Color: "#1f78b4"}}, snap.Companies)
	}
	assert.Contains(t, logs.String(), "keeping companies")
}

func TestLoadStoreFailure(t *testing.T) {
	a := NewAdapter(failingStore{}, "", zerolog.Nop())
	_, _, err := a.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, a.Save(context.Background(), nil, nil))
}

func TestDecodeFrontEndBlob(t *testing.T) {
	blob := `{
	  "empresas": [{"id": "1717171717171", "nombre": "Acme", "color": "#e31a1c"}],
	  "puestos": [
	    {"id": 1, "tipo": "GERENCIAL", "x": 100, "y": 80, "size": 20, "forma": "rect", "empresaId": "1717171717171", "ocupado": true},
	    {"id": 7, "tipo": "ESTÁNDAR", "x": 121, "y": 250, "size": 16, "forma": "triangle", "empresaId": null, "ocupado": true},
	    {"id": 10, "tipo": "ESTÁNDAR", "forma": "polygon", "puntos": [[300,180],[320,170],[340,180]], "empresaId": null, "ocupado": false}
	  ]
	}`

	snap, err := Decode([]byte(blob))
	require.NoError(t, err)
	require.Len(t, snap.Companies, 1)
	assert.Equal(t, "Acme", snap.Companies[0].Name)

	require.Len(t, snap.Seats, 3)
	assert.Equal(t, model.CategoryManagerial, snap.Seats[0].Category)
	assert.True(t, snap.Seats[0].AssignedTo("1717171717171"))
	assert.False(t, snap.Seats[1].Occupied, "ocupado without empresaId is dropped")
	assert.Equal(t, model.CategoryStandard, snap.Seats[2].Category)
	assert.Len(t, snap.Seats[2].Points, 3)
}

func TestDecodeWithoutSeats(t *testing.T) {
	snap, err := Decode([]byte(`{"empresas":[],"puestos":[]}`))
	require.NoError(t, err)
	assert.Nil(t, snap.Seats)
	assert.Empty(t, snap.Companies)

	snap, err = Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Nil(t, snap.Seats)
}

func TestEncodeLayout(t *testing.T) {
	seats := model.DefaultSeats()
	body, err := Encode([]model.Seat{seats[0], seats[9]}, nil)
	require.NoError(t, err)

	assert.JSONEq(t, `{
	  "empresas": [],
	  "puestos": [
	    {"id":1,"tipo":"GERENCIAL","x":100,"y":80,"size":20,"forma":"rect","empresaId":null,"ocupado":false},
	    {"id":10,"tipo":"ESTÁNDAR","forma":"polygon","puntos":[[300,180],[320,170],[340,180],[340,200],[320,210],[300,200]],"empresaId":null,"ocupado":false}
	  ]
	}`, string(body))
}
