// Package persistence converts the planner registries to and from the JSON
// blob kept in the byte store.  The blob layout is shared with the browser
// front end, which is why field names and category codes are in Spanish.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/floorplan-seat-planner/internal/geometry"
	"github.com/iliyamo/floorplan-seat-planner/internal/model"
	"github.com/iliyamo/floorplan-seat-planner/internal/store"
)

// DefaultKey is the store key the browser front end reads and writes.
const DefaultKey = "gestionPuestos"

// Snapshot is the decoded content of the blob.  Seats is nil when the blob
// carried no seats, in which case callers keep the built-in catalog.
// SeatsErr is set when the seat list was present but could not be decoded;
// Seats is then nil while Companies is still usable.
type Snapshot struct {
	Seats     []model.Seat
	Companies []model.Company
	SeatsErr  error
}

type document struct {
	Empresas []companyDoc `json:"empresas"`
	Puestos  []seatDoc    `json:"puestos"`
}

type companyDoc struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Color  string `json:"color"`
}

type seatDoc struct {
	ID        uint64       `json:"id"`
	Tipo      string       `json:"tipo"`
	X         *float64     `json:"x,omitempty"`
	Y         *float64     `json:"y,omitempty"`
	Size      *float64     `json:"size,omitempty"`
	Forma     string       `json:"forma"`
	Puntos    [][2]float64 `json:"puntos,omitempty"`
	EmpresaID *string      `json:"empresaId"`
	Ocupado   bool         `json:"ocupado"`
}

// Adapter reads and writes the snapshot under a fixed key.
type Adapter struct {
	store store.Store
	key   string
	log   zerolog.Logger
}

// NewAdapter returns an Adapter over s.  An empty key selects DefaultKey.
func NewAdapter(s store.Store, key string, log zerolog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{store: s, key: key, log: log}
}

// Save writes the full snapshot.
func (a *Adapter) Save(ctx context.Context, seats []model.Seat, companies []model.Company) error {
	body, err := Encode(seats, companies)
	if err != nil {
		return err
	}
	if err := a.store.Set(ctx, a.key, string(body)); err != nil {
		return fmt.Errorf("write %s: %w", a.key, err)
	}
	return nil
}

// Load reads the snapshot.  ok is false when nothing usable is stored: the
// key is absent or its content is not a planner document.  A corrupt blob is
// logged and treated as absent so that startup falls back to the built-in
// catalog.  A document whose seats alone are invalid still loads, with
// Snapshot.SeatsErr set.  Only store failures are returned as errors.
func (a *Adapter) Load(ctx context.Context) (Snapshot, bool, error) {
	raw, ok, err := a.store.Get(ctx, a.key)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("read %s: %w", a.key, err)
	}
	if !ok {
		return Snapshot{}, false, nil
	}
	snap, err := Decode([]byte(raw))
	if err != nil {
		a.log.Warn().Err(err).Str("key", a.key).Msg("stored planner state is corrupt; using defaults")
		return Snapshot{}, false, nil
	}
	if snap.SeatsErr != nil {
		a.log.Warn().Err(snap.SeatsErr).Str("key", a.key).Msg("stored seats are corrupt; keeping companies")
	}
	return snap, true, nil
}

// Encode renders the blob.
func Encode(seats []model.Seat, companies []model.Company) ([]byte, error) {
	doc := document{
		Empresas: make([]companyDoc, 0, len(companies)),
		Puestos:  make([]seatDoc, 0, len(seats)),
	}
	for _, c := range companies {
		doc.Empresas = append(doc.Empresas, companyDoc{ID: c.ID, Nombre: c.Name, Color: c.Color})
	}
	for _, s := range seats {
		doc.Puestos = append(doc.Puestos, encodeSeat(s))
	}
	return json.Marshal(doc)
}

func encodeSeat(s model.Seat) seatDoc {
	d := seatDoc{
		ID:        s.ID,
		Tipo:      s.Category.Info().Code,
		Forma:     string(s.Shape),
		EmpresaID: s.CompanyID,
		Ocupado:   s.CompanyID != nil,
	}
	if s.Shape == model.ShapePolygon {
		d.Puntos = make([][2]float64, len(s.Points))
		for i, p := range s.Points {
			d.Puntos[i] = [2]float64{p.X, p.Y}
		}
		return d
	}
	x, y, size := s.X, s.Y, s.Size
	d.X, d.Y, d.Size = &x, &y, &size
	return d
}

// Decode parses a blob.  Missing lists decode as empty; an empty seat list
// yields a nil Snapshot.Seats.  Companies decode independently of seats: a
// seat with an unknown category or shape drops the whole seat list and is
// reported in Snapshot.SeatsErr, never as the returned error.
func Decode(raw []byte) (Snapshot, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("decode planner state: %w", err)
	}

	snap := Snapshot{Companies: make([]model.Company, 0, len(doc.Empresas))}
	for _, c := range doc.Empresas {
		snap.Companies = append(snap.Companies, model.Company{ID: c.ID, Name: c.Nombre, Color: c.Color})
	}
	if len(doc.Puestos) == 0 {
		return snap, nil
	}
	seats := make([]model.Seat, 0, len(doc.Puestos))
	for _, d := range doc.Puestos {
		s, err := decodeSeat(d)
		if err != nil {
			snap.SeatsErr = err
			return snap, nil
		}
		seats = append(seats, s)
	}
	snap.Seats = seats
	return snap, nil
}

func decodeSeat(d seatDoc) (model.Seat, error) {
	cat, err := model.ParseCategoryCode(d.Tipo)
	if err != nil {
		return model.Seat{}, fmt.Errorf("seat %d: %w", d.ID, err)
	}
	shape, err := model.ParseShape(d.Forma)
	if err != nil {
		return model.Seat{}, fmt.Errorf("seat %d: %w", d.ID, err)
	}
	s := model.Seat{ID: d.ID, Category: cat, Shape: shape}
	if d.X != nil {
		s.X = *d.X
	}
	if d.Y != nil {
		s.Y = *d.Y
	}
	if d.Size != nil {
		s.Size = *d.Size
	}
	if len(d.Puntos) > 0 {
		s.Points = make([]geometry.Point, len(d.Puntos))
		for i, p := range d.Puntos {
			s.Points[i] = geometry.Point{X: p[0], Y: p[1]}
		}
	}
	// ocupado is derived; a stale flag without a company is dropped.
	if d.EmpresaID != nil && *d.EmpresaID != "" {
		s.AssignTo(*d.EmpresaID)
	}
	return s, nil
}
