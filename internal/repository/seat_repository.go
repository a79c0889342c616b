package repository // repository holds the seat and company registries

import (
	"fmt"

	"github.com/iliyamo/floorplan-seat-planner/internal/model"
)

// SeatRepo is the fixed seat catalog and its occupancy state.  It is a thin
// store: it keeps seats consistent with themselves (Occupied always mirrors
// CompanyID) but does not know whether a company exists.  Callers are
// responsible for serialising access.
type SeatRepo struct {
	seats []model.Seat   // catalog order, which is also hit-test order
	index map[uint64]int // seat id -> position in seats
}

// NewSeatRepo builds a registry from seats.  It rejects duplicate or zero
// ids, unknown categories and shapes, and polygons with fewer than three
// points.  Occupied is recomputed from CompanyID.
func NewSeatRepo(seats []model.Seat) (*SeatRepo, error) {
	r := &SeatRepo{}
	if err := r.Replace(seats); err != nil {
		return nil, err
	}
	return r, nil
}

// Replace swaps the whole catalog after validating it.  On error the
// registry is left untouched.
func (r *SeatRepo) Replace(seats []model.Seat) error {
	next := make([]model.Seat, 0, len(seats))
	index := make(map[uint64]int, len(seats))
	for _, s := range seats {
		if s.ID == 0 {
			return fmt.Errorf("%w: seat id must be positive", ErrValidation)
		}
		if _, dup := index[s.ID]; dup {
			return fmt.Errorf("%w: duplicate seat id %d", ErrValidation, s.ID)
		}
		if !s.Category.Valid() {
			return fmt.Errorf("%w: seat %d has unknown category %q", ErrValidation, s.ID, s.Category)
		}
		switch s.Shape {
		case model.ShapeRect, model.ShapeCircle, model.ShapeTriangle:
		case model.ShapePolygon:
			if len(s.Points) < 3 {
				return fmt.Errorf("%w: polygon seat %d needs at least 3 points", ErrValidation, s.ID)
			}
		default:
			return fmt.Errorf("%w: seat %d has unknown shape %q", ErrValidation, s.ID, s.Shape)
		}
		cp := s.Clone()
		cp.Occupied = cp.CompanyID != nil
		index[cp.ID] = len(next)
		next = append(next, cp)
	}
	r.seats = next
	r.index = index
	return nil
}

// GetAll returns a copy of every seat in catalog order.
func (r *SeatRepo) GetAll() []model.Seat {
	out := make([]model.Seat, len(r.seats))
	for i, s := range r.seats {
		out[i] = s.Clone()
	}
	return out
}

// Len returns the catalog size.
func (r *SeatRepo) Len() int {
	return len(r.seats)
}

// GetByID returns a copy of the seat with the given id.
func (r *SeatRepo) GetByID(id uint64) (*model.Seat, error) {
	i, ok := r.index[id]
	if !ok {
		return nil, ErrSeatNotFound
	}
	s := r.seats[i].Clone()
	return &s, nil
}

// ListByCompany returns the seats currently held by companyID.
func (r *SeatRepo) ListByCompany(companyID string) []model.Seat {
	var out []model.Seat
	for _, s := range r.seats {
		if s.AssignedTo(companyID) {
			out = append(out, s.Clone())
		}
	}
	return out
}

// CountByCompany returns how many seats companyID holds.
func (r *SeatRepo) CountByCompany(companyID string) int {
	n := 0
	for i := range r.seats {
		if r.seats[i].AssignedTo(companyID) {
			n++
		}
	}
	return n
}

// FindAt returns the first seat in catalog order that contains the point.
// Overlapping seats are not disambiguated.
func (r *SeatRepo) FindAt(px, py float64) (*model.Seat, bool) {
	for i := range r.seats {
		if r.seats[i].Contains(px, py) {
			s := r.seats[i].Clone()
			return &s, true
		}
	}
	return nil, false
}

// Assign binds the seat to companyID, replacing any previous company.
func (r *SeatRepo) Assign(id uint64, companyID string) error {
	i, ok := r.index[id]
	if !ok {
		return ErrSeatNotFound
	}
	r.seats[i].AssignTo(companyID)
	return nil
}

// Release frees the seat.  Releasing a free seat is a no-op.
func (r *SeatRepo) Release(id uint64) error {
	i, ok := r.index[id]
	if !ok {
		return ErrSeatNotFound
	}
	r.seats[i].Release()
	return nil
}

// ReleaseByCompany frees every seat held by companyID and returns how many
// were released.
func (r *SeatRepo) ReleaseByCompany(companyID string) int {
	n := 0
	for i := range r.seats {
		if r.seats[i].AssignedTo(companyID) {
			r.seats[i].Release()
			n++
		}
	}
	return n
}

// ReleaseAll frees every seat.
func (r *SeatRepo) ReleaseAll() {
	for i := range r.seats {
		r.seats[i].Release()
	}
}
