// Package service holds the planner engine: the assignment rules that keep
// seats and companies consistent, the read-only report and render
// projections, and the bootstrap that restores persisted state.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/floorplan-seat-planner/internal/model"
	"github.com/iliyamo/floorplan-seat-planner/internal/queue"
	"github.com/iliyamo/floorplan-seat-planner/internal/repository"
)

// ErrPersist wraps a failure to flush state after a mutation.  The
// mutation is rolled back before the error is returned.
var ErrPersist = errors.New("persist planner state")

// ErrConfirmationRequired is returned by an unconfirmed delete of a company
// that still holds seats.  The concrete error is a *ConfirmationError.
var ErrConfirmationRequired = errors.New("confirmation required")

// ConfirmationError carries the number of seats a confirmed delete would
// release, counted under the same lock that refused the delete.
type ConfirmationError struct {
	Affected int
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("%s: %d seats would be released", ErrConfirmationRequired, e.Affected)
}

func (e *ConfirmationError) Is(target error) bool { return target == ErrConfirmationRequired }

// Saver writes a full snapshot of the registries.
type Saver interface {
	Save(ctx context.Context, seats []model.Seat, companies []model.Company) error
}

// ChangeHook is called after a mutation has been committed and saved.  Hooks
// run outside the engine lock and must not call back into mutations.
type ChangeHook func(ctx context.Context, ev queue.SeatingChangedEvent)

// Engine owns the seat and company registries.  It is the only component
// that mutates them; every mutation is persisted before it becomes visible
// and is rolled back when persisting fails.
type Engine struct {
	mu        sync.RWMutex
	seats     *repository.SeatRepo
	companies *repository.CompanyRepo
	saver     Saver
	hooks     []ChangeHook
	log       zerolog.Logger
	now       func() time.Time
}

// NewEngine wires the registries to a saver.  Panics on nil dependencies.
func NewEngine(seats *repository.SeatRepo, companies *repository.CompanyRepo, saver Saver, log zerolog.Logger) *Engine {
	if seats == nil || companies == nil || saver == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{
		seats:     seats,
		companies: companies,
		saver:     saver,
		log:       log,
		now:       time.Now,
	}
}

// OnChange registers a hook.  Not safe to call once the engine is serving.
func (e *Engine) OnChange(h ChangeHook) {
	e.hooks = append(e.hooks, h)
}

// apply runs fn under the write lock.  fn reports whether it changed
// anything; unchanged results skip the save.  Any failure restores the
// registries to their state before fn ran.
func (e *Engine) apply(ctx context.Context, fn func() (queue.SeatingChangedEvent, bool, error)) error {
	e.mu.Lock()
	prevSeats := e.seats.GetAll()
	prevCompanies := e.companies.List()

	ev, changed, err := fn()
	if err != nil {
		e.restore(prevSeats, prevCompanies)
		e.mu.Unlock()
		return err
	}
	if !changed {
		e.mu.Unlock()
		return nil
	}
	if err := e.saver.Save(ctx, e.seats.GetAll(), e.companies.List()); err != nil {
		e.restore(prevSeats, prevCompanies)
		e.mu.Unlock()
		e.log.Error().Err(err).Str("action", ev.Action).Msg("planner state not saved; change rolled back")
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	ev.TotalSeats = e.seats.Len()
	ev.OccupiedSeats = occupiedCount(e.seats.GetAll())
	ev.At = e.now().UTC().Format(time.RFC3339)
	e.mu.Unlock()

	e.log.Info().
		Str("action", ev.Action).
		Uint64("seat_id", ev.SeatID).
		Str("company_id", ev.CompanyID).
		Int("occupied", ev.OccupiedSeats).
		Msg("planner state changed")
	for _, h := range e.hooks {
		h(ctx, ev)
	}
	return nil
}

func (e *Engine) restore(seats []model.Seat, companies []model.Company) {
	// both lists came out of the registries, so they always validate
	_ = e.seats.Replace(seats)
	_ = e.companies.Replace(companies)
}

// AddCompany creates a company.  Fails with ErrValidation, ErrDuplicateName
// or ErrDuplicateColor without changing anything.
func (e *Engine) AddCompany(ctx context.Context, name, color string) (model.Company, error) {
	var created model.Company
	err := e.apply(ctx, func() (queue.SeatingChangedEvent, bool, error) {
		c, err := e.companies.Create(name, color)
		if err != nil {
			return queue.SeatingChangedEvent{}, false, err
		}
		created = c
		return queue.SeatingChangedEvent{Action: queue.ActionCompanyAdded, CompanyID: c.ID, CompanyName: c.Name}, true, nil
	})
	return created, err
}

// RenameCompany changes a company's name.  Renaming to the current name is
// a no-op.
func (e *Engine) RenameCompany(ctx context.Context, id, name string) (model.Company, error) {
	var renamed model.Company
	err := e.apply(ctx, func() (queue.SeatingChangedEvent, bool, error) {
		c, changed, err := e.companies.Rename(id, name)
		if err != nil {
			return queue.SeatingChangedEvent{}, false, err
		}
		renamed = c
		return queue.SeatingChangedEvent{Action: queue.ActionCompanyRenamed, CompanyID: c.ID, CompanyName: c.Name}, changed, nil
	})
	return renamed, err
}

// CompanyImpact returns how many seats deleting the company would release.
// The count is advisory; DeleteCompanyCascade re-checks it under the write
// lock.
func (e *Engine) CompanyImpact(id string) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, err := e.companies.GetByID(id); err != nil {
		return 0, err
	}
	return e.seats.CountByCompany(id), nil
}

// DeleteCompanyCascade releases every seat held by the company and removes
// it, as one step.  It returns the number of seats released.  This is the
// only way to delete a company.  Unless confirmed is true, a company that
// holds seats at the moment of the delete is kept and a *ConfirmationError
// is returned.
func (e *Engine) DeleteCompanyCascade(ctx context.Context, id string, confirmed bool) (int, error) {
	released := 0
	err := e.apply(ctx, func() (queue.SeatingChangedEvent, bool, error) {
		c, err := e.companies.GetByID(id)
		if err != nil {
			return queue.SeatingChangedEvent{}, false, err
		}
		if n := e.seats.CountByCompany(id); n > 0 && !confirmed {
			return queue.SeatingChangedEvent{}, false, &ConfirmationError{Affected: n}
		}
		released = e.seats.ReleaseByCompany(id)
		if _, err := e.companies.Delete(id); err != nil {
			return queue.SeatingChangedEvent{}, false, err
		}
		return queue.SeatingChangedEvent{
			Action:        queue.ActionCompanyDeleted,
			CompanyID:     c.ID,
			CompanyName:   c.Name,
			SeatsReleased: released,
		}, true, nil
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

// Assign binds a seat to a company, replacing any previous company.
func (e *Engine) Assign(ctx context.Context, seatID uint64, companyID string) error {
	return e.apply(ctx, func() (queue.SeatingChangedEvent, bool, error) {
		seat, err := e.seats.GetByID(seatID)
		if err != nil {
			return queue.SeatingChangedEvent{}, false, err
		}
		c, err := e.companies.GetByID(companyID)
		if err != nil {
			return queue.SeatingChangedEvent{}, false, err
		}
		if seat.AssignedTo(companyID) {
			return queue.SeatingChangedEvent{}, false, nil
		}
		if err := e.seats.Assign(seatID, companyID); err != nil {
			return queue.SeatingChangedEvent{}, false, err
		}
		return queue.SeatingChangedEvent{Action: queue.ActionSeatAssigned, SeatID: seatID, CompanyID: c.ID, CompanyName: c.Name}, true, nil
	})
}

// Unassign frees a seat.  Freeing a free seat is a no-op.
func (e *Engine) Unassign(ctx context.Context, seatID uint64) error {
	return e.apply(ctx, func() (queue.SeatingChangedEvent, bool, error) {
		seat, err := e.seats.GetByID(seatID)
		if err != nil {
			return queue.SeatingChangedEvent{}, false, err
		}
		if seat.CompanyID == nil {
			return queue.SeatingChangedEvent{}, false, nil
		}
		ev := queue.SeatingChangedEvent{Action: queue.ActionSeatUnassigned, SeatID: seatID, CompanyID: *seat.CompanyID}
		if err := e.seats.Release(seatID); err != nil {
			return queue.SeatingChangedEvent{}, false, err
		}
		return ev, true, nil
	})
}

// ClearAll removes every company and frees every seat.  Irreversible;
// callers gate it behind an explicit confirmation.
func (e *Engine) ClearAll(ctx context.Context) error {
	return e.apply(ctx, func() (queue.SeatingChangedEvent, bool, error) {
		released := occupiedCount(e.seats.GetAll())
		e.companies.Clear()
		e.seats.ReleaseAll()
		return queue.SeatingChangedEvent{Action: queue.ActionStateCleared, SeatsReleased: released}, true, nil
	})
}

// Seats returns every seat in catalog order.
func (e *Engine) Seats() []model.Seat {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.seats.GetAll()
}

// Seat returns one seat.
func (e *Engine) Seat(id uint64) (*model.Seat, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.seats.GetByID(id)
}

// SeatsByCompany returns the seats held by a company.
func (e *Engine) SeatsByCompany(companyID string) ([]model.Seat, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, err := e.companies.GetByID(companyID); err != nil {
		return nil, err
	}
	return e.seats.ListByCompany(companyID), nil
}

// Companies returns every company in insertion order.
func (e *Engine) Companies() []model.Company {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.companies.List()
}

// Company returns one company.
func (e *Engine) Company(id string) (*model.Company, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.companies.GetByID(id)
}

// HitTest returns the first seat in catalog order under the canvas point.
func (e *Engine) HitTest(x, y float64) (*model.Seat, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.seats.FindAt(x, y)
}

// AvailableColors returns the palette colours no company uses yet.
func (e *Engine) AvailableColors() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(model.Palette))
	for _, c := range model.Palette {
		if !e.companies.ColorTaken(c) {
			out = append(out, c)
		}
	}
	return out
}

// snapshot returns a consistent copy of both registries.
func (e *Engine) snapshot() ([]model.Seat, []model.Company) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.seats.GetAll(), e.companies.List()
}

func occupiedCount(seats []model.Seat) int {
	n := 0
	for _, s := range seats {
		if s.Occupied {
			n++
		}
	}
	return n
}
