package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iliyamo/floorplan-seat-planner/internal/model"
	"github.com/iliyamo/floorplan-seat-planner/internal/persistence"
	"github.com/iliyamo/floorplan-seat-planner/internal/repository"
)

// Loader reads the persisted snapshot.
type Loader interface {
	Load(ctx context.Context) (persistence.Snapshot, bool, error)
}

// Store is a Loader that can also save.
type Store interface {
	Loader
	Saver
}

// Bootstrap restores the engine from st.  When nothing usable is stored the
// built-in catalog is used with no companies.  Stored seats replace the
// built-in catalog entirely, so catalog changes made in code do not reach a
// store that already holds seats.  Invalid stored seats or companies are
// logged and replaced by defaults, each list on its own.  Seats pointing at
// unknown companies are released and the repaired state is saved once; a
// failed repair save is logged.  Only a store read failure is returned.
func Bootstrap(ctx context.Context, st Store, log zerolog.Logger) (*Engine, error) {
	snap, ok, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}

	seatList := model.DefaultSeats()
	var companyList []model.Company
	if ok {
		companyList = snap.Companies
		if len(snap.Seats) > 0 {
			seatList = snap.Seats
		}
	}

	seats, err := repository.NewSeatRepo(seatList)
	if err != nil {
		log.Warn().Err(err).Msg("stored seat catalog is invalid; using built-in catalog")
		seats, err = repository.NewSeatRepo(model.DefaultSeats())
		if err != nil {
			return nil, err
		}
	}
	companies, err := repository.NewCompanyRepo(companyList)
	if err != nil {
		log.Warn().Err(err).Msg("stored companies are invalid; starting without companies")
		companies, _ = repository.NewCompanyRepo(nil)
	}

	known := make(map[string]bool, companies.Len())
	for _, c := range companies.List() {
		known[c.ID] = true
	}
	released := 0
	for _, s := range seats.GetAll() {
		if s.CompanyID != nil && !known[*s.CompanyID] {
			log.Warn().Uint64("seat_id", s.ID).Str("company_id", *s.CompanyID).Msg("releasing seat held by unknown company")
			if seats.Release(s.ID) == nil {
				released++
			}
		}
	}
	if released > 0 {
		if err := st.Save(ctx, seats.GetAll(), companies.List()); err != nil {
			log.Error().Err(err).Int("released", released).Msg("save repaired planner state")
		}
	}

	log.Info().
		Bool("restored", ok).
		Int("seats", seats.Len()).
		Int("companies", companies.Len()).
		Msg("planner state loaded")
	return NewEngine(seats, companies, st, log), nil
}
