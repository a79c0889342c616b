package service

import "github.com/iliyamo/floorplan-seat-planner/internal/model"

// CompanySummary is one row of the per-company table.
type CompanySummary struct {
	CompanyID        string                 `json:"company_id"`
	Name             string                 `json:"name"`
	Color            string                 `json:"color"`
	CountsByCategory map[model.Category]int `json:"counts_by_category"`
	Total            int                    `json:"total"`
}

// Occupancy counts seats in one bucket.  Available is Total minus Occupied.
type Occupancy struct {
	Total     int `json:"total"`
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
}

// OverallSummary is the per-category occupancy table plus its grand total.
type OverallSummary struct {
	ByCategory map[model.Category]Occupancy `json:"by_category"`
	GrandTotal Occupancy                    `json:"grand_total"`
}

// SummarizeCompanies builds one row per company in the given order.  Seats
// pointing at unknown companies are not counted anywhere.
func SummarizeCompanies(seats []model.Seat, companies []model.Company) []CompanySummary {
	rows := make([]CompanySummary, 0, len(companies))
	for _, c := range companies {
		row := CompanySummary{
			CompanyID:        c.ID,
			Name:             c.Name,
			Color:            c.Color,
			CountsByCategory: make(map[model.Category]int, len(model.Categories)),
		}
		for _, cat := range model.Categories {
			row.CountsByCategory[cat] = 0
		}
		for i := range seats {
			if seats[i].AssignedTo(c.ID) {
				row.CountsByCategory[seats[i].Category]++
				row.Total++
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// SummarizeOccupancy counts total, occupied and available seats per
// category and overall.
func SummarizeOccupancy(seats []model.Seat) OverallSummary {
	out := OverallSummary{ByCategory: make(map[model.Category]Occupancy, len(model.Categories))}
	for _, cat := range model.Categories {
		var o Occupancy
		for _, s := range seats {
			if s.Category != cat {
				continue
			}
			o.Total++
			if s.Occupied {
				o.Occupied++
			}
		}
		o.Available = o.Total - o.Occupied
		out.ByCategory[cat] = o

		out.GrandTotal.Total += o.Total
		out.GrandTotal.Occupied += o.Occupied
		out.GrandTotal.Available += o.Available
	}
	return out
}

// PerCompanySummary reports seat counts per company, in insertion order.
func (e *Engine) PerCompanySummary() []CompanySummary {
	seats, companies := e.snapshot()
	return SummarizeCompanies(seats, companies)
}

// OverallSummary reports occupancy per category.
func (e *Engine) OverallSummary() OverallSummary {
	seats, _ := e.snapshot()
	return SummarizeOccupancy(seats)
}
