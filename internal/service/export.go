package service

import (
	"strconv"
	"time"

	"github.com/iliyamo/floorplan-seat-planner/internal/model"
)

// ExportTitle heads the exported document.
const ExportTitle = "Ocupación Hubux"

// Table is a header row plus body rows, ready for a PDF table renderer.
type Table struct {
	Head []string   `json:"head"`
	Rows [][]string `json:"rows"`
}

// ExportBundle is everything the PDF collaborator needs: the drawing of the
// plan, both summary tables and the document metadata.
type ExportBundle struct {
	Title        string        `json:"title"`
	FileName     string        `json:"file_name"`
	GeneratedAt  time.Time     `json:"generated_at"`
	Drawing      []DrawCommand `json:"drawing"`
	CompanyTable Table         `json:"company_table"`
	SummaryTable Table         `json:"summary_table"`
}

// Export builds the bundle from one consistent snapshot.
func (e *Engine) Export() ExportBundle {
	seats, companies := e.snapshot()
	now := e.now()
	return ExportBundle{
		Title:        ExportTitle,
		FileName:     "Hubux_" + now.Format("2006-01-02") + ".pdf",
		GeneratedAt:  now,
		Drawing:      Render(seats, companies),
		CompanyTable: companyTable(SummarizeCompanies(seats, companies)),
		SummaryTable: summaryTable(SummarizeOccupancy(seats)),
	}
}

func companyTable(rows []CompanySummary) Table {
	t := Table{Head: []string{"EMPRESA"}, Rows: make([][]string, 0, len(rows))}
	for _, cat := range model.Categories {
		t.Head = append(t.Head, cat.Info().Heading)
	}
	t.Head = append(t.Head, "TOTAL")

	for _, r := range rows {
		line := []string{r.Name}
		for _, cat := range model.Categories {
			line = append(line, strconv.Itoa(r.CountsByCategory[cat]))
		}
		line = append(line, strconv.Itoa(r.Total))
		t.Rows = append(t.Rows, line)
	}
	return t
}

func summaryTable(s OverallSummary) Table {
	t := Table{Head: []string{"Puesto"}}
	for _, cat := range model.Categories {
		t.Head = append(t.Head, cat.Info().Label)
	}
	t.Head = append(t.Head, "Total")

	row := func(label string, pick func(Occupancy) int) []string {
		line := []string{label}
		for _, cat := range model.Categories {
			line = append(line, strconv.Itoa(pick(s.ByCategory[cat])))
		}
		return append(line, strconv.Itoa(pick(s.GrandTotal)))
	}
	t.Rows = [][]string{
		row("Ocupados", func(o Occupancy) int { return o.Occupied }),
		row("Disponibles", func(o Occupancy) int { return o.Available }),
		row("Total", func(o Occupancy) int { return o.Total }),
	}
	return t
}
