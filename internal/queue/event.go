// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatingChangedQueue is the durable queue carrying SeatingChangedEvent.
const SeatingChangedQueue = "seating.changed"

// Actions carried by SeatingChangedEvent.
const (
	ActionCompanyAdded   = "company.added"
	ActionCompanyRenamed = "company.renamed"
	ActionCompanyDeleted = "company.deleted"
	ActionSeatAssigned   = "seat.assigned"
	ActionSeatUnassigned = "seat.unassigned"
	ActionStateCleared   = "state.cleared"
)

// SeatingChangedEvent is published after every committed planner mutation.
// It carries enough context for downstream consumers to keep an audit
// trail without reading the planner state.
type SeatingChangedEvent struct {
	Action        string `json:"action"`
	SeatID        uint64 `json:"seat_id,omitempty"`
	CompanyID     string `json:"company_id,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
	SeatsReleased int    `json:"seats_released,omitempty"`
	OccupiedSeats int    `json:"occupied_seats"`
	TotalSeats    int    `json:"total_seats"`
	At            string `json:"at"`
}
