package model

// Company represents a tenant that can occupy seats on the floor plan.
// Names are unique ignoring case and colours are unique across companies.
//
// Fields:
//
//	ID    – generated identifier.
//	Name  – display name, trimmed.
//	Color – CSS colour string used to fill the company's seats.
type Company struct {
	ID    string
	Name  string
	Color string
}
