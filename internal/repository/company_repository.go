package repository // repository holds the seat and company registries

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/floorplan-seat-planner/internal/model"
)

// CompanyRepo keeps companies in insertion order and enforces the name and
// colour uniqueness rules.  Every failed call leaves the registry unchanged.
// Callers are responsible for serialising access.
type CompanyRepo struct {
	companies []model.Company
	newID     func() string
}

// NewCompanyRepo builds a registry from previously stored companies.  It
// rejects empty or duplicated ids, names and colours.
func NewCompanyRepo(companies []model.Company) (*CompanyRepo, error) {
	r := &CompanyRepo{newID: uuid.NewString}
	if err := r.Replace(companies); err != nil {
		return nil, err
	}
	return r, nil
}

// Replace swaps the whole company list after validating it.
func (r *CompanyRepo) Replace(companies []model.Company) error {
	next := make([]model.Company, 0, len(companies))
	ids := make(map[string]bool, len(companies))
	for _, c := range companies {
		if c.ID == "" || strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Color) == "" {
			return fmt.Errorf("%w: company id, name and color are required", ErrValidation)
		}
		if ids[c.ID] {
			return fmt.Errorf("%w: duplicate company id %q", ErrValidation, c.ID)
		}
		if err := checkUnique(next, c.Name, c.Color); err != nil {
			return err
		}
		ids[c.ID] = true
		next = append(next, c)
	}
	r.companies = next
	return nil
}

// List returns a copy of all companies in insertion order.
func (r *CompanyRepo) List() []model.Company {
	out := make([]model.Company, len(r.companies))
	copy(out, r.companies)
	return out
}

// Len returns the number of companies.
func (r *CompanyRepo) Len() int {
	return len(r.companies)
}

// GetByID returns a copy of the company with the given id.
func (r *CompanyRepo) GetByID(id string) (*model.Company, error) {
	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrCompanyNotFound
	}
	c := r.companies[i]
	return &c, nil
}

// Create validates and appends a new company with a fresh id.  The name is
// trimmed; both name and colour are required.
func (r *CompanyRepo) Create(name, color string) (model.Company, error) {
	name = strings.TrimSpace(name)
	color = strings.TrimSpace(color)
	if name == "" || color == "" {
		return model.Company{}, fmt.Errorf("%w: name and color are required", ErrValidation)
	}
	if err := checkUnique(r.companies, name, color); err != nil {
		return model.Company{}, err
	}
	c := model.Company{ID: r.newID(), Name: name, Color: color}
	r.companies = append(r.companies, c)
	return c, nil
}

// Rename changes a company's name.  The uniqueness check skips the company
// itself, so changing only the letter case is allowed.  The boolean result
// is false when the trimmed name equals the current one and nothing changed.
func (r *CompanyRepo) Rename(id, name string) (model.Company, bool, error) {
	i := r.indexOf(id)
	if i < 0 {
		return model.Company{}, false, ErrCompanyNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Company{}, false, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if name == r.companies[i].Name {
		return r.companies[i], false, nil
	}
	for _, c := range r.companies {
		if c.ID != id && strings.EqualFold(c.Name, name) {
			return model.Company{}, false, ErrDuplicateName
		}
	}
	r.companies[i].Name = name
	return r.companies[i], true, nil
}

// Delete removes the company and returns it.  Seats are not touched.
func (r *CompanyRepo) Delete(id string) (model.Company, error) {
	i := r.indexOf(id)
	if i < 0 {
		return model.Company{}, ErrCompanyNotFound
	}
	removed := r.companies[i]
	r.companies = append(r.companies[:i:i], r.companies[i+1:]...)
	return removed, nil
}

// Clear removes every company.
func (r *CompanyRepo) Clear() {
	r.companies = nil
}

// ColorTaken reports whether any company uses color.
func (r *CompanyRepo) ColorTaken(color string) bool {
	for _, c := range r.companies {
		if sameColor(c.Color, color) {
			return true
		}
	}
	return false
}

func (r *CompanyRepo) indexOf(id string) int {
	for i, c := range r.companies {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// checkUnique verifies name and color against companies.  Name collisions
// are reported before colour collisions.
func checkUnique(companies []model.Company, name, color string) error {
	for _, c := range companies {
		if strings.EqualFold(c.Name, name) {
			return ErrDuplicateName
		}
	}
	for _, c := range companies {
		if sameColor(c.Color, color) {
			return ErrDuplicateColor
		}
	}
	return nil
}

// sameColor compares colour strings ignoring case so that #FF0000 and
// #ff0000 count as the same colour.
func sameColor(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
