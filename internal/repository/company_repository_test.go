package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/floorplan-seat-planner/internal/model"
)

func newTestCompanyRepo(t *testing.T) *CompanyRepo {
	t.Helper()
	r, err := NewCompanyRepo(nil)
	require.NoError(t, err)
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("c%d", n)
	}
	return r
}

func TestCompanyCreate(t *testing.T) {
	r := newTestCompanyRepo(t)

	c, err := r.Create("  Acme  ", "#1f78b4")
	require.NoError(t, err)
	assert.Equal(t, model.Company{ID: "c1", Name: "Acme", Color: "#1f78b4"}, c)

	_, err = r.Create("Globex", "#33a02c")
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Acme", list[0].Name)
	assert.Equal(t, "Globex", list[1].Name)
}

func TestCompanyCreateRejectsDuplicates(t *testing.T) {
	r := newTestCompanyRepo(t)
	_, err := r.Create("Acme", "#1f78b4")
	require.NoError(t, err)
	before := r.List()

	_, err = r.Create("ACME", "#000000")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = r.Create("Other", "#1F78B4")
	assert.ErrorIs(t, err, ErrDuplicateColor)

	_, err = r.Create("acme", "#1f78b4")
	assert.ErrorIs(t, err, ErrDuplicateName, "name collisions are reported first")

	_, err = r.Create("   ", "#ffffff")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = r.Create("Blank", "")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, before, r.List())
}

func TestCompanyRename(t *testing.T) {
	r := newTestCompanyRepo(t)
	a, _ := r.Create("Acme", "#1f78b4")
	_, _ = r.Create("Globex", "#33a02c")

	_, changed, err := r.Rename(a.ID, "globex")
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.False(t, changed)

	_, changed, err = r.Rename(a.ID, " Acme ")
	require.NoError(t, err)
	assert.False(t, changed)

	got, changed, err := r.Rename(a.ID, "ACME")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "ACME", got.Name)

	_, _, err = r.Rename("missing", "x")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = r.Rename(a.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompanyDeleteAndClear(t *testing.T) {
	r := newTestCompanyRepo(t)
	a, _ := r.Create("Acme", "#1f78b4")
	b, _ := r.Create("Globex", "#33a02c")
	snapshot := r.List()

	removed, err := r.Delete(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, removed)
	assert.Equal(t, []model.Company{b}, r.List())
	assert.Len(t, snapshot, 2, "earlier snapshots are not affected")

	_, err = r.Delete(a.ID)
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	r.Clear()
	assert.Equal(t, 0, r.Len())
}

func TestCompanyUniquenessHoldsOverSequences(t *testing.T) {
	r := newTestCompanyRepo(t)
	names := []string{"a", "B", "A", "b", "c", "C ", " d"}
	colors := []string{"#1", "#2", "#3", "#1", "#2", "#4", "#5"}
	for i := range names {
		_, _ = r.Create(names[i], colors[i])
		if r.Len() > 0 {
			_, _, _ = r.Rename(r.List()[0].ID, names[len(names)-1-i])
		}

		seenNames := map[string]bool{}
		seenColors := map[string]bool{}
		for _, c := range r.List() {
			key := strings.ToLower(c.Name)
			assert.False(t, seenNames[key], "duplicate name %q", c.Name)
			assert.False(t, seenColors[c.Color], "duplicate color %q", c.Color)
			seenNames[key] = true
			seenColors[c.Color] = true
		}
	}
}

func TestNewCompanyRepoValidatesStoredCompanies(t *testing.T) {
	_, err := NewCompanyRepo([]model.Company{
		{ID: "1", Name: "Acme", Color: "#1"},
		{ID: "2", Name: "acme", Color: "#2"},
	})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = NewCompanyRepo([]model.Company{
		{ID: "1", Name: "Acme", Color: "#1"},
		{ID: "1", Name: "Globex", Color: "#2"},
	})
	assert.ErrorIs(t, err, ErrValidation)

	r, err := NewCompanyRepo([]model.Company{{ID: "1", Name: "Acme", Color: "#1"}})
	require.NoError(t, err)
	assert.True(t, r.ColorTaken("#1"))
	assert.False(t, r.ColorTaken("#2"))
}
