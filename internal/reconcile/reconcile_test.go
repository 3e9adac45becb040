package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/parcelas/internal/model"
)

func TestReconcile_EndToEnd(t *testing.T) {
	wanted := []model.WantedEntry{{Name: "Acme Ltda", RawID: "12.345.678/0001-95"}}
	universe := []model.UniverseEntry{
		{Code: "007", Name: "ACME   LTDA", RawID: "anything"},
		{Code: "003", Name: "Other Co", RawID: "0"},
	}

	got := Reconcile(wanted, universe)
	assert.Equal(t, []model.ReconciledEntry{
		{Code: "007", Name: "Acme Ltda", TaxID: "12345678000195"},
	}, got)
}

func TestReconcile_EveryUniverseMatch(t *testing.T) {
	wanted := []model.WantedEntry{{Name: "Padaria São João", RawID: "191"}}
	universe := []model.UniverseEntry{
		{Code: "20", Name: "PADARIA SAO JOAO"},
		{Code: "10", Name: " padaria  são joão "},
		{Code: "30", Name: "Padaria Santa Maria"},
	}

	got := Reconcile(wanted, universe)
	require.Len(t, got, 2)
	assert.Equal(t, "10", got[0].Code)
	assert.Equal(t, "20", got[1].Code)
	for _, e := range got {
		assert.Equal(t, "Padaria São João", e.Name)
		assert.Equal(t, "00000000000191", e.TaxID)
	}
}

func TestReconcile_FirstWantedWins(t *testing.T) {
	wanted := []model.WantedEntry{
		{Name: "ACME", RawID: "11"},
		{Name: "acme", RawID: "22"},
	}
	universe := []model.UniverseEntry{{Code: "1", Name: "Acme"}}

	got, st := ReconcileWithStats(wanted, universe)
	require.Len(t, got, 1)
	assert.Equal(t, "ACME", got[0].Name)
	assert.Equal(t, "00000000000011", got[0].TaxID)
	assert.Equal(t, 2, st.Wanted)
	assert.Equal(t, 1, st.Matched)
}

func TestReconcile_EmptyCodeDropped(t *testing.T) {
	wanted := []model.WantedEntry{{Name: "Acme"}}
	universe := []model.UniverseEntry{
		{Code: "", Name: "Acme"},
		{Code: "   ", Name: "Acme"},
		{Code: "5", Name: "Acme"},
	}

	got, st := ReconcileWithStats(wanted, universe)
	require.Len(t, got, 1)
	assert.Equal(t, "5", got[0].Code)
	assert.Equal(t, "", got[0].TaxID)
	assert.Equal(t, 3, st.Matched)
	assert.Equal(t, 2, st.EmptyCode)
}

func TestReconcile_EmptyNamesIgnored(t *testing.T) {
	wanted := []model.WantedEntry{{Name: "  ", RawID: "1"}}
	universe := []model.UniverseEntry{{Code: "1", Name: ""}}

	got, st := ReconcileWithStats(wanted, universe)
	assert.Empty(t, got)
	assert.Equal(t, Stats{}, st)
}

func TestReconcile_NoMatches(t *testing.T) {
	got := Reconcile(
		[]model.WantedEntry{{Name: "Acme"}},
		[]model.UniverseEntry{{Code: "1", Name: "Other"}},
	)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReconcile_SortedLexicographically(t *testing.T) {
	wanted := []model.WantedEntry{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	universe := []model.UniverseEntry{
		{Code: "10", Name: "A"},
		{Code: "9", Name: "B"},
		{Code: "010", Name: "C"},
	}

	got := Reconcile(wanted, universe)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"010", "10", "9"}, []string{got[0].Code, got[1].Code, got[2].Code})
}
