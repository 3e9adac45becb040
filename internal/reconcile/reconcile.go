// Package reconcile matches a roster of wanted companies against the roster of all
// known companies by normalized name.
package reconcile

import (
	"sort"
	"strings"

	"github.com/cleared-dev/parcelas/internal/model"
	"github.com/cleared-dev/parcelas/internal/names"
	"github.com/cleared-dev/parcelas/internal/taxid"
)

// Stats counts what happened to the input rows.
type Stats struct {
	Wanted    int // wanted rows with a non-empty name
	Universe  int // universe rows with a non-empty name
	Matched   int // universe rows whose name is wanted
	EmptyCode int // matches dropped for a blank code
}

type wantedData struct {
	name  string
	taxID string
}

// Reconcile returns one entry per universe row whose normalized name appears in
// wanted, carrying the universe code and the wanted name and CNPJ. Duplicate wanted
// names resolve to the first row. Entries with a blank code are dropped. The result
// is sorted by code as a string.
func Reconcile(wanted []model.WantedEntry, universe []model.UniverseEntry) []model.ReconciledEntry {
	out, _ := ReconcileWithStats(wanted, universe)
	return out
}

// ReconcileWithStats is Reconcile plus input accounting.
func ReconcileWithStats(wanted []model.WantedEntry, universe []model.UniverseEntry) ([]model.ReconciledEntry, Stats) {
	var st Stats

	byName := make(map[string]wantedData, len(wanted))
	for _, w := range wanted {
		key := names.Normalize(w.Name)
		if key == "" {
			continue
		}
		st.Wanted++
		if _, seen := byName[key]; seen {
			continue
		}
		byName[key] = wantedData{name: w.Name, taxID: taxid.Normalize(w.RawID)}
	}

	out := []model.ReconciledEntry{}
	for _, u := range universe {
		key := names.Normalize(u.Name)
		if key == "" {
			continue
		}
		st.Universe++
		w, ok := byName[key]
		if !ok {
			continue
		}
		st.Matched++
		if strings.TrimSpace(u.Code) == "" {
			st.EmptyCode++
			continue
		}
		out = append(out, model.ReconciledEntry{Code: u.Code, Name: w.name, TaxID: w.taxID})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, st
}
