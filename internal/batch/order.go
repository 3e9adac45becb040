package batch

import (
	"sort"
	"strings"

	"github.com/cleared-dev/parcelas/internal/model"
)

// Order selects the sort key of a report.
type Order int

const (
	// OrderCompany sorts by company name, then plan type.
	OrderCompany Order = iota
	// OrderPlanType sorts by plan type, then company name.
	OrderPlanType
)

// Sort orders records in place. Ties keep their input order.
func Sort(records []model.InstallmentRecord, order Order) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if order == OrderPlanType {
			if a.Type != b.Type {
				return a.Type < b.Type
			}
			return a.CompanyName < b.CompanyName
		}
		if a.CompanyName != b.CompanyName {
			return a.CompanyName < b.CompanyName
		}
		return a.Type < b.Type
	})
}

// Filter narrows a report. Zero fields match everything.
type Filter struct {
	Company string         // case-insensitive substring of the company name
	Type    model.PlanType // exact plan type
}

// Apply returns the records matching f, in order.
func (f Filter) Apply(records []model.InstallmentRecord) []model.InstallmentRecord {
	company := strings.ToLower(f.Company)
	var out []model.InstallmentRecord
	for _, r := range records {
		if company != "" && !strings.Contains(strings.ToLower(r.CompanyName), company) {
			continue
		}
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		out = append(out, r)
	}
	return out
}
