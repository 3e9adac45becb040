package batch

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/parcelas/internal/model"
)

// TypeSummary aggregates the records of one plan type.
type TypeSummary struct {
	Type      model.PlanType
	Count     int
	Companies int
	Percent   decimal.Decimal // share of all records, 0-100 with one decimal
}

// Summary holds the headline numbers of a report.
type Summary struct {
	Companies            int
	Plans                int
	CompaniesWithOverdue int
	TotalValue           decimal.Decimal
	ByType               []TypeSummary // sorted by plan type
}

// Summarize computes report statistics. Companies are counted by name.
func Summarize(records []model.InstallmentRecord) Summary {
	s := Summary{Plans: len(records), TotalValue: decimal.Zero}

	companies := make(map[string]struct{})
	overdue := make(map[string]struct{})
	typeCompanies := make(map[model.PlanType]map[string]struct{})
	typeCounts := make(map[model.PlanType]int)

	for _, r := range records {
		companies[r.CompanyName] = struct{}{}
		if strings.Contains(r.Details, "Parcelas em atraso") {
			overdue[r.CompanyName] = struct{}{}
		}
		s.TotalValue = s.TotalValue.Add(r.Value)

		if typeCompanies[r.Type] == nil {
			typeCompanies[r.Type] = make(map[string]struct{})
		}
		typeCompanies[r.Type][r.CompanyName] = struct{}{}
		typeCounts[r.Type]++
	}
	s.Companies = len(companies)
	s.CompaniesWithOverdue = len(overdue)

	for t, n := range typeCounts {
		s.ByType = append(s.ByType, TypeSummary{
			Type:      t,
			Count:     n,
			Companies: len(typeCompanies[t]),
			Percent:   decimal.NewFromInt(int64(n * 100)).Div(decimal.NewFromInt(int64(s.Plans))).Round(1),
		})
	}
	sort.Slice(s.ByType, func(i, j int) bool { return s.ByType[i].Type < s.ByType[j].Type })
	return s
}
