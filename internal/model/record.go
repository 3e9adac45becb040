package model

import "github.com/shopspring/decimal"

// PlanType identifies which detection rule produced a record.
type PlanType string

const (
	PlanMEI             PlanType = "MEI_INSTALLMENT"
	PlanSimplesNacional PlanType = "SIMPLES_NACIONAL_INSTALLMENT"
	PlanFederal         PlanType = "FEDERAL_SUSPENDED"
	PlanPGFN            PlanType = "PGFN_SUSPENDED"
	PlanSuspendedDebt   PlanType = "SUSPENDED_DEBT"
	PlanPendingDebt     PlanType = "PENDING_DEBT"
)

// PlanTypes lists every plan type in rule order.
var PlanTypes = []PlanType{
	PlanMEI,
	PlanSimplesNacional,
	PlanFederal,
	PlanPGFN,
	PlanSuspendedDebt,
	PlanPendingDebt,
}

// legacyPlanNames maps the system names printed on the reports to plan types.
var legacyPlanNames = map[string]PlanType{
	"PARCMEI": PlanMEI,
	"PARCSN":  PlanSimplesNacional,
	"SIEFPAR": PlanFederal,
	"SISPAR":  PlanPGFN,
	"SICOB":   PlanSuspendedDebt,
	"DEBITO":  PlanPendingDebt,
	"DÉBITO":  PlanPendingDebt,
}

// Valid reports whether p is one of the known plan types.
func (p PlanType) Valid() bool {
	for _, t := range PlanTypes {
		if p == t {
			return true
		}
	}
	return false
}

// ParsePlanType accepts a plan type code or a report system name (PARCMEI, SISPAR, ...).
func ParsePlanType(s string) (PlanType, bool) {
	if p := PlanType(s); p.Valid() {
		return p, true
	}
	p, ok := legacyPlanNames[s]
	return p, ok
}

const (
	// NotFound fills identity fields the document did not provide.
	NotFound = "Não encontrado"
	// NoAccount fills Account for plans that have no account number.
	NoAccount = "-"
)

// InstallmentRecord is one installment plan or debt found in a source document.
type InstallmentRecord struct {
	TaxID       string          // formatted, e.g. 12.345.678/0001-95, or NotFound
	TaxIDDigits string          // empty or exactly 14 digits
	CompanyName string
	Type        PlanType
	Subtype     string
	Account     string          // plan or account number, NoAccount when absent
	Modality    string
	Details     string
	Status      string
	Value       decimal.Decimal // zero when not applicable
	File        string
}
