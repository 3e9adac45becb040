// Package extract finds installment plans and debts in the text of tax status reports.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cleared-dev/parcelas/internal/model"
	"github.com/cleared-dev/parcelas/internal/taxid"
)

var (
	// CNPJ: 12.345.678/0001-95
	cnpjRe = regexp.MustCompile(`CNPJ:\s*(\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2})`)
	// rest of the CNPJ line, after an optional " - " separator
	companyRe = regexp.MustCompile(`^[ \t]*[-–]?[ \t]*([^\r\n]*)`)
)

// Identity is the company a document is about.
type Identity struct {
	TaxID       string
	TaxIDDigits string
	CompanyName string
}

// IdentityOf reads the CNPJ and company name from a document.
// Missing fields are set to model.NotFound; TaxIDDigits is then empty.
func IdentityOf(text string) Identity {
	id := Identity{TaxID: model.NotFound, CompanyName: model.NotFound}

	loc := cnpjRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return id
	}
	id.TaxID = text[loc[2]:loc[3]]
	id.TaxIDDigits = taxid.Digits(id.TaxID)

	if m := companyRe.FindStringSubmatch(text[loc[1]:]); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			id.CompanyName = name
		}
	}
	return id
}

// Extractor applies a rule registry to documents.
type Extractor struct {
	registry *Registry
}

// New creates an Extractor over the default rules.
func New(opts Options) *Extractor {
	return NewWithRegistry(DefaultRegistry(opts))
}

// NewWithRegistry creates an Extractor over a custom rule set.
func NewWithRegistry(r *Registry) *Extractor {
	return &Extractor{registry: r}
}

// Extract runs every rule whose marker appears in doc.Text and stamps the
// document identity on the records. If any rule fails, no records are returned.
func (e *Extractor) Extract(doc model.SourceDocument) ([]model.InstallmentRecord, error) {
	id := IdentityOf(doc.Text)

	var out []model.InstallmentRecord
	for _, rule := range e.registry.Rules() {
		if !strings.Contains(doc.Text, rule.Marker()) {
			continue
		}
		recs, err := applyRule(rule, doc.Text)
		if err != nil {
			return nil, fmt.Errorf("rule %s on %s: %w", rule.Code(), doc.Filename, err)
		}
		for _, rec := range recs {
			rec.TaxID = id.TaxID
			rec.TaxIDDigits = id.TaxIDDigits
			rec.CompanyName = id.CompanyName
			rec.Type = rule.Code()
			rec.File = doc.Filename
			out = append(out, rec)
		}
	}
	return out, nil
}

func applyRule(rule Rule, text string) (recs []model.InstallmentRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			recs = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rule.Extract(text)
}
