package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/parcelas/internal/model"
	"github.com/cleared-dev/parcelas/internal/money"
)

// Report section markers.
const (
	markerMEI           = "MEI - EM PARCELAMENTO"
	markerSimples       = "SIMPLES NACIONAL - EM PARCELAMENTO"
	markerFederal       = "Parcelamento com Exigibilidade Suspensa (SIEFPAR)"
	markerPGFN          = "Parcelamento com Exigibilidade Suspensa (SISPAR)"
	markerSuspendedDebt = "Débito com Exigibilidade Suspensa (SICOB)"
	markerPendingDebt   = "Pendência - Débito (SIEF)"
)

const (
	statusInstallment = "Em Parcelamento"
	statusSuspended   = "Exigibilidade Suspensa"
	statusCurrent     = "Ativo/Em Dia"
	statusDebtor      = "Devedor"

	modalitySimplified = "Parcelamento Simplificado"
	modalityUnknown    = "Não informada"
	modalityStatute    = "RFB LEI 10522/02"

	// pendingDebtLimit caps pending debt rows per document.
	pendingDebtLimit = 5
)

var (
	meiRe     = regexp.MustCompile(`MEI - EM PARCELAMENTO\s+Parcelas em atraso\s*(\d+)`)
	simplesRe = regexp.MustCompile(`SIMPLES NACIONAL - EM PARCELAMENTO\s+Parcelas em atraso\s*(\d+)`)

	// Parcelamento: 123456 Valor Suspenso: 1.234,56 <details up to the next "Parcelamento:">
	federalRe = regexp.MustCompile(`Parcelamento:\s*(\d+)\s+Valor Suspenso:\s*([\d.,]+)`)

	// Conta 1234567 <type> Modalidade: <modality>
	pgfnRe = regexp.MustCompile(`(?m)Conta\s+(\d+)\s+(.+?)\s+Modalidade:\s*(.+?)$`)

	// Parcelamento: 12345-678 Situação: 1 - <status>
	suspendedDebtRe = regexp.MustCompile(`Parcelamento:\s*(\d+-\d+)\s+Situação:\s*(\d+\s*-\s*.+)`)

	// 1234-01 - DESCRIPTION  01/2024  20/02/2024  orig  due  penalty  interest  consolidated  STATUS
	pendingDebtRe = regexp.MustCompile(`(\d{4}-\d{2}\s*-\s*.+?)\s+(\d{2}/\d{4})\s+([\d/]+)\s+([\d.,]+)\s+([\d.,]+)\s+([\d.,]+)\s+([\d.,]+)\s+([\d.,]+)\s+(.+)`)
)

// overdueRule reads the overdue installment count of a MEI or Simples Nacional plan.
type overdueRule struct {
	code     model.PlanType
	marker   string
	re       *regexp.Regexp
	subtype  string
	modality string
}

var (
	meiRule = &overdueRule{
		code:     model.PlanMEI,
		marker:   markerMEI,
		re:       meiRe,
		subtype:  "MEI",
		modality: "MEI - Parcelamento",
	}
	simplesRule = &overdueRule{
		code:     model.PlanSimplesNacional,
		marker:   markerSimples,
		re:       simplesRe,
		subtype:  "Simples Nacional",
		modality: "Simples Nacional - Parcelamento",
	}
)

func (r *overdueRule) Code() model.PlanType { return r.code }
func (r *overdueRule) Marker() string       { return r.marker }

func (r *overdueRule) Extract(text string) ([]model.InstallmentRecord, error) {
	m := r.re.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}
	return []model.InstallmentRecord{{
		Subtype:  r.subtype,
		Account:  model.NoAccount,
		Modality: r.modality,
		Details:  "Parcelas em atraso: " + m[1],
		Status:   statusInstallment,
		Value:    decimal.Zero,
	}}, nil
}

// federalRule reads SIEFPAR plans with suspended exigibility.
type federalRule struct{}

func (federalRule) Code() model.PlanType { return model.PlanFederal }
func (federalRule) Marker() string       { return markerFederal }

func (federalRule) Extract(text string) ([]model.InstallmentRecord, error) {
	var out []model.InstallmentRecord
	for _, loc := range federalRe.FindAllStringSubmatchIndex(text, -1) {
		plan := text[loc[2]:loc[3]]
		raw := text[loc[4]:loc[5]]

		// Trailing details run until the next plan header or the end of the text.
		rest := text[loc[1]:]
		if i := strings.Index(rest, "Parcelamento:"); i >= 0 {
			rest = rest[:i]
		}

		modality := modalityUnknown
		if strings.Contains(rest, modalitySimplified) {
			modality = modalitySimplified
		}

		out = append(out, model.InstallmentRecord{
			Subtype:  "Receita Federal",
			Account:  plan,
			Modality: modality,
			Details:  "Valor suspenso: R$ " + raw,
			Status:   statusSuspended,
			Value:    money.Parse(raw),
		})
	}
	return out, nil
}

// pgfnRule reads SISPAR accounts negotiated with the PGFN.
type pgfnRule struct{}

func (pgfnRule) Code() model.PlanType { return model.PlanPGFN }
func (pgfnRule) Marker() string       { return markerPGFN }

func (pgfnRule) Extract(text string) ([]model.InstallmentRecord, error) {
	var out []model.InstallmentRecord
	for _, m := range pgfnRe.FindAllStringSubmatch(text, -1) {
		out = append(out, model.InstallmentRecord{
			Subtype:  "PGFN",
			Account:  strings.TrimSpace(m[1]),
			Modality: strings.TrimSpace(m[3]),
			Details:  strings.TrimSpace(m[2]),
			Status:   statusSuspended,
			Value:    decimal.Zero,
		})
	}
	return out, nil
}

// suspendedDebtRule reads SICOB debts with suspended exigibility.
type suspendedDebtRule struct{}

func (suspendedDebtRule) Code() model.PlanType { return model.PlanSuspendedDebt }
func (suspendedDebtRule) Marker() string       { return markerSuspendedDebt }

func (suspendedDebtRule) Extract(text string) ([]model.InstallmentRecord, error) {
	var out []model.InstallmentRecord
	for _, m := range suspendedDebtRe.FindAllStringSubmatch(text, -1) {
		out = append(out, model.InstallmentRecord{
			Subtype:  "Débito Suspenso",
			Account:  strings.TrimSpace(m[1]),
			Modality: modalityStatute,
			Details:  "Situação: " + strings.TrimSpace(m[2]),
			Status:   statusCurrent,
			Value:    decimal.Zero,
		})
	}
	return out, nil
}

// pendingDebtRule reads the first rows of the SIEF pending debt table.
type pendingDebtRule struct {
	limit int
}

func (*pendingDebtRule) Code() model.PlanType { return model.PlanPendingDebt }
func (*pendingDebtRule) Marker() string       { return markerPendingDebt }

func (r *pendingDebtRule) Extract(text string) ([]model.InstallmentRecord, error) {
	var out []model.InstallmentRecord
	for _, m := range pendingDebtRe.FindAllStringSubmatch(text, r.limit) {
		// m[4..7]: original value, balance due, penalty, interest.
		revenue, period, consolidated, status := m[1], m[2], m[8], m[9]
		out = append(out, model.InstallmentRecord{
			Subtype:  "Pendência",
			Account:  strings.TrimSpace(revenue),
			Modality: "Período: " + period,
			Details:  "Situação: " + strings.TrimSpace(status),
			Status:   statusDebtor,
			Value:    money.Parse(consolidated),
		})
	}
	return out, nil
}
