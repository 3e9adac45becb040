package extract

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/parcelas/internal/model"
)

const header = "CNPJ: 12.345.678/0001-95 - ACME LTDA\n"

func doc(text string) model.SourceDocument {
	return model.SourceDocument{Filename: "acme.pdf", Text: text}
}

func loadFixture(t *testing.T) model.SourceDocument {
	t.Helper()
	data, err := os.ReadFile("testdata/relatorio_completo.txt")
	require.NoError(t, err)
	return model.SourceDocument{Filename: "relatorio_completo.pdf", Text: string(data)}
}

func countByType(recs []model.InstallmentRecord) map[model.PlanType]int {
	counts := make(map[model.PlanType]int)
	for _, r := range recs {
		counts[r.Type]++
	}
	return counts
}

func TestIdentityOf(t *testing.T) {
	id := IdentityOf("foo\nCNPJ: 12.345.678/0001-95 - ACME LTDA\nbar")
	assert.Equal(t, "12.345.678/0001-95", id.TaxID)
	assert.Equal(t, "12345678000195", id.TaxIDDigits)
	assert.Equal(t, "ACME LTDA", id.CompanyName)
}

func TestIdentityOf_NoSeparator(t *testing.T) {
	id := IdentityOf("CNPJ:12.345.678/0001-95 ACME LTDA  \r\n")
	assert.Equal(t, "ACME LTDA", id.CompanyName)
}

func TestIdentityOf_Missing(t *testing.T) {
	id := IdentityOf("nothing here")
	assert.Equal(t, model.NotFound, id.TaxID)
	assert.Equal(t, "", id.TaxIDDigits)
	assert.Equal(t, model.NotFound, id.CompanyName)

	id = IdentityOf("CNPJ: 12.345.678/0001-95\nACME")
	assert.Equal(t, "12345678000195", id.TaxIDDigits)
	assert.Equal(t, model.NotFound, id.CompanyName)
}

func TestExtract_MEI(t *testing.T) {
	recs, err := New(Options{}).Extract(doc("MEI - EM PARCELAMENTO\nParcelas em atraso 3"))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, model.PlanMEI, r.Type)
	assert.Contains(t, r.Details, "3")
	assert.Equal(t, "Parcelas em atraso: 3", r.Details)
	assert.Equal(t, model.NoAccount, r.Account)
	assert.Equal(t, "Em Parcelamento", r.Status)
	assert.True(t, r.Value.IsZero())
	assert.Equal(t, "acme.pdf", r.File)
	assert.Equal(t, model.NotFound, r.TaxID)
	assert.Equal(t, "", r.TaxIDDigits)
}

func TestExtract_MarkerWithoutCount(t *testing.T) {
	recs, err := New(Options{}).Extract(doc(header + "MEI - EM PARCELAMENTO\nsem parcelas"))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestExtract_NoMarkers(t *testing.T) {
	recs, err := New(Options{IncludePendingDebt: true}).Extract(doc(header + "Nada consta.\nParcelamento: 123 Valor Suspenso: 1,00"))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestExtract_Federal(t *testing.T) {
	text := header + markerFederal + "\n" +
		"Parcelamento: 111 Valor Suspenso: 1.234,56\nParcelamento Simplificado\n" +
		"Parcelamento: 222 Valor Suspenso: 10,00\noutro texto"
	recs, err := New(Options{}).Extract(doc(text))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "111", recs[0].Account)
	assert.Equal(t, "Parcelamento Simplificado", recs[0].Modality)
	assert.Equal(t, "Valor suspenso: R$ 1.234,56", recs[0].Details)
	assert.Equal(t, "1234.56", recs[0].Value.String())
	assert.Equal(t, "Exigibilidade Suspensa", recs[0].Status)

	assert.Equal(t, "222", recs[1].Account)
	assert.Equal(t, modalityUnknown, recs[1].Modality)
	assert.Equal(t, "10", recs[1].Value.String())

	for _, r := range recs {
		assert.Equal(t, model.PlanFederal, r.Type)
		assert.Equal(t, "12345678000195", r.TaxIDDigits)
		assert.Equal(t, "ACME LTDA", r.CompanyName)
	}
}

func TestExtract_PGFN(t *testing.T) {
	text := header + markerPGFN + "\n" +
		"Conta 1234567 PARCELAMENTO ORDINARIO Modalidade: 0066 - LEI 10.522\r\n" +
		"Conta 89 TRANSACAO Modalidade: 0213 - TRANSACAO\n"
	recs, err := New(Options{}).Extract(doc(text))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, model.PlanPGFN, recs[0].Type)
	assert.Equal(t, "1234567", recs[0].Account)
	assert.Equal(t, "PARCELAMENTO ORDINARIO", recs[0].Details)
	assert.Equal(t, "0066 - LEI 10.522", recs[0].Modality)
	assert.Equal(t, "89", recs[1].Account)
	assert.Equal(t, "0213 - TRANSACAO", recs[1].Modality)
}

func TestExtract_FederalAndSuspendedDebt(t *testing.T) {
	text := header + markerFederal + "\nParcelamento: 111 Valor Suspenso: 5,00\n" +
		markerSuspendedDebt + "\nParcelamento: 12345-678 Situação: 1 - EM DIA\n"
	recs, err := New(Options{}).Extract(doc(text))
	require.NoError(t, err)

	counts := countByType(recs)
	assert.Equal(t, 1, counts[model.PlanFederal])
	assert.Equal(t, 1, counts[model.PlanSuspendedDebt])

	for _, r := range recs {
		if r.Type == model.PlanSuspendedDebt {
			assert.Equal(t, "12345-678", r.Account)
			assert.Equal(t, "Situação: 1 - EM DIA", r.Details)
			assert.Equal(t, "RFB LEI 10522/02", r.Modality)
			assert.Equal(t, "Ativo/Em Dia", r.Status)
		}
	}
}

func pendingRows(n int) string {
	var b strings.Builder
	b.WriteString(header + markerPendingDebt + "\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "1234-%02d - IRPJ %02d/2024 20/%02d/2024 100,00 100,00 10,00 5,00 %d.115,00 DEVEDOR\n", i, i, i, i)
	}
	return b.String()
}

func TestExtract_PendingDebtRequiresOption(t *testing.T) {
	recs, err := New(Options{}).Extract(doc(pendingRows(2)))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestExtract_PendingDebtCapped(t *testing.T) {
	recs, err := New(Options{IncludePendingDebt: true}).Extract(doc(pendingRows(8)))
	require.NoError(t, err)
	require.Len(t, recs, 5)

	first := recs[0]
	assert.Equal(t, model.PlanPendingDebt, first.Type)
	assert.Equal(t, "1234-01 - IRPJ", first.Account)
	assert.Equal(t, "Período: 01/2024", first.Modality)
	assert.Equal(t, "Situação: DEVEDOR", first.Details)
	assert.Equal(t, "Devedor", first.Status)
	assert.Equal(t, "1115", first.Value.String())
}

func TestExtract_Fixture(t *testing.T) {
	recs, err := New(Options{IncludePendingDebt: true}).Extract(loadFixture(t))
	require.NoError(t, err)

	counts := countByType(recs)
	assert.Equal(t, 0, counts[model.PlanMEI])
	assert.Equal(t, 1, counts[model.PlanSimplesNacional])
	assert.Equal(t, 2, counts[model.PlanFederal])
	assert.Equal(t, 2, counts[model.PlanPGFN])
	assert.Equal(t, 1, counts[model.PlanSuspendedDebt])
	assert.Equal(t, 2, counts[model.PlanPendingDebt])

	for _, r := range recs {
		assert.Equal(t, "12.345.678/0001-95", r.TaxID)
		assert.Equal(t, "12345678000195", r.TaxIDDigits)
		assert.Equal(t, "ACME COMERCIO DE ALIMENTOS LTDA", r.CompanyName)
		assert.Equal(t, "relatorio_completo.pdf", r.File)
		assert.True(t, r.Type.Valid())
		assert.False(t, r.Value.IsNegative())
	}
	// Registration order: Simples, SIEFPAR, SISPAR, SICOB, pending debt.
	assert.Equal(t, model.PlanSimplesNacional, recs[0].Type)
	assert.Equal(t, model.PlanPendingDebt, recs[len(recs)-1].Type)
	assert.Equal(t, "1250", recs[len(recs)-2].Value.String())
}

type failingRule struct {
	panics bool
}

func (failingRule) Code() model.PlanType { return "BROKEN" }
func (failingRule) Marker() string       { return "CNPJ" }
func (r failingRule) Extract(string) ([]model.InstallmentRecord, error) {
	if r.panics {
		panic("boom")
	}
	return nil, errors.New("bad pattern")
}

func TestExtract_RuleFailureDropsDocument(t *testing.T) {
	for _, panics := range []bool{false, true} {
		reg := DefaultRegistry(Options{})
		reg.Register(failingRule{panics: panics})

		recs, err := NewWithRegistry(reg).Extract(loadFixture(t))
		require.Error(t, err)
		assert.Nil(t, recs)
		assert.Contains(t, err.Error(), "BROKEN")
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(meiRule)
	assert.Panics(t, func() { r.Register(meiRule) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(Options{})
	assert.Len(t, r.Rules(), 5)
	assert.Nil(t, r.Get(model.PlanPendingDebt))
	assert.NotNil(t, r.Get(model.PlanMEI))

	r = DefaultRegistry(Options{IncludePendingDebt: true})
	assert.Len(t, r.Rules(), 6)
	assert.NotNil(t, r.Get(model.PlanPendingDebt))
}
