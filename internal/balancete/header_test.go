package balancete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/balancete/internal/model"
	"github.com/cleared-dev/balancete/internal/sheet"
)

func grid(rows ...[]string) sheet.Grid {
	var g sheet.Grid
	for _, r := range rows {
		cells := make([]sheet.Cell, len(r))
		for i, s := range r {
			cells[i] = sheet.TextCell(s)
		}
		g = append(g, cells)
	}
	return g
}

// preamble builds the fixed 3-row header block of a Hinova export.
func preamble(company, periodRange, cnpj, issue string) [][]string {
	return [][]string{
		{company, "", "", "", "", periodRange},
		{cnpj, "", "", "", "", issue},
		{"Conta", "Red.", "Descrição", "Saldo Anterior", "Débitos", "Créditos", "Saldo Atual"},
	}
}

func defaultPreamble() [][]string {
	return preamble(
		"EMPRESA TESTE LTDA",
		"Período: 01/01/2025 à 31/12/2025",
		"CNPJ: 23.313.200/0001-08",
		"Emissão: 04/02/2026 17:23:21",
	)
}

func TestExtractHeader_AllFields(t *testing.T) {
	h, err := ExtractHeader(grid(defaultPreamble()...))
	require.NoError(t, err)

	assert.Equal(t, "EMPRESA TESTE LTDA", h.Company)
	assert.Equal(t, "23.313.200/0001-08", h.TaxID)
	assert.Equal(t, "01/01/2025", h.PeriodStart.Format("02/01/2006"))
	assert.Equal(t, "31/12/2025", h.PeriodEnd.Format("02/01/2006"))
	assert.Equal(t, "04/02/2026 17:23:21", h.IssuedAt.Format("02/01/2006 15:04:05"))
	assert.Equal(t, "2025-12", h.ReferenceMonth.String())
	assert.Equal(t, model.KindAnnual, h.Kind)
	assert.True(t, h.Annual())
}

func TestExtractHeader_MonthlyKind(t *testing.T) {
	rows := preamble(
		"EMPRESA TESTE LTDA",
		"Período: 01/03/2025 à 31/03/2025",
		"CNPJ: 23.313.200/0001-08",
		"Emissão: 04/04/2025 09:00:00",
	)
	h, err := ExtractHeader(grid(rows...))
	require.NoError(t, err)

	assert.Equal(t, model.KindMonthly, h.Kind)
	assert.False(t, h.Annual())
	assert.Equal(t, "2025-03", h.ReferenceMonth.String())
}

func TestExtractHeader_ReferenceMonthFollowsPeriodEnd(t *testing.T) {
	rows := preamble(
		"EMPRESA TESTE LTDA",
		"Período: 01/01/2025 à 30/06/2025",
		"CNPJ: 23.313.200/0001-08",
		"Emissão: 02/07/2025 08:15:00",
	)
	h, err := ExtractHeader(grid(rows...))
	require.NoError(t, err)

	// Half-year range: neither annual nor a single month, the reference
	// month still comes from the period end.
	assert.Equal(t, model.KindMonthly, h.Kind)
	assert.Equal(t, "2025-06", h.ReferenceMonth.String())
}

func TestExtractHeader_UnaccentedLabels(t *testing.T) {
	rows := preamble(
		"EMPRESA TESTE LTDA",
		"PERIODO: 01/01/2025 a 31/12/2025",
		"cnpj: 23.313.200/0001-08",
		"Emissao: 04/02/2026 17:23:21",
	)
	h, err := ExtractHeader(grid(rows...))
	require.NoError(t, err)
	assert.Equal(t, model.KindAnnual, h.Kind)
}

func TestExtractHeader_MissingCompany(t *testing.T) {
	rows := defaultPreamble()
	rows[0][0] = "   "
	_, err := ExtractHeader(grid(rows...))

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "empresa", missing.Field)
}

func TestExtractHeader_MalformedPeriod(t *testing.T) {
	rows := defaultPreamble()
	rows[0][5] = "Período: janeiro a dezembro"
	_, err := ExtractHeader(grid(rows...))

	var malformed *MalformedHeaderError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "periodo", malformed.Field)
	assert.Contains(t, malformed.Value, "janeiro")
}

func TestExtractHeader_MalformedCNPJ(t *testing.T) {
	rows := defaultPreamble()
	rows[1][0] = "Inscrição: 23.313.200/0001-08"
	_, err := ExtractHeader(grid(rows...))

	var malformed *MalformedHeaderError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "cnpj", malformed.Field)
}

func TestExtractHeader_MalformedIssue(t *testing.T) {
	rows := defaultPreamble()
	rows[1][5] = "Emissão: ontem"
	_, err := ExtractHeader(grid(rows...))

	var malformed *MalformedHeaderError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "emissao", malformed.Field)
}

func TestExtractHeader_ImpossibleDate(t *testing.T) {
	rows := defaultPreamble()
	rows[0][5] = "Período: 99/99/2025 à 31/12/2025"
	_, err := ExtractHeader(grid(rows...))

	var malformed *MalformedHeaderError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "periodo", malformed.Field)
}

func TestExtractHeader_EmptyGrid(t *testing.T) {
	_, err := ExtractHeader(sheet.Grid{})

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "empresa", missing.Field)
}
