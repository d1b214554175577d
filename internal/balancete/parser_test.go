package balancete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/balancete/internal/model"
)

// ledger builds a full grid: default preamble, the given data rows, and
// the grand-total sentinel.
func ledger(rows ...[]string) [][]string {
	out := defaultPreamble()
	out = append(out, rows...)
	out = append(out, []string{"Total Geral", "", "", "", "", "", "18.623.655,70D"})
	return out
}

// account builds a 7-column data row with zero movement columns.
func account(code, title, current string) []string {
	return []string{code, "", title, "0,00", "0,00", "0,00", current}
}

func TestParseGrid_Basic(t *testing.T) {
	g := grid(ledger(
		account("1", "ATIVO", "1.000,00D"),
		account("1.01", "ATIVO CIRCULANTE", "600,00D"),
		account("1.02", "ATIVO NAO CIRCULANTE", "400,00D"),
	)...)

	header, rows, err := ParseGrid(g)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "EMPRESA TESTE LTDA", header.Company)

	assert.Equal(t, "1", rows[0].AccountCode)
	assert.Equal(t, 1, rows[0].Level)
	assert.Equal(t, model.NodeMacro, rows[0].Type)
	assert.Equal(t, model.GroupAsset, rows[0].Group)
	assert.Equal(t, 1, rows[0].GroupNumber)
	assert.True(t, rows[0].CurrentBalance.Equal(dec("1000")), "got %s", rows[0].CurrentBalance)

	assert.Equal(t, "1.01", rows[1].AccountCode)
	assert.Equal(t, 2, rows[1].Level)
	assert.Equal(t, model.NodeLeaf, rows[1].Type)

	assert.Equal(t, "1.02", rows[2].AccountCode)
	assert.Equal(t, model.NodeLeaf, rows[2].Type)

	for _, r := range rows {
		assert.Equal(t, "2025-12", r.Period.String(), "account %s", r.AccountCode)
	}
}

func TestParseGrid_SentinelExcluded(t *testing.T) {
	g := grid(ledger(account("1", "ATIVO", "1.000,00D"))...)

	_, rows, err := ParseGrid(g)
	require.NoError(t, err)
	for _, r := range rows {
		assert.NotContains(t, r.AccountCode, "Total")
	}
}

func TestParseGrid_RowsAfterSentinelIgnored(t *testing.T) {
	raw := ledger(account("1", "ATIVO", "1.000,00D"))
	raw = append(raw, account("2", "PASSIVO", "1.000,00C"))
	g := grid(raw...)

	_, rows, err := ParseGrid(g)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].AccountCode)
}

func TestParseGrid_BlankCodeRowsSkipped(t *testing.T) {
	g := grid(ledger(
		account("1", "ATIVO", "1.000,00D"),
		account("", "", ""),
		account("1.01", "ATIVO CIRCULANTE", "1.000,00D"),
	)...)

	_, rows, err := ParseGrid(g)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// The blank row is invisible to the look-ahead: "1" still sees
	// "1.01" as its next retained row.
	assert.Equal(t, model.NodeMacro, rows[0].Type)
	assert.Equal(t, model.NodeLeaf, rows[1].Type)
}

func TestParseGrid_LevelDerivation(t *testing.T) {
	g := grid(ledger(
		account("1", "ATIVO", "1,00D"),
		account("1.01", "CIRCULANTE", "1,00D"),
		account("1.01.01", "DISPONIVEL", "1,00D"),
		account("1.01.01.02", "BANCOS", "1,00D"),
		account("1.01.01.02.00004", "BANCO X", "1,00D"),
		account("4.03.01.03", "TARIFAS", "1,00D"),
	)...)

	_, rows, err := ParseGrid(g)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	want := []int{1, 2, 3, 4, 5, 4}
	for i, r := range rows {
		assert.Equal(t, want[i], r.Level, "account %s", r.AccountCode)
	}
	assert.Equal(t, model.NodeLeaf, rows[4].Type)
}

func TestParseGrid_TypeDependsOnRowOrder(t *testing.T) {
	// Parent first: the deeper next row makes it a Macro.
	g := grid(ledger(
		account("1", "ATIVO", "1,00D"),
		account("1.01", "CIRCULANTE", "1,00D"),
	)...)
	_, rows, err := ParseGrid(g)
	require.NoError(t, err)
	assert.Equal(t, model.NodeMacro, rows[0].Type)
	assert.Equal(t, model.NodeLeaf, rows[1].Type)

	// Same accounts reversed: the look-ahead sees a shallower row, so
	// the parent reads as a leaf. Input order is the contract.
	g = grid(ledger(
		account("1.01", "CIRCULANTE", "1,00D"),
		account("1", "ATIVO", "1,00D"),
	)...)
	_, rows, err = ParseGrid(g)
	require.NoError(t, err)
	assert.Equal(t, model.NodeLeaf, rows[0].Type)
	assert.Equal(t, model.NodeLeaf, rows[1].Type)
}

func TestParseGrid_LastRowAlwaysLeaf(t *testing.T) {
	g := grid(ledger(
		account("4", "DESPESAS", "1,00D"),
	)...)
	_, rows, err := ParseGrid(g)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.NodeLeaf, rows[0].Type)
}

func TestParseGrid_UnknownGroup(t *testing.T) {
	g := grid(ledger(
		account("1", "ATIVO", "1,00D"),
		account("9.01", "MISTERIO", "1,00D"),
	)...)

	_, _, err := ParseGrid(g)
	var unknown *UnknownAccountGroupError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "9.01", unknown.Code)
	assert.Equal(t, 5, unknown.Row)
}

func TestParseGrid_Group5IsExpense(t *testing.T) {
	g := grid(ledger(
		account("5.01", "CUSTOS", "2.000,00D"),
	)...)

	_, rows, err := ParseGrid(g)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.GroupExpense, rows[0].Group)
	assert.Equal(t, 4, rows[0].GroupNumber)
}

func TestParseGrid_EmptyLedger(t *testing.T) {
	g := grid(ledger()...)
	_, _, err := ParseGrid(g)

	var empty *EmptyLedgerError
	assert.ErrorAs(t, err, &empty)
}

func TestParseGrid_SignsAndMovements(t *testing.T) {
	g := grid(ledger(
		[]string{"2.01", "371", "FORNECEDORES", "1.500,00C", "200,00", "700,00", "2.000,00C"},
	)...)

	_, rows, err := ParseGrid(g)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, 371, r.Reduced)
	assert.Equal(t, "FORNECEDORES", r.Title)
	assert.True(t, r.PriorBalance.Equal(dec("-1500")), "prior: got %s", r.PriorBalance)
	assert.True(t, r.Debits.Equal(dec("200")), "debits: got %s", r.Debits)
	assert.True(t, r.Credits.Equal(dec("700")), "credits: got %s", r.Credits)
	assert.True(t, r.CurrentBalance.Equal(dec("-2000")), "current: got %s", r.CurrentBalance)
	assert.Equal(t, model.IndicatorCredit, r.Indicator)
}

func TestParseGrid_MalformedAmountDefaultsToZero(t *testing.T) {
	g := grid(ledger(
		[]string{"3.01", "", "RECEITAS", "abc", "", "", "xyz"},
	)...)

	_, rows, err := ParseGrid(g)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].CurrentBalance.IsZero())
	assert.True(t, rows[0].PriorBalance.IsZero())
	assert.Equal(t, model.IndicatorNone, rows[0].Indicator)
}

func TestParseGrid_ReducedCodeVariants(t *testing.T) {
	g := grid(ledger(
		[]string{"1", "371", "A", "", "", "", "1,00D"},
		[]string{"1.01", "371.0", "B", "", "", "", "1,00D"},
		[]string{"1.02", "", "C", "", "", "", "1,00D"},
	)...)

	_, rows, err := ParseGrid(g)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 371, rows[0].Reduced)
	assert.Equal(t, 371, rows[1].Reduced)
	assert.Equal(t, 0, rows[2].Reduced)
}

func TestParseGrid_HeaderErrorPropagates(t *testing.T) {
	raw := ledger(account("1", "ATIVO", "1,00D"))
	raw[0][5] = "sem período"
	g := grid(raw...)

	_, _, err := ParseGrid(g)
	var malformed *MalformedHeaderError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "periodo", malformed.Field)
}
