package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/balancete/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func row(code string, balance string, typ model.NodeType) model.Row {
	return model.Row{
		AccountCode:    code,
		Title:          "CONTA " + code,
		Level:          model.CodeLevel(code),
		Type:           typ,
		CurrentBalance: dec(balance),
	}
}

func TestHierarchy_DirectChildrenMatch(t *testing.T) {
	rows := []model.Row{
		row("1", "1000", model.NodeMacro),
		row("1.01", "600", model.NodeLeaf),
		row("1.02", "400", model.NodeLeaf),
	}

	findings := Hierarchy(rows)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, "1", f.AccountCode)
	assert.Equal(t, StatusOK, f.Status)
	assert.True(t, f.Diff.IsZero(), "diff: got %s", f.Diff)
	assert.Equal(t, []string{"1.01", "1.02"}, f.Children)
	assert.True(t, f.ChildrenSum.Equal(dec("1000")), "sum: got %s", f.ChildrenSum)
	assert.Empty(t, f.Message)
}

func TestHierarchy_DirectChildrenGapIsError(t *testing.T) {
	rows := []model.Row{
		row("1", "1000", model.NodeMacro),
		row("1.01", "600", model.NodeLeaf),
		row("1.02", "300", model.NodeLeaf),
	}

	findings := Hierarchy(rows)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, StatusError, f.Status)
	assert.True(t, f.Diff.Equal(dec("100")), "diff: got %s", f.Diff)
	assert.Contains(t, f.Message, "100.00")
}

func TestHierarchy_WithinTolerance(t *testing.T) {
	rows := []model.Row{
		row("1", "1000.00", model.NodeMacro),
		row("1.01", "999.98", model.NodeLeaf),
	}
	findings := Hierarchy(rows)
	require.Len(t, findings, 1)
	assert.Equal(t, StatusOK, findings[0].Status)

	rows[1].CurrentBalance = dec("999.97")
	findings = Hierarchy(rows)
	assert.Equal(t, StatusError, findings[0].Status)
}

func TestHierarchy_SkippedLevelLeafSumReconciles(t *testing.T) {
	// 4.03 has no level-3 children at all; its leaves hang two and three
	// levels deeper but together they explain the balance.
	rows := []model.Row{
		row("4.03", "5000", model.NodeMacro),
		row("4.03.01.03", "2000", model.NodeLeaf),
		row("4.03.01.04.00001", "3000", model.NodeLeaf),
	}

	findings := Hierarchy(rows)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, StatusWarning, f.Status)
	assert.Empty(t, f.Children)
	assert.True(t, f.ChildrenSum.IsZero())
	assert.Contains(t, f.Message, "último nível confere")
}

func TestHierarchy_SkippedLevelUnreconciledStaysWarning(t *testing.T) {
	// Deeper descendants exist but even the leaf sum disagrees. The
	// skip evidence still caps the verdict at a warning.
	rows := []model.Row{
		row("4.03", "5000", model.NodeMacro),
		row("4.03.01.03", "2000", model.NodeLeaf),
		row("4.03.01.04.00001", "2500", model.NodeLeaf),
	}

	findings := Hierarchy(rows)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, StatusWarning, f.Status)
	assert.Contains(t, f.Message, "0.00")    // direct children sum
	assert.Contains(t, f.Message, "4500.00") // leaf sum
	assert.Contains(t, f.Message, "5000.00") // parent balance
}

func TestHierarchy_PartialChildrenWithDeeperRows(t *testing.T) {
	// One direct child exists but does not cover the parent; the rows
	// below it reconcile at leaf level.
	rows := []model.Row{
		row("2", "-700", model.NodeMacro),
		row("2.01", "-200", model.NodeMacro),
		row("2.01.01", "-200", model.NodeLeaf),
		row("2.03.01", "-500", model.NodeLeaf),
	}

	findings := Hierarchy(rows)
	require.Len(t, findings, 2)

	assert.Equal(t, "2", findings[0].AccountCode)
	assert.Equal(t, StatusWarning, findings[0].Status)

	assert.Equal(t, "2.01", findings[1].AccountCode)
	assert.Equal(t, StatusOK, findings[1].Status)
}

func TestHierarchy_OnlyMacrosExamined(t *testing.T) {
	rows := []model.Row{
		row("1", "100", model.NodeMacro),
		row("1.01", "100", model.NodeLeaf),
		row("3", "-50", model.NodeLeaf),
	}

	findings := Hierarchy(rows)
	require.Len(t, findings, 1)
	assert.Equal(t, "1", findings[0].AccountCode)
}

func TestHierarchy_FindingsFollowLedgerOrder(t *testing.T) {
	rows := []model.Row{
		row("4", "200", model.NodeMacro),
		row("4.01", "200", model.NodeLeaf),
		row("1", "1000", model.NodeMacro),
		row("1.01", "1000", model.NodeLeaf),
	}

	findings := Hierarchy(rows)
	require.Len(t, findings, 2)
	assert.Equal(t, "4", findings[0].AccountCode)
	assert.Equal(t, "1", findings[1].AccountCode)
}

func TestHierarchy_SiblingPrefixNotConfused(t *testing.T) {
	// "1.1" must not claim "1.10.01" as a descendant.
	rows := []model.Row{
		row("1.1", "100", model.NodeMacro),
		row("1.10.01", "999", model.NodeLeaf),
		row("1.1.01", "100", model.NodeLeaf),
	}

	findings := Hierarchy(rows)
	require.Len(t, findings, 1)
	assert.Equal(t, StatusOK, findings[0].Status)
	assert.Equal(t, []string{"1.1.01"}, findings[0].Children)
}

func TestHierarchy_EmptyLedger(t *testing.T) {
	assert.Empty(t, Hierarchy(nil))
}
