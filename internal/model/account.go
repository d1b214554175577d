package model

// Group classifies accounts by the leading digit of their code, per the
// Hinova export convention. The string values flow into the base tab and
// classification tables, so they stay in Portuguese.
type Group string

const (
	GroupAsset     Group = "ATIVO"
	GroupLiability Group = "PASSIVO"
	GroupRevenue   Group = "RECEITA"
	GroupExpense   Group = "DESPESA"
)

// Number returns the accounting group number (1..4). Leading digit 5 is
// folded into group 4 (expenses) by GroupForDigit.
func (g Group) Number() int {
	switch g {
	case GroupAsset:
		return 1
	case GroupLiability:
		return 2
	case GroupRevenue:
		return 3
	case GroupExpense:
		return 4
	}
	return 0
}

// GroupForDigit maps the leading rune of an account code to its group.
// The second result is false for digits outside the convention.
func GroupForDigit(d rune) (Group, bool) {
	switch d {
	case '1':
		return GroupAsset, true
	case '2':
		return GroupLiability, true
	case '3':
		return GroupRevenue, true
	case '4', '5':
		return GroupExpense, true
	}
	return "", false
}

// NodeType distinguishes summary accounts from analytic leaves. The leaf
// value "Último Nível" is a workbook SUMIFS criterion and must not change.
type NodeType string

const (
	NodeMacro NodeType = "Macro"
	NodeLeaf  NodeType = "Último Nível"
)

// Indicator is the raw debit/credit tag attached to a balance figure.
type Indicator string

const (
	IndicatorDebit  Indicator = "D"
	IndicatorCredit Indicator = "C"
	IndicatorNone   Indicator = ""
)

// StatementKind tells whether a balancete covers a full year or one month.
type StatementKind string

const (
	KindAnnual  StatementKind = "anual"
	KindMonthly StatementKind = "mensal"
)
