package workbook

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/balancete/internal/model"
	"github.com/cleared-dev/balancete/internal/period"
)

// The xlsx formulas only evaluate once Excel opens the file, so the
// API and reports recompute the same statements natively here. Both
// paths are driven by the same line structures; if they ever disagree
// the structures drifted, not the data.

// Statement is one statement tab evaluated from stored rows.
type Statement struct {
	Name        string          `json:"statement"`
	TotalHeader string          `json:"coluna_total"`
	Periods     []period.Period `json:"periodos"`
	Lines       []Line          `json:"linhas"`
}

// Line is one evaluated statement row. Values holds one figure per
// period; heading and blank rows carry none.
type Line struct {
	Row     int               `json:"linha"`
	Label   string            `json:"conta"`
	Values  []decimal.Decimal `json:"valores,omitempty"`
	Total   decimal.Decimal   `json:"total"`
	Bold    bool              `json:"destaque,omitempty"`
	Percent bool              `json:"percentual,omitempty"`
	Heading bool              `json:"secao,omitempty"`
	Check   bool              `json:"validacao,omitempty"`
}

// Statements bundles the three evaluated tabs.
type Statements struct {
	DRE Statement `json:"dre"`
	BP  Statement `json:"bp"`
	DFC Statement `json:"dfc"`
}

// LineAt returns the line landing on the given sheet row.
func (s Statement) LineAt(r int) (Line, bool) {
	i := r - firstRow
	if i < 0 || i >= len(s.Lines) {
		return Line{}, false
	}
	return s.Lines[i], true
}

// Total returns the total-column figure of a sheet row, zero when the
// row is out of range.
func (s Statement) Total(r int) decimal.Decimal {
	ln, ok := s.LineAt(r)
	if !ok {
		return decimal.Decimal{}
	}
	return ln.Total
}

// Compute evaluates the DRE, balance sheet and cash flow over the
// stored rows for the given ascending periods.
func Compute(periods []period.Period, rows []model.Row) Statements {
	if len(periods) == 0 {
		return Statements{}
	}
	sums := classSums(periods, rows)

	dreVals, dreTotals := computeDRE(periods, sums)
	bpVals, bpTotals := computeBP(periods, sums, dreVals)
	dfcVals, dfcTotals := computeDFC(periods, bpVals, dreVals)

	return Statements{
		DRE: assemble(SheetDRE, "Total Ano", periods, dreLines, dreVals, dreTotals),
		BP:  assemble(SheetBP, "Último Período", periods, bpLines, bpVals, bpTotals),
		DFC: assemble(SheetDFC, "Total Ano", periods, dfcLines, dfcVals, dfcTotals),
	}
}

// classSums aggregates the signed balance of last-level rows per
// classification and period index, the native form of the base-tab
// SUMIFS.
func classSums(periods []period.Period, rows []model.Row) map[string][]decimal.Decimal {
	idx := make(map[period.Period]int, len(periods))
	for i, p := range periods {
		idx[p] = i
	}

	sums := make(map[string][]decimal.Decimal)
	for _, r := range rows {
		if r.Type != model.NodeLeaf || r.Classification == "" {
			continue
		}
		j, ok := idx[r.Period]
		if !ok {
			continue
		}
		s := sums[r.Classification]
		if s == nil {
			s = make([]decimal.Decimal, len(periods))
			sums[r.Classification] = s
		}
		s[j] = s[j].Add(r.CurrentBalance)
	}
	return sums
}

type valsByRow map[int][]decimal.Decimal
type totalsByRow map[int]decimal.Decimal

func computeDRE(periods []period.Period, sums map[string][]decimal.Decimal) (valsByRow, totalsByRow) {
	n := len(periods)
	vals, totals := valsByRow{}, totalsByRow{}

	for i, ln := range dreLines {
		if ln.kind != lineSumifs {
			continue
		}
		s := sums[ln.classification]
		v := make([]decimal.Decimal, n)
		var tot decimal.Decimal
		for j := 0; j < n; j++ {
			cur := at(s, j)
			if j == 0 {
				v[j] = cur.Neg()
			} else {
				v[j] = cur.Sub(at(s, j-1)).Neg()
			}
			tot = tot.Add(v[j])
		}
		vals[row(i)], totals[row(i)] = v, tot
	}

	resolveDerived(dreLines, n, vals, totals)
	return vals, totals
}

func computeBP(periods []period.Period, sums map[string][]decimal.Decimal, dre valsByRow) (valsByRow, totalsByRow) {
	n := len(periods)
	vals, totals := valsByRow{}, totalsByRow{}
	net := dre[DRERowNetIncome]

	for i, ln := range bpLines {
		r := row(i)
		switch ln.kind {
		case lineSumifs:
			s := sums[ln.classification]
			v := make([]decimal.Decimal, n)
			for j := 0; j < n; j++ {
				v[j] = at(s, j)
			}
			vals[r], totals[r] = v, v[n-1]
		case lineDRERef:
			v := make([]decimal.Decimal, n)
			var acc decimal.Decimal
			for j := 0; j < n; j++ {
				acc = acc.Add(at(net, j))
				v[j] = acc.Neg()
			}
			vals[r], totals[r] = v, v[n-1]
		}
	}

	resolveDerived(bpLines, n, vals, totals)
	return vals, totals
}

func computeDFC(periods []period.Period, bp, dre valsByRow) (valsByRow, totalsByRow) {
	n := len(periods)
	vals, totals := valsByRow{}, totalsByRow{}

	sumMonths := func(v []decimal.Decimal) decimal.Decimal {
		var tot decimal.Decimal
		for _, x := range v {
			tot = tot.Add(x)
		}
		return tot
	}

	for i, ln := range dfcLines {
		r := row(i)
		switch ln.kind {
		case lineDRERef:
			src := dre[ln.dreRow]
			v := make([]decimal.Decimal, n)
			for j := 0; j < n; j++ {
				v[j] = at(src, j)
				if ln.negate {
					v[j] = v[j].Neg()
				}
			}
			vals[r], totals[r] = v, sumMonths(v)
		case lineBPVar:
			v := make([]decimal.Decimal, n)
			for j := 0; j < n; j++ {
				var cur, prev decimal.Decimal
				for _, br := range ln.bpRows {
					cur = cur.Add(at(bp[br], j))
					if j > 0 {
						prev = prev.Add(at(bp[br], j-1))
					}
				}
				v[j] = cur.Sub(prev).Neg()
			}
			vals[r], totals[r] = v, sumMonths(v)
		case lineBPRefCur:
			src := bp[ln.bpRows[0]]
			v := make([]decimal.Decimal, n)
			for j := 0; j < n; j++ {
				v[j] = at(src, j)
			}
			vals[r], totals[r] = v, v[n-1]
		case lineBPRefPrev:
			src := bp[ln.bpRows[0]]
			v := make([]decimal.Decimal, n)
			for j := 1; j < n; j++ {
				v[j] = at(src, j-1)
			}
			vals[r], totals[r] = v, decimal.Decimal{}
		}
	}

	resolveDerived(dfcLines, n, vals, totals)
	return vals, totals
}

// resolveDerived fills subtotal, formula, margin and check rows from
// rows computed before them, iterating until nothing else resolves.
func resolveDerived(lines []stmtLine, n int, vals valsByRow, totals totalsByRow) {
	for pass := 0; pass < len(lines); pass++ {
		progress := false
		for i, ln := range lines {
			r := row(i)
			if _, done := vals[r]; done {
				continue
			}
			switch ln.kind {
			case lineSubtotal:
				if !ready(vals, ln.children) {
					continue
				}
				v := make([]decimal.Decimal, n)
				var tot decimal.Decimal
				for _, c := range ln.children {
					for j, x := range vals[c] {
						v[j] = v[j].Add(x)
					}
					tot = tot.Add(totals[c])
				}
				vals[r], totals[r] = v, tot
				progress = true
			case lineFormula, lineCheck:
				refs := templateRows(ln.template)
				if !ready(vals, refs) {
					continue
				}
				v := make([]decimal.Decimal, n)
				for j := 0; j < n; j++ {
					v[j] = evalTemplate(ln.template, func(rr int) decimal.Decimal {
						return vals[rr][j]
					})
				}
				vals[r] = v
				totals[r] = evalTemplate(ln.template, func(rr int) decimal.Decimal {
					return totals[rr]
				})
				progress = true
			case lineMargin:
				num, den, ok := marginRows(ln.template)
				if !ok || !ready(vals, []int{num, den}) {
					continue
				}
				v := make([]decimal.Decimal, n)
				for j := 0; j < n; j++ {
					v[j] = ratio(vals[num][j], vals[den][j])
				}
				vals[r] = v
				totals[r] = ratio(totals[num], totals[den])
				progress = true
			}
		}
		if !progress {
			break
		}
	}
}

func assemble(name, totalHeader string, periods []period.Period, lines []stmtLine, vals valsByRow, totals totalsByRow) Statement {
	out := Statement{Name: name, TotalHeader: totalHeader, Periods: periods}
	out.Lines = make([]Line, len(lines))
	for i, ln := range lines {
		r := row(i)
		out.Lines[i] = Line{
			Row:     r,
			Label:   ln.label,
			Values:  vals[r],
			Total:   totals[r],
			Bold:    ln.bold,
			Percent: ln.percent,
			Heading: ln.kind == lineLabel,
			Check:   ln.kind == lineCheck,
		}
	}
	return out
}

func at(s []decimal.Decimal, j int) decimal.Decimal {
	if s == nil {
		return decimal.Decimal{}
	}
	return s[j]
}

func ready(vals valsByRow, rows []int) bool {
	for _, r := range rows {
		if _, ok := vals[r]; !ok {
			return false
		}
	}
	return true
}

func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Decimal{}
	}
	return num.Div(den)
}

var (
	templateRowRe = regexp.MustCompile(`\{c\}(\d+)`)
	marginRe      = regexp.MustCompile(`^IFERROR\(\{c\}(\d+)/\{c\}(\d+),0\)$`)
)

func templateRows(tpl string) []int {
	matches := templateRowRe.FindAllStringSubmatch(tpl, -1)
	rows := make([]int, 0, len(matches))
	for _, m := range matches {
		n, _ := strconv.Atoi(m[1])
		rows = append(rows, n)
	}
	return rows
}

func marginRows(tpl string) (num, den int, ok bool) {
	m := marginRe.FindStringSubmatch(tpl)
	if m == nil {
		return 0, 0, false
	}
	num, _ = strconv.Atoi(m[1])
	den, _ = strconv.Atoi(m[2])
	return num, den, true
}

// evalTemplate evaluates a {c}-row template for one column: row
// references joined by + and -, with parentheses and unary minus.
func evalTemplate(tpl string, at func(row int) decimal.Decimal) decimal.Decimal {
	p := tplParser{s: tpl, at: at}
	return p.expr()
}

type tplParser struct {
	s  string
	i  int
	at func(int) decimal.Decimal
}

func (p *tplParser) expr() decimal.Decimal {
	v := p.term()
	for {
		switch p.peek() {
		case '+':
			p.i++
			v = v.Add(p.term())
		case '-':
			p.i++
			v = v.Sub(p.term())
		default:
			return v
		}
	}
}

func (p *tplParser) term() decimal.Decimal {
	switch p.peek() {
	case '-':
		p.i++
		return p.term().Neg()
	case '(':
		p.i++
		v := p.expr()
		if p.peek() == ')' {
			p.i++
		}
		return v
	}
	return p.ref()
}

func (p *tplParser) ref() decimal.Decimal {
	if strings.HasPrefix(p.s[p.i:], "{c}") {
		p.i += 3
		start := p.i
		for p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
			p.i++
		}
		n, _ := strconv.Atoi(p.s[start:p.i])
		return p.at(n)
	}
	// Unknown byte, skip it so the parser always terminates.
	p.i++
	return decimal.Decimal{}
}

func (p *tplParser) peek() byte {
	if p.i >= len(p.s) {
		return 0
	}
	return p.s[p.i]
}
