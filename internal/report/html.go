package report

import (
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/balancete/internal/workbook"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<style>
@page { margin: 2cm; size: A4; }
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #1a1a2e; font-size: 10pt; line-height: 1.4; }
.header { background: linear-gradient(135deg, #1F4E79, #2980b9); color: white; padding: 20px 30px; border-radius: 8px; margin-bottom: 25px; }
.header h1 { margin: 0; font-size: 22pt; }
.header p { margin: 5px 0 0; opacity: 0.9; font-size: 11pt; }
.section-title { color: #1F4E79; border-bottom: 2px solid #1F4E79; padding-bottom: 5px; margin-top: 25px; font-size: 14pt; }
table { width: 100%; border-collapse: collapse; margin: 15px 0; font-size: 9pt; }
th { background: #1F4E79; color: white; padding: 8px 6px; text-align: center; font-weight: 600; }
td { padding: 5px 6px; border-bottom: 1px solid #e0e0e0; }
tr:nth-child(even) { background: #f8f9fa; }
.bold-row td { font-weight: 700; background: #eaf2f8 !important; }
.number { text-align: right; }
.footer { text-align: center; color: #888; font-size: 8pt; margin-top: 30px; border-top: 1px solid #ddd; padding-top: 10px; }
</style>
</head>
<body>
<div class="header">
<h1>Relatório Financeiro</h1>
<p>{{if .Company}}{{.Company}} — {{end}}Exercício {{.Year}}</p>
</div>
{{range .Tables}}
<h2 class="section-title">{{.Title}}</h2>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr{{if .Bold}} class="bold-row"{{end}}><td>{{.Label}}</td>{{range .Cells}}<td class="number">{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{end}}
<div class="footer">Gerado automaticamente — {{.Timestamp}}</div>
</body>
</html>
`))

type htmlData struct {
	Year      string
	Company   string
	Tables    []htmlTable
	Timestamp string
}

type htmlTable struct {
	Title   string
	Headers []string
	Rows    []htmlRow
}

type htmlRow struct {
	Label string
	Cells []string
	Bold  bool
}

// RenderHTML writes the full report page with the three statements.
func RenderHTML(w io.Writer, stmts workbook.Statements, company string, now time.Time) error {
	year := ""
	if n := len(stmts.DRE.Periods); n > 0 {
		year = strconv.Itoa(stmts.DRE.Periods[n-1].Year())
	}

	data := htmlData{
		Year:      year,
		Company:   company,
		Timestamp: now.Format("02/01/2006 15:04"),
		Tables: []htmlTable{
			statementTable("DRE — Demonstração do Resultado", stmts.DRE),
			statementTable("BP — Balanço Patrimonial", stmts.BP),
			statementTable("DFC — Demonstração de Fluxo de Caixa", stmts.DFC),
		},
	}
	return reportTmpl.Execute(w, data)
}

func statementTable(title string, s workbook.Statement) htmlTable {
	t := htmlTable{Title: title}
	t.Headers = append(t.Headers, "Conta")
	for _, p := range s.Periods {
		t.Headers = append(t.Headers, p.Header())
	}
	t.Headers = append(t.Headers, s.TotalHeader)

	for _, ln := range s.Lines {
		row := htmlRow{Label: ln.Label, Bold: ln.Bold || ln.Heading}
		if ln.Values != nil {
			for _, v := range ln.Values {
				row.Cells = append(row.Cells, formatCell(ln, v))
			}
			row.Cells = append(row.Cells, formatCell(ln, ln.Total))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func formatCell(ln workbook.Line, v decimal.Decimal) string {
	switch {
	case ln.Check:
		return checkText(v)
	case ln.Percent:
		return FormatPctBR(v)
	default:
		return FormatBR(v)
	}
}
