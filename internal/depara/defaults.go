package depara

import "strings"

// DefaultMapping classifies accounts by their level-4 prefix when no
// exact mapping exists. Keys shorter than four segments (the 4.98 tax
// accounts) are looked up verbatim.
var DefaultMapping = map[string]string{
	// BP: ativo
	"1.01.01.02": "(+) Caixa e Equivalentes de Caixa",
	"1.01.01.03": "(+) Caixa e Equivalentes de Caixa",
	"1.01.03.01": "(+) Clientes",
	"1.01.03.02": "(+) Despesas Pagas Antecipadamente",
	"1.01.03.04": "(+) Outros Créditos",
	"1.01.03.05": "(+) Outros Créditos",
	"1.01.03.06": "(+) Outros Créditos",
	"1.01.03.08": "(+) Outros Créditos",
	"1.01.03.10": "(+) Outros Créditos",
	"1.02.02.07": "(+) Realizavel a Longo Prazo",
	"1.02.02.18": "(+) Realizavel a Longo Prazo",
	"1.02.03.01": "(+) Bens em operação",
	"1.02.03.03": "(-) Depreciação",
	"1.02.04.01": "(+) Softwares, Projetos",
	"1.02.04.02": "(-) Depreciação Intangível",

	// BP: passivo
	"2.01.01.01": "(+) Fornecedores",
	"2.01.01.02": "(+) Outras Obrigações",
	"2.01.01.03": "(+) Emprestimos e Financiamentos Curto Prazo",
	"2.01.01.05": "(+) Obrigações Tributárias",
	"2.01.01.06": "(+) Obrigações Tributárias",
	"2.01.01.07": "(+) Obrigações Trabalhistas e Previdenciárias",
	"2.01.01.08": "(+) Obrigações Trabalhistas e Previdenciárias",
	"2.01.01.09": "(+) Obrigações Trabalhistas e Previdenciárias",
	"2.01.01.12": "(+) Dividendos a Distribuir",
	"2.01.01.99": "(+) Outras Obrigações",
	"2.02.01.04": "(+) Emprestimos e Financiamentos Longo Prazo",
	"2.03.01.01": "(+) Capital Social",
	"2.03.04.01": "(+) Lucros e Prejuízos Acumulados",

	// DRE: receita
	"3.01.01.01": "(+) Receita de Serviços",
	"3.01.01.02": "(-) Deduções da Receita",
	"3.01.02.01": "(+) Outras Receitas",
	"3.02.01.01": "(+) Receitas não Operacionais",

	// DRE: despesa
	"4.01.01.01": "(-) Equipe",
	"4.01.01.02": "(-) Equipe",
	"4.01.01.03": "(-) Equipe",
	"4.01.01.04": "(-) Despesas Gerais e Administrativas",
	"4.01.01.05": "(-) Demais G&A",
	"4.01.01.06": "(-) Despesas Comerciais",
	"4.01.01.07": "(-) Tributárias",
	"4.01.01.08": "(-) D&A",
	"4.01.01.09": "(+) Resultado Financeiro",
	"4.01.02.01": "(-) Despesas não Operacionais",
	"4.02.01.01": "(-) Despesas não Operacionais",

	// DRE: custos
	"4.03.01.03": "(-) CSP",
	"4.03.01.04": "(-) Software",
	"4.03.01.09": "(-) Servidor/Cloud",

	// DRE: impostos sobre o lucro
	"4.98.03": "(-) CSLL",
	"4.98.04": "(-) IRPJ",
}

// SpecificAccountMapping refines DefaultMapping for exact account codes.
// The revenue-deduction branch splits into individual taxes here.
var SpecificAccountMapping = map[string]string{
	"3.01.01.02.00004": "(-) PIS",
	"3.01.01.02.00005": "(-) COFINS",
	"3.01.01.02.00006": "(-) ISS",
	"3.01.01.02.00012": "(-) Descontos e Devoluções",
}

// ClassificationStatement maps each classification line to the financial
// statement it belongs to.
var ClassificationStatement = map[string]string{
	// DRE
	"(+) Receita de Serviços":                "DRE",
	"(+) Outras Receitas":                    "DRE",
	"(-) Deduções da Receita":                "DRE",
	"(-) ISS":                                "DRE",
	"(-) PIS":                                "DRE",
	"(-) COFINS":                             "DRE",
	"(-) Descontos e Devoluções":             "DRE",
	"(-) CSP":                                "DRE",
	"(-) Equipe":                             "DRE",
	"(-) Servidor/Cloud":                     "DRE",
	"(-) Software":                           "DRE",
	"(-) Ocupação":                           "DRE",
	"(-) D&A":                                "DRE",
	"(-) Despesas Comerciais":                "DRE",
	"(-) Equipe de Originação":               "DRE",
	"(-) Despesas de Marketing":              "DRE",
	"(-) Despesas Gerais e Administrativas":  "DRE",
	"(-) Tributárias":                        "DRE",
	"(-) Demais G&A":                         "DRE",
	"(+) Receitas Financeiras":               "DRE",
	"(-) Despesas Financeiras":               "DRE",
	"(+) Resultado Financeiro":               "DRE",
	"(+) Receitas não Operacionais":          "DRE",
	"(-) Despesas não Operacionais":          "DRE",
	"(-) IRPJ":                               "DRE",
	"(-) CSLL":                               "DRE",

	// BP
	"(+) Caixa e Equivalentes de Caixa":             "BP",
	"(+) Clientes":                                  "BP",
	"(+) Despesas Pagas Antecipadamente":            "BP",
	"(+) Outros Créditos":                           "BP",
	"(+) Realizavel a Longo Prazo":                  "BP",
	"(+) Bens em operação":                          "BP",
	"(-) Depreciação":                               "BP",
	"(+) Softwares, Projetos":                       "BP",
	"(-) Depreciação Intangível":                    "BP",
	"(+) Emprestimos e Financiamentos Curto Prazo":  "BP",
	"(+) Dividendos a Distribuir":                   "BP",
	"(+) Fornecedores":                              "BP",
	"(+) Obrigações Trabalhistas e Previdenciárias": "BP",
	"(+) Obrigações Tributárias":                    "BP",
	"(+) Outras Obrigações":                         "BP",
	"(+) Emprestimos e Financiamentos Longo Prazo":  "BP",
	"(+) Capital Social":                            "BP",
	"(+) Reserva de Lucros":                         "BP",
	"(+) Lucros e Prejuízos Acumulados":             "BP",
}

// StatementFor returns "DRE" or "BP" for a known classification, and ""
// for an unknown one.
func StatementFor(classification string) string {
	return ClassificationStatement[classification]
}

// Level4Prefix cuts an account code down to its first four segments for
// the DefaultMapping lookup. Codes with fewer than four segments (the
// 4.98 tax branch) return unchanged.
func Level4Prefix(code string) string {
	if code == "" {
		return ""
	}
	parts := strings.Split(code, ".")
	if len(parts) >= 4 {
		return strings.Join(parts[:4], ".")
	}
	return code
}
