// Package validate checks the internal consistency of a parsed
// balancete: parent/child balance agreement, balance-sheet identities,
// and Macro/leaf classification. Checks return findings, never errors;
// the caller decides whether a finding blocks anything.
package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/balancete/internal/model"
)

// Tolerance absorbs cents rounding: differences up to R$0,02 count as a
// match.
var Tolerance = decimal.New(2, -2)

// Status grades a finding. The values are Portuguese because they flow
// verbatim into reports and API payloads.
type Status string

const (
	StatusOK      Status = "OK"
	StatusWarning Status = "AVISO"
	StatusError   Status = "ERRO"
)

// HierarchyFinding is the verdict for one Macro account: does the sum of
// its children explain its balance?
type HierarchyFinding struct {
	AccountCode   string          `json:"conta_pai"`
	Title         string          `json:"titulo_pai"`
	ParentBalance decimal.Decimal `json:"saldo_pai"`
	ChildrenSum   decimal.Decimal `json:"soma_filhos"`
	Diff          decimal.Decimal `json:"diferenca"`
	Children      []string        `json:"filhos"`
	Status        Status          `json:"status"`
	Message       string          `json:"mensagem,omitempty"`
}

// Hierarchy checks every Macro account against its descendants and
// returns one finding per Macro, in ledger order.
//
// Direct children (exactly one level deeper) are the primary evidence.
// When they do not add up, the account is not condemned right away:
// Hinova exports are known to skip intermediate levels, so a leaf-level
// sum that reconciles, or even the mere presence of deeper descendants,
// downgrades the verdict to a warning. ERRO is reserved for parents
// whose claimed descendants simply do not add up.
func Hierarchy(rows []model.Row) []HierarchyFinding {
	var findings []HierarchyFinding

	for _, parent := range rows {
		if parent.Type != model.NodeMacro {
			continue
		}

		prefix := parent.AccountCode + "."
		childLevel := parent.Level + 1

		var children []string
		childrenSum := decimal.Zero
		leafSum := decimal.Zero
		hasDeeper := false
		for _, r := range rows {
			if !strings.HasPrefix(r.AccountCode, prefix) {
				continue
			}
			if r.Level == childLevel {
				children = append(children, r.AccountCode)
				childrenSum = childrenSum.Add(r.CurrentBalance)
			} else if r.Level > childLevel {
				hasDeeper = true
			}
			if r.Type == model.NodeLeaf {
				leafSum = leafSum.Add(r.CurrentBalance)
			}
		}

		diff := parent.CurrentBalance.Sub(childrenSum).Abs()
		leafDiff := parent.CurrentBalance.Sub(leafSum).Abs()

		f := HierarchyFinding{
			AccountCode:   parent.AccountCode,
			Title:         parent.Title,
			ParentBalance: parent.CurrentBalance.Round(2),
			ChildrenSum:   childrenSum.Round(2),
			Diff:          diff.Round(2),
			Children:      children,
		}

		switch {
		case diff.LessThanOrEqual(Tolerance):
			f.Status = StatusOK
		case leafDiff.LessThanOrEqual(Tolerance):
			f.Status = StatusWarning
			f.Message = "hierarquia irregular: nível(is) pulado(s), mas a soma das contas de último nível confere"
		case hasDeeper:
			f.Status = StatusWarning
			f.Message = fmt.Sprintf(
				"hierarquia irregular: filhos diretos somam %s, contas de último nível somam %s, saldo do pai é %s (diferença de %s nos filhos diretos)",
				childrenSum.StringFixed(2), leafSum.StringFixed(2),
				parent.CurrentBalance.StringFixed(2), diff.StringFixed(2),
			)
		default:
			f.Status = StatusError
			f.Message = fmt.Sprintf(
				"filhos diretos não explicam o saldo do pai (diferença de %s) e não há descendentes mais profundos para conciliar",
				diff.StringFixed(2),
			)
		}

		findings = append(findings, f)
	}

	return findings
}
