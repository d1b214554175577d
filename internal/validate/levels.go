package validate

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/balancete/internal/model"
)

// LevelFinding reports an account marked as terminal that nonetheless
// has descendants in the ledger.
type LevelFinding struct {
	AccountCode string   `json:"conta"`
	Title       string   `json:"titulo"`
	CurrentType string   `json:"tipo_atual"`
	Descendants []string `json:"filhos_encontrados"`
	Message     string   `json:"mensagem"`
}

// LevelClassification verifies that no leaf account has descendants. An
// empty result means the Macro/leaf split is structurally sound.
func LevelClassification(rows []model.Row) []LevelFinding {
	var findings []LevelFinding

	for _, leaf := range rows {
		if leaf.Type != model.NodeLeaf {
			continue
		}

		prefix := leaf.AccountCode + "."
		var descendants []string
		for _, r := range rows {
			if strings.HasPrefix(r.AccountCode, prefix) {
				descendants = append(descendants, r.AccountCode)
			}
		}
		if len(descendants) == 0 {
			continue
		}

		findings = append(findings, LevelFinding{
			AccountCode: leaf.AccountCode,
			Title:       leaf.Title,
			CurrentType: string(model.NodeLeaf),
			Descendants: descendants,
			Message: fmt.Sprintf(
				"conta %q está classificada como %q mas possui %d descendente(s): %s",
				leaf.AccountCode, string(model.NodeLeaf), len(descendants),
				strings.Join(descendants, ", "),
			),
		})
	}

	return findings
}
