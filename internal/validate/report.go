package validate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/balancete/internal/model"
)

// Report bundles the results of all three checks over one ledger.
type Report struct {
	Hierarchy    []HierarchyFinding `json:"hierarquia"`
	BalanceSheet BalanceSheetReport `json:"balanco"`
	Levels       []LevelFinding     `json:"classificacao_nivel"`
}

// RunAll executes the three checks concurrently. They are read-only and
// independent, so the only coordination needed is the join.
func RunAll(ctx context.Context, rows []model.Row) (*Report, error) {
	rep := &Report{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rep.Hierarchy = Hierarchy(rows)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rep.BalanceSheet = BalanceSheet(rows)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rep.Levels = LevelClassification(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rep, nil
}

// Warnings returns the hierarchy findings graded AVISO.
func (r *Report) Warnings() []HierarchyFinding {
	return r.filter(StatusWarning)
}

// Errors returns the hierarchy findings graded ERRO.
func (r *Report) Errors() []HierarchyFinding {
	return r.filter(StatusError)
}

func (r *Report) filter(s Status) []HierarchyFinding {
	var out []HierarchyFinding
	for _, f := range r.Hierarchy {
		if f.Status == s {
			out = append(out, f)
		}
	}
	return out
}

// HasErrors reports whether any hierarchy finding is graded ERRO.
func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

// Clean reports a ledger with no warnings, no errors, no level
// contradictions, and all balance-sheet checks passing.
func (r *Report) Clean() bool {
	return !r.HasErrors() &&
		len(r.Warnings()) == 0 &&
		len(r.Levels) == 0 &&
		r.BalanceSheet.AssetDecompositionOK &&
		r.BalanceSheet.LiabilityDecompositionOK &&
		r.BalanceSheet.BalanceSheetOK
}
