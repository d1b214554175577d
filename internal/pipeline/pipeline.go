// Package pipeline orchestrates a balancete ingest end to end: parse,
// validate, classify, store, rebuild the workbook, log and commit.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/balancete/internal/ai"
	"github.com/cleared-dev/balancete/internal/auditlog"
	"github.com/cleared-dev/balancete/internal/balancete"
	"github.com/cleared-dev/balancete/internal/config"
	"github.com/cleared-dev/balancete/internal/depara"
	"github.com/cleared-dev/balancete/internal/gitops"
	"github.com/cleared-dev/balancete/internal/model"
	"github.com/cleared-dev/balancete/internal/period"
	"github.com/cleared-dev/balancete/internal/store"
	"github.com/cleared-dev/balancete/internal/validate"
	"github.com/cleared-dev/balancete/internal/workbook"
)

// Service wires everything an ingest touches. The HTTP server and the
// commands build their handlers off the same instance.
type Service struct {
	root     string
	logs     string
	cfg      *config.Config
	store    *store.Service
	depara   *depara.Service
	workbook *workbook.Builder
	ai       *ai.Classifier
	log      *logrus.Logger

	// mu serializes ingests. The watcher and the upload endpoint share
	// one Service, and two rebuilds would race on the workbook file.
	mu sync.Mutex
}

// New builds a pipeline Service rooted at the project dir. classifier
// may be nil when the AI fallback is unavailable.
func New(root string, cfg *config.Config, classifier *ai.Classifier, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	st := store.NewService(config.Resolve(root, cfg.Paths.Data))
	return &Service{
		root:     root,
		logs:     config.Resolve(root, cfg.Paths.Logs),
		cfg:      cfg,
		store:    st,
		depara:   depara.NewService(config.Resolve(root, cfg.Paths.Depara)),
		workbook: workbook.NewBuilder(st, config.Resolve(root, cfg.Paths.Workbook)),
		ai:       classifier,
		log:      log,
	}
}

// Root returns the project directory.
func (s *Service) Root() string { return s.root }

// LogsDir returns the resolved logs directory.
func (s *Service) LogsDir() string { return s.logs }

// Config returns the project configuration.
func (s *Service) Config() *config.Config { return s.cfg }

// Store returns the period store.
func (s *Service) Store() *store.Service { return s.store }

// Depara returns the classification table service.
func (s *Service) Depara() *depara.Service { return s.depara }

// Workbook returns the statement workbook builder.
func (s *Service) Workbook() *workbook.Builder { return s.workbook }

// AI returns the configured classifier, nil-safe for Enabled checks.
func (s *Service) AI() *ai.Classifier { return s.ai }

// Statements evaluates the DRE, BP and DFC over everything stored.
func (s *Service) Statements() (workbook.Statements, error) {
	periods, err := s.store.Periods()
	if err != nil {
		return workbook.Statements{}, err
	}
	rows, err := s.store.ReadAll()
	if err != nil {
		return workbook.Statements{}, err
	}
	return workbook.Compute(periods, rows), nil
}

// Result summarizes one processed balancete.
type Result struct {
	ID          string           `json:"id"`
	Status      string           `json:"status"`
	Period      period.Period    `json:"periodo"`
	Company     string           `json:"empresa"`
	RowsWritten int              `json:"linhas"`
	Replaced    bool             `json:"substituido"`
	Warnings    int              `json:"avisos"`
	Errors      int              `json:"erros"`
	NewAccounts int              `json:"contas_novas"`
	Pending     int              `json:"classificacoes_pendentes"`
	Validations *validate.Report `json:"validacoes,omitempty"`
	Elapsed     time.Duration    `json:"-"`
	ElapsedMS   int64            `json:"tempo_ms"`
}

// Ingest runs the full pipeline over one spreadsheet. Validation
// findings never stop the ingest; they land in the result for the
// reviewer to judge. Parse, store and rebuild failures abort.
func (s *Service) Ingest(ctx context.Context, path string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	filename := filepath.Base(path)
	res := &Result{ID: uuid.NewString(), Status: auditlog.StatusError}

	log := s.log.WithField("arquivo", filename)
	log.Info("processing balancete")

	header, rows, err := balancete.Parse(path)
	if err != nil {
		s.finish(res, filename, start)
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	res.Period = header.ReferenceMonth
	res.Company = header.Company
	log = log.WithFields(logrus.Fields{
		"periodo": res.Period.String(),
		"empresa": res.Company,
	})
	log.WithField("linhas", len(rows)).Info("parsed")

	rep, err := validate.RunAll(ctx, rows)
	if err != nil {
		s.finish(res, filename, start)
		return nil, err
	}
	res.Validations = rep
	res.Warnings = len(rep.Warnings())
	res.Errors = countErrors(rep)
	if res.Errors > 0 {
		log.WithField("erros", res.Errors).Warn("validation errors, proceeding anyway")
	}

	stats, err := s.classify(ctx, rows)
	if err != nil {
		s.finish(res, filename, start)
		return nil, err
	}
	res.NewAccounts = stats.New
	res.Pending = stats.Pending
	log.WithFields(logrus.Fields{
		"classificadas": stats.Classified,
		"pendentes":     stats.Pending,
		"novas":         stats.New,
	}).Info("classified")

	wr, err := s.store.WriteMonth(header.ReferenceMonth, rows)
	if err != nil {
		s.finish(res, filename, start)
		return nil, fmt.Errorf("storing %s: %w", res.Period, err)
	}
	res.RowsWritten = wr.RowsWritten
	res.Replaced = wr.Replaced

	if err := s.workbook.Rebuild(); err != nil {
		s.finish(res, filename, start)
		return nil, fmt.Errorf("rebuilding workbook: %w", err)
	}
	log.Info("workbook rebuilt")

	res.Status = auditlog.StatusSuccess
	s.finish(res, filename, start)
	s.AutoCommit(gitops.IngestMessage(res.Period.String(), filename))
	return res, nil
}

// classify resolves every leaf through the depara chain, then asks the
// AI fallback about the ones still pending and persists what it learns.
func (s *Service) classify(ctx context.Context, rows []model.Row) (depara.Stats, error) {
	stats, err := s.depara.Classify(rows)
	if err != nil {
		return stats, fmt.Errorf("classifying: %w", err)
	}
	if stats.Pending == 0 || !s.ai.Enabled() {
		return stats, nil
	}

	titles := make(map[string]string, len(rows))
	for _, r := range rows {
		titles[r.AccountCode] = r.Title
	}

	var accounts []ai.Account
	for _, r := range rows {
		if r.Classification != depara.PendingClassification {
			continue
		}
		lvl4 := depara.Level4Prefix(r.AccountCode)
		accounts = append(accounts, ai.Account{
			Code:        r.AccountCode,
			Title:       r.Title,
			Group:       string(r.Group),
			Level4Code:  lvl4,
			Level4Title: titles[lvl4],
		})
	}

	catalogue, err := s.depara.Classifications()
	if err != nil {
		return stats, err
	}

	asked := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		asked[a.Code] = true
	}

	// The model occasionally answers for codes it was never asked about.
	resolved := make(map[string]string)
	for _, sg := range s.ai.Classify(ctx, accounts, catalogue) {
		if sg.Classification == ai.Unclassified || !asked[sg.AccountCode] {
			continue
		}
		resolved[sg.AccountCode] = sg.Classification
	}
	if len(resolved) == 0 {
		return stats, nil
	}

	for i := range rows {
		if c, ok := resolved[rows[i].AccountCode]; ok {
			rows[i].Classification = c
		}
	}
	stats.Classified += len(resolved)
	stats.Pending -= len(resolved)
	if err := s.depara.SetMany(resolved, depara.StatusAI); err != nil {
		s.log.WithError(err).Warn("persisting AI classifications")
	}
	return stats, nil
}

// ReclassifyResult reports one classification update end to end.
type ReclassifyResult struct {
	AccountCode        string `json:"codigo_conta"`
	Classification     string `json:"classificacao"`
	Statement          string `json:"grupo_df"`
	NewStatementNeeded bool   `json:"new_df_line_needed"`
	Propagated         bool   `json:"propagated"`
	RowsUpdated        int    `json:"updated_rows"`
}

// Reclassify updates one account in the depara table, rewrites every
// stored period carrying the account and refreshes the workbook. An
// empty statement lets the depara catalogue pick the DF group.
func (s *Service) Reclassify(code, classification, statement string) (*ReclassifyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	upd, err := s.depara.Update(code, classification, statement)
	if err != nil {
		return nil, fmt.Errorf("updating depara: %w", err)
	}

	n, err := s.store.UpdateClassification(code, classification)
	if err != nil {
		return nil, fmt.Errorf("propagating to store: %w", err)
	}
	if n > 0 {
		if err := s.workbook.Rebuild(); err != nil {
			return nil, fmt.Errorf("rebuilding workbook: %w", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"conta":          code,
		"classificacao":  classification,
		"linhas_na_base": n,
	}).Info("classification updated")

	s.AutoCommit(gitops.DeparaMessage(code, classification))
	return &ReclassifyResult{
		AccountCode:        code,
		Classification:     classification,
		Statement:          upd.Statement,
		NewStatementNeeded: upd.NewStatementNeeded,
		Propagated:         upd.Propagated,
		RowsUpdated:        n,
	}, nil
}

// countErrors totals what the reviewer will see as errors: hierarchy
// ERRO findings, leaves with descendants, failed patrimonial checks.
func countErrors(rep *validate.Report) int {
	n := len(rep.Errors()) + len(rep.Levels)
	bs := rep.BalanceSheet
	for _, ok := range []bool{bs.AssetDecompositionOK, bs.LiabilityDecompositionOK, bs.BalanceSheetOK} {
		if !ok {
			n++
		}
	}
	return n
}

// finish stamps the timing and appends the audit entry. The history
// must never block an ingest, so append failures only log.
func (s *Service) finish(res *Result, filename string, start time.Time) {
	res.Elapsed = time.Since(start)
	res.ElapsedMS = res.Elapsed.Milliseconds()

	e := auditlog.Entry{
		ID:          res.ID,
		Timestamp:   start,
		Filename:    filename,
		Period:      res.Period.String(),
		Company:     res.Company,
		Rows:        res.RowsWritten,
		Replaced:    res.Replaced,
		Warnings:    res.Warnings,
		Errors:      res.Errors,
		NewAccounts: res.NewAccounts,
		Status:      res.Status,
		Elapsed:     res.Elapsed,
	}
	if err := auditlog.Append(s.logs, []auditlog.Entry{e}); err != nil {
		s.log.WithError(err).Warn("appending processing log")
	}
}

// AutoCommit stages the data paths and commits when the project is a
// git repo with auto-commit enabled. Never fatal.
func (s *Service) AutoCommit(message string) {
	if !s.cfg.Git.AutoCommit || !gitops.IsRepo(s.root) {
		return
	}

	paths := make([]string, 0, 3)
	for _, p := range []string{s.cfg.Paths.Data, s.cfg.Paths.Depara, s.cfg.Paths.Logs} {
		if _, err := os.Stat(config.Resolve(s.root, p)); err == nil {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return
	}

	hash, err := gitops.CommitPaths(s.root, message,
		s.cfg.Git.AuthorName, s.cfg.Git.AuthorEmail, paths...)
	if err != nil {
		s.log.WithError(err).Warn("git auto-commit failed")
		return
	}
	if hash != "" {
		s.log.WithField("commit", hash).Info("committed data files")
	}
}
