package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cleared-dev/balancete/internal/period"
	"github.com/cleared-dev/balancete/internal/report"
	"github.com/cleared-dev/balancete/internal/workbook"
)

// statementPayload is one workbook tab plus the year it answers for.
type statementPayload struct {
	Year string `json:"year"`
	workbook.Statement
}

// statements computes the financial statements, restricted to one
// year's periods when a filter is given.
func (s *Server) statements(year string) (workbook.Statements, error) {
	if year == "" {
		return s.svc.Statements()
	}
	periods, err := s.svc.Store().Periods()
	if err != nil {
		return workbook.Statements{}, err
	}
	kept := make([]period.Period, 0, len(periods))
	for _, p := range periods {
		if strings.HasPrefix(string(p), year+"-") {
			kept = append(kept, p)
		}
	}
	rows, err := s.svc.Store().ReadAll()
	if err != nil {
		return workbook.Statements{}, err
	}
	return workbook.Compute(kept, rows), nil
}

// cached serves the key from the LRU or builds, stores and serves it.
func (s *Server) cached(w http.ResponseWriter, key string, build func() (any, error)) {
	if v, ok := s.cache.Get(key); ok {
		writeJSON(w, http.StatusOK, v)
		return
	}
	v, err := build()
	if err != nil {
		s.log.WithError(err).Error("building dashboard payload")
		problem(w, http.StatusInternalServerError, "Falha ao montar os dados", err.Error())
		return
	}
	s.cache.Add(key, v)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDRE(w http.ResponseWriter, r *http.Request) {
	s.handleStatement(w, r, "dre", func(st workbook.Statements) workbook.Statement { return st.DRE })
}

func (s *Server) handleBP(w http.ResponseWriter, r *http.Request) {
	s.handleStatement(w, r, "bp", func(st workbook.Statements) workbook.Statement { return st.BP })
}

func (s *Server) handleDFC(w http.ResponseWriter, r *http.Request) {
	s.handleStatement(w, r, "dfc", func(st workbook.Statements) workbook.Statement { return st.DFC })
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request, name string, pick func(workbook.Statements) workbook.Statement) {
	year := r.URL.Query().Get("year")
	s.cached(w, "data:"+name+":"+year, func() (any, error) {
		stmts, err := s.statements(year)
		if err != nil {
			return nil, err
		}
		st := pick(stmts)
		if year == "" {
			year = lastYear(st.Periods)
		}
		return statementPayload{Year: year, Statement: st}, nil
	})
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	s.cached(w, "data:indicators:"+year, func() (any, error) {
		stmts, err := s.statements(year)
		if err != nil {
			return nil, err
		}
		return report.ComputeIndicators(stmts.DRE), nil
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.cached(w, "data:summary", func() (any, error) {
		periods, err := s.svc.Store().Periods()
		if err != nil {
			return nil, err
		}
		rows, err := s.svc.Store().ReadAll()
		if err != nil {
			return nil, err
		}
		pending, err := s.svc.Depara().Pending()
		if err != nil {
			return nil, err
		}
		return report.Summarize(s.svc.Config().Company.Name, periods, rows, len(pending)), nil
	})
}

// lastYear picks the year of the newest period, for responses and
// filenames when the client did not ask for a specific one.
func lastYear(periods []period.Period) string {
	if len(periods) == 0 {
		return ""
	}
	return strconv.Itoa(periods[len(periods)-1].Year())
}
