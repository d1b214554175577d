package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/cleared-dev/balancete/internal/report"
)

// handleExportExcel streams the styled statement workbook as a
// download.
func (s *Server) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	stmts, err := s.statements(year)
	if err != nil {
		s.log.WithError(err).Error("computing statements for export")
		problem(w, http.StatusInternalServerError, "Falha ao gerar o Excel", err.Error())
		return
	}
	if len(stmts.DRE.Periods) == 0 {
		problem(w, http.StatusNotFound, "Nenhum período na base",
			"faça o upload de um balancete antes de exportar")
		return
	}

	// Build into memory first so failures can still become a problem
	// response.
	var buf bytes.Buffer
	if err := report.WriteExcel(&buf, stmts); err != nil {
		s.log.WithError(err).Error("building excel export")
		problem(w, http.StatusInternalServerError, "Falha ao gerar o Excel", err.Error())
		return
	}
	if year == "" {
		year = lastYear(stmts.DRE.Periods)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.ExcelFilename(year)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleExportReport renders the consolidated report: PDF when the
// Gotenberg converter is configured, HTML otherwise or on
// ?format=html.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	stmts, err := s.statements(year)
	if err != nil {
		s.log.WithError(err).Error("computing statements for report")
		problem(w, http.StatusInternalServerError, "Falha ao gerar o relatório", err.Error())
		return
	}
	if len(stmts.DRE.Periods) == 0 {
		problem(w, http.StatusNotFound, "Nenhum período na base",
			"faça o upload de um balancete antes de exportar")
		return
	}
	if year == "" {
		year = lastYear(stmts.DRE.Periods)
	}

	var page bytes.Buffer
	if err := report.RenderHTML(&page, stmts, s.svc.Config().Company.Name, time.Now()); err != nil {
		s.log.WithError(err).Error("rendering report")
		problem(w, http.StatusInternalServerError, "Falha ao gerar o relatório", err.Error())
		return
	}

	if s.converter.Enabled() && r.URL.Query().Get("format") != "html" {
		pdf, err := s.converter.ConvertHTML(r.Context(), page.Bytes())
		if err != nil {
			s.log.WithError(err).Warn("pdf conversion failed, serving html")
		} else {
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition",
				fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("Relatorio_Financeiro_%s.pdf", year)))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(pdf)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("Relatorio_%s.html", year)))
	w.WriteHeader(http.StatusOK)
	_, _ = page.WriteTo(w)
}
