package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/balancete/internal/auditlog"
	"github.com/cleared-dev/balancete/internal/balancete"
	"github.com/cleared-dev/balancete/internal/sheet"
)

// recentProcessings caps the status endpoint.
const recentProcessings = 20

// handleUpload receives a balancete and runs the whole ingest on it
// synchronously. The response is the pipeline result.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		problem(w, http.StatusBadRequest, "Arquivo ausente", `envie o balancete no campo multipart "file"`)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		problem(w, http.StatusBadRequest, "Arquivo ausente", "Nome do arquivo ausente.")
		return
	}
	name := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".xls" && ext != ".xlsx" {
		problem(w, http.StatusBadRequest, "Formato não suportado",
			fmt.Sprintf("Formato não suportado: '%s'. Use .xls ou .xlsx.", ext))
		return
	}

	tmpDir, err := os.MkdirTemp("", "balancete-upload-")
	if err != nil {
		s.log.WithError(err).Error("creating upload temp dir")
		problem(w, http.StatusInternalServerError, "Erro ao salvar arquivo", err.Error())
		return
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, name)
	dst, err := os.Create(path)
	if err == nil {
		_, err = io.Copy(dst, file)
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		s.log.WithError(err).Error("saving upload")
		problem(w, http.StatusInternalServerError, "Erro ao salvar arquivo", err.Error())
		return
	}

	res, err := s.svc.Ingest(r.Context(), path)
	if err != nil {
		if isDataError(err) {
			problem(w, http.StatusUnprocessableEntity, "Balancete inválido", err.Error())
			return
		}
		s.log.WithError(err).Error("upload ingest failed")
		problem(w, http.StatusInternalServerError, "Falha no processamento", err.Error())
		return
	}

	s.cache.Purge()
	writeJSON(w, http.StatusOK, res)
}

// isDataError tells spreadsheet problems apart from system failures.
// Spreadsheet problems are the client's to fix.
func isDataError(err error) bool {
	var (
		missing   *balancete.MissingFieldError
		malformed *balancete.MalformedHeaderError
		group     *balancete.UnknownAccountGroupError
		empty     *balancete.EmptyLedgerError
		format    *sheet.UnsupportedFormatError
	)
	switch {
	case errors.As(err, &missing),
		errors.As(err, &malformed),
		errors.As(err, &group),
		errors.As(err, &empty),
		errors.As(err, &format):
		return true
	}
	return false
}

// handleUploadStatus lists the most recent processings, newest first.
func (s *Server) handleUploadStatus(w http.ResponseWriter, _ *http.Request) {
	entries, err := auditlog.Tail(s.svc.LogsDir(), recentProcessings)
	if err != nil {
		s.log.WithError(err).Error("reading processing log")
		problem(w, http.StatusInternalServerError, "Falha ao ler o histórico", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"processings": entries})
}
