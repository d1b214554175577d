package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type deparaUpdateRequest struct {
	Classification string `json:"classificacao" validate:"required"`
	Statement      string `json:"grupo_df" validate:"omitempty,oneof=DRE BP"`
}

// handleDeparaList returns the whole de-para table.
func (s *Server) handleDeparaList(w http.ResponseWriter, _ *http.Request) {
	entries, err := s.svc.Depara().Load()
	if err != nil {
		s.log.WithError(err).Error("loading depara")
		problem(w, http.StatusInternalServerError, "Falha ao ler o de-para", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"depara": entries, "total": len(entries)})
}

// handleDeparaPending returns the accounts still waiting for a human
// or AI classification.
func (s *Server) handleDeparaPending(w http.ResponseWriter, _ *http.Request) {
	entries, err := s.svc.Depara().Pending()
	if err != nil {
		s.log.WithError(err).Error("loading pending accounts")
		problem(w, http.StatusInternalServerError, "Falha ao ler o de-para", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pending": entries, "total": len(entries)})
}

// handleDeparaUpdate reclassifies one account and propagates the new
// classification to every stored period.
func (s *Server) handleDeparaUpdate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "codigo")

	var req deparaUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		problem(w, http.StatusBadRequest, "Corpo inválido", `envie um JSON com o campo "classificacao"`)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		problem(w, http.StatusUnprocessableEntity, "Dados inválidos", validationDetail(err))
		return
	}

	res, err := s.svc.Reclassify(code, req.Classification, req.Statement)
	if err != nil {
		s.log.WithError(err).Error("reclassifying account")
		problem(w, http.StatusInternalServerError, "Falha ao atualizar a classificação", err.Error())
		return
	}

	s.cache.Purge()
	writeJSON(w, http.StatusOK, res)
}
