package web

import (
	"net/http"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Company is an entry in the in-memory company registry. The registry
// seeds itself with the configured company and lives only as long as
// the process; the project file stays the source of truth.
type Company struct {
	ID   int    `json:"id"`
	Name string `json:"nome"`
	CNPJ string `json:"cnpj,omitempty"`
}

type registry struct {
	mu   sync.Mutex
	list []Company
}

func newRegistry(name, cnpj string) *registry {
	if name == "" {
		name = "Empresa Padrão"
	}
	return &registry{list: []Company{{ID: 1, Name: name, CNPJ: cnpj}}}
}

func (g *registry) all() []Company {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Company, len(g.list))
	copy(out, g.list)
	return out
}

func (g *registry) add(name, cnpj string) Company {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := Company{ID: len(g.list) + 1, Name: name, CNPJ: cnpj}
	g.list = append(g.list, c)
	return c
}

var cnpjPattern = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)

// validCNPJ accepts the canonical formatted CNPJ, 00.000.000/0000-00.
func validCNPJ(fl validator.FieldLevel) bool {
	return cnpjPattern.MatchString(fl.Field().String())
}

type companyRequest struct {
	Name string `json:"nome" validate:"required"`
	CNPJ string `json:"cnpj" validate:"omitempty,cnpj"`
}

func (s *Server) handleCompanies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"companies": s.companies.all()})
}

func (s *Server) handleCompanyCreate(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := decodeJSON(r, &req); err != nil {
		problem(w, http.StatusBadRequest, "Corpo inválido", `envie um JSON com os campos "nome" e "cnpj"`)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		problem(w, http.StatusUnprocessableEntity, "Dados inválidos", validationDetail(err))
		return
	}

	c := s.companies.add(req.Name, req.CNPJ)
	s.log.WithFields(logrus.Fields{"empresa": c.Name, "id": c.ID}).Info("company registered")
	writeJSON(w, http.StatusCreated, map[string]any{
		"company": c,
		"message": "Empresa criada com sucesso.",
	})
}
