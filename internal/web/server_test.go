package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/balancete/internal/auditlog"
	"github.com/cleared-dev/balancete/internal/config"
	"github.com/cleared-dev/balancete/internal/depara"
	"github.com/cleared-dev/balancete/internal/period"
	"github.com/cleared-dev/balancete/internal/pipeline"
	"github.com/cleared-dev/balancete/internal/report"
	"github.com/cleared-dev/balancete/internal/workbook"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	return newTestServerWith(t, nil)
}

func newTestServerWith(t *testing.T, converter *report.Converter) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default("EMPRESA TESTE LTDA", "12.345.678/0001-90")
	svc := pipeline.New(t.TempDir(), cfg, nil, quietLogger())
	env := config.Env{Password: "segredo", SessionSecret: "chave-de-teste"}
	s := NewServer(svc, converter, env, quietLogger())
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

// chain emits a full macro chain down to one leaf, every level with
// the same balance.
func chain(prefix, title, amount string) [][]string {
	var rows [][]string
	for _, n := range []int{1, 4, 7, len(prefix)} {
		rows = append(rows, []string{prefix[:n], "", title, "0,00", "0,00", "0,00", amount})
	}
	rows = append(rows, []string{prefix + ".00001", "", title, "0,00", "0,00", "0,00", amount})
	return rows
}

// balancedLedger passes every validation: assets 1000, liabilities
// -500 and an open result of -500.
func balancedLedger() [][]string {
	var rows [][]string
	rows = append(rows, chain("1.01.01.02", "BANCOS", "1.000,00D")...)
	rows = append(rows, chain("2.01.01.01", "FORNECEDORES", "500,00C")...)
	rows = append(rows, chain("3.01.01.01", "RECEITA DE SERVICOS", "1.000,00C")...)
	rows = append(rows, chain("4.01.01.01", "EQUIPE", "500,00D")...)
	return rows
}

func writeBalancete(t *testing.T, path, periodRange string, data [][]string) {
	t.Helper()

	full := [][]string{
		{"EMPRESA TESTE LTDA", "", "", "", "", "Período: " + periodRange},
		{"CNPJ: 12.345.678/0001-90", "", "", "", "", "Emissão: 05/02/2025 10:30:00"},
		{"Conta", "Red.", "Descrição", "Saldo Anterior", "Débitos", "Créditos", "Saldo Atual"},
	}
	full = append(full, data...)
	full = append(full, []string{"Total Geral", "", "", "", "", "", "3.000,00D"})

	f := excelize.NewFile()
	for r, row := range full {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func login(t *testing.T, ts *httptest.Server) *http.Cookie {
	t.Helper()
	res, err := http.Post(ts.URL+"/api/login", "application/json",
		strings.NewReader(`{"password":"segredo"}`))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	return sessionFrom(t, res)
}

func sessionFrom(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("session cookie missing")
	return nil
}

func get(t *testing.T, ts *httptest.Server, cookie *http.Cookie, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	return res
}

func doJSON(t *testing.T, ts *httptest.Server, cookie *http.Cookie, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	return res
}

func postFile(t *testing.T, ts *httptest.Server, cookie *http.Cookie, path string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/upload", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	return res
}

func uploadBalancete(t *testing.T, ts *httptest.Server, cookie *http.Cookie) *http.Response {
	t.Helper()
	path := filepath.Join(t.TempDir(), "balancete.xlsx")
	writeBalancete(t, path, "01/01/2025 à 31/01/2025", balancedLedger())
	return postFile(t, ts, cookie, path)
}

func decodeBody(t *testing.T, res *http.Response, target any) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(target))
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	var body map[string]string
	decodeBody(t, res, &body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestLogin(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Post(ts.URL+"/api/login", "application/json",
		strings.NewReader(`{"password":"errada"}`))
	require.NoError(t, err)
	var prob map[string]any
	decodeBody(t, res, &prob)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Senha incorreta", prob["title"])

	res, err = http.Post(ts.URL+"/api/login", "application/json",
		strings.NewReader(`{"password":"segredo"}`))
	require.NoError(t, err)
	cookie := sessionFrom(t, res)
	var ok loginResponse
	decodeBody(t, res, &ok)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", ok.Token)
	assert.Greater(t, ok.Expires, time.Now().Unix())
	assert.True(t, cookie.HttpOnly)
}

func TestRequireSession(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/api/data/summary")
	require.NoError(t, err)
	var prob map[string]any
	decodeBody(t, res, &prob)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Não autenticado", prob["title"])

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/data/summary", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "lixo"})
	res, err = ts.Client().Do(req)
	require.NoError(t, err)
	decodeBody(t, res, &prob)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Token inválido ou expirado", prob["title"])
}

func TestUpload(t *testing.T) {
	_, ts := newTestServer(t)
	cookie := login(t, ts)

	res := uploadBalancete(t, ts, cookie)
	var result pipeline.Result
	decodeBody(t, res, &result)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, auditlog.StatusSuccess, result.Status)
	assert.Equal(t, "2025-01", result.Period.String())
	assert.Equal(t, 20, result.RowsWritten)
	assert.Equal(t, 4, result.NewAccounts)

	res = get(t, ts, cookie, "/api/upload/status")
	var status struct {
		Processings []auditlog.Entry `json:"processings"`
	}
	decodeBody(t, res, &status)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, status.Processings, 1)
	assert.Equal(t, auditlog.StatusSuccess, status.Processings[0].Status)
	assert.Equal(t, "balancete.xlsx", status.Processings[0].Filename)
}

func TestUpload_BadExtension(t *testing.T) {
	_, ts := newTestServer(t)
	cookie := login(t, ts)

	path := filepath.Join(t.TempDir(), "notas.txt")
	require.NoError(t, os.WriteFile(path, []byte("nada"), 0o644))

	res := postFile(t, ts, cookie, path)
	var prob map[string]any
	decodeBody(t, res, &prob)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, prob["detail"], "Formato não suportado: '.txt'")
}

func TestUpload_InvalidSpreadsheet(t *testing.T) {
	_, ts := newTestServer(t)
	cookie := login(t, ts)

	// A real .xlsx, but without the balancete preamble.
	path := filepath.Join(t.TempDir(), "vazio.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "nada"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	res := postFile(t, ts, cookie, path)
	var prob map[string]any
	decodeBody(t, res, &prob)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, "Balancete inválido", prob["title"])
}

func TestUpload_RateLimited(t *testing.T) {
	_, ts := newTestServer(t)
	cookie := login(t, ts)

	path := filepath.Join(t.TempDir(), "notas.txt")
	require.NoError(t, os.WriteFile(path, []byte("nada"), 0o644))

	last := 0
	for i := 0; i < uploadsPerMinute+1; i++ {
		res := postFile(t, ts, cookie, path)
		last = res.StatusCode
		res.Body.Close()
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestDataEndpoints(t *testing.T) {
	_, ts := newTestServer(t)
	cookie := login(t, ts)
	res := uploadBalancete(t, ts, cookie)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var dre struct {
		Year      string          `json:"year"`
		Statement string          `json:"statement"`
		Lines     []workbook.Line `json:"linhas"`
	}
	res = get(t, ts, cookie, "/api/data/dre")
	decodeBody(t, res, &dre)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "2025", dre.Year)
	assert.Equal(t, workbook.SheetDRE, dre.Statement)
	assert.NotEmpty(t, dre.Lines)

	// A year with no data keeps the shape, with no period columns.
	var bp struct {
		Year    string          `json:"year"`
		Periods []period.Period `json:"periodos"`
	}
	res = get(t, ts, cookie, "/api/data/bp?year=2024")
	decodeBody(t, res, &bp)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "2024", bp.Year)
	assert.Empty(t, bp.Periods)

	var ind report.Indicators
	res = get(t, ts, cookie, "/api/data/indicators")
	decodeBody(t, res, &ind)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "2025", ind.Year)
	assert.True(t, ind.Absolute.GrossRevenue.Equal(decimal.NewFromInt(1000)),
		"receita bruta = %s", ind.Absolute.GrossRevenue)

	var sum report.Summary
	res = get(t, ts, cookie, "/api/data/summary")
	decodeBody(t, res, &sum)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "EMPRESA TESTE LTDA", sum.Company)
	assert.Equal(t, 20, sum.Rows)
	assert.Equal(t, []string{"2025"}, sum.Years)
}

func TestCached(t *testing.T) {
	s, _ := newTestServer(t)

	builds := 0
	build := func() (any, error) {
		builds++
		return map[string]string{"k": "v"}, nil
	}

	rec := httptest.NewRecorder()
	s.cached(rec, "x", build)
	rec = httptest.NewRecorder()
	s.cached(rec, "x", build)

	assert.Equal(t, 1, builds)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDepara(t *testing.T) {
	_, ts := newTestServer(t)
	cookie := login(t, ts)
	res := uploadBalancete(t, ts, cookie)
	res.Body.Close()

	var list struct {
		Depara []depara.Entry `json:"depara"`
		Total  int            `json:"total"`
	}
	res = get(t, ts, cookie, "/api/depara")
	decodeBody(t, res, &list)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 4, list.Total)

	var pending struct {
		Total int `json:"total"`
	}
	res = get(t, ts, cookie, "/api/depara/pending")
	decodeBody(t, res, &pending)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 0, pending.Total)

	var rr pipeline.ReclassifyResult
	res = doJSON(t, ts, cookie, http.MethodPut, "/api/depara/1.01.01.02.00001",
		`{"classificacao":"(+) Clientes","grupo_df":"BP"}`)
	decodeBody(t, res, &rr)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 1, rr.RowsUpdated)
	assert.True(t, rr.Propagated)
	assert.Equal(t, "BP", rr.Statement)

	var prob map[string]any
	res = doJSON(t, ts, cookie, http.MethodPut, "/api/depara/1.01.01.02.00001",
		`{"grupo_df":"XX"}`)
	decodeBody(t, res, &prob)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, prob["detail"], "classificacao")
	assert.Contains(t, prob["detail"], "grupo_df")
}

func TestExportExcel(t *testing.T) {
	_, ts := newTestServer(t)
	cookie := login(t, ts)
	res := uploadBalancete(t, ts, cookie)
	res.Body.Close()

	res = get(t, ts, cookie, "/api/export/excel")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Disposition"), "Relatorio_Financeiro_2025.xlsx")

	data, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	sheets := f.GetSheetList()
	assert.Contains(t, sheets, workbook.SheetDRE)
	assert.Contains(t, sheets, workbook.SheetBP)
	assert.Contains(t, sheets, workbook.SheetDFC)
}

func TestExportExcel_NoData(t *testing.T) {
	_, ts := newTestServer(t)
	cookie := login(t, ts)

	res := get(t, ts, cookie, "/api/export/excel")
	var prob map[string]any
	decodeBody(t, res, &prob)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestExportReport_HTML(t *testing.T) {
	_, ts := newTestServer(t)
	cookie := login(t, ts)
	res := uploadBalancete(t, ts, cookie)
	res.Body.Close()

	res = get(t, ts, cookie, "/api/export/report")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")

	page, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(page), "EMPRESA TESTE LTDA")
}

func TestExportReport_PDF(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 stub"))
	}))
	defer stub.Close()

	_, ts := newTestServerWith(t, report.NewConverter(stub.URL))
	cookie := login(t, ts)
	res := uploadBalancete(t, ts, cookie)
	res.Body.Close()

	res = get(t, ts, cookie, "/api/export/report")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/pdf", res.Header.Get("Content-Type"))
	assert.Contains(t, res.Header.Get("Content-Disposition"), "Relatorio_Financeiro_2025.pdf")

	pdf, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	// The same endpoint still serves HTML on demand.
	res = get(t, ts, cookie, "/api/export/report?format=html")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	res.Body.Close()
}

func TestCompanies(t *testing.T) {
	_, ts := newTestServer(t)
	cookie := login(t, ts)

	var list struct {
		Companies []Company `json:"companies"`
	}
	res := get(t, ts, cookie, "/api/companies")
	decodeBody(t, res, &list)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, list.Companies, 1)
	assert.Equal(t, "EMPRESA TESTE LTDA", list.Companies[0].Name)

	var created struct {
		Company Company `json:"company"`
		Message string  `json:"message"`
	}
	res = doJSON(t, ts, cookie, http.MethodPost, "/api/companies",
		`{"nome":"Nova Empresa","cnpj":"11.222.333/0001-44"}`)
	decodeBody(t, res, &created)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, 2, created.Company.ID)
	assert.Equal(t, "Empresa criada com sucesso.", created.Message)

	var prob map[string]any
	res = doJSON(t, ts, cookie, http.MethodPost, "/api/companies",
		`{"nome":"Outra","cnpj":"123"}`)
	decodeBody(t, res, &prob)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, prob["detail"], "cnpj")
}
