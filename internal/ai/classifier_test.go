package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testClassifier(apiKey, baseURL string) *Classifier {
	return NewClassifier(apiKey, quietLogger()).WithBaseURL(baseURL)
}

var codeRe = regexp.MustCompile(`"codigo_conta": "([^"]+)"`)

// geminiStub answers every batch by classifying each account it finds
// in the prompt, wrapped in the generateContent response envelope.
func geminiStub(t *testing.T, calls *atomic.Int32, wrap func(string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		require.Len(t, req.Contents, 1)
		prompt := req.Contents[0].Parts[0].Text
		assert.Contains(t, prompt, "## Classificações existentes")

		var suggestions []Suggestion
		for _, m := range codeRe.FindAllStringSubmatch(prompt, -1) {
			suggestions = append(suggestions, Suggestion{
				AccountCode:    m[1],
				Classification: "(+) Clientes",
				Confidence:     ConfidenceHigh,
				Statement:      "BP",
			})
		}
		text, err := json.Marshal(suggestions)
		require.NoError(t, err)

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"parts": []map[string]string{{"text": wrap(string(text))}},
				}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestClassify_Batches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(geminiStub(t, &calls, func(s string) string { return s }))
	defer srv.Close()

	accounts := make([]Account, 45)
	for i := range accounts {
		accounts[i] = Account{
			Code:  fmt.Sprintf("1.01.%02d", i+1),
			Title: fmt.Sprintf("CONTA %02d", i+1),
			Group: "ATIVO",
		}
	}

	c := testClassifier("test-key", srv.URL)
	got := c.Classify(context.Background(), accounts, []string{"(+) Clientes", "(+) Fornecedores"})

	require.Len(t, got, 45)
	assert.EqualValues(t, 3, calls.Load(), "45 accounts should go out as 20+20+5")

	seen := make(map[string]bool)
	for _, s := range got {
		assert.Equal(t, "(+) Clientes", s.Classification)
		assert.Equal(t, ConfidenceHigh, s.Confidence)
		seen[s.AccountCode] = true
	}
	assert.Len(t, seen, 45)
}

func TestClassify_FencedResponse(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(geminiStub(t, &calls, func(s string) string {
		return "```json\n" + s + "\n```"
	}))
	defer srv.Close()

	c := testClassifier("test-key", srv.URL)
	got := c.Classify(context.Background(), []Account{{Code: "1.01.01", Title: "CLIENTES"}}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "(+) Clientes", got[0].Classification)
	assert.EqualValues(t, 1, calls.Load())
}

func TestClassify_ServerErrorDegrades(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "quota exceeded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClassifier("test-key", srv.URL)
	got := c.Classify(context.Background(), []Account{
		{Code: "1.01.99", Title: "MISTERIOSA", Group: "ATIVO"},
		{Code: "3.01.99", Title: "RECEITA NOVA", Group: "RECEITA"},
	}, nil)

	assert.EqualValues(t, maxRetries+1, calls.Load())
	require.Len(t, got, 2)
	assert.Equal(t, Unclassified, got[0].Classification)
	assert.Equal(t, ConfidenceLow, got[0].Confidence)
	assert.Contains(t, got[0].Rationale, "Erro IA")
	assert.Contains(t, got[0].Rationale, "status 500")
	assert.Equal(t, "BP", got[0].Statement)
	assert.Equal(t, "DRE", got[1].Statement)
}

func TestClassify_Disabled(t *testing.T) {
	c := NewClassifier("", quietLogger())
	assert.False(t, c.Enabled())

	var nilC *Classifier
	assert.False(t, nilC.Enabled())

	got := c.Classify(context.Background(), []Account{
		{Code: "2.01.01"},
		{Code: "4.02.01"},
	}, nil)

	require.Len(t, got, 2)
	assert.Equal(t, Unclassified, got[0].Classification)
	assert.Contains(t, got[0].Rationale, "GEMINI_API_KEY")
	assert.Equal(t, "BP", got[0].Statement)
	assert.Equal(t, "DRE", got[1].Statement)
}

func TestClassify_Empty(t *testing.T) {
	c := testClassifier("test-key", "http://unused.invalid")
	assert.Nil(t, c.Classify(context.Background(), nil, nil))
}

func TestWithSettings(t *testing.T) {
	c := NewClassifier("k", quietLogger()).WithSettings("gemini-2.0-pro", 10, 1, 5)
	assert.Equal(t, "gemini-2.0-pro", c.model)
	assert.Equal(t, 10, c.batch)
	assert.Equal(t, 1, c.retries)
	assert.Equal(t, 5*time.Second, c.client.Timeout)

	// Zero values keep the defaults.
	c = NewClassifier("k", quietLogger()).WithSettings("", 0, 0, 0)
	assert.Equal(t, Model, c.model)
	assert.Equal(t, batchSize, c.batch)
	assert.Equal(t, maxRetries, c.retries)
	assert.Equal(t, requestTimeout, c.client.Timeout)
}

func TestParseSuggestions(t *testing.T) {
	raw := `[{"codigo_conta":"1.01.01","classificacao_sugerida":"(+) Clientes","confianca":"alta","grupo_df":"BP"}]`
	got, err := parseSuggestions(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "(+) Clientes", got[0].Classification)

	// Missing fields fall back to safe defaults.
	got, err = parseSuggestions(`[{"codigo_conta":"1.01.01"}]`)
	require.NoError(t, err)
	assert.Equal(t, Unclassified, got[0].Classification)
	assert.Equal(t, ConfidenceLow, got[0].Confidence)

	// A JSON object instead of an array is an error.
	_, err = parseSuggestions(`{"codigo_conta":"1.01.01"}`)
	assert.Error(t, err)
}

func TestInferStatement(t *testing.T) {
	cases := map[string]string{
		"1.01.01": "BP",
		"2.02.01": "BP",
		"3.01.01": "DRE",
		"4.02.03": "DRE",
		"5.01":    "",
		"":        "",
	}
	for code, want := range cases {
		assert.Equal(t, want, InferStatement(code), "code %q", code)
	}
}
