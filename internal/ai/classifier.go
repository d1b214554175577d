// Package ai suggests classifications for accounts the depara tables do
// not cover, using the Gemini generateContent REST API. Failures never
// propagate: a batch the model cannot classify degrades to Unclassified
// so the ingest pipeline keeps going.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// Model is the Gemini model suggestions are requested from.
	Model = "gemini-2.5-flash"

	defaultBaseURL = "https://generativelanguage.googleapis.com"

	batchSize      = 20
	maxRetries     = 2
	requestTimeout = 30 * time.Second
)

// Unclassified is the classification given to accounts the model could
// not resolve.
const Unclassified = "Não Classificada"

// Confidence levels reported with each suggestion.
const (
	ConfidenceHigh   = "alta"
	ConfidenceMedium = "media"
	ConfidenceLow    = "baixa"
)

// Account is one analytic account submitted for classification.
type Account struct {
	Code        string `json:"codigo_conta"`
	Title       string `json:"titulo_conta"`
	Group       string `json:"grupo"`
	Level4Code  string `json:"grupo_nivel4,omitempty"`
	Level4Title string `json:"titulo_nivel4,omitempty"`
}

// Suggestion is the model's answer for one account.
type Suggestion struct {
	AccountCode    string `json:"codigo_conta"`
	Classification string `json:"classificacao_sugerida"`
	Confidence     string `json:"confianca"`
	Rationale      string `json:"justificativa"`
	Statement      string `json:"grupo_df"`
	IsNew          bool   `json:"is_new_classification"`
}

// Classifier calls Gemini over REST.
type Classifier struct {
	apiKey  string
	baseURL string
	model   string
	batch   int
	retries int
	log     *logrus.Logger
	client  *http.Client
}

// NewClassifier builds a Classifier. An empty API key leaves it
// disabled; every account then degrades straight to Unclassified.
func NewClassifier(apiKey string, log *logrus.Logger) *Classifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Classifier{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   Model,
		batch:   batchSize,
		retries: maxRetries,
		log:     log,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// WithSettings overrides the model parameters from the project config.
// Zero values keep the defaults.
func (c *Classifier) WithSettings(model string, batch, retries, timeoutSeconds int) *Classifier {
	if model != "" {
		c.model = model
	}
	if batch > 0 {
		c.batch = batch
	}
	if retries > 0 {
		c.retries = retries
	}
	if timeoutSeconds > 0 {
		c.client.Timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return c
}

// WithBaseURL points the client at another endpoint, for proxies and
// tests. Empty keeps the default.
func (c *Classifier) WithBaseURL(u string) *Classifier {
	if u != "" {
		c.baseURL = u
	}
	return c
}

// Enabled reports whether an API key was configured.
func (c *Classifier) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Classify suggests a classification for every account. Batches run
// concurrently; a batch whose calls all fail comes back as Unclassified
// with the statement inferred from the account code. Suggestions carry
// the account code they answer for; match on it rather than on position.
func (c *Classifier) Classify(ctx context.Context, accounts []Account, catalogue []string) []Suggestion {
	if len(accounts) == 0 {
		return nil
	}
	if !c.Enabled() {
		return fallback(accounts, "GEMINI_API_KEY não configurada")
	}

	var batches [][]Account
	for i := 0; i < len(accounts); i += c.batch {
		batches = append(batches, accounts[i:min(i+c.batch, len(accounts))])
	}

	c.log.WithFields(logrus.Fields{
		"accounts": len(accounts),
		"batches":  len(batches),
	}).Info("classifying accounts via gemini")

	results := make([][]Suggestion, len(batches))
	g, ctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		g.Go(func() error {
			results[i] = c.classifyBatch(ctx, batch, catalogue)
			return nil
		})
	}
	g.Wait()

	out := make([]Suggestion, 0, len(accounts))
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func (c *Classifier) classifyBatch(ctx context.Context, batch []Account, catalogue []string) []Suggestion {
	prompt, err := userPrompt(batch, catalogue)
	if err != nil {
		return fallback(batch, err.Error())
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s.
			select {
			case <-ctx.Done():
				return fallback(batch, ctx.Err().Error())
			case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
			}
		}

		raw, err := c.generate(ctx, prompt)
		if err == nil {
			var suggestions []Suggestion
			if suggestions, err = parseSuggestions(raw); err == nil {
				return suggestions
			}
		}
		lastErr = err
		c.log.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"of":      c.retries + 1,
			"error":   err,
		}).Warn("gemini call failed")
	}

	c.log.WithError(lastErr).Error("gemini retries exhausted, degrading batch")
	return fallback(batch, lastErr.Error())
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Classifier) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      0,
			ResponseMIMEType: "application/json",
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("gemini: decoding response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// fallback degrades a whole batch to Unclassified. The statement still
// gets inferred from the code so the depara entry lands on the right
// side of the DF.
func fallback(batch []Account, reason string) []Suggestion {
	out := make([]Suggestion, len(batch))
	for i, a := range batch {
		out[i] = Suggestion{
			AccountCode:    a.Code,
			Classification: Unclassified,
			Confidence:     ConfidenceLow,
			Rationale:      "Erro IA: " + reason,
			Statement:      InferStatement(a.Code),
		}
	}
	return out
}

// InferStatement derives DRE or BP from the account's group digit.
func InferStatement(code string) string {
	if code == "" {
		return ""
	}
	switch code[0] {
	case '1', '2':
		return "BP"
	case '3', '4':
		return "DRE"
	}
	return ""
}
