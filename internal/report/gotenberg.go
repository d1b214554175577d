package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Converter turns rendered HTML into PDF through a Gotenberg instance.
// The zero value (or an empty URL) means conversion is unavailable and
// callers should fall back to serving the HTML itself.
type Converter struct {
	baseURL string
	client  *http.Client
}

// NewConverter points at a Gotenberg base URL, e.g. http://gotenberg:3000.
func NewConverter(baseURL string) *Converter {
	return &Converter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Enabled reports whether a Gotenberg URL was configured.
func (c *Converter) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// ConvertHTML posts the page to Gotenberg's Chromium route and returns
// the PDF bytes.
func (c *Converter) ConvertHTML(ctx context.Context, page []byte) ([]byte, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("gotenberg: no URL configured")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(page); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/forms/chromium/convert/html", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gotenberg: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gotenberg: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return io.ReadAll(resp.Body)
}
