package httphandler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// MCPProxy forwards /api/v1/mcp/* requests verbatim to the configured
// analysis service origin. Upstream status codes and bodies pass through
// unchanged, error statuses included; only transport failures are replaced
// with a fixed 502-shaped 500 body so the client sees one stable error.
type MCPProxy struct {
	origin string
	client *http.Client
	logger *slog.Logger
}

// NewMCPProxy creates an MCPProxy targeting the given origin, e.g.
// "http://localhost:8080". The origin's trailing slash is dropped.
func NewMCPProxy(origin string, logger *slog.Logger) *MCPProxy {
	return &MCPProxy{
		origin: strings.TrimSuffix(origin, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

func (p *MCPProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := p.origin + "/" + r.PathValue("path")
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		p.fail(w, target, err)
		return
	}

	// Only the headers the analysis service acts on are forwarded.
	if auth := r.Header.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.fail(w, target, err)
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		p.logger.Warn("mcp proxy response copy interrupted", "target", target, "error", err)
	}
}

func (p *MCPProxy) fail(w http.ResponseWriter, target string, err error) {
	p.logger.Error("mcp proxy request failed", "target", target, "error", err)
	writeError(w, http.StatusInternalServerError, "analysis service unavailable")
}
