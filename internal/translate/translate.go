// Package translate adapts the remote provenance translation service into
// two operations: text→graph and graph→text.
//
// The service accepts a document body via POST with content negotiation:
// Content-Type declares the input serialization and Accept the desired
// output. PROV-JSON is the canonical structured form, so conversions that
// begin or end there short-circuit to local JSON coding and never touch the
// network.
//
// Failures are classified as transient or permanent. The service spins up
// translation workers lazily and answers 404 while one is warming, so 404
// and 5xx responses (and transport errors) are retried immediately up to a
// bounded attempt count; 4xx responses and malformed payloads are permanent
// and surfaced at once. There is no request cancellation beyond the passed
// context: superseded responses are discarded by the session's staleness
// check, not aborted here.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prov-studio/prov-studio/internal/document"
	"github.com/prov-studio/prov-studio/internal/logging"
)

const (
	// DefaultServiceURL is the public translation endpoint.
	DefaultServiceURL = "https://openprovenance.org/services/provapi/"

	// DefaultRetryLimit bounds total attempts per request, including the
	// first. Within the 3-5 range the original client used; tunable via
	// config.
	DefaultRetryLimit = 4

	// translatePath is the service resource documents are POSTed to.
	translatePath = "documents2"

	defaultTimeout = 30 * time.Second
)

// Error describes a failed translation. Transient errors may succeed on a
// retry with identical arguments; permanent errors will not.
type Error struct {
	Transient bool
	Status    int // HTTP status, 0 for transport or decode failures
	Err       error
}

func (e *Error) Error() string {
	class := "permanent"
	if e.Transient {
		class = "transient"
	}
	if e.Status != 0 {
		return fmt.Sprintf("translation failed (%s, status %d): %v", class, e.Status, e.Err)
	}
	return fmt.Sprintf("translation failed (%s): %v", class, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTransient reports whether err is a translation error worth retrying.
func IsTransient(err error) bool {
	var terr *Error
	return errors.As(err, &terr) && terr.Transient
}

// Gateway is a client for the translation service. It is safe for
// concurrent use across documents; it makes no ordering guarantees between
// requests.
type Gateway struct {
	baseURL    string
	client     *http.Client
	retryLimit int
	log        *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) { g.client = client }
}

// WithRetryLimit sets the total attempt bound for transient failures.
func WithRetryLimit(limit int) Option {
	return func(g *Gateway) {
		if limit > 0 {
			g.retryLimit = limit
		}
	}
}

// New returns a Gateway for the service at baseURL. An empty baseURL uses
// the public endpoint.
func New(baseURL string, opts ...Option) *Gateway {
	if baseURL == "" {
		baseURL = DefaultServiceURL
	}
	g := &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		client:     &http.Client{Timeout: defaultTimeout},
		retryLimit: DefaultRetryLimit,
		log:        logging.New("translate"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ToGraph converts source text in the given format into the canonical
// structured form. For PROV-JSON input this is a local deserialization; a
// decode failure there is a permanent error, never retried.
func (g *Gateway) ToGraph(ctx context.Context, text string, from document.Format) (document.Graph, error) {
	if from == document.ProvJSON {
		var graph document.Graph
		if err := json.Unmarshal([]byte(text), &graph); err != nil {
			return nil, &Error{Err: fmt.Errorf("decode PROV-JSON: %w", err)}
		}
		return graph, nil
	}

	body, err := g.post(ctx, text, from.ContentType(), document.ProvJSON.ContentType())
	if err != nil {
		return nil, err
	}
	var graph document.Graph
	if err := json.Unmarshal(body, &graph); err != nil {
		return nil, &Error{Err: fmt.Errorf("decode translated PROV-JSON: %w", err)}
	}
	return graph, nil
}

// ToText converts a structured graph into source text in the given format.
// For PROV-JSON output this is a local serialization.
func (g *Gateway) ToText(ctx context.Context, graph document.Graph, to document.Format) (string, error) {
	encoded, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return "", &Error{Err: fmt.Errorf("encode graph: %w", err)}
	}
	if to == document.ProvJSON {
		return string(encoded), nil
	}

	body, err := g.post(ctx, string(encoded), document.ProvJSON.ContentType(), to.ContentType())
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// post issues the translation request, retrying transient failures with an
// immediate re-issue until the attempt bound is reached.
func (g *Gateway) post(ctx context.Context, body, contentType, accept string) ([]byte, error) {
	endpoint, err := url.JoinPath(g.baseURL, translatePath)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("build service url: %w", err)}
	}

	requestID := uuid.NewString()
	var lastErr *Error
	for attempt := 1; attempt <= g.retryLimit; attempt++ {
		payload, err := g.once(ctx, endpoint, body, contentType, accept)
		if err == nil {
			if attempt > 1 {
				g.log.Debug("translation recovered", "request_id", requestID, "attempt", attempt)
			}
			return payload, nil
		}

		var terr *Error
		if !errors.As(err, &terr) || !terr.Transient {
			return nil, err
		}
		lastErr = terr
		if ctx.Err() != nil {
			return nil, &Error{Transient: true, Err: ctx.Err()}
		}
		g.log.Warn("transient translation failure",
			"request_id", requestID,
			"attempt", attempt,
			"status", terr.Status,
			"error", terr.Err)
	}
	return nil, lastErr
}

func (g *Gateway) once(ctx context.Context, endpoint, body, contentType, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", accept)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &Error{Transient: true, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Transient: true, Err: fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// The service sometimes wraps JSON answers in a quoted string;
		// callers decode, so trim only whitespace here.
		return bytes.TrimSpace(payload), nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500:
		return nil, &Error{
			Transient: true,
			Status:    resp.StatusCode,
			Err:       fmt.Errorf("service answered %s", resp.Status),
		}
	default:
		return nil, &Error{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("service rejected document: %s", strings.TrimSpace(string(payload))),
		}
	}
}
