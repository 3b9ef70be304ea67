package repository

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/milan604/rest-lab/pkg/httperr"
)

// call is one logical repository operation. Its body is buffered so the 401
// retry can reissue the identical request.
type call struct {
	method  string
	handle  string
	url     string
	headers http.Header
	body    []byte
	timeout time.Duration
	logs    bool
}

// response is a fully buffered HTTP response.
type response struct {
	status int
	header http.Header
	body   []byte
}

// attemptState drives the two-attempt flow. The state machine shape (rather
// than a recursive call) makes "at most one retry" structural.
type attemptState int

const (
	stateInitial attemptState = iota
	stateRetrying
)

// do runs the request with the single-retry-on-401 refresh flow and decodes
// the final response.
func (r *Repository) do(ctx context.Context, c *call) (any, error) {
	for state := stateInitial; ; state = stateRetrying {
		resp, err := r.attempt(ctx, c)
		if err != nil {
			// Transport failures are never retried, on either attempt.
			return nil, err
		}

		if resp.status == http.StatusUnauthorized && state == stateInitial {
			token, err := r.refreshAccessToken(ctx, c)
			if err != nil {
				return nil, err
			}
			if token == "" {
				return nil, httperr.AuthRefreshFailed()
			}
			c.headers.Set(headerAuthorization, bearerPrefix+token)
			continue
		}

		return decodeResponse(resp)
	}
}

// attempt issues a single network attempt bounded by the call timeout and
// buffers the response.
func (r *Repository) attempt(ctx context.Context, c *call) (*response, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, httperr.FromTransport(err)
		}
	}

	var span trace.Span
	if r.tracer != nil {
		ctx, span = r.tracer.Start(ctx, c.method+" "+c.handle,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.request.method", c.method),
				attribute.String("url.full", c.url),
			))
		defer span.End()
	}

	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if c.body != nil {
		body = bytes.NewReader(c.body)
	}
	req, err := http.NewRequestWithContext(actx, c.method, c.url, body)
	if err != nil {
		return nil, httperr.Network(err)
	}
	req.Header = c.headers.Clone()

	r.logRequest(c)

	start := time.Now()
	httpResp, err := r.roundTrip(req)
	if err != nil {
		terr := httperr.FromTransport(err)
		r.observe(c.method, 0, time.Since(start))
		if span != nil {
			span.RecordError(terr)
			span.SetStatus(codes.Error, terr.Kind.String())
		}
		return nil, terr
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, httperr.FromTransport(err)
	}

	resp := &response{status: httpResp.StatusCode, header: httpResp.Header, body: raw}
	r.observe(c.method, resp.status, time.Since(start))
	if span != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", resp.status))
		if resp.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(resp.status))
		}
	}
	r.logResponse(c, resp)
	return resp, nil
}

// roundTrip sends the request through the breaker when one is configured.
func (r *Repository) roundTrip(req *http.Request) (*http.Response, error) {
	if r.breaker == nil {
		return r.client.Do(req)
	}
	return r.breaker.Execute(func() (*http.Response, error) {
		return r.client.Do(req)
	})
}

// newCall assembles the per-call URL, headers and settings. jsonBody marks
// verbs that carry a JSON content type (everything except GET and multipart).
func (r *Repository) newCall(method, handle string, body []byte, jsonBody bool, opts []CallOption) *call {
	cs := callSettings{
		baseURL: r.baseURL,
		headers: http.Header{},
		timeout: r.timeout,
		logs:    r.enableLogs,
	}
	for _, opt := range opts {
		opt(&cs)
	}

	addAuthorizationHeader(cs.headers, r.sess.AccessToken())
	if jsonBody {
		addContentTypeJSONHeader(cs.headers)
	}
	if cs.headers.Get(headerRequestID) == "" {
		cs.headers.Set(headerRequestID, uuid.New().String())
	}

	return &call{
		method:  method,
		handle:  handle,
		url:     cs.baseURL + handle,
		headers: cs.headers,
		body:    body,
		timeout: cs.timeout,
		logs:    cs.logs,
	}
}

func (r *Repository) logRequest(c *call) {
	if !c.logs || r.log == nil {
		return
	}
	r.log.DebugF("--> %s %s headers=%v body=%s", c.method, c.url, maskHeaders(c.headers), c.body)
}

func (r *Repository) logResponse(c *call, resp *response) {
	if !c.logs || r.log == nil {
		return
	}
	r.log.DebugF("<-- %d %s %s body=%s", resp.status, c.method, c.url, resp.body)
}
