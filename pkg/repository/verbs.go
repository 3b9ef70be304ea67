package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// callSettings are the per-call overrides on top of the repository defaults.
type callSettings struct {
	baseURL string
	headers http.Header
	timeout time.Duration
	logs    bool
}

// CallOption overrides a single call's base URL, headers, timeout or log
// toggle without touching the repository defaults.
type CallOption func(*callSettings)

// WithBaseURL targets a different backend for this call.
func WithBaseURL(baseURL string) CallOption {
	return func(cs *callSettings) { cs.baseURL = baseURL }
}

// WithHeader adds a header to this call. Caller headers are never
// overwritten by the automatic Authorization/Content-Type composition.
func WithHeader(key, value string) CallOption {
	return func(cs *callSettings) { cs.headers.Set(key, value) }
}

// WithHeaders adds a header map to this call.
func WithHeaders(headers map[string]string) CallOption {
	return func(cs *callSettings) {
		for k, v := range headers {
			cs.headers.Set(k, v)
		}
	}
}

// WithCallTimeout bounds each network attempt of this call.
func WithCallTimeout(d time.Duration) CallOption {
	return func(cs *callSettings) {
		if d > 0 {
			cs.timeout = d
		}
	}
}

// WithLogs toggles debug logging for this call only.
func WithLogs(enabled bool) CallOption {
	return func(cs *callSettings) { cs.logs = enabled }
}

// Get issues an authenticated GET. GET requests never carry a Content-Type.
func (r *Repository) Get(ctx context.Context, handle string, opts ...CallOption) (any, error) {
	return r.do(ctx, r.newCall(http.MethodGet, handle, nil, false, opts))
}

// Post issues an authenticated POST with a JSON body.
func (r *Repository) Post(ctx context.Context, handle string, body any, opts ...CallOption) (any, error) {
	return r.doJSONVerb(ctx, http.MethodPost, handle, body, opts)
}

// Put issues an authenticated PUT with a JSON body.
func (r *Repository) Put(ctx context.Context, handle string, body any, opts ...CallOption) (any, error) {
	return r.doJSONVerb(ctx, http.MethodPut, handle, body, opts)
}

// Patch issues an authenticated PATCH with a JSON body.
func (r *Repository) Patch(ctx context.Context, handle string, body any, opts ...CallOption) (any, error) {
	return r.doJSONVerb(ctx, http.MethodPatch, handle, body, opts)
}

// Delete issues an authenticated DELETE, optionally with a JSON body.
func (r *Repository) Delete(ctx context.Context, handle string, body any, opts ...CallOption) (any, error) {
	return r.doJSONVerb(ctx, http.MethodDelete, handle, body, opts)
}

func (r *Repository) doJSONVerb(ctx context.Context, method, handle string, body any, opts []CallOption) (any, error) {
	var raw []byte
	if body != nil {
		var err error
		if raw, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}
	return r.do(ctx, r.newCall(method, handle, raw, true, opts))
}
