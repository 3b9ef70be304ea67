package repository

import (
	"context"
	"encoding/json"
	"net/http"
)

// refreshHandle is appended verbatim to the base URL, matching the backend
// contract (base URLs carry their own trailing separator).
const refreshHandle = "refresh-token"

// refreshAccessToken exchanges the refresh token for a new access token.
// It returns the new token on success and "" when the backend rejected the
// refresh, in which case the session has already been cleared. Transport
// failures come back as typed errors. Never retried, never recursive.
func (r *Repository) refreshAccessToken(ctx context.Context, origin *call) (string, error) {
	headers := http.Header{}
	headers.Set(headerAuthorization, bearerPrefix+r.sess.RefreshToken())

	c := &call{
		method:  http.MethodGet,
		handle:  refreshHandle,
		url:     origin.baseURL() + refreshHandle,
		headers: headers,
		timeout: origin.timeout,
		logs:    origin.logs,
	}

	if r.metrics != nil {
		r.metrics.refreshes.Inc()
	}

	resp, err := r.attempt(ctx, c)
	if err != nil {
		if r.metrics != nil {
			r.metrics.refreshFailures.Inc()
		}
		return "", err
	}

	if resp.status != http.StatusOK {
		if r.log != nil {
			r.log.WarnF("token refresh rejected with status %d, clearing session", resp.status)
		}
		if r.metrics != nil {
			r.metrics.refreshFailures.Inc()
		}
		r.sess.Clear()
		return "", nil
	}

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(resp.body, &tokens); err != nil || tokens.AccessToken == "" {
		if r.log != nil {
			r.log.WarnF("token refresh returned an unusable body, clearing session")
		}
		if r.metrics != nil {
			r.metrics.refreshFailures.Inc()
		}
		r.sess.Clear()
		return "", nil
	}

	r.sess.Update(tokens.AccessToken, tokens.RefreshToken)
	return tokens.AccessToken, nil
}

// baseURL recovers the base the call was built against so the refresh
// request targets the same backend, including per-call overrides.
func (c *call) baseURL() string {
	if len(c.url) >= len(c.handle) {
		return c.url[:len(c.url)-len(c.handle)]
	}
	return c.url
}
