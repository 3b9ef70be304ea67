package repository

import "net/http"

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-ID"

	bearerPrefix    = "Bearer "
	contentTypeJSON = "application/json"
)

// addAuthorizationHeader sets the bearer header only when the caller did not
// supply one and the token is non-empty. Caller-provided values always win.
func addAuthorizationHeader(h http.Header, token string) {
	if h.Get(headerAuthorization) == "" && token != "" {
		h.Set(headerAuthorization, bearerPrefix+token)
	}
}

// addContentTypeJSONHeader sets the JSON content type only when absent.
func addContentTypeJSONHeader(h http.Header) {
	if h.Get(headerContentType) == "" {
		h.Set(headerContentType, contentTypeJSON)
	}
}

// maskHeaders returns a copy with the Authorization value redacted for logs.
func maskHeaders(h http.Header) http.Header {
	masked := h.Clone()
	if masked.Get(headerAuthorization) != "" {
		masked.Set(headerAuthorization, bearerPrefix+"***")
	}
	return masked
}
