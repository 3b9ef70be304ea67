package repository

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/milan604/rest-lab/pkg/httperr"
)

// decodeResponse maps the final buffered response to a success value or a
// typed error. The exact status set matters for backend compatibility.
func decodeResponse(resp *response) (any, error) {
	switch resp.status {
	case http.StatusOK, http.StatusCreated:
		if len(bytes.TrimSpace(resp.body)) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(resp.body, &v); err != nil {
			return nil, httperr.Network(err)
		}
		return v, nil

	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusPaymentRequired,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusMethodNotAllowed,
		http.StatusConflict:
		return nil, httperr.Client(resp.status, errorMessage(resp.body))

	case http.StatusUnprocessableEntity:
		// Validation responses keep their structured body as the payload.
		var payload any
		if err := json.Unmarshal(resp.body, &payload); err != nil {
			payload = string(resp.body)
		}
		return nil, httperr.ClientPayload(resp.status, payload)

	default:
		// 500 and anything unmapped get the generic message.
		return nil, httperr.Server(resp.status)
	}
}

// errorMessage extracts the backend's "message" field, falling back to the
// raw body when the field is missing or the body is not JSON.
func errorMessage(body []byte) string {
	var decoded struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Message != "" {
		return decoded.Message
	}
	return strings.TrimSpace(string(body))
}
