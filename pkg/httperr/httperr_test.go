package httperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNetErr struct{ timeout bool }

func (e *fakeNetErr) Error() string   { return "fake net error" }
func (e *fakeNetErr) Timeout() bool   { return e.timeout }
func (e *fakeNetErr) Temporary() bool { return false }

func TestFromTransport_Classification(t *testing.T) {
	assert.Equal(t, KindTimeout, FromTransport(context.DeadlineExceeded).Kind)
	assert.Equal(t, KindTimeout, FromTransport(fmt.Errorf("do: %w", context.DeadlineExceeded)).Kind)
	assert.Equal(t, KindTimeout, FromTransport(&fakeNetErr{timeout: true}).Kind)
	assert.Equal(t, KindNetwork, FromTransport(&fakeNetErr{}).Kind)
	assert.Equal(t, KindNetwork, FromTransport(errors.New("connection refused")).Kind)
	assert.Nil(t, FromTransport(nil))
}

func TestFromTransport_PassesThroughTypedErrors(t *testing.T) {
	orig := AuthRefreshFailed()
	assert.Same(t, orig, FromTransport(orig))
	assert.Same(t, orig, FromTransport(fmt.Errorf("wrapped: %w", orig)))
}

func TestClient_MessageFallback(t *testing.T) {
	err := Client(http.StatusConflict, "")
	assert.Equal(t, http.StatusText(http.StatusConflict), err.Message)

	err = Client(http.StatusNotFound, "not found")
	assert.Equal(t, "not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
}

func TestKindHelpers(t *testing.T) {
	err := fmt.Errorf("call failed: %w", Server(http.StatusBadGateway))
	assert.Equal(t, KindServer, KindOf(err))
	assert.True(t, IsKind(err, KindServer))
	assert.False(t, IsKind(err, KindClient))
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))

	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, 0, StatusOf(errors.New("plain")))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := &fakeNetErr{timeout: true}
	err := Timeout(cause)

	var nerr *fakeNetErr
	require.ErrorAs(t, err, &nerr)
	assert.Same(t, cause, nerr)
}

func TestError_Strings(t *testing.T) {
	assert.Contains(t, AuthRefreshFailed().Error(), "auth_refresh_failed")
	assert.Contains(t, Client(404, "missing").Error(), "404")
	assert.Contains(t, Network(errors.New("boom")).Error(), "boom")
}
