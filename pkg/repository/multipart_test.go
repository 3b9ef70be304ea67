package repository

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMultipartPost_FieldsAndFiles(t *testing.T) {
	path := writeTempFile(t, "report.csv", "a,b,c")

	repo, _, _ := newTestRepo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer A1", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"),
			"multipart must not get the JSON content type")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "monthly", r.FormValue("kind"))

		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "report.csv", header.Filename)

		buf := make([]byte, header.Size)
		_, err = file.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "a,b,c", string(buf))

		writeJSON(w, http.StatusCreated, map[string]any{"uploaded": true})
	}))

	got, err := repo.MultipartPost(context.Background(), "uploads",
		map[string]string{"kind": "monthly"},
		[]File{{FieldName: "document", FilePath: path}},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"uploaded": true}, got)
}

func TestMultipartPost_RetriesBufferedBodyAfterRefresh(t *testing.T) {
	path := writeTempFile(t, "photo.jpg", "binary-ish")

	var apiCalls atomic.Int32
	repo, _, _ := newTestRepo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/refresh-token" {
			writeJSON(w, http.StatusOK, map[string]any{
				"accessToken":   "A2",
				"refresh_token": "R2",
			})
			return
		}
		if apiCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}))

	got, err := repo.MultipartPost(context.Background(), "uploads", nil,
		[]File{{FieldName: "photo", FilePath: path, FileName: "photo.jpg"}},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, got)
	assert.Equal(t, int32(2), apiCalls.Load())
}

func TestMultipartPost_MissingFile(t *testing.T) {
	repo, _, _ := newTestRepo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued when the file cannot be read")
	}))

	_, err := repo.MultipartPost(context.Background(), "uploads", nil,
		[]File{{FieldName: "photo", FilePath: "/does/not/exist"}},
	)
	require.Error(t, err)
}
