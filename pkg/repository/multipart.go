package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// File describes one file part of a multipart upload. FileName defaults to
// the base name of FilePath.
type File struct {
	FieldName string
	FilePath  string
	FileName  string
}

// MultipartPost uploads form fields and local files as multipart/form-data.
// The body is buffered up front so the 401 retry can reissue it without
// re-reading the files; the Authorization header is applied as usual but no
// JSON content type is set.
func (r *Repository) MultipartPost(ctx context.Context, handle string, fields map[string]string, files []File, opts ...CallOption) (any, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write field %q: %w", key, err)
		}
	}

	for _, f := range files {
		if err := appendFilePart(w, f); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	c := r.newCall(http.MethodPost, handle, buf.Bytes(), false, opts)
	if c.headers.Get(headerContentType) == "" {
		c.headers.Set(headerContentType, w.FormDataContentType())
	}
	return r.do(ctx, c)
}

func appendFilePart(w *multipart.Writer, f File) error {
	name := f.FileName
	if name == "" {
		name = filepath.Base(f.FilePath)
	}

	part, err := w.CreateFormFile(f.FieldName, name)
	if err != nil {
		return fmt.Errorf("create form file %q: %w", f.FieldName, err)
	}

	src, err := os.Open(f.FilePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.FilePath, err)
	}
	defer src.Close()

	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("read %s: %w", f.FilePath, err)
	}
	return nil
}
