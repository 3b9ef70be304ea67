package repository

import "context"

// HTTPRepository is the verb surface of the repository. It exists for
// mocking and for callers that want to depend on the behavior rather than
// the concrete type.
type HTTPRepository interface {
	// Get performs an authenticated GET and returns the decoded JSON value.
	Get(ctx context.Context, handle string, opts ...CallOption) (any, error)

	// Post performs an authenticated POST with a JSON body.
	Post(ctx context.Context, handle string, body any, opts ...CallOption) (any, error)

	// Put performs an authenticated PUT with a JSON body.
	Put(ctx context.Context, handle string, body any, opts ...CallOption) (any, error)

	// Patch performs an authenticated PATCH with a JSON body.
	Patch(ctx context.Context, handle string, body any, opts ...CallOption) (any, error)

	// Delete performs an authenticated DELETE, optionally with a JSON body.
	Delete(ctx context.Context, handle string, body any, opts ...CallOption) (any, error)

	// MultipartPost uploads form fields and local files as multipart/form-data.
	MultipartPost(ctx context.Context, handle string, fields map[string]string, files []File, opts ...CallOption) (any, error)
}

// Ensure Repository implements HTTPRepository.
var _ HTTPRepository = (*Repository)(nil)
