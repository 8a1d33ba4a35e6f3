package repository

import (
	"context"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
)

// DocsMarshalRepository talks to the DocsMarshal document store. Each call is
// one synchronous outbound request; no retries, no caching.
type DocsMarshalRepository interface {
	// GetDocument retrieves content and filename for the configured input
	// field selector. Returns entity.ErrDocumentMissing when the store
	// reports an error flag or no document body.
	GetDocument(ctx context.Context, objectID string) (*entity.DocumentPayload, error)
	// SetProfileDocument uploads payload under the write field selector.
	SetProfileDocument(ctx context.Context, objectID string, payload *entity.DocumentPayload, raiseEvents bool) error
	// ReplaceDocument re-uploads newPDF under the filename the document
	// currently has in the store.
	ReplaceDocument(ctx context.Context, objectID string, newPDF []byte, raiseEvents bool) error
}
