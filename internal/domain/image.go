package domain

import (
	"context"
	"io"
)

// ImageStore uploads an image payload and returns a durable public URL.
// Event creation treats the returned URL as an opaque required field; failure
// to obtain one blocks creation.
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (url string, err error)
}
