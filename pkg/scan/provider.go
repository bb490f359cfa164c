package scan

import (
	"context"
)

type (
	// ImageInput carries one captured photograph into the pipeline, either
	// inline as base64 or as a remote URL.
	ImageInput struct {
		Base64   string
		URL      string
		MimeType string
	}

	// TextExtractor is the OCR provider adapter. Implementations submit the
	// image to an external vision capability and return the recognized text.
	TextExtractor interface {
		ExtractText(ctx context.Context, img ImageInput) (string, error)
	}

	// Categorizer is the language-model provider adapter. Implementations
	// return the model's raw textual response; parsing and schema validation
	// happen in the service, never in the adapter.
	Categorizer interface {
		Categorize(ctx context.Context, ingredientsText string) (string, error)
	}

	// ImageStore abstracts durable object storage for scanned images.
	ImageStore interface {
		UploadBytes(ctx context.Context, objectKey string, data []byte, contentType string) error
		GetPublicLinkKey(objectKey string) string
		DeleteFile(objectKey string) error
	}
)
