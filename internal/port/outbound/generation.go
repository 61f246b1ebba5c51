package outbound

import (
	"context"

	"github.com/smartplatform/gateway/internal/model"
)

// GenerationProviderPort performs the actual AI operation.
type GenerationProviderPort interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Generate runs one generation. It may block for a long time and must
	// honour ctx cancellation.
	Generate(ctx context.Context, in *model.GenerationInput) (*model.GenerationResult, error)
}

// AssetStorePort stores generated binary assets.
type AssetStorePort interface {
	// Put uploads body under key and returns a URL the caller can fetch it from.
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}
