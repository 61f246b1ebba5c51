package aiprovider

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/outbound"
)

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// assetOffloader uploads inline image results to object storage and returns
// the object URL in place of the data URI.
type assetOffloader struct {
	next   outbound.GenerationProviderPort
	store  outbound.AssetStorePort
	prefix string
	now    func() time.Time
}

// NewAssetOffloader decorates next. Upload failures fail the generation, so
// the request is not charged.
func NewAssetOffloader(next outbound.GenerationProviderPort, store outbound.AssetStorePort, prefix string) outbound.GenerationProviderPort {
	return &assetOffloader{
		next:   next,
		store:  store,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

func (a *assetOffloader) Name() string { return a.next.Name() }

func (a *assetOffloader) Generate(ctx context.Context, in *model.GenerationInput) (*model.GenerationResult, error) {
	result, err := a.next.Generate(ctx, in)
	if err != nil || result == nil || result.Kind != model.ResultKindImage {
		return result, err
	}
	if !strings.HasPrefix(result.ImageURI, "data:") {
		return result, nil
	}

	mimeType, encoded := splitDataURI(result.ImageURI)
	body, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	url, err := a.store.Put(ctx, a.objectKey(mimeType), mimeType, body)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	out := *result
	out.ImageURI = url
	out.MimeType = mimeType
	return &out, nil
}

func (a *assetOffloader) objectKey(mimeType string) string {
	ext, ok := imageExtensions[mimeType]
	if !ok {
		ext = ".bin"
	}
	return path.Join(a.prefix, a.now().UTC().Format("2006/01/02"), uuid.NewString()+ext)
}
