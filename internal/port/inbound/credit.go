package inbound

import (
	"context"

	"github.com/smartplatform/gateway/internal/model"
)

// CreditDomain gates and settles credit spend.
type CreditDomain interface {
	Authorize(ctx context.Context, accountID string, kind model.FeatureKind) (*model.CreditAuthorization, error)
	Settle(ctx context.Context, auth *model.CreditAuthorization) (int64, error)
	Status(ctx context.Context, accountID string) (*model.CreditStatus, error)
	UsageHistory(ctx context.Context, accountID string, limit int) ([]*model.UsageEvent, error)
	Costs() []model.FeatureCost
}

// DeviceDomain restricts an account to a single bound device.
type DeviceDomain interface {
	Check(ctx context.Context, accountID, deviceID string) error
}

// GenerationDomain runs the full metered generation lifecycle.
type GenerationDomain interface {
	Generate(ctx context.Context, credential string, req *model.GenerationRequest) (*model.GenerationResponse, error)
	Status(ctx context.Context, credential string) (*model.CreditStatus, error)
	Usage(ctx context.Context, credential string, limit int) ([]*model.UsageEvent, error)
	Costs() []model.FeatureCost
}
