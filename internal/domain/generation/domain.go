package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smartplatform/gateway/internal/domain/credit"
	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/inbound"
	"github.com/smartplatform/gateway/internal/port/outbound"
	"github.com/smartplatform/gateway/internal/utils/metrics"
	"github.com/smartplatform/gateway/internal/utils/requestctx"
	"go.uber.org/zap"
)

// Domain orchestrates one metered generation:
// verify, device check, authorize, provider, settle.
type Domain struct {
	identity outbound.IdentityVerifierPort
	devices  inbound.DeviceDomain
	credits  inbound.CreditDomain
	provider outbound.GenerationProviderPort
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewGenerationDomain creates a new generation orchestrator.
func NewGenerationDomain(
	identity outbound.IdentityVerifierPort,
	devices inbound.DeviceDomain,
	credits inbound.CreditDomain,
	provider outbound.GenerationProviderPort,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Domain {
	return &Domain{
		identity: identity,
		devices:  devices,
		credits:  credits,
		provider: provider,
		metrics:  m,
		logger:   logger.Named("generation"),
	}
}

// Compile-time interface check
var _ inbound.GenerationDomain = (*Domain)(nil)

// Generate runs the full lifecycle. Denials short-circuit before the
// provider is called. A failed provider call is never charged.
//
// The provider runs on ctx, so a client disconnect cancels it. If the
// provider still reports success, settlement runs detached from ctx so the
// usage log matches what the provider actually did.
func (d *Domain) Generate(ctx context.Context, credential string, req *model.GenerationRequest) (*model.GenerationResponse, error) {
	accountID, err := d.verify(ctx, credential)
	if err != nil {
		return nil, err
	}
	log := d.logger.With(
		zap.String("account_id", accountID),
		zap.String("request_id", requestctx.RequestID(ctx)),
	)

	if req == nil {
		return nil, credit.ErrInvalidFeature
	}
	kind, err := model.ParseFeatureKind(req.FeatureType)
	if err != nil {
		d.metrics.RecordGeneration("invalid", "invalid_feature")
		return nil, fmt.Errorf("%w: %v", credit.ErrInvalidFeature, err)
	}
	log = log.With(zap.String("feature", kind.String()))

	if !hasInput(kind, req) {
		d.metrics.RecordGeneration(kind.String(), "bad_request")
		return nil, ErrEmptyPrompt
	}

	if err := d.devices.Check(ctx, accountID, req.DeviceID); err != nil {
		d.metrics.RecordGeneration(kind.String(), "device_denied")
		return nil, err
	}

	auth, err := d.credits.Authorize(ctx, accountID, kind)
	if err != nil {
		d.metrics.RecordGeneration(kind.String(), "credit_denied")
		return nil, err
	}

	start := time.Now()
	result, err := d.provider.Generate(ctx, &model.GenerationInput{
		Kind:              kind,
		Prompt:            req.Prompt,
		SystemInstruction: req.SystemInstruction,
		ImageURI:          req.ImageURI,
	})
	d.metrics.RecordProviderCall(d.provider.Name(), kind.String(), time.Since(start))
	if err != nil {
		d.metrics.RecordGeneration(kind.String(), "provider_failed")
		log.Warn("provider failed, nothing charged",
			zap.String("provider", d.provider.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if result == nil {
		d.metrics.RecordGeneration(kind.String(), "provider_failed")
		return nil, fmt.Errorf("%w: empty result", ErrGenerationFailed)
	}

	if ctx.Err() != nil {
		log.Info("client went away after provider success, settling anyway")
	}
	balance, err := d.credits.Settle(context.WithoutCancel(ctx), auth)
	if err != nil {
		d.metrics.RecordGeneration(kind.String(), "settle_failed")
		log.Error("settlement failed after provider success", zap.Error(err))
		return nil, err
	}

	d.metrics.RecordGeneration(kind.String(), "success")
	log.Info("generation completed",
		zap.Int64("charged", auth.Cost),
		zap.Int64("balance", balance),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &model.GenerationResponse{
		Result:           result,
		RemainingBalance: balance,
		Charged:          auth.Cost,
	}, nil
}

// Status returns the caller's credit status.
func (d *Domain) Status(ctx context.Context, credential string) (*model.CreditStatus, error) {
	accountID, err := d.verify(ctx, credential)
	if err != nil {
		return nil, err
	}
	return d.credits.Status(ctx, accountID)
}

// Usage returns the caller's recent usage events.
func (d *Domain) Usage(ctx context.Context, credential string, limit int) ([]*model.UsageEvent, error) {
	accountID, err := d.verify(ctx, credential)
	if err != nil {
		return nil, err
	}
	return d.credits.UsageHistory(ctx, accountID, limit)
}

// Costs returns the price list.
func (d *Domain) Costs() []model.FeatureCost {
	return d.credits.Costs()
}

// hasInput reports whether req gives the provider something to work on.
// Image kinds may send only a source image; the provider supplies a
// default instruction.
func hasInput(kind model.FeatureKind, req *model.GenerationRequest) bool {
	if strings.TrimSpace(req.Prompt) != "" {
		return true
	}
	return kind.IsImage() && strings.TrimSpace(req.ImageURI) != ""
}

// verify fails closed: any verifier error, or an empty account id, is
// ErrUnauthenticated.
func (d *Domain) verify(ctx context.Context, credential string) (string, error) {
	if strings.TrimSpace(credential) == "" {
		return "", ErrUnauthenticated
	}
	accountID, err := d.identity.Verify(ctx, credential)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			d.logger.Debug("credential rejected", zap.Error(err))
		}
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if accountID == "" {
		return "", ErrUnauthenticated
	}
	return accountID, nil
}
