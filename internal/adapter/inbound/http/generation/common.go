package generationhttp

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/smartplatform/gateway/internal/domain/credit"
	"github.com/smartplatform/gateway/internal/domain/device"
	"github.com/smartplatform/gateway/internal/domain/generation"
	"github.com/smartplatform/gateway/internal/model"
	apperrors "github.com/smartplatform/gateway/internal/utils/errors"
)

// toAppError maps domain errors to their HTTP representation. Every client
// error is terminal; nothing here asks the caller to retry except
// LEDGER_UNAVAILABLE.
func toAppError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, generation.ErrUnauthenticated):
		return apperrors.Unauthorized("invalid or missing credential").WithError(err)
	case errors.Is(err, device.ErrMissingIdentity):
		return apperrors.BadRequest("MISSING_IDENTITY", "device id is required").WithError(err)
	case errors.Is(err, device.ErrInvalidDevice):
		return apperrors.BadRequest("INVALID_DEVICE", "device id must be at most 255 bytes").WithError(err)
	case errors.Is(err, device.ErrDeviceMismatch):
		return apperrors.Forbidden("DEVICE_MISMATCH", "account is registered to another device").WithError(err)
	case errors.Is(err, credit.ErrInsufficientCredits):
		return apperrors.QuotaExceeded("INSUFFICIENT_CREDITS", "insufficient credits, come back after the daily reset").WithError(err)
	case errors.Is(err, credit.ErrInvalidFeature):
		return apperrors.BadRequest("INVALID_FEATURE", "unknown feature type").WithError(err)
	case errors.Is(err, generation.ErrEmptyPrompt):
		return apperrors.BadRequest("INVALID_REQUEST", "prompt is required").WithError(err)
	case errors.Is(err, generation.ErrGenerationFailed):
		return apperrors.BadGateway("GENERATION_FAILED", err.Error()).WithError(err)
	case errors.Is(err, credit.ErrLedgerUnavailable):
		return apperrors.ServiceUnavailable("credit ledger is busy, please retry").WithError(err)
	default:
		return apperrors.Internal("", err)
	}
}

// handleError writes err as a JSON error body.
func handleError(c *gin.Context, err error) {
	appErr := toAppError(err)
	_ = c.Error(err)
	c.JSON(appErr.StatusCode, model.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}
