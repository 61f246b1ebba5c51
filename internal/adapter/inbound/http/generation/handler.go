package generationhttp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/inbound"
	"github.com/smartplatform/gateway/internal/utils/middleware"
)

// DeviceIDHeader may carry the device id when the body does not.
const DeviceIDHeader = "X-Device-ID"

// Handler serves the metered generation endpoints.
type Handler struct {
	domain inbound.GenerationDomain
}

// NewHandler creates a generation handler.
func NewHandler(domain inbound.GenerationDomain) *Handler {
	return &Handler{domain: domain}
}

// RegisterRoutes registers generation routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/generate", h.Generate)
	r.GET("/features", h.ListFeatures)

	user := r.Group("/user")
	{
		user.GET("/status", h.GetStatus)
		user.GET("/usage", h.ListUsage)
	}
}

// Generate handles POST /generate.
//
//	@Summary		Run a metered generation
//	@Description	Verifies the caller, checks the device binding, reserves credits, calls the provider and settles on success.
//	@Tags			generation
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		model.GenerationRequest	true	"Generation request"
//	@Success		200		{object}	model.GenerationResponse
//	@Failure		400		{object}	model.ErrorResponse
//	@Failure		401		{object}	model.ErrorResponse
//	@Failure		402		{object}	model.ErrorResponse
//	@Failure		403		{object}	model.ErrorResponse
//	@Failure		413		{object}	model.ErrorResponse
//	@Failure		502		{object}	model.ErrorResponse
//	@Failure		503		{object}	model.ErrorResponse
//	@Router			/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	var req model.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{
				Code:    "PAYLOAD_TOO_LARGE",
				Message: "request body too large",
			})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		})
		return
	}
	if req.DeviceID == "" {
		req.DeviceID = c.GetHeader(DeviceIDHeader)
	}

	resp, err := h.domain.Generate(c.Request.Context(), middleware.BearerToken(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetStatus handles GET /user/status.
//
//	@Summary	Current credit status
//	@Tags		user
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	model.AccountStatusResponse
//	@Failure	401	{object}	model.ErrorResponse
//	@Router		/user/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	status, err := h.domain.Status(c.Request.Context(), middleware.BearerToken(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, &model.AccountStatusResponse{
		Balance:     status.Balance,
		LastResetAt: status.LastResetAt,
		NextResetAt: status.NextResetAt,
		DeviceBound: status.DeviceBound,
	})
}

// ListUsage handles GET /user/usage.
//
//	@Summary	Recent usage events, newest first
//	@Tags		user
//	@Produce	json
//	@Security	BearerAuth
//	@Param		limit	query		int	false	"Maximum events to return"
//	@Success	200		{object}	model.ListResponse[model.UsageEvent]
//	@Failure	401		{object}	model.ErrorResponse
//	@Router		/user/usage [get]
func (h *Handler) ListUsage(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Code:    "INVALID_REQUEST",
				Message: "limit must be a non-negative integer",
			})
			return
		}
		limit = n
	}

	events, err := h.domain.Usage(c.Request.Context(), middleware.BearerToken(c), limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewListResponse(events))
}

// ListFeatures handles GET /features.
//
//	@Summary	Price list
//	@Tags		generation
//	@Produce	json
//	@Success	200	{object}	model.ListResponse[model.FeatureCost]
//	@Router		/features [get]
func (h *Handler) ListFeatures(c *gin.Context) {
	c.JSON(http.StatusOK, model.NewListResponse(h.domain.Costs()))
}

// Compile-time check
var _ inbound.GenerationHttpPort = (*Handler)(nil)
