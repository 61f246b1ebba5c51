package legalhttp

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/inbound"
)

// Page is a static legal document.
type Page struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

var defaultPages = []Page{
	{
		Slug:  "privacy",
		Title: "Privacy Policy",
		Content: "We store your account identifier, the device you registered, your credit balance and a log of " +
			"the features you used with the credits charged. Prompts and generated content are passed to the " +
			"generation provider and are not retained by the platform.",
	},
	{
		Slug:  "terms",
		Title: "Terms & Conditions",
		Content: "Each account receives a daily credit allowance that resets 24 hours after the previous reset. " +
			"An account may be used from a single registered device. Credits have no cash value.",
	},
	{
		Slug:  "refund",
		Title: "Refund Policy",
		Content: "Credits are only charged for generations that complete successfully. Failed generations are " +
			"never charged, so no refund is needed for them.",
	},
	{
		Slug:    "disclaimer",
		Title:   "Disclaimer",
		Content: "Generated content is produced by third-party AI models and may be inaccurate. Review it before use.",
	},
	{
		Slug:    "cookies",
		Title:   "Cookie Policy",
		Content: "The API does not set cookies. Authentication uses bearer credentials only.",
	},
	{
		Slug:    "dmca",
		Title:   "DMCA",
		Content: "Send copyright notices to the platform operator with the generation request id shown in the X-Request-ID header.",
	},
}

// Handler serves static legal pages.
type Handler struct {
	pages map[string]Page
}

// NewHandler creates a legal handler with the built-in pages.
func NewHandler() *Handler {
	return NewHandlerWithPages(defaultPages)
}

// NewHandlerWithPages creates a legal handler serving pages.
func NewHandlerWithPages(pages []Page) *Handler {
	h := &Handler{pages: make(map[string]Page, len(pages))}
	for _, p := range pages {
		h.pages[strings.ToLower(p.Slug)] = p
	}
	return h
}

// RegisterRoutes registers legal routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/legal/:page", h.GetPage)
}

// GetPage handles GET /legal/:page.
//
//	@Summary	Static legal page
//	@Tags		legal
//	@Produce	json
//	@Param		page	path		string	true	"Page slug"	Enums(privacy, terms, refund, disclaimer, cookies, dmca)
//	@Success	200		{object}	Page
//	@Failure	404		{object}	model.ErrorResponse
//	@Router		/legal/{page} [get]
func (h *Handler) GetPage(c *gin.Context) {
	page, ok := h.pages[strings.ToLower(c.Param("page"))]
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "page not found",
		})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, page)
}

// Compile-time check
var _ inbound.LegalHttpPort = (*Handler)(nil)
